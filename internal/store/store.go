package store

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/climatewatch/climatewatch/internal/models"
)

// Store defines the relational storage behind the CRUD endpoints
type Store interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)

	CreateAlert(ctx context.Context, alert models.LocationAlert) (models.LocationAlert, error)
	ListAlerts(ctx context.Context) ([]models.LocationAlert, error)

	CreateIssue(ctx context.Context, issue models.ClimateIssue) (models.ClimateIssue, error)
	ListIssues(ctx context.Context) ([]models.ClimateIssue, error)
	DashboardStats(ctx context.Context) (models.DashboardStats, error)

	Health(ctx context.Context) error
}

// Database interface for dependency injection
type Database interface {
	Exec(ctx context.Context, sql string, args ...any) error
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Health(ctx context.Context) error
	IsConfigured() bool
}

// New creates a store instance, falling back to in-memory storage when no
// database is configured.
func New(ctx context.Context, db Database) (Store, error) {
	if db.IsConfigured() {
		s := NewPostgresStore(db)
		if err := s.Migrate(ctx); err != nil {
			return nil, err
		}
		return s, nil
	}
	return NewInMemoryStore(), nil
}
