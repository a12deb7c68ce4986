package store

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/jackc/pgx/v5/pgconn"

	apperrors "github.com/climatewatch/climatewatch/internal/errors"
	"github.com/climatewatch/climatewatch/internal/models"
)

// PostgresStore implements Store using PostgreSQL
type PostgresStore struct {
	db Database
}

// NewPostgresStore creates a new PostgreSQL store
func NewPostgresStore(db Database) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates the schema if it does not exist
func (s *PostgresStore) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			username VARCHAR(50) NOT NULL UNIQUE,
			role VARCHAR(20) NOT NULL DEFAULT 'user'
		)`,
		`CREATE TABLE IF NOT EXISTS location_alerts (
			id SERIAL PRIMARY KEY,
			latitude DOUBLE PRECISION NOT NULL,
			longitude DOUBLE PRECISION NOT NULL,
			alert_message VARCHAR(200) NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS climate_issues (
			id SERIAL PRIMARY KEY,
			country VARCHAR(100) NOT NULL,
			issue_description VARCHAR(255) NOT NULL,
			severity INTEGER NOT NULL DEFAULT 1
		)`,
	}

	for _, stmt := range stmts {
		if err := s.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// CreateUser inserts a user; a duplicate username maps to ErrConflict
func (s *PostgresStore) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	row := s.db.QueryRow(ctx,
		`INSERT INTO users (username, role) VALUES ($1, $2) RETURNING id`,
		user.Username, user.Role,
	)

	if err := row.Scan(&user.ID); err != nil {
		if isUniqueViolation(err) {
			return models.User{}, apperrors.ErrConflict
		}
		return models.User{}, apperrors.StoreError{Operation: "create_user", Err: err}
	}
	return user, nil
}

// ListUsers returns all users ordered by id
func (s *PostgresStore) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.Query(ctx, `SELECT id, username, role FROM users ORDER BY id`)
	if err != nil {
		return nil, apperrors.StoreError{Operation: "list_users", Err: err}
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Role); err != nil {
			return nil, apperrors.StoreError{Operation: "scan_user", Err: err}
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// CreateAlert inserts a location alert
func (s *PostgresStore) CreateAlert(ctx context.Context, alert models.LocationAlert) (models.LocationAlert, error) {
	row := s.db.QueryRow(ctx,
		`INSERT INTO location_alerts (latitude, longitude, alert_message) VALUES ($1, $2, $3) RETURNING id`,
		alert.Latitude, alert.Longitude, alert.AlertMessage,
	)

	if err := row.Scan(&alert.ID); err != nil {
		return models.LocationAlert{}, apperrors.StoreError{Operation: "create_alert", Err: err}
	}
	return alert, nil
}

// ListAlerts returns all location alerts ordered by id
func (s *PostgresStore) ListAlerts(ctx context.Context) ([]models.LocationAlert, error) {
	rows, err := s.db.Query(ctx, `SELECT id, latitude, longitude, alert_message FROM location_alerts ORDER BY id`)
	if err != nil {
		return nil, apperrors.StoreError{Operation: "list_alerts", Err: err}
	}
	defer rows.Close()

	var alerts []models.LocationAlert
	for rows.Next() {
		var a models.LocationAlert
		if err := rows.Scan(&a.ID, &a.Latitude, &a.Longitude, &a.AlertMessage); err != nil {
			return nil, apperrors.StoreError{Operation: "scan_alert", Err: err}
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

// CreateIssue inserts a climate issue
func (s *PostgresStore) CreateIssue(ctx context.Context, issue models.ClimateIssue) (models.ClimateIssue, error) {
	row := s.db.QueryRow(ctx,
		`INSERT INTO climate_issues (country, issue_description, severity) VALUES ($1, $2, $3) RETURNING id`,
		issue.Country, issue.IssueDescription, issue.Severity,
	)

	if err := row.Scan(&issue.ID); err != nil {
		return models.ClimateIssue{}, apperrors.StoreError{Operation: "create_issue", Err: err}
	}
	return issue, nil
}

// ListIssues returns all climate issues ordered by id
func (s *PostgresStore) ListIssues(ctx context.Context) ([]models.ClimateIssue, error) {
	rows, err := s.db.Query(ctx, `SELECT id, country, issue_description, severity FROM climate_issues ORDER BY id`)
	if err != nil {
		return nil, apperrors.StoreError{Operation: "list_issues", Err: err}
	}
	defer rows.Close()

	var issues []models.ClimateIssue
	for rows.Next() {
		var i models.ClimateIssue
		if err := rows.Scan(&i.ID, &i.Country, &i.IssueDescription, &i.Severity); err != nil {
			return nil, apperrors.StoreError{Operation: "scan_issue", Err: err}
		}
		issues = append(issues, i)
	}
	return issues, rows.Err()
}

// DashboardStats aggregates issue count and average severity
func (s *PostgresStore) DashboardStats(ctx context.Context) (models.DashboardStats, error) {
	row := s.db.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(AVG(severity), 0) FROM climate_issues`)

	var stats models.DashboardStats
	if err := row.Scan(&stats.TotalIssues, &stats.AverageSeverity); err != nil {
		return models.DashboardStats{}, apperrors.StoreError{Operation: "dashboard_stats", Err: err}
	}
	stats.AverageSeverity = math.Round(stats.AverageSeverity*100) / 100
	return stats, nil
}

// Health checks the database connection
func (s *PostgresStore) Health(ctx context.Context) error {
	return s.db.Health(ctx)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
