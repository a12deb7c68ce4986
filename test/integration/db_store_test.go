//go:build integration

package integration

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/climatewatch/climatewatch/config"
	"github.com/climatewatch/climatewatch/internal/database"
	apperrors "github.com/climatewatch/climatewatch/internal/errors"
	"github.com/climatewatch/climatewatch/internal/models"
	"github.com/climatewatch/climatewatch/internal/store"
)

func TestPostgresStore_WithContainer(t *testing.T) {
	if !containersAvailable() {
		t.Skip("no container runtime available")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	req := testcontainers.ContainerRequest{
		Image: "postgres:15-alpine",
		Env: map[string]string{
			"POSTGRES_DB":       "climatewatch",
			"POSTGRES_USER":     "climatewatch",
			"POSTGRES_PASSWORD": "password",
		},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForLog("database system is ready to accept connections").WithOccurrence(2).WithStartupTimeout(60 * time.Second),
	}
	pg, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("start container: %v", err)
	}
	t.Cleanup(func() { _ = pg.Terminate(context.Background()) })

	host, err := pg.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := pg.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("mapped port: %v", err)
	}

	dsn := "postgres://climatewatch:password@" + host + ":" + port.Port() + "/climatewatch?sslmode=disable"

	cfg := config.DatabaseConfig{
		URL:             dsn,
		MaxConns:        5,
		MinConns:        1,
		MaxConnLifetime: time.Hour,
		MaxConnIdleTime: 30 * time.Minute,
	}

	db, err := database.New(ctx, cfg)
	if err != nil {
		t.Fatalf("database.New: %v", err)
	}
	defer db.Close(ctx)

	// store.New runs the migrations
	st, err := store.New(ctx, db)
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}

	// Users: create, duplicate conflict, list
	user, err := st.CreateUser(ctx, models.User{Username: "int-user", Role: "admin"})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if user.ID == 0 {
		t.Fatal("expected an assigned user ID")
	}

	if _, err := st.CreateUser(ctx, models.User{Username: "int-user", Role: "user"}); !errors.Is(err, apperrors.ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate username, got %v", err)
	}

	users, err := st.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("expected 1 user, got %d", len(users))
	}

	// Alerts
	alert, err := st.CreateAlert(ctx, models.LocationAlert{
		Latitude:     51.5074,
		Longitude:    -0.1278,
		AlertMessage: "Integration test alert",
	})
	if err != nil {
		t.Fatalf("CreateAlert: %v", err)
	}
	if alert.ID == 0 {
		t.Fatal("expected an assigned alert ID")
	}

	alerts, err := st.ListAlerts(ctx)
	if err != nil {
		t.Fatalf("ListAlerts: %v", err)
	}
	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(alerts))
	}

	// Issues and dashboard aggregation
	for _, sev := range []int{1, 2, 4} {
		if _, err := st.CreateIssue(ctx, models.ClimateIssue{
			Country:          "UK",
			IssueDescription: "Integration issue",
			Severity:         sev,
		}); err != nil {
			t.Fatalf("CreateIssue: %v", err)
		}
	}

	stats, err := st.DashboardStats(ctx)
	if err != nil {
		t.Fatalf("DashboardStats: %v", err)
	}
	if stats.TotalIssues != 3 {
		t.Fatalf("expected 3 issues, got %d", stats.TotalIssues)
	}
	if stats.AverageSeverity != 2.33 {
		t.Fatalf("expected average severity 2.33, got %v", stats.AverageSeverity)
	}
}
