//go:build integration

package integration

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/climatewatch/climatewatch/config"
	"github.com/climatewatch/climatewatch/internal/docstore"
)

func TestMongoStore_WithContainer(t *testing.T) {
	if !containersAvailable() {
		t.Skip("no container runtime available")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	req := testcontainers.ContainerRequest{
		Image:        "mongo:7",
		ExposedPorts: []string{"27017/tcp"},
		WaitingFor:   wait.ForLog("Waiting for connections").WithStartupTimeout(60 * time.Second),
	}
	mc, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("start container: %v", err)
	}
	t.Cleanup(func() { _ = mc.Terminate(context.Background()) })

	host, err := mc.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := mc.MappedPort(ctx, "27017")
	if err != nil {
		t.Fatalf("mapped port: %v", err)
	}

	cfg := config.MongoConfig{
		URI:            "mongodb://" + host + ":" + port.Port(),
		Database:       "climatewatch_test",
		ConnectTimeout: 10 * time.Second,
	}

	docs, err := docstore.New(ctx, cfg)
	if err != nil {
		t.Fatalf("docstore.New: %v", err)
	}
	defer docs.Close(ctx)

	if err := docs.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes: %v", err)
	}

	records := []any{
		map[string]any{"latitude": "36.9", "longitude": "-119.8", "brightness": "330.5"},
		map[string]any{"latitude": "34.1", "longitude": "-118.2", "brightness": "345.2"},
	}
	inserted, err := docs.InsertMany(ctx, docstore.FireCollection, records)
	if err != nil {
		t.Fatalf("InsertMany: %v", err)
	}
	if inserted != 2 {
		t.Fatalf("expected 2 inserted, got %d", inserted)
	}

	// A second insert with the same latitude is collapsed by the unique index.
	dupes := []any{
		map[string]any{"latitude": "36.9", "longitude": "0.0", "brightness": "300.0"},
	}
	inserted, err = docs.InsertMany(ctx, docstore.FireCollection, dupes)
	if err != nil {
		t.Fatalf("InsertMany duplicate: %v", err)
	}
	if inserted != 0 {
		t.Fatalf("expected 0 inserted for duplicate latitude, got %d", inserted)
	}

	exists, err := docs.Exists(ctx, docstore.FireCollection, "latitude", "36.9")
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if !exists {
		t.Fatal("expected latitude 36.9 to exist")
	}

	exists, err = docs.Exists(ctx, docstore.FireCollection, "latitude", "0.0")
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if exists {
		t.Fatal("did not expect latitude 0.0 to exist")
	}
}
