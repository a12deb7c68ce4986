package docstore

import (
	"context"

	"github.com/climatewatch/climatewatch/config"
)

// Collections used by the ingestion pipeline.
const (
	FireCollection    = "fireData"
	WeatherCollection = "weatherData"
	OilCollection     = "oilData"
)

// uniqueKeys maps a collection to the natural-key field enforced by a unique
// index. Weather snapshots are append-only and deliberately absent.
var uniqueKeys = map[string]string{
	FireCollection: "latitude",
	OilCollection:  "id",
}

// Store is the document store consumed by the ingestion pipeline.
type Store interface {
	// InsertMany appends documents to a collection and returns how many were
	// actually inserted. Duplicate-key violations are treated as "already
	// present" and are not an error.
	InsertMany(ctx context.Context, collection string, docs []any) (int, error)

	// Exists reports whether any document in the collection has the given
	// field value.
	Exists(ctx context.Context, collection, field string, value any) (bool, error)

	// EnsureIndexes creates the unique natural-key indexes.
	EnsureIndexes(ctx context.Context) error

	Health(ctx context.Context) error
	Close(ctx context.Context) error
}

// New creates a document store instance. An empty URI selects the in-memory
// implementation, mirroring the relational store's fallback behavior.
func New(ctx context.Context, cfg config.MongoConfig) (Store, error) {
	if cfg.URI == "" {
		return NewMemoryStore(), nil
	}
	return NewMongoStore(ctx, cfg)
}
