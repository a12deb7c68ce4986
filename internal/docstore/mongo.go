package docstore

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/climatewatch/climatewatch/config"
	apperrors "github.com/climatewatch/climatewatch/internal/errors"
	"github.com/climatewatch/climatewatch/internal/logger"
)

// MongoStore implements Store backed by MongoDB
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoStore connects to MongoDB and verifies the connection
func NewMongoStore(ctx context.Context, cfg config.MongoConfig) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	logger.Info("Document store connected", "database", cfg.Database)

	return &MongoStore{
		client: client,
		db:     client.Database(cfg.Database),
	}, nil
}

// InsertMany appends documents to a collection. The write is unordered so a
// duplicate-key rejection on one document does not block the rest; duplicates
// are counted as already present rather than failures.
func (s *MongoStore) InsertMany(ctx context.Context, collection string, docs []any) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}

	res, err := s.db.Collection(collection).InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			inserted := 0
			if res != nil {
				inserted = len(res.InsertedIDs)
			}
			logger.Debug("Insert skipped duplicates",
				"collection", collection,
				"inserted", inserted,
				"submitted", len(docs),
			)
			return inserted, nil
		}
		return 0, apperrors.StoreError{Operation: "insert_many", Err: err}
	}

	return len(res.InsertedIDs), nil
}

// Exists runs a point query for a single document with the given field value
func (s *MongoStore) Exists(ctx context.Context, collection, field string, value any) (bool, error) {
	err := s.db.Collection(collection).FindOne(ctx, bson.M{field: value}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, apperrors.StoreError{Operation: "find_one", Err: err}
	}
	return true, nil
}

// EnsureIndexes creates the unique natural-key indexes. Collapses the
// check-then-insert race window: two overlapping requests can both pass the
// existence check, but only one insert wins.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	for collection, field := range uniqueKeys {
		_, err := s.db.Collection(collection).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: field, Value: 1}},
			Options: options.Index().SetUnique(true),
		})
		if err != nil {
			return apperrors.StoreError{Operation: "create_index", Err: err}
		}
		logger.Debug("Unique index ensured", "collection", collection, "field", field)
	}
	return nil
}

// Health checks document store connectivity
func (s *MongoStore) Health(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// Close disconnects from MongoDB
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
