package docstore

import (
	"context"
	"sync"
)

// MemoryStore implements Store with in-process maps. Used in tests and when
// no MONGO_URI is configured.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string][]map[string]any
}

// NewMemoryStore creates an empty in-memory document store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string][]map[string]any),
	}
}

// InsertMany appends documents, enforcing the same unique natural keys the
// Mongo implementation enforces with indexes.
func (s *MemoryStore) InsertMany(ctx context.Context, collection string, docs []any) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	keyField, hasKey := uniqueKeys[collection]

	inserted := 0
	for _, d := range docs {
		doc, ok := d.(map[string]any)
		if !ok {
			continue
		}
		if hasKey && s.existsLocked(collection, keyField, doc[keyField]) {
			continue
		}
		s.collections[collection] = append(s.collections[collection], doc)
		inserted++
	}

	return inserted, nil
}

// Exists reports whether any document in the collection has the field value
func (s *MemoryStore) Exists(ctx context.Context, collection, field string, value any) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.existsLocked(collection, field, value), nil
}

func (s *MemoryStore) existsLocked(collection, field string, value any) bool {
	for _, doc := range s.collections[collection] {
		if doc[field] == value {
			return true
		}
	}
	return false
}

// EnsureIndexes is a no-op; uniqueness is enforced inline on insert
func (s *MemoryStore) EnsureIndexes(ctx context.Context) error {
	return nil
}

// Count returns the number of documents in a collection
func (s *MemoryStore) Count(collection string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.collections[collection])
}

// Health always succeeds for the in-memory store
func (s *MemoryStore) Health(ctx context.Context) error {
	return nil
}

// Close is a no-op
func (s *MemoryStore) Close(ctx context.Context) error {
	return nil
}
