// Package store persists exchange graphs with their metadata.
//
// Two backends are provided: an in-memory store for development and
// tests, and a MongoDB store for the server. Graphs are stored in their
// node-link form, so stored documents are directly servable as API
// responses. The package also includes a Neo4j exporter for pushing
// graphs into a property-graph database for ad-hoc Cypher analysis.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/microbeflow/crossfeed/pkg/errors"
	"github.com/microbeflow/crossfeed/pkg/graphio"
)

// GraphRecord is a stored graph with its metadata.
type GraphRecord struct {
	ID        string        `json:"id" bson:"_id"`
	Name      string        `json:"name" bson:"name"`
	Hash      string        `json:"hash" bson:"hash"` // content hash of the node-link JSON
	Graph     graphio.Graph `json:"graph" bson:"graph"`
	CreatedAt time.Time     `json:"created_at" bson:"created_at"`
}

// Store is the interface for graph persistence backends.
type Store interface {
	// Save stores a record, assigning an ID if it has none.
	Save(ctx context.Context, rec *GraphRecord) error

	// Get retrieves a record by ID. A missing record is a
	// GRAPH_NOT_FOUND error.
	Get(ctx context.Context, id string) (*GraphRecord, error)

	// List returns all records sorted by creation time, newest first.
	// Listed records omit the graph payload.
	List(ctx context.Context) ([]*GraphRecord, error)

	// Delete removes a record. Deleting a missing record is a no-op.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// prepare fills in the generated fields before a save.
func prepare(rec *GraphRecord) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
}

// MemoryStore is an in-memory store for development and testing.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]GraphRecord
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]GraphRecord)}
}

// Save stores a record, assigning an ID if it has none.
func (s *MemoryStore) Save(ctx context.Context, rec *GraphRecord) error {
	prepare(rec)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.ID] = *rec
	return nil
}

// Get retrieves a record by ID.
func (s *MemoryStore) Get(ctx context.Context, id string) (*GraphRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeGraphNotFound, "graph %s not found", id)
	}
	return &rec, nil
}

// List returns all records sorted by creation time, newest first.
func (s *MemoryStore) List(ctx context.Context) ([]*GraphRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*GraphRecord, 0, len(s.records))
	for _, rec := range s.records {
		rec.Graph = graphio.Graph{}
		out = append(out, &rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Delete removes a record.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, id)
	return nil
}

// Close does nothing for the memory store.
func (s *MemoryStore) Close(ctx context.Context) error { return nil }

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
