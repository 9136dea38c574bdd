package store

import (
	"context"
	"testing"
	"time"

	"github.com/microbeflow/crossfeed/pkg/errors"
	"github.com/microbeflow/crossfeed/pkg/graphio"
)

func sampleRecord(name string) *GraphRecord {
	return &GraphRecord{
		Name: name,
		Hash: "abc123",
		Graph: graphio.Graph{
			Nodes: []graphio.Node{
				{ID: "ecoli", Class: graphio.ClassTaxon},
				{ID: "ac", Class: graphio.ClassMetabolite},
			},
			Links: []graphio.Link{{Source: "ecoli", Target: "ac"}},
		},
	}
}

func TestMemoryStoreSaveAssignsID(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	rec := sampleRecord("gut")
	if err := s.Save(ctx, rec); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if rec.ID == "" {
		t.Error("Save should assign an ID")
	}
	if rec.CreatedAt.IsZero() {
		t.Error("Save should stamp CreatedAt")
	}
}

func TestMemoryStoreSaveKeepsExplicitID(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	rec := sampleRecord("gut")
	rec.ID = "fixed-id"
	if err := s.Save(ctx, rec); err != nil {
		t.Fatal(err)
	}
	if rec.ID != "fixed-id" {
		t.Errorf("ID = %q, want fixed-id", rec.ID)
	}
}

func TestMemoryStoreGet(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	rec := sampleRecord("gut")
	_ = s.Save(ctx, rec)

	got, err := s.Get(ctx, rec.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "gut" || len(got.Graph.Nodes) != 2 {
		t.Errorf("got = %+v, want stored record with graph payload", got)
	}

	_, err = s.Get(ctx, "missing")
	if !errors.Is(err, errors.ErrCodeGraphNotFound) {
		t.Errorf("code = %q, want GRAPH_NOT_FOUND", errors.GetCode(err))
	}
}

func TestMemoryStoreList(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	old := sampleRecord("old")
	old.CreatedAt = time.Now().Add(-time.Hour)
	recent := sampleRecord("recent")
	_ = s.Save(ctx, old)
	_ = s.Save(ctx, recent)

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("List = %d records, want 2", len(list))
	}
	if list[0].Name != "recent" {
		t.Errorf("list[0] = %q, want newest first", list[0].Name)
	}
	for _, rec := range list {
		if len(rec.Graph.Nodes) != 0 {
			t.Error("listed records should omit the graph payload")
		}
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	rec := sampleRecord("gut")
	_ = s.Save(ctx, rec)

	if err := s.Delete(ctx, rec.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, rec.ID); !errors.Is(err, errors.ErrCodeGraphNotFound) {
		t.Error("deleted record should be gone")
	}
	// Deleting again is a no-op.
	if err := s.Delete(ctx, rec.ID); err != nil {
		t.Errorf("second Delete: %v", err)
	}
}

func TestMemoryStoreGetReturnsCopy(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	rec := sampleRecord("gut")
	_ = s.Save(ctx, rec)

	got, _ := s.Get(ctx, rec.ID)
	got.Name = "mutated"

	again, _ := s.Get(ctx, rec.ID)
	if again.Name != "gut" {
		t.Error("mutating a returned record should not affect the store")
	}
}
