package bipartite

import (
	"errors"
	"testing"
)

func TestAddNode(t *testing.T) {
	g := New()

	if err := g.AddNode("ecoli", Taxon); err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if err := g.AddNode("ecoli", Taxon); err != nil {
		t.Errorf("re-adding same class should be a no-op, got %v", err)
	}
	if err := g.AddNode("ecoli", Metabolite); !errors.Is(err, ErrClassConflict) {
		t.Errorf("class conflict = %v, want ErrClassConflict", err)
	}
	if err := g.AddNode("", Taxon); !errors.Is(err, ErrInvalidNodeID) {
		t.Errorf("empty ID = %v, want ErrInvalidNodeID", err)
	}
	if g.NodeCount() != 1 {
		t.Errorf("NodeCount = %d, want 1", g.NodeCount())
	}
}

func TestAddEdge(t *testing.T) {
	g := New()
	_ = g.AddNode("a", Taxon)
	_ = g.AddNode("x", Metabolite)

	if err := g.AddEdge("missing", "x"); !errors.Is(err, ErrUnknownSourceNode) {
		t.Errorf("unknown source = %v, want ErrUnknownSourceNode", err)
	}
	if err := g.AddEdge("a", "missing"); !errors.Is(err, ErrUnknownTargetNode) {
		t.Errorf("unknown target = %v, want ErrUnknownTargetNode", err)
	}

	if err := g.AddEdge("a", "x"); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	if err := g.AddEdge("a", "x"); err != nil {
		t.Errorf("duplicate edge should be a no-op, got %v", err)
	}
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount = %d, want 1", g.EdgeCount())
	}

	// The reverse direction is a distinct edge.
	if err := g.AddEdge("x", "a"); err != nil {
		t.Fatalf("AddEdge reverse: %v", err)
	}
	if g.EdgeCount() != 2 {
		t.Errorf("EdgeCount = %d, want 2", g.EdgeCount())
	}
}

func TestRemoveNode(t *testing.T) {
	g := New()
	_ = g.AddNode("a", Taxon)
	_ = g.AddNode("b", Taxon)
	_ = g.AddNode("x", Metabolite)
	_ = g.AddEdge("a", "x")
	_ = g.AddEdge("x", "b")

	g.RemoveNode("x")

	if g.HasNode("x") {
		t.Error("node should be gone")
	}
	if g.EdgeCount() != 0 {
		t.Errorf("EdgeCount = %d, want 0 after removing shared endpoint", g.EdgeCount())
	}
	if g.Degree("a") != 0 || g.Degree("b") != 0 {
		t.Error("adjacency should be cleaned up")
	}

	g.RemoveNode("never-existed") // no-op
}

func TestRemoveIsolates(t *testing.T) {
	g := New()
	_ = g.AddNode("a", Taxon)
	_ = g.AddNode("x", Metabolite)
	_ = g.AddNode("lonely", Metabolite)
	_ = g.AddEdge("a", "x")

	if removed := g.RemoveIsolates(); removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if g.HasNode("lonely") {
		t.Error("isolate should be gone")
	}
	if !g.HasNode("a") || !g.HasNode("x") {
		t.Error("connected nodes must survive")
	}
}

func TestNodesSorted(t *testing.T) {
	g := New()
	_ = g.AddNode("zebra", Taxon)
	_ = g.AddNode("ant", Taxon)
	_ = g.AddNode("moth", Metabolite)

	nodes := g.Nodes()
	if len(nodes) != 3 {
		t.Fatalf("Nodes = %d, want 3", len(nodes))
	}
	for i := 1; i < len(nodes); i++ {
		if nodes[i].ID < nodes[i-1].ID {
			t.Errorf("not sorted: %q after %q", nodes[i].ID, nodes[i-1].ID)
		}
	}
}

func TestNodeIDsByClass(t *testing.T) {
	g := New()
	_ = g.AddNode("b", Taxon)
	_ = g.AddNode("a", Taxon)
	_ = g.AddNode("x", Metabolite)

	taxa := g.NodeIDs(Taxon)
	if len(taxa) != 2 || taxa[0] != "a" || taxa[1] != "b" {
		t.Errorf("taxa = %v, want [a b]", taxa)
	}
	mets := g.NodeIDs(Metabolite)
	if len(mets) != 1 || mets[0] != "x" {
		t.Errorf("metabolites = %v, want [x]", mets)
	}
}

func TestNeighborsUndirected(t *testing.T) {
	g := New()
	_ = g.AddNode("a", Taxon)
	_ = g.AddNode("x", Metabolite)
	_ = g.AddNode("y", Metabolite)
	_ = g.AddEdge("a", "x") // out
	_ = g.AddEdge("y", "a") // in
	_ = g.AddEdge("a", "y") // both directions, deduped

	got := g.Neighbors("a")
	if len(got) != 2 || got[0] != "x" || got[1] != "y" {
		t.Errorf("Neighbors = %v, want [x y]", got)
	}
}

func TestClone(t *testing.T) {
	g := New()
	_ = g.AddNode("a", Taxon)
	_ = g.AddNode("x", Metabolite)
	_ = g.AddEdge("a", "x")

	c := g.Clone()
	c.RemoveNode("a")

	if !g.HasNode("a") || g.EdgeCount() != 1 {
		t.Error("mutating the clone must not affect the original")
	}
	if c.HasNode("a") || c.EdgeCount() != 0 {
		t.Error("clone should reflect its own mutation")
	}
}

func TestNodeClassString(t *testing.T) {
	if Taxon.String() != "taxon" || Metabolite.String() != "metabolite" {
		t.Errorf("class names = %q/%q", Taxon.String(), Metabolite.String())
	}
}
