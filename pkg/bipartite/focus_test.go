package bipartite

import (
	"testing"
)

// chainGraph builds A→X, X→B, B→Y, Y→C, C→Z: a path alternating taxa
// (A, B, C) and metabolites (X, Y, Z).
func chainGraph(t *testing.T) *Graph {
	t.Helper()
	g := New()
	for _, id := range []string{"A", "B", "C"} {
		if err := g.AddNode(id, Taxon); err != nil {
			t.Fatal(err)
		}
	}
	for _, id := range []string{"X", "Y", "Z"} {
		if err := g.AddNode(id, Metabolite); err != nil {
			t.Fatal(err)
		}
	}
	for _, e := range []Edge{{"A", "X"}, {"X", "B"}, {"B", "Y"}, {"Y", "C"}, {"C", "Z"}} {
		if err := g.AddEdge(e.From, e.To); err != nil {
			t.Fatal(err)
		}
	}
	return g
}

func TestExtractNoFocusIsWholeGraph(t *testing.T) {
	g := chainGraph(t)

	f := Extract(g, FocusOptions{})

	if f.Graph.NodeCount() != g.NodeCount() || f.Graph.EdgeCount() != g.EdgeCount() {
		t.Errorf("focus = %d nodes / %d edges, want whole graph %d/%d",
			f.Graph.NodeCount(), f.Graph.EdgeCount(), g.NodeCount(), g.EdgeCount())
	}
	if len(f.HighlightEdges) != 0 {
		t.Error("no highlights requested, highlight partition should be empty")
	}
	if len(f.OrdinaryEdges) != g.EdgeCount() {
		t.Errorf("ordinary = %d, want all %d edges", len(f.OrdinaryEdges), g.EdgeCount())
	}
}

func TestExtractTargetCompoundNeighborhood(t *testing.T) {
	g := chainGraph(t)

	f := Extract(g, FocusOptions{TargetCompound: "X"})

	// Neighborhood of X expanded twice reaches everything up to Z's
	// neighbor C, so the far tail Z is the only candidate to drop; with
	// this chain the third expansion ring still includes it.
	for _, id := range []string{"X", "A", "B", "Y", "C"} {
		if !f.Graph.HasNode(id) {
			t.Errorf("node %q should be in the focus", id)
		}
	}
	if !f.Graph.HasEdge("A", "X") || !f.Graph.HasEdge("X", "B") {
		t.Error("edges inside the focus must be induced")
	}
}

func TestExtractTargetCompoundBoundsReach(t *testing.T) {
	// A longer chain: the focus around the head compound must not swallow
	// the far end.
	g := New()
	taxa := []string{"t1", "t2", "t3", "t4", "t5"}
	mets := []string{"m1", "m2", "m3", "m4", "m5"}
	for _, id := range taxa {
		_ = g.AddNode(id, Taxon)
	}
	for _, id := range mets {
		_ = g.AddNode(id, Metabolite)
	}
	// m1→t1→m2→t2→ … →m5→t5 as alternating directed edges.
	for i := 0; i < 5; i++ {
		_ = g.AddEdge(mets[i], taxa[i])
		if i < 4 {
			_ = g.AddEdge(taxa[i], mets[i+1])
		}
	}

	f := Extract(g, FocusOptions{TargetCompound: "m1"})

	if f.Graph.HasNode("t5") {
		t.Error("node beyond the expanded neighborhood should be excluded")
	}
	if !f.Graph.HasNode("m1") || !f.Graph.HasNode("t1") {
		t.Error("target and its direct neighbor must be included")
	}
}

func TestExtractTargetTaxon(t *testing.T) {
	g := chainGraph(t)

	f := Extract(g, FocusOptions{TargetTaxon: "B"})

	// B trades X and Y; A and C touch those compounds.
	for _, id := range []string{"B", "X", "Y", "A", "C"} {
		if !f.Graph.HasNode(id) {
			t.Errorf("node %q should be in the focus", id)
		}
	}
	if f.Graph.HasNode("Z") {
		t.Error("compound not traded near the target taxon should be excluded")
	}
}

func TestExtractAbsentTargetFallsBackToWholeGraph(t *testing.T) {
	g := chainGraph(t)

	f := Extract(g, FocusOptions{TargetCompound: "no-such-compound"})

	if f.Graph.NodeCount() != g.NodeCount() {
		t.Errorf("focus = %d nodes, want whole graph (empty selection falls back)",
			f.Graph.NodeCount())
	}
}

func TestExtractHighlightPartition(t *testing.T) {
	g := chainGraph(t)

	f := Extract(g, FocusOptions{HighlightCompounds: map[string]bool{"X": true}})

	// X is the only selected node, so the focus would be just X; but the
	// partition applies to the focus edges, and X alone has none induced.
	// Use a taxon focus to get edges in play.
	f = Extract(g, FocusOptions{
		TargetTaxon:        "B",
		HighlightCompounds: map[string]bool{"X": true},
	})

	wantHighlight := map[Edge]bool{{"A", "X"}: true, {"X", "B"}: true}
	if len(f.HighlightEdges) != len(wantHighlight) {
		t.Fatalf("highlight edges = %v, want %d", f.HighlightEdges, len(wantHighlight))
	}
	for _, e := range f.HighlightEdges {
		if !wantHighlight[e] {
			t.Errorf("unexpected highlight edge %v", e)
		}
	}
	for _, e := range f.OrdinaryEdges {
		if wantHighlight[e] {
			t.Errorf("edge %v in both partitions", e)
		}
	}
	if len(f.HighlightEdges)+len(f.OrdinaryEdges) != f.Graph.EdgeCount() {
		t.Error("partitions must cover every focus edge exactly once")
	}

	// Endpoints of highlight edges carry the emphasis too.
	for _, id := range []string{"X", "A", "B"} {
		if !f.Highlighted(id) {
			t.Errorf("node %q should be highlighted", id)
		}
	}
	if f.Highlighted("Y") {
		t.Error("node Y should not be highlighted")
	}
}

func TestExtractDonorEdges(t *testing.T) {
	g := chainGraph(t)
	_ = g.AddNode("glc__D", Metabolite)
	_ = g.AddEdge("glc__D", "C")

	// Focus on A's end of the chain: C and glc__D are out of reach, but
	// the donor edge pulls them back in.
	f := Extract(g, FocusOptions{
		TargetTaxon:          "A",
		EnvironmentalSources: map[string]bool{"glc__D": true},
	})

	if !f.Graph.HasNode("glc__D") || !f.Graph.HasNode("C") {
		t.Fatal("donor edge endpoints should be added to the focus")
	}
	if !f.Graph.HasEdge("glc__D", "C") {
		t.Error("donor edge should be present")
	}
	if class, _ := f.Graph.Class("glc__D"); class != Metabolite {
		t.Error("donor source should keep its metabolite class")
	}
}

func TestExtractDeterministic(t *testing.T) {
	g := chainGraph(t)
	opts := FocusOptions{
		TargetTaxon:        "B",
		HighlightCompounds: map[string]bool{"X": true},
	}

	a := Extract(g, opts)
	b := Extract(g, opts)

	if len(a.HighlightEdges) != len(b.HighlightEdges) ||
		len(a.OrdinaryEdges) != len(b.OrdinaryEdges) {
		t.Fatal("partition sizes differ across identical calls")
	}
	for i := range a.HighlightEdges {
		if a.HighlightEdges[i] != b.HighlightEdges[i] {
			t.Errorf("highlight edge order differs at %d", i)
		}
	}
	for i := range a.OrdinaryEdges {
		if a.OrdinaryEdges[i] != b.OrdinaryEdges[i] {
			t.Errorf("ordinary edge order differs at %d", i)
		}
	}
}

func TestExtractDoesNotMutateInput(t *testing.T) {
	g := chainGraph(t)
	nodesBefore := g.NodeCount()
	edgesBefore := g.EdgeCount()

	f := Extract(g, FocusOptions{TargetTaxon: "A"})
	f.Graph.RemoveNode("A")

	if g.NodeCount() != nodesBefore || g.EdgeCount() != edgesBefore {
		t.Error("extraction or focus mutation leaked into the input graph")
	}
}
