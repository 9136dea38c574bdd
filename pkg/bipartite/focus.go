package bipartite

// FocusOptions selects the neighborhood of interest for rendering
// emphasis. All fields are optional; with nothing set the extraction
// covers the whole graph.
type FocusOptions struct {
	// TargetCompound anchors the focus on a metabolite: its neighborhood
	// is expanded two more hops outward.
	TargetCompound string

	// TargetTaxon pulls in the compounds the taxon exchanges and the
	// other taxa touching those compounds.
	TargetTaxon string

	// HighlightCompounds are always included and drive the edge
	// partition: any edge touching one of them is a highlight edge.
	HighlightCompounds map[string]bool

	// EnvironmentalSources are medium-supplied compounds whose edges into
	// taxa are re-attached even when the neighborhood walk missed them.
	EnvironmentalSources map[string]bool
}

// Focus is the extracted subgraph with its edges split for styling.
// Every edge appears in exactly one of the two partitions.
type Focus struct {
	Graph          *Graph
	HighlightEdges []Edge
	OrdinaryEdges  []Edge

	highlighted map[string]bool
}

// Highlighted reports whether the node should be drawn with emphasis:
// it is either a highlighted compound or an endpoint of a highlight edge.
func (f *Focus) Highlighted(id string) bool { return f.highlighted[id] }

// Extract computes the target-focus subgraph of g.
//
// The node set is the union of: the target compound with its
// neighborhood expanded twice more outward, the compounds the target
// taxon exchanges plus the taxa touching those compounds, and the
// highlighted compounds. An empty union means no focus was requested,
// and the whole graph is used.
//
// The induced subgraph is then extended with every full-graph edge from
// an environmental source into a taxon, so medium inputs stay connected
// to their consumers. The input graph is never modified.
func Extract(g *Graph, opts FocusOptions) *Focus {
	selected := make(map[string]bool)

	if g.HasNode(opts.TargetCompound) {
		direct := make(map[string]bool)
		direct[opts.TargetCompound] = true
		for _, n := range g.Neighbors(opts.TargetCompound) {
			direct[n] = true
		}

		indirect := twoHop(g, direct)
		extended := twoHop(g, indirect)

		for id := range direct {
			selected[id] = true
		}
		for id := range indirect {
			selected[id] = true
		}
		for id := range extended {
			selected[id] = true
		}
	}

	if g.HasNode(opts.TargetTaxon) {
		for _, n := range g.Neighbors(opts.TargetTaxon) {
			if class, _ := g.Class(n); class != Metabolite {
				continue
			}
			selected[n] = true
			for _, t := range g.Neighbors(n) {
				if class, _ := g.Class(t); class == Taxon {
					selected[t] = true
				}
			}
		}
	}

	for id := range opts.HighlightCompounds {
		if g.HasNode(id) {
			selected[id] = true
		}
	}

	if len(selected) == 0 {
		for _, n := range g.Nodes() {
			selected[n.ID] = true
		}
	}

	sub := New()
	for _, n := range g.Nodes() {
		if selected[n.ID] {
			_ = sub.AddNode(n.ID, n.Class)
		}
	}
	for _, e := range g.Edges() {
		if selected[e.From] && selected[e.To] {
			_ = sub.AddEdge(e.From, e.To)
		}
	}

	// Donor edges: environmental sources feed taxa even outside the
	// selected neighborhood.
	for _, e := range g.Edges() {
		if !opts.EnvironmentalSources[e.From] {
			continue
		}
		if class, _ := g.Class(e.To); class != Taxon {
			continue
		}
		if !sub.HasNode(e.From) {
			_ = sub.AddNode(e.From, Metabolite)
		}
		if !sub.HasNode(e.To) {
			_ = sub.AddNode(e.To, Taxon)
		}
		_ = sub.AddEdge(e.From, e.To)
	}

	f := &Focus{
		Graph:       sub,
		highlighted: make(map[string]bool),
	}
	for _, e := range sub.Edges() {
		if opts.HighlightCompounds[e.From] || opts.HighlightCompounds[e.To] {
			f.HighlightEdges = append(f.HighlightEdges, e)
			f.highlighted[e.From] = true
			f.highlighted[e.To] = true
		} else {
			f.OrdinaryEdges = append(f.OrdinaryEdges, e)
		}
	}
	for id := range opts.HighlightCompounds {
		if sub.HasNode(id) {
			f.highlighted[id] = true
		}
	}
	return f
}

// twoHop returns the nodes reachable in exactly one or two undirected
// steps from any seed node.
func twoHop(g *Graph, seeds map[string]bool) map[string]bool {
	out := make(map[string]bool)
	for seed := range seeds {
		for _, n := range g.Neighbors(seed) {
			out[n] = true
			for _, nn := range g.Neighbors(n) {
				out[nn] = true
			}
		}
	}
	return out
}
