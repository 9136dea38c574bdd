package bipartite

import (
	"github.com/microbeflow/crossfeed/pkg/exchange"
)

// BuildOptions controls node visibility and pruning during graph
// construction. All sets may be nil.
type BuildOptions struct {
	// HideTaxa removes these taxa and their incident edges.
	HideTaxa map[string]bool

	// HideMetabolites removes these metabolites unless they are kept or
	// are environmental sources.
	HideMetabolites map[string]bool

	// KeepMetabolites overrides hiding and target-taxon pruning.
	KeepMetabolites map[string]bool

	// EnvironmentalSources marks medium-supplied compounds. When non-nil
	// it also restricts which metabolites become nodes: a non-member is
	// only added when a target taxon is set and the interaction touches
	// it. Every member is guaranteed a node before isolate pruning.
	EnvironmentalSources map[string]bool

	// TargetTaxon, when set, prunes metabolites that have no edge to or
	// from it (environmental sources and kept metabolites are exempt).
	TargetTaxon string
}

// Build constructs a bipartite graph from filtered exchange records.
//
// Records are processed in order. Export records produce taxon→metabolite
// edges, import records metabolite→taxon edges. Edges materialize both
// endpoints even when a visibility rule suppressed one; suppressed
// endpoints are reconciled by the pruning passes, so the returned graph
// always satisfies two invariants: every edge connects two present
// nodes, and no node has zero degree.
//
// An empty result is valid: hiding everything yields an empty graph.
func Build(records []exchange.Record, opts BuildOptions) *Graph {
	g := New()

	// A metabolite is kept if any record makes it visible; an endpoint
	// only ever seen through suppressed records is pruned below.
	visible := make(map[string]bool)

	for _, r := range records {
		if metaboliteVisible(r, opts) {
			visible[r.Metabolite] = true
		}

		_ = g.AddNode(r.Taxon, Taxon)
		_ = g.AddNode(r.Metabolite, Metabolite)
		if r.Direction == exchange.Export {
			_ = g.AddEdge(r.Taxon, r.Metabolite)
		} else {
			_ = g.AddEdge(r.Metabolite, r.Taxon)
		}
	}

	// Prune pass 1: hidden and suppressed nodes go, along with their
	// incident edges.
	for _, m := range g.NodeIDs(Metabolite) {
		if !visible[m] {
			g.RemoveNode(m)
		}
	}
	for id := range opts.HideTaxa {
		g.RemoveNode(id)
	}

	// Prune pass 2: every declared environmental source exists as a node,
	// with zero edges if nothing references it.
	for source := range opts.EnvironmentalSources {
		if !g.HasNode(source) {
			_ = g.AddNode(source, Metabolite)
		}
	}

	// Prune pass 3: with a target taxon set, metabolites must touch it in
	// either direction to survive, unless exempt.
	if opts.TargetTaxon != "" {
		for _, m := range g.NodeIDs(Metabolite) {
			if opts.EnvironmentalSources[m] || opts.KeepMetabolites[m] {
				continue
			}
			if !g.HasEdge(m, opts.TargetTaxon) && !g.HasEdge(opts.TargetTaxon, m) {
				g.RemoveNode(m)
			}
		}
	}

	// Prune pass 4: no isolated nodes persist past construction.
	g.RemoveIsolates()

	return g
}

// metaboliteVisible applies the per-record visibility rule for the
// metabolite endpoint: hiding is overridden by the keep set and by
// environmental-source membership, and a supplied environmental-source
// set restricts non-members to interactions touching the target taxon.
func metaboliteVisible(r exchange.Record, opts BuildOptions) bool {
	if opts.HideMetabolites[r.Metabolite] {
		return opts.KeepMetabolites[r.Metabolite] || opts.EnvironmentalSources[r.Metabolite]
	}
	if opts.EnvironmentalSources != nil && !opts.EnvironmentalSources[r.Metabolite] {
		return opts.TargetTaxon != "" &&
			(r.Taxon == opts.TargetTaxon || r.Metabolite == opts.TargetTaxon)
	}
	return true
}
