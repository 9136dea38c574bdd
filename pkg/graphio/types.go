package graphio

import (
	"slices"

	"github.com/microbeflow/crossfeed/pkg/bipartite"
	"github.com/microbeflow/crossfeed/pkg/errors"
)

// =============================================================================
// Node-Link Format
// =============================================================================

// Node classes as serialized.
const (
	ClassTaxon      = "taxon"
	ClassMetabolite = "metabolite"
)

// Graph is the node-link serialization format for exchange graphs.
// Used for API responses, storage, caching, and cross-tool compatibility.
//
// The format is human-readable and round-trip safe: serialize → parse
// reconstructs the same node set, classes, and edge set.
type Graph struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
	Links []Link `json:"links" bson:"links"`
}

// Node is a serialized vertex with its bipartite class.
type Node struct {
	ID    string `json:"id" bson:"id"`
	Class string `json:"class" bson:"class"`
}

// Link is a serialized directed edge.
type Link struct {
	Source string `json:"source" bson:"source"`
	Target string `json:"target" bson:"target"`
}

// =============================================================================
// Graph ↔ Node-Link Conversion
// =============================================================================

// FromGraph converts an exchange graph to its serialization format.
// Nodes are sorted by ID and links by (source, target) for deterministic
// output.
func FromGraph(g *bipartite.Graph) Graph {
	nodes := g.Nodes()
	out := Graph{
		Nodes: make([]Node, len(nodes)),
		Links: make([]Link, 0, g.EdgeCount()),
	}
	for i, n := range nodes {
		out.Nodes[i] = Node{ID: n.ID, Class: n.Class.String()}
	}
	for _, e := range g.Edges() {
		out.Links = append(out.Links, Link{Source: e.From, Target: e.To})
	}
	slices.SortFunc(out.Links, func(a, b Link) int {
		if a.Source != b.Source {
			if a.Source < b.Source {
				return -1
			}
			return 1
		}
		switch {
		case a.Target < b.Target:
			return -1
		case a.Target > b.Target:
			return 1
		default:
			return 0
		}
	})
	return out
}

// ToGraph reconstructs an exchange graph from its serialized form.
// Unknown classes and links referencing absent nodes are rejected.
func ToGraph(data Graph) (*bipartite.Graph, error) {
	g := bipartite.New()
	for _, n := range data.Nodes {
		var class bipartite.NodeClass
		switch n.Class {
		case ClassTaxon:
			class = bipartite.Taxon
		case ClassMetabolite:
			class = bipartite.Metabolite
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat,
				"node %q has unknown class %q", n.ID, n.Class)
		}
		if err := g.AddNode(n.ID, class); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err,
				"node %q", n.ID)
		}
	}
	for _, l := range data.Links {
		if err := g.AddEdge(l.Source, l.Target); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err,
				"link %s→%s", l.Source, l.Target)
		}
	}
	return g, nil
}
