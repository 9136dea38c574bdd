package nodelink

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/microbeflow/crossfeed/pkg/bipartite"
)

// Options configures node-link diagram generation.
type Options struct {
	// Labels maps node IDs to display labels. Missing entries fall back
	// to the ID.
	Labels map[string]string
}

// Base node dimensions in inches and label size in points. Highlighted
// nodes are doubled in size with fonts scaled by half again.
const (
	taxonWidth       = 1.4
	taxonHeight      = 0.6
	metaboliteWidth  = 0.9
	metaboliteHeight = 0.45
	baseFontSize     = 12.0

	highlightScale     = 2.0
	highlightFontScale = 1.5
)

const highlightColor = "violet"

// ToDOT converts a focus into Graphviz DOT with pinned positions.
//
// Every node carries a pos="x,y!" attribute from the supplied layout, so
// the neato engine reproduces the shell arrangement exactly instead of
// computing its own. Highlight edges are emitted after ordinary ones and
// drawn thicker in violet.
func ToDOT(f *bipartite.Focus, coords map[string]Point, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph exchange {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  outputorder=edgesfirst;\n")
	buf.WriteString("  node [style=filled, fontname=\"Helvetica\"];\n")
	buf.WriteString("  edge [color=grey40, arrowsize=0.7];\n")
	buf.WriteString("\n")

	for _, n := range f.Graph.Nodes() {
		attrs := nodeAttrs(n, f.Highlighted(n.ID), coords[n.ID], opts)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range f.OrdinaryEdges {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}
	for _, e := range f.HighlightEdges {
		fmt.Fprintf(&buf, "  %q -> %q [color=%s, penwidth=2.0];\n", e.From, e.To, highlightColor)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n bipartite.Node, highlighted bool, pos Point, opts Options) []string {
	label := n.ID
	if l, ok := opts.Labels[n.ID]; ok {
		label = l
	}

	width, height := metaboliteWidth, metaboliteHeight
	shape, fill := "ellipse", "lightblue"
	if n.Class == bipartite.Taxon {
		width, height = taxonWidth, taxonHeight
		shape, fill = "box", "lightyellow"
	}
	font := baseFontSize
	if highlighted {
		width *= highlightScale
		height *= highlightScale
		font *= highlightFontScale
		fill = highlightColor
	}

	return []string{
		fmt.Sprintf("label=%q", label),
		fmt.Sprintf("shape=%s", shape),
		fmt.Sprintf("fillcolor=%s", fill),
		fmt.Sprintf("width=%.2f", width),
		fmt.Sprintf("height=%.2f", height),
		fmt.Sprintf("fontsize=%.1f", font),
		fmt.Sprintf("pos=\"%.4f,%.4f!\"", pos.X, pos.Y),
	}
}
