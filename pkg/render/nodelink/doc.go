// Package nodelink renders exchange graphs as node-link diagrams.
//
// # Overview
//
// This package produces directed bipartite visualizations using Graphviz:
// taxa appear as boxes on an inner ring, metabolites as ellipses on an
// outer ring, connected by arrows. Highlighted compounds and their edges
// are drawn in violet at larger size.
//
// # Usage
//
// Lay out the focus, convert to DOT, then render:
//
//	coords := nodelink.ShellLayout(f.Graph, 42)
//	dot := nodelink.ToDOT(f, coords, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(dot)
//
// # Determinism
//
// [ShellLayout] is a pure function of the graph and the seed: the same
// inputs always produce the same coordinates, and the DOT output pins
// every node position, so repeated renders of the same focus are
// byte-stable. PNG output uses the in-process Graphviz renderer.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// and PNG rendering. No external binaries are required.
package nodelink
