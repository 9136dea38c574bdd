// Package bipartite implements the directed bipartite exchange graph at
// the heart of crossfeed.
//
// Nodes belong to one of two classes, taxa and metabolites, and edges
// only ever connect across classes: an export edge runs taxon→metabolite
// and an import edge runs metabolite→taxon.
//
// The package has three parts:
//
//   - [Graph]: the adjacency-indexed graph type with class-checked nodes
//     and duplicate-free directed edges.
//   - [Build]: constructs a graph from filtered exchange records,
//     applying visibility rules (hide/keep sets, environmental sources,
//     target taxon) and pruning so that no isolated node survives.
//   - [Extract]: derives the target-focus subgraph used for rendering
//     emphasis, partitioned into highlighted and ordinary edges.
//
// Graphs are built once per call and never shared: Build and Extract
// both return freshly owned instances, so independent inputs can be
// processed concurrently without locking.
package bipartite
