// Package pkg provides the core libraries for crossfeed.
//
// # Overview
//
// Crossfeed turns simulated metabolite exchange tables into directed
// bipartite graphs of microbial cross-feeding: taxa secrete metabolites
// into a shared pool, and other taxa consume them. The pkg directory is
// organized into:
//
//  1. [exchange] - Exchange table parsing and flux filtering
//  2. [bipartite] - The taxon/metabolite graph, pruning, and focus extraction
//  3. [graphio] - Node-link JSON serialization
//  4. [render/nodelink] - Deterministic two-shell layout and Graphviz rendering
//  5. [pipeline] - Orchestration with per-stage caching (parse → build → focus → render)
//  6. [cache], [store] - File/Redis caching and memory/MongoDB graph storage
//
// # Quick Start
//
// Run the complete pipeline:
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    TablePath: "exchanges.tsv",
//	    Cutoff:    "top10",
//	    Formats:   []string{"svg"},
//	})
//
// Or use the stages directly:
//
//	parsed, _ := exchange.ParseFile("exchanges.tsv", exchange.DefaultTableLayout())
//	g := bipartite.Build(parsed.Records, bipartite.BuildOptions{})
//	focus := bipartite.Extract(g, bipartite.FocusOptions{TargetCompound: "ac"})
//
// [exchange]: https://pkg.go.dev/github.com/microbeflow/crossfeed/pkg/exchange
// [bipartite]: https://pkg.go.dev/github.com/microbeflow/crossfeed/pkg/bipartite
// [graphio]: https://pkg.go.dev/github.com/microbeflow/crossfeed/pkg/graphio
// [render/nodelink]: https://pkg.go.dev/github.com/microbeflow/crossfeed/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/microbeflow/crossfeed/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/microbeflow/crossfeed/pkg/cache
// [store]: https://pkg.go.dev/github.com/microbeflow/crossfeed/pkg/store
package pkg
