package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/microbeflow/crossfeed/pkg/bipartite"
	"github.com/microbeflow/crossfeed/pkg/cache"
	"github.com/microbeflow/crossfeed/pkg/errors"
	"github.com/microbeflow/crossfeed/pkg/exchange"
	"github.com/microbeflow/crossfeed/pkg/graphio"
	"github.com/microbeflow/crossfeed/pkg/observability"
	"github.com/microbeflow/crossfeed/pkg/render/nodelink"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete parse → build → focus → render pipeline
// with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Records
	parseStart := time.Now()
	observability.Pipeline().OnParseStart(ctx, opts.TablePath)
	records, warnings, recordsHit, err := r.LoadRecordsWithCacheInfo(ctx, opts)
	result.Stats.ParseTime = time.Since(parseStart)
	observability.Pipeline().OnParseComplete(ctx, opts.TablePath, len(records), result.Stats.ParseTime, err)
	if err != nil {
		return nil, err
	}
	result.Records = records
	result.Warnings = warnings
	result.Stats.RecordCount = len(records)
	result.CacheInfo.RecordsHit = recordsHit

	r.Logger.Info("loaded exchange records",
		"records", len(records),
		"skipped", len(warnings),
		"duration", result.Stats.ParseTime)

	// Stage 2: Graph
	buildStart := time.Now()
	observability.Pipeline().OnBuildStart(ctx, len(records))
	g, graphHash, graphHit, err := r.BuildGraphWithCacheInfo(ctx, records, opts)
	result.Stats.BuildTime = time.Since(buildStart)
	if err != nil {
		observability.Pipeline().OnBuildComplete(ctx, 0, 0, result.Stats.BuildTime, err)
		return nil, err
	}
	observability.Pipeline().OnBuildComplete(ctx, g.NodeCount(), g.EdgeCount(), result.Stats.BuildTime, nil)
	result.Graph = g
	result.GraphHash = graphHash
	result.Stats.NodeCount = g.NodeCount()
	result.Stats.EdgeCount = g.EdgeCount()
	result.CacheInfo.GraphHit = graphHit

	r.Logger.Info("built exchange graph",
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"duration", result.Stats.BuildTime)

	// Stage 3: Focus
	focusStart := time.Now()
	observability.Pipeline().OnFocusStart(ctx, opts.TargetCompound, opts.TargetTaxon)
	focus := bipartite.Extract(g, opts.FocusOptions())
	result.Stats.FocusTime = time.Since(focusStart)
	observability.Pipeline().OnFocusComplete(ctx, focus.Graph.NodeCount(), result.Stats.FocusTime, nil)
	result.Focus = focus
	result.Stats.FocusNodeCount = focus.Graph.NodeCount()

	// Stage 4: Render
	renderStart := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	artifacts, renderHit, err := r.RenderFocusWithCacheInfo(ctx, focus, graphHash, opts)
	result.Stats.RenderTime = time.Since(renderStart)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, result.Stats.RenderTime, err)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LoadRecordsWithCacheInfo parses the exchange table and applies the
// flux cutoff, with caching. Cache hits skip the parse entirely, so the
// returned warnings are empty for them.
func (r *Runner) LoadRecordsWithCacheInfo(ctx context.Context, opts Options) ([]exchange.Record, []*exchange.RowError, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, nil, false, err
	}

	data := opts.TableData
	if len(data) == 0 {
		var err error
		data, err = os.ReadFile(opts.TablePath)
		if err != nil {
			return nil, nil, false, errors.Wrap(errors.ErrCodeSerializationIO, err, "read %s", opts.TablePath)
		}
	}

	cacheKey := r.Keyer.RecordsKey(cache.Hash(data), opts.RecordsKeyOpts())
	if !opts.Refresh {
		if cached, hit := r.cacheGet(ctx, "records", cacheKey); hit {
			var records []exchange.Record
			if err := json.Unmarshal(cached, &records); err == nil {
				return records, nil, true, nil
			}
		}
	}

	parsed, err := exchange.Parse(bytes.NewReader(data), opts.Layout)
	if err != nil {
		return nil, nil, false, err
	}
	records := opts.cutoff.Filter(parsed.Records)

	if encoded, err := json.Marshal(records); err == nil {
		r.cacheSet(ctx, "records", cacheKey, encoded, cache.TTLRecords)
	}
	return records, parsed.Warnings, false, nil
}

// LoadRecords is a convenience wrapper that discards the cache hit info.
func (r *Runner) LoadRecords(ctx context.Context, opts Options) ([]exchange.Record, []*exchange.RowError, error) {
	records, warnings, _, err := r.LoadRecordsWithCacheInfo(ctx, opts)
	return records, warnings, err
}

// BuildGraphWithCacheInfo constructs the exchange graph with caching and
// returns the graph, its content hash, and cache hit info.
func (r *Runner) BuildGraphWithCacheInfo(ctx context.Context, records []exchange.Record, opts Options) (*bipartite.Graph, string, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, "", false, err
	}

	recordsData, err := json.Marshal(records)
	if err != nil {
		return nil, "", false, errors.Wrap(errors.ErrCodeInternal, err, "hash records")
	}
	cacheKey := r.Keyer.GraphKey(cache.Hash(recordsData), opts.GraphKeyOpts())

	if !opts.Refresh {
		if cached, hit := r.cacheGet(ctx, "graph", cacheKey); hit {
			if g, err := graphio.Unmarshal(cached); err == nil {
				return g, cache.Hash(cached), true, nil
			}
		}
	}

	g := bipartite.Build(records, opts.BuildOptions())

	graphData, err := graphio.Marshal(g)
	if err != nil {
		return nil, "", false, err
	}
	r.cacheSet(ctx, "graph", cacheKey, graphData, cache.TTLGraph)

	return g, cache.Hash(graphData), false, nil
}

// BuildGraph is a convenience wrapper that discards the cache hit info.
func (r *Runner) BuildGraph(ctx context.Context, records []exchange.Record, opts Options) (*bipartite.Graph, error) {
	g, _, _, err := r.BuildGraphWithCacheInfo(ctx, records, opts)
	return g, err
}

// RenderFocusWithCacheInfo renders the focus in every requested format
// with per-artifact caching. The graph hash plus the focus options
// identify the focus, so any upstream change invalidates the artifacts.
func (r *Runner) RenderFocusWithCacheInfo(ctx context.Context, focus *bipartite.Focus, graphHash string, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	focusID := cache.Hash([]byte(r.Keyer.FocusKey(graphHash, opts.FocusKeyOpts())))

	artifacts := make(map[string][]byte)
	allCached := !opts.Refresh
	if allCached {
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(focusID, opts.ArtifactKeyOpts(format))
			data, hit := r.cacheGet(ctx, "artifact", cacheKey)
			if !hit {
				allCached = false
				break
			}
			artifacts[format] = data
		}
	}
	if allCached && len(artifacts) == len(opts.Formats) {
		return artifacts, true, nil
	}

	rendered, err := renderFocus(focus, opts)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(focusID, opts.ArtifactKeyOpts(format))
		r.cacheSet(ctx, "artifact", cacheKey, data, cache.TTLArtifact)
	}
	return rendered, false, nil
}

// renderFocus produces every requested format from one layout pass.
func renderFocus(focus *bipartite.Focus, opts Options) (map[string][]byte, error) {
	coords := nodelink.ShellLayout(focus.Graph, opts.Seed)
	dot := nodelink.ToDOT(focus, coords, nodelink.Options{Labels: opts.Labels})

	out := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		switch format {
		case FormatDOT:
			out[format] = []byte(dot)
		case FormatJSON:
			data, err := graphio.Marshal(focus.Graph)
			if err != nil {
				return nil, err
			}
			out[format] = data
		case FormatSVG:
			data, err := nodelink.RenderSVG(dot)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInternal, err, "render svg")
			}
			out[format] = data
		case FormatPNG:
			data, err := nodelink.RenderPNG(dot)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInternal, err, "render png")
			}
			out[format] = data
		}
	}
	return out, nil
}

// cacheGet wraps Cache.Get with observability events.
func (r *Runner) cacheGet(ctx context.Context, keyType, key string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return data, true
}

// cacheSet wraps Cache.Set with observability events. Failed writes are
// dropped: caching is best effort.
func (r *Runner) cacheSet(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Debug("cache write failed", "key_type", keyType, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
