// Package pipeline provides the core exchange-visualization pipeline.
//
// This package implements the complete parse → filter → build → focus →
// render pipeline that can be used by CLI, API, and batch components. By
// centralizing this logic, we ensure consistent behavior across all
// entry points and avoid code duplication.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Records: Parse the exchange table and apply the flux cutoff
//  2. Graph: Build the directed bipartite exchange graph
//  3. Focus: Extract the target-focus subgraph with highlight partition
//  4. Render: Generate output in various formats (SVG, PNG, DOT, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    TablePath: "exchanges.tsv",
//	    Cutoff:    "top10",
//	    Formats:   []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/microbeflow/crossfeed/pkg/bipartite"
	"github.com/microbeflow/crossfeed/pkg/cache"
	"github.com/microbeflow/crossfeed/pkg/errors"
	"github.com/microbeflow/crossfeed/pkg/exchange"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and Batch
// =============================================================================

// DefaultSeed is the default layout seed for reproducibility.
const DefaultSeed = uint64(42)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatDOT:  true,
	FormatJSON: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the exchange pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Record options
	TablePath string               `json:"table_path,omitempty"` // path to the exchange table
	TableData []byte               `json:"table_data,omitempty"` // raw table content (takes precedence)
	Layout    exchange.TableLayout `json:"layout,omitempty"`
	Cutoff    string               `json:"cutoff,omitempty"` // "", "top10", "top20", or an absolute flux

	// Graph options
	HideTaxa             []string `json:"hide_taxa,omitempty"`
	HideMetabolites      []string `json:"hide_metabolites,omitempty"`
	KeepMetabolites      []string `json:"keep_metabolites,omitempty"`
	EnvironmentalSources []string `json:"environmental_sources,omitempty"`
	ShowInorganic        bool     `json:"show_inorganic,omitempty"` // keep the default-hidden inorganics
	TargetTaxon          string   `json:"target_taxon,omitempty"`

	// Focus options
	TargetCompound     string   `json:"target_compound,omitempty"`
	HighlightCompounds []string `json:"highlight_compounds,omitempty"`

	// Render options
	Seed    uint64            `json:"seed,omitempty"`
	Formats []string          `json:"formats,omitempty"`
	Labels  map[string]string `json:"labels,omitempty"` // display labels per node ID

	// Refresh bypasses the cache and recomputes every stage.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool

	// cutoff is the parsed form of Cutoff.
	cutoff exchange.Cutoff
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Records are the parsed and flux-filtered exchange records.
	Records []exchange.Record

	// Warnings are the malformed rows skipped during parsing.
	Warnings []*exchange.RowError

	// Graph is the full exchange graph after pruning.
	Graph *bipartite.Graph

	// GraphHash is the content hash of the serialized graph.
	GraphHash string

	// Focus is the extracted subgraph with its highlight partition.
	Focus *bipartite.Focus

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	RecordCount    int
	NodeCount      int
	EdgeCount      int
	FocusNodeCount int
	ParseTime      time.Duration
	BuildTime      time.Duration
	FocusTime      time.Duration
	RenderTime     time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	RecordsHit bool // Whether parsed records came from cache
	GraphHit   bool // Whether the graph came from cache
	RenderHit  bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidInput,
			"invalid format: %q (must be one of: svg, png, dot, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for
// the full pipeline. This method is idempotent - calling it multiple
// times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	if len(o.TableData) == 0 && o.TablePath == "" {
		return errors.New(errors.ErrCodeInvalidInput, "table_path or table_data is required")
	}
	if o.Layout.Delimiter == "" {
		o.Layout = exchange.DefaultTableLayout()
	}

	cutoff, err := exchange.ParseCutoff(o.Cutoff)
	if err != nil {
		return err
	}
	o.cutoff = cutoff

	if err := o.ValidateForRender(); err != nil {
		return err
	}

	o.validated = true
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for render-only use,
// where no exchange table is involved (e.g. rendering a stored graph).
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

// HiddenMetabolites returns the effective hide-set: the default
// inorganic compounds (unless ShowInorganic is set) plus any explicitly
// hidden metabolites.
func (o *Options) HiddenMetabolites() map[string]bool {
	if o.ShowInorganic {
		set := make(map[string]bool, len(o.HideMetabolites))
		for _, m := range o.HideMetabolites {
			set[m] = true
		}
		return set
	}
	return exchange.HiddenMetaboliteSet(o.HideMetabolites...)
}

// BuildOptions returns the graph construction options.
func (o *Options) BuildOptions() bipartite.BuildOptions {
	return bipartite.BuildOptions{
		HideTaxa:             toSet(o.HideTaxa),
		HideMetabolites:      o.HiddenMetabolites(),
		KeepMetabolites:      toSet(o.KeepMetabolites),
		EnvironmentalSources: toNilableSet(o.EnvironmentalSources),
		TargetTaxon:          o.TargetTaxon,
	}
}

// FocusOptions returns the focus extraction options.
func (o *Options) FocusOptions() bipartite.FocusOptions {
	return bipartite.FocusOptions{
		TargetCompound:       o.TargetCompound,
		TargetTaxon:          o.TargetTaxon,
		HighlightCompounds:   toSet(o.HighlightCompounds),
		EnvironmentalSources: toSet(o.EnvironmentalSources),
	}
}

// RecordsKeyOpts returns cache key options for the records stage.
func (o *Options) RecordsKeyOpts() cache.RecordsKeyOpts {
	return cache.RecordsKeyOpts{
		Layout: o.Layout,
		Cutoff: o.Cutoff,
	}
}

// GraphKeyOpts returns cache key options for the graph stage.
func (o *Options) GraphKeyOpts() cache.GraphKeyOpts {
	return cache.GraphKeyOpts{
		HideTaxa:             sorted(o.HideTaxa),
		HideMetabolites:      sortedSet(o.HiddenMetabolites()),
		KeepMetabolites:      sorted(o.KeepMetabolites),
		EnvironmentalSources: sorted(o.EnvironmentalSources),
		TargetTaxon:          o.TargetTaxon,
	}
}

// FocusKeyOpts returns cache key options for the focus stage.
func (o *Options) FocusKeyOpts() cache.FocusKeyOpts {
	return cache.FocusKeyOpts{
		TargetCompound:       o.TargetCompound,
		TargetTaxon:          o.TargetTaxon,
		HighlightCompounds:   sorted(o.HighlightCompounds),
		EnvironmentalSources: sorted(o.EnvironmentalSources),
	}
}

// ArtifactKeyOpts returns cache key options for a rendered artifact.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Seed:   o.Seed,
		Format: format,
		Labels: o.Labels,
	}
}

func toSet(items []string) map[string]bool {
	if len(items) == 0 {
		return nil
	}
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}

// toNilableSet distinguishes "no restriction" (nil) from "empty set":
// an empty non-nil environmental-source slice still restricts metabolite
// visibility.
func toNilableSet(items []string) map[string]bool {
	if items == nil {
		return nil
	}
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}

func sorted(items []string) []string {
	out := slices.Clone(items)
	slices.Sort(out)
	return out
}

func sortedSet(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for item := range set {
		out = append(out, item)
	}
	slices.Sort(out)
	return out
}
