// Package cache provides pluggable caching for pipeline stages.
//
// Three backends are included: a file cache for CLI usage, a Redis cache
// for the server, and a null cache that disables caching entirely. Keys
// are derived from content hashes plus the options that affect each
// stage, so any input or configuration change invalidates downstream
// entries automatically.
package cache

import (
	"context"
	"time"
)

// Cache is the storage interface for pipeline stage results.
//
// Get returns (data, true, nil) on a hit and (nil, false, nil) on a
// miss; errors are reserved for backend failures. Implementations must
// be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Default TTLs per pipeline stage. Parsed records sit closest to the
// raw input and expire fastest; rendered artifacts are the most
// expensive to recompute and live longest.
const (
	TTLRecords  = 1 * time.Hour
	TTLGraph    = 24 * time.Hour
	TTLFocus    = 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// RecordsKeyOpts captures everything that changes the parsed and
// filtered record list for a given table.
type RecordsKeyOpts struct {
	Layout any    `json:"layout"`
	Cutoff string `json:"cutoff"`
}

// GraphKeyOpts captures the build options that shape the full graph.
// Set fields must be sorted slices so equal sets produce equal keys.
type GraphKeyOpts struct {
	HideTaxa             []string `json:"hide_taxa"`
	HideMetabolites      []string `json:"hide_metabolites"`
	KeepMetabolites      []string `json:"keep_metabolites"`
	EnvironmentalSources []string `json:"environmental_sources"`
	TargetTaxon          string   `json:"target_taxon"`
}

// FocusKeyOpts captures the focus-extraction options.
// Set fields must be sorted slices so equal sets produce equal keys.
type FocusKeyOpts struct {
	TargetCompound       string   `json:"target_compound"`
	TargetTaxon          string   `json:"target_taxon"`
	HighlightCompounds   []string `json:"highlight_compounds"`
	EnvironmentalSources []string `json:"environmental_sources"`
}

// ArtifactKeyOpts captures the rendering options.
type ArtifactKeyOpts struct {
	Seed   uint64            `json:"seed"`
	Format string            `json:"format"`
	Labels map[string]string `json:"labels,omitempty"`
}

// Keyer generates cache keys for the pipeline stages. Each key chains
// the previous stage's content hash with the options of its own stage.
type Keyer interface {
	// RecordsKey generates a key for parsed and filtered records.
	RecordsKey(tableHash string, opts RecordsKeyOpts) string

	// GraphKey generates a key for the constructed exchange graph.
	GraphKey(recordsHash string, opts GraphKeyOpts) string

	// FocusKey generates a key for the extracted focus subgraph.
	FocusKey(graphHash string, opts FocusKeyOpts) string

	// ArtifactKey generates a key for a rendered artifact.
	ArtifactKey(focusHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard key generator.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard key generator.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// RecordsKey generates a key for parsed and filtered records.
func (k *DefaultKeyer) RecordsKey(tableHash string, opts RecordsKeyOpts) string {
	return hashKey("records", tableHash, opts)
}

// GraphKey generates a key for the constructed exchange graph.
func (k *DefaultKeyer) GraphKey(recordsHash string, opts GraphKeyOpts) string {
	return hashKey("graph", recordsHash, opts)
}

// FocusKey generates a key for the extracted focus subgraph.
func (k *DefaultKeyer) FocusKey(graphHash string, opts FocusKeyOpts) string {
	return hashKey("focus", graphHash, opts)
}

// ArtifactKey generates a key for a rendered artifact.
func (k *DefaultKeyer) ArtifactKey(focusHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", focusHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
