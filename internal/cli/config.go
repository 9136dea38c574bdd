package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/microbeflow/crossfeed/pkg/exchange"
	"github.com/microbeflow/crossfeed/pkg/pipeline"
)

// configFileName is looked up in the working directory and the XDG
// config directory when no --config flag is given.
const configFileName = "crossfeed.toml"

// Config holds project-level defaults loaded from a TOML file. Command
// line flags override anything set here.
type Config struct {
	Cutoff               string            `toml:"cutoff"`
	HideTaxa             []string          `toml:"hide_taxa"`
	HideMetabolites      []string          `toml:"hide_metabolites"`
	KeepMetabolites      []string          `toml:"keep_metabolites"`
	EnvironmentalSources []string          `toml:"environmental_sources"`
	ShowInorganic        bool              `toml:"show_inorganic"`
	TargetTaxon          string            `toml:"target_taxon"`
	TargetCompound       string            `toml:"target_compound"`
	HighlightCompounds   []string          `toml:"highlight_compounds"`
	Seed                 uint64            `toml:"seed"`
	Formats              []string          `toml:"formats"`
	Labels               map[string]string `toml:"labels"`

	Table  TableConfig  `toml:"table"`
	Server ServerConfig `toml:"server"`
	Neo4j  Neo4jConfig  `toml:"neo4j"`
}

// TableConfig overrides parts of the default exchange table layout.
// Column fields are pointers so that column 0 stays expressible.
type TableConfig struct {
	Delimiter        string            `toml:"delimiter"`
	TaxonColumn      *int              `toml:"taxon_column"`
	MetaboliteColumn *int              `toml:"metabolite_column"`
	FluxColumn       *int              `toml:"flux_column"`
	DirectionColumn  *int              `toml:"direction_column"`
	TaxonSuffix      *string           `toml:"taxon_suffix"`
	MetaboliteSuffix *string           `toml:"metabolite_suffix"`
	HeaderMarker     *string           `toml:"header_marker"`
	Relabel          map[string]string `toml:"relabel"`
}

func (t TableConfig) isZero() bool {
	return t.Delimiter == "" && t.TaxonColumn == nil && t.MetaboliteColumn == nil &&
		t.FluxColumn == nil && t.DirectionColumn == nil && t.TaxonSuffix == nil &&
		t.MetaboliteSuffix == nil && t.HeaderMarker == nil && t.Relabel == nil
}

// layout materializes the table overrides on top of the default layout.
// An empty [table] section yields the zero layout, which the pipeline
// replaces with the default itself.
func (t TableConfig) layout() exchange.TableLayout {
	if t.isZero() {
		return exchange.TableLayout{}
	}
	layout := exchange.DefaultTableLayout()
	if t.Delimiter != "" {
		layout.Delimiter = t.Delimiter
	}
	if t.TaxonColumn != nil {
		layout.TaxonColumn = *t.TaxonColumn
	}
	if t.MetaboliteColumn != nil {
		layout.MetaboliteColumn = *t.MetaboliteColumn
	}
	if t.FluxColumn != nil {
		layout.FluxColumn = *t.FluxColumn
	}
	if t.DirectionColumn != nil {
		layout.DirectionColumn = *t.DirectionColumn
	}
	if t.TaxonSuffix != nil {
		layout.TaxonSuffix = *t.TaxonSuffix
	}
	if t.MetaboliteSuffix != nil {
		layout.MetaboliteSuffix = *t.MetaboliteSuffix
	}
	if t.HeaderMarker != nil {
		layout.HeaderMarker = *t.HeaderMarker
	}
	layout.Relabel = t.Relabel
	return layout
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	Addr          string `toml:"addr"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// Neo4jConfig configures the export command.
type Neo4jConfig struct {
	URI      string `toml:"uri"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	Database string `toml:"database"`
}

// LoadConfig reads a config file. An explicit path must exist; with an
// empty path the file is searched in the working directory and then the
// XDG config directory, and a missing file yields the zero config.
func LoadConfig(path string) (Config, error) {
	var cfg Config

	if path == "" {
		found, ok := findConfig()
		if !ok {
			return cfg, nil
		}
		path = found
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

func findConfig() (string, bool) {
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, true
	}
	dir, err := configDir()
	if err != nil {
		return "", false
	}
	path := filepath.Join(dir, configFileName)
	if _, err := os.Stat(path); err == nil {
		return path, true
	}
	return "", false
}

// Options converts the config into pipeline options.
func (c Config) Options() pipeline.Options {
	return pipeline.Options{
		Layout:               c.Table.layout(),
		Cutoff:               c.Cutoff,
		HideTaxa:             c.HideTaxa,
		HideMetabolites:      c.HideMetabolites,
		KeepMetabolites:      c.KeepMetabolites,
		EnvironmentalSources: c.EnvironmentalSources,
		ShowInorganic:        c.ShowInorganic,
		TargetTaxon:          c.TargetTaxon,
		TargetCompound:       c.TargetCompound,
		HighlightCompounds:   c.HighlightCompounds,
		Seed:                 c.Seed,
		Formats:              c.Formats,
		Labels:               c.Labels,
	}
}
