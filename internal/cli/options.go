package cli

import (
	"github.com/spf13/cobra"

	"github.com/microbeflow/crossfeed/pkg/pipeline"
)

// pipelineFlags collects the flags shared by build and batch. Values
// from a loaded config act as defaults; only flags the user actually
// set override them.
type pipelineFlags struct {
	cutoff          string
	hideTaxa        string
	hideMetabolites string
	keepMetabolites string
	envSources      string
	showInorganic   bool
	targetTaxon     string
	targetCompound  string
	highlight       string
	seed            uint64
	formatsStr      string
	labels          []string
	refresh         bool
}

// register adds the pipeline flags to cmd.
func (f *pipelineFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.cutoff, "cutoff", "", "flux cutoff: top10, top20, or an absolute value")
	cmd.Flags().StringVar(&f.hideTaxa, "hide-taxon", "", "taxa to drop from the graph (comma-separated)")
	cmd.Flags().StringVar(&f.hideMetabolites, "hide-metabolite", "", "metabolites to hide (comma-separated)")
	cmd.Flags().StringVar(&f.keepMetabolites, "keep", "", "metabolites to keep even when hidden (comma-separated)")
	cmd.Flags().StringVar(&f.envSources, "env", "", "environmental source compounds (comma-separated)")
	cmd.Flags().BoolVar(&f.showInorganic, "show-inorganic", false, "keep the default-hidden inorganic compounds")
	cmd.Flags().StringVar(&f.targetTaxon, "target-taxon", "", "restrict the graph to interactions with this taxon")
	cmd.Flags().StringVar(&f.targetCompound, "target-compound", "", "center the focus view on this compound")
	cmd.Flags().StringVar(&f.highlight, "highlight", "", "compounds to highlight (comma-separated)")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "layout seed for reproducible output")
	cmd.Flags().StringVarP(&f.formatsStr, "format", "f", "", "output format(s): svg (default), png, dot, json (comma-separated)")
	cmd.Flags().StringArrayVar(&f.labels, "label", nil, "display label for a node as id=label (repeatable)")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "bypass the cache and recompute every stage")
}

// options merges config defaults with flags set on cmd.
func (f *pipelineFlags) options(cmd *cobra.Command, cfg Config) pipeline.Options {
	opts := cfg.Options()
	flags := cmd.Flags()

	if flags.Changed("cutoff") {
		opts.Cutoff = f.cutoff
	}
	if flags.Changed("hide-taxon") {
		opts.HideTaxa = parseList(f.hideTaxa)
	}
	if flags.Changed("hide-metabolite") {
		opts.HideMetabolites = parseList(f.hideMetabolites)
	}
	if flags.Changed("keep") {
		opts.KeepMetabolites = parseList(f.keepMetabolites)
	}
	if flags.Changed("env") {
		opts.EnvironmentalSources = parseList(f.envSources)
	}
	if flags.Changed("show-inorganic") {
		opts.ShowInorganic = f.showInorganic
	}
	if flags.Changed("target-taxon") {
		opts.TargetTaxon = f.targetTaxon
	}
	if flags.Changed("target-compound") {
		opts.TargetCompound = f.targetCompound
	}
	if flags.Changed("highlight") {
		opts.HighlightCompounds = parseList(f.highlight)
	}
	if flags.Changed("seed") {
		opts.Seed = f.seed
	}
	if flags.Changed("format") || len(opts.Formats) == 0 {
		opts.Formats = parseFormats(f.formatsStr)
	}
	if flags.Changed("label") {
		opts.Labels = parseLabels(f.labels)
	}
	opts.Refresh = f.refresh

	return opts
}
