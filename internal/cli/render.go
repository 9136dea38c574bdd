package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/microbeflow/crossfeed/pkg/bipartite"
	"github.com/microbeflow/crossfeed/pkg/cache"
	"github.com/microbeflow/crossfeed/pkg/graphio"
	"github.com/microbeflow/crossfeed/pkg/pipeline"
)

// renderCommand creates the render command for previously exported graphs.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output     string
		configPath string
		noCache    bool
		formatsStr string
		highlight  string
		envSources string
		labels     []string
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render [graph.json]",
		Short: "Render a focused view of an exported graph",
		Long: `Render a focused view of an exported graph.

The render command takes a node-link JSON file (produced by 'build' with
--format json) and renders it without re-parsing the exchange table. Use
the focus flags to zoom in on a compound or taxon.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(configPath)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if !flags.Changed("target-compound") {
				opts.TargetCompound = cfg.TargetCompound
			}
			if !flags.Changed("target-taxon") {
				opts.TargetTaxon = cfg.TargetTaxon
			}
			opts.HighlightCompounds = parseList(highlight)
			if !flags.Changed("highlight") {
				opts.HighlightCompounds = cfg.HighlightCompounds
			}
			opts.EnvironmentalSources = parseList(envSources)
			if !flags.Changed("env") {
				opts.EnvironmentalSources = cfg.EnvironmentalSources
			}
			if !flags.Changed("seed") {
				opts.Seed = cfg.Seed
			}
			opts.Formats = parseFormats(formatsStr)
			if !flags.Changed("format") && len(cfg.Formats) > 0 {
				opts.Formats = cfg.Formats
			}
			opts.Labels = parseLabels(labels)
			if !flags.Changed("label") {
				opts.Labels = cfg.Labels
			}
			return c.runRender(cmd, args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVar(&opts.TargetCompound, "target-compound", "", "center the focus view on this compound")
	cmd.Flags().StringVar(&opts.TargetTaxon, "target-taxon", "", "focus on interactions with this taxon")
	cmd.Flags().StringVar(&highlight, "highlight", "", "compounds to highlight (comma-separated)")
	cmd.Flags().StringVar(&envSources, "env", "", "environmental source compounds (comma-separated)")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "layout seed for reproducible output")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, dot, json (comma-separated)")
	cmd.Flags().StringArrayVar(&labels, "label", nil, "display label for a node as id=label (repeatable)")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "bypass the cache and re-render")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVar(&configPath, "config", "", "path to a crossfeed.toml config file")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, input string, opts pipeline.Options, output string, noCache bool) error {
	ctx := cmd.Context()

	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}
	g, err := graphio.Unmarshal(data)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}
	c.Logger.Info("loaded graph", "nodes", g.NodeCount(), "edges", g.EdgeCount())

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, "Rendering...")
	spinner.Start()

	focus := bipartite.Extract(g, opts.FocusOptions())
	artifacts, cacheHit, err := runner.RenderFocusWithCacheInfo(ctx, focus, cache.Hash(data), opts)
	if err != nil {
		spinner.StopWithError("Rendering failed")
		return err
	}
	spinner.Stop()

	if err := writeArtifacts(artifacts, opts.Formats, basePath(output, input)); err != nil {
		return err
	}
	printStats(0, focus.Graph.NodeCount(), focus.Graph.EdgeCount(), cacheHit)
	return nil
}
