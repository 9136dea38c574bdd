package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/microbeflow/crossfeed/pkg/bipartite"
	"github.com/microbeflow/crossfeed/pkg/exchange"
	"github.com/microbeflow/crossfeed/pkg/pipeline"
)

// buildCommand creates the build command for the full pipeline.
func (c *CLI) buildCommand() *cobra.Command {
	var (
		output     string
		configPath string
		noCache    bool
		flags      pipelineFlags
	)

	cmd := &cobra.Command{
		Use:   "build [table.tsv]",
		Short: "Build and render a cross-feeding graph from an exchange table",
		Long: `Build and render a cross-feeding graph from an exchange table.

The build command parses a tab-separated exchange table, filters records
by flux, constructs the directed bipartite exchange graph, extracts the
focus view, and renders it in the requested formats.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(configPath)
			if err != nil {
				return err
			}
			opts := flags.options(cmd, cfg)
			opts.TablePath = args[0]
			return c.runBuild(cmd, args[0], opts, output, noCache)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVar(&configPath, "config", "", "path to a crossfeed.toml config file")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runBuild(cmd *cobra.Command, input string, opts pipeline.Options, output string, noCache bool) error {
	ctx := cmd.Context()

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Building %s...", input))
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Build failed")
		return err
	}
	spinner.Stop()

	if len(result.Warnings) > 0 {
		printWarning("Skipped %d malformed rows", len(result.Warnings))
		printDetail("%s", exchange.FormatWarnings(result.Warnings, 5))
	}

	if err := writeArtifacts(result.Artifacts, opts.Formats, basePath(output, input)); err != nil {
		return err
	}

	cached := result.CacheInfo.GraphHit && result.CacheInfo.RenderHit
	printStats(result.Stats.RecordCount, result.Stats.NodeCount, result.Stats.EdgeCount, cached)
	printDetail("%d taxa, %d metabolites",
		len(result.Graph.NodeIDs(bipartite.Taxon)),
		len(result.Graph.NodeIDs(bipartite.Metabolite)))
	if result.Stats.FocusNodeCount < result.Stats.NodeCount {
		printDetail("focus: %d of %d nodes", result.Stats.FocusNodeCount, result.Stats.NodeCount)
	}
	return nil
}

// writeArtifacts writes one file per rendered format, named base.format.
func writeArtifacts(artifacts map[string][]byte, formats []string, base string) error {
	for _, format := range formats {
		data, ok := artifacts[format]
		if !ok {
			continue
		}
		path := base + "." + format
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	return nil
}

// basePath derives the base output path from the output and input file
// paths. If output is empty, it strips the extension from input. If
// output carries a format extension (.svg, .dot, ...), that extension
// is stripped.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
