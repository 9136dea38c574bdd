package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/microbeflow/crossfeed/pkg/pipeline"
)

// batchCommand creates the batch command for processing many tables.
func (c *CLI) batchCommand() *cobra.Command {
	var (
		outputDir   string
		configPath  string
		noCache     bool
		plain       bool
		concurrency int
		flags       pipelineFlags
	)

	cmd := &cobra.Command{
		Use:   "batch [tables...]",
		Short: "Run the pipeline over many exchange tables",
		Long: `Run the pipeline over many exchange tables concurrently.

Every table is processed independently with the same options; a failure
in one table never blocks the others. Outputs are named after the input
files and written to --output-dir.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(configPath)
			if err != nil {
				return err
			}
			opts := flags.options(cmd, cfg)
			return c.runBatch(cmd, args, opts, outputDir, concurrency, noCache, plain)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", ".", "directory for rendered outputs")
	cmd.Flags().IntVar(&concurrency, "concurrency", defaultConcurrency, "number of tables processed in parallel")
	cmd.Flags().StringVar(&configPath, "config", "", "path to a crossfeed.toml config file")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&plain, "plain", false, "line-by-line output instead of the progress view")

	return cmd
}

func (c *CLI) runBatch(cmd *cobra.Command, tables []string, base pipeline.Options, outputDir string, concurrency int, noCache, plain bool) error {
	ctx := cmd.Context()

	items := make([]pipeline.BatchItem, len(tables))
	for i, table := range tables {
		opts := base
		opts.TablePath = table
		items[i] = pipeline.BatchItem{
			Name:    strings.TrimSuffix(filepath.Base(table), filepath.Ext(table)),
			Options: opts,
		}
	}

	cacheImpl, err := newCache(noCache)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	logger := c.Logger
	if !plain {
		// Runner log lines would tear the progress view apart.
		logger = newLogger(io.Discard, LogInfo)
	}
	runner := pipeline.NewRunner(cacheImpl, nil, logger)
	defer runner.Close()

	var results []pipeline.BatchResult
	if plain {
		results = runner.RunBatch(ctx, items, concurrency)
	} else {
		p := tea.NewProgram(newBatchModel(items))
		go func() {
			done := runner.RunBatchWithProgress(ctx, items, concurrency, func(i int, res pipeline.BatchResult) {
				p.Send(batchItemMsg{index: i, result: res})
			})
			p.Send(batchFinishedMsg{results: done})
		}()
		final, err := p.Run()
		if err != nil {
			return fmt.Errorf("progress view: %w", err)
		}
		m := final.(batchModel)
		if m.results == nil {
			// View was quit early; the context is gone with it.
			return ctx.Err()
		}
		results = m.results
	}

	return writeBatchResults(results, items, outputDir)
}

// writeBatchResults writes rendered artifacts for every successful item
// and reports failures. The first error is returned after everything
// writable has been written.
func writeBatchResults(results []pipeline.BatchResult, items []pipeline.BatchItem, outputDir string) error {
	var firstErr error
	failed := 0
	for i, res := range results {
		if res.Err != nil {
			failed++
			printError("%s: %v", res.Name, res.Err)
			if firstErr == nil {
				firstErr = res.Err
			}
			continue
		}
		base := filepath.Join(outputDir, res.Name)
		if err := writeArtifacts(res.Result.Artifacts, items[i].Options.Formats, base); err != nil {
			failed++
			printError("%s: %v", res.Name, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	if failed == 0 {
		printSuccess("Processed %d tables", len(results))
	} else {
		printWarning("Processed %d tables, %d failed", len(results), failed)
	}
	return firstErr
}
