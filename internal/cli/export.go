package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/microbeflow/crossfeed/pkg/graphio"
	"github.com/microbeflow/crossfeed/pkg/store"
)

// exportCommand creates the export command for pushing graphs to Neo4j.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		configPath string
		uri        string
		username   string
		password   string
		database   string
		name       string
	)

	cmd := &cobra.Command{
		Use:   "export [graph.json]",
		Short: "Export a graph into a Neo4j database",
		Long: `Export a graph into a Neo4j database.

Nodes and exchange relationships are merged by id and graph name, so
re-exporting the same graph is idempotent. Connection settings can also
live in the [neo4j] section of crossfeed.toml.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(configPath)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if !flags.Changed("uri") && cfg.Neo4j.URI != "" {
				uri = cfg.Neo4j.URI
			}
			if !flags.Changed("username") && cfg.Neo4j.Username != "" {
				username = cfg.Neo4j.Username
			}
			if !flags.Changed("password") {
				password = cfg.Neo4j.Password
			}
			if !flags.Changed("database") && cfg.Neo4j.Database != "" {
				database = cfg.Neo4j.Database
			}
			if uri == "" {
				return fmt.Errorf("neo4j uri is required (--uri or crossfeed.toml)")
			}
			if name == "" {
				name = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			}
			return c.runExport(cmd, args[0], uri, username, password, database, name)
		},
	}

	cmd.Flags().StringVar(&uri, "uri", "", "neo4j connection URI (e.g. neo4j://localhost:7687)")
	cmd.Flags().StringVar(&username, "username", "neo4j", "neo4j username")
	cmd.Flags().StringVar(&password, "password", "", "neo4j password")
	cmd.Flags().StringVar(&database, "database", "", "neo4j database (empty for the default)")
	cmd.Flags().StringVar(&name, "name", "", "graph name in the database (defaults to the file name)")
	cmd.Flags().StringVar(&configPath, "config", "", "path to a crossfeed.toml config file")

	return cmd
}

func (c *CLI) runExport(cmd *cobra.Command, input, uri, username, password, database, name string) error {
	ctx := cmd.Context()

	g, err := graphio.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}

	exporter, err := store.NewNeo4jExporter(ctx, uri, username, password, database)
	if err != nil {
		return fmt.Errorf("connect neo4j: %w", err)
	}
	defer exporter.Close(ctx)

	prog := newProgress(c.Logger)
	if err := exporter.Export(ctx, name, graphio.FromGraph(g)); err != nil {
		return fmt.Errorf("export %s: %w", name, err)
	}
	prog.done(fmt.Sprintf("Exported %d nodes, %d edges", g.NodeCount(), g.EdgeCount()))

	printSuccess("Exported graph %q to %s", name, uri)
	return nil
}
