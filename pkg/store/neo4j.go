package store

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/microbeflow/crossfeed/pkg/cache"
	"github.com/microbeflow/crossfeed/pkg/errors"
	"github.com/microbeflow/crossfeed/pkg/graphio"
)

// Neo4jExporter pushes exchange graphs into a Neo4j database, where taxa
// and metabolites become labeled nodes and exchange edges become
// EXPORTS/IMPORTS relationships for ad-hoc Cypher queries.
type Neo4jExporter struct {
	driver neo4j.DriverWithContext
	dbName string
}

// NewNeo4jExporter creates a driver for the given instance and verifies
// connectivity before returning.
func NewNeo4jExporter(ctx context.Context, uri, username, password, dbName string) (*Neo4jExporter, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, err, "create driver for %s", uri)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, err, "verify %s", uri)
	}
	return &Neo4jExporter{driver: driver, dbName: dbName}, nil
}

// Cypher statements for graph export. Nodes and relationships are merged
// so re-exporting the same graph is idempotent.
const (
	mergeTaxonQuery = `
UNWIND $ids AS id
MERGE (:Taxon {id: id, graph: $graph})`

	mergeMetaboliteQuery = `
UNWIND $ids AS id
MERGE (:Metabolite {id: id, graph: $graph})`

	mergeExportQuery = `
UNWIND $links AS link
MATCH (t:Taxon {id: link.source, graph: $graph})
MATCH (m:Metabolite {id: link.target, graph: $graph})
MERGE (t)-[:EXPORTS]->(m)`

	mergeImportQuery = `
UNWIND $links AS link
MATCH (m:Metabolite {id: link.source, graph: $graph})
MATCH (t:Taxon {id: link.target, graph: $graph})
MERGE (m)-[:IMPORTS]->(t)`
)

// Export writes a node-link graph to Neo4j under the given graph name.
// Transient database failures are retried with backoff.
func (e *Neo4jExporter) Export(ctx context.Context, name string, g graphio.Graph) error {
	var taxa, metabolites []any
	classes := make(map[string]string, len(g.Nodes))
	for _, n := range g.Nodes {
		classes[n.ID] = n.Class
		if n.Class == graphio.ClassTaxon {
			taxa = append(taxa, n.ID)
		} else {
			metabolites = append(metabolites, n.ID)
		}
	}

	var exports, imports []any
	for _, l := range g.Links {
		link := map[string]any{"source": l.Source, "target": l.Target}
		if classes[l.Source] == graphio.ClassTaxon {
			exports = append(exports, link)
		} else {
			imports = append(imports, link)
		}
	}

	steps := []struct {
		query  string
		params map[string]any
	}{
		{mergeTaxonQuery, map[string]any{"ids": taxa}},
		{mergeMetaboliteQuery, map[string]any{"ids": metabolites}},
		{mergeExportQuery, map[string]any{"links": exports}},
		{mergeImportQuery, map[string]any{"links": imports}},
	}
	for _, step := range steps {
		step.params["graph"] = name
		if err := e.run(ctx, step.query, step.params); err != nil {
			return errors.Wrap(errors.ErrCodeStoreUnavailable, err, "export graph %s", name)
		}
	}
	return nil
}

// run executes a single Cypher statement, retrying when the driver
// reports the failure as transient.
func (e *Neo4jExporter) run(ctx context.Context, query string, params map[string]any) error {
	return cache.RetryWithBackoff(ctx, func() error {
		_, err := neo4j.ExecuteQuery(ctx, e.driver, query, params,
			neo4j.EagerResultTransformer,
			neo4j.ExecuteQueryWithDatabase(e.dbName),
		)
		if err != nil && neo4j.IsRetryable(err) {
			return cache.Retryable(err)
		}
		return err
	})
}

// Close releases the driver.
func (e *Neo4jExporter) Close(ctx context.Context) error {
	return e.driver.Close(ctx)
}
