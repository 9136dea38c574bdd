// Package graphio serializes exchange graphs to and from node-link JSON.
//
// The wire format is {nodes: [{id, class}], links: [{source, target}]}
// with nodes sorted by ID and links by (source, target), so identical
// graphs always serialize to identical bytes.
package graphio

import (
	"bytes"
	"encoding/json"
	"io"
	"os"

	"github.com/microbeflow/crossfeed/pkg/bipartite"
	"github.com/microbeflow/crossfeed/pkg/errors"
)

// =============================================================================
// Serialization API
// =============================================================================

// Marshal converts a graph to JSON bytes.
func Marshal(g *bipartite.Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeTo(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes JSON bytes into a graph.
func Unmarshal(data []byte) (*bipartite.Graph, error) {
	return readFrom(bytes.NewReader(data))
}

// Write writes a graph as JSON to an io.Writer.
func Write(g *bipartite.Graph, w io.Writer) error {
	return writeTo(g, w)
}

// Read decodes a JSON graph from an io.Reader.
func Read(r io.Reader) (*bipartite.Graph, error) {
	return readFrom(r)
}

// WriteFile writes a graph to a JSON file.
// The file is created with 0644 permissions.
func WriteFile(g *bipartite.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeSerializationIO, err, "create %s", path)
	}
	defer f.Close()
	return writeTo(g, f)
}

// ReadFile reads a JSON file and returns the decoded graph.
func ReadFile(path string) (*bipartite.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSerializationIO, err, "open %s", path)
	}
	defer f.Close()
	return readFrom(f)
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeTo(g *bipartite.Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromGraph(g)); err != nil {
		return errors.Wrap(errors.ErrCodeSerializationIO, err, "encode graph")
	}
	return nil
}

func readFrom(r io.Reader) (*bipartite.Graph, error) {
	var data Graph
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode graph")
	}
	return ToGraph(data)
}
