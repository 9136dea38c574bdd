package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/microbeflow/crossfeed/pkg/bipartite"
	"github.com/microbeflow/crossfeed/pkg/buildinfo"
	"github.com/microbeflow/crossfeed/pkg/cache"
	"github.com/microbeflow/crossfeed/pkg/errors"
	"github.com/microbeflow/crossfeed/pkg/graphio"
	"github.com/microbeflow/crossfeed/pkg/pipeline"
	"github.com/microbeflow/crossfeed/pkg/store"
)

// createGraphRequest is the body of POST /v1/graphs.
type createGraphRequest struct {
	// Name labels the stored graph.
	Name string `json:"name"`

	// Table is the raw exchange table content.
	Table string `json:"table"`

	// Options configure parsing, filtering, and graph construction.
	// Table content and formats are ignored here; rendering is a
	// separate endpoint.
	Options pipeline.Options `json:"options"`
}

// createGraphResponse is the body of a successful graph creation.
type createGraphResponse struct {
	ID          string `json:"id"`
	Hash        string `json:"hash"`
	Records     int    `json:"records"`
	Skipped     int    `json:"skipped"`
	Nodes       int    `json:"nodes"`
	Taxa        int    `json:"taxa"`
	Metabolites int    `json:"metabolites"`
	Edges       int    `json:"edges"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleCreateGraph(w http.ResponseWriter, r *http.Request) {
	var req createGraphRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body"))
		return
	}
	if req.Table == "" {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "table is required"))
		return
	}

	opts := req.Options
	opts.TableData = []byte(req.Table)
	opts.TablePath = ""

	ctx := r.Context()
	records, warnings, err := s.runner.LoadRecords(ctx, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	g, err := s.runner.BuildGraph(ctx, records, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	data, err := graphio.Marshal(g)
	if err != nil {
		s.writeError(w, err)
		return
	}
	rec := &store.GraphRecord{
		Name:  req.Name,
		Hash:  cache.Hash(data),
		Graph: graphio.FromGraph(g),
	}
	if err := s.store.Save(ctx, rec); err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, createGraphResponse{
		ID:          rec.ID,
		Hash:        rec.Hash,
		Records:     len(records),
		Skipped:     len(warnings),
		Nodes:       g.NodeCount(),
		Taxa:        len(g.NodeIDs(bipartite.Taxon)),
		Metabolites: len(g.NodeIDs(bipartite.Metabolite)),
		Edges:       g.EdgeCount(),
	})
}

func (s *Server) handleListGraphs(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	type listed struct {
		ID        string    `json:"id"`
		Name      string    `json:"name"`
		Hash      string    `json:"hash"`
		CreatedAt time.Time `json:"created_at"`
	}
	out := make([]listed, 0, len(list))
	for _, rec := range list {
		out = append(out, listed{ID: rec.ID, Name: rec.Name, Hash: rec.Hash, CreatedAt: rec.CreatedAt})
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"graphs": out})
}

func (s *Server) handleGetGraph(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDeleteGraph(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// contentTypes maps output formats to response content types.
var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatDOT:  "text/vnd.graphviz",
	pipeline.FormatJSON: "application/json",
}

func (s *Server) handleRenderGraph(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rec, err := s.store.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	g, err := graphio.ToGraph(rec.Graph)
	if err != nil {
		s.writeError(w, err)
		return
	}

	opts, err := renderOptionsFromQuery(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	focus := bipartite.Extract(g, opts.FocusOptions())
	artifacts, _, err := s.runner.RenderFocusWithCacheInfo(ctx, focus, rec.Hash, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	format := opts.Formats[0]
	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[format])
}

// renderOptionsFromQuery builds render options from URL parameters:
// format, seed, target_compound, target_taxon, highlight, and env
// (the latter two comma-separated).
func renderOptionsFromQuery(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := pipeline.Options{
		TargetCompound: q.Get("target_compound"),
		TargetTaxon:    q.Get("target_taxon"),
	}

	if format := q.Get("format"); format != "" {
		if err := pipeline.ValidateFormat(format); err != nil {
			return opts, err
		}
		opts.Formats = []string{format}
	}
	if seed := q.Get("seed"); seed != "" {
		parsed, err := strconv.ParseUint(seed, 10, 64)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "invalid seed: %q", seed)
		}
		opts.Seed = parsed
	}
	if highlight := q.Get("highlight"); highlight != "" {
		opts.HighlightCompounds = strings.Split(highlight, ",")
	}
	if env := q.Get("env"); env != "" {
		opts.EnvironmentalSources = strings.Split(env, ",")
	}
	return opts, nil
}
