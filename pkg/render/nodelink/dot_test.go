package nodelink

import (
	"strings"
	"testing"

	"github.com/microbeflow/crossfeed/pkg/bipartite"
)

func focusFixture(t *testing.T) *bipartite.Focus {
	t.Helper()
	g := twoByTwoGraph(t)
	return bipartite.Extract(g, bipartite.FocusOptions{
		TargetTaxon:        "ecoli",
		HighlightCompounds: map[string]bool{"ac": true},
	})
}

func TestToDOT(t *testing.T) {
	f := focusFixture(t)
	coords := ShellLayout(f.Graph, 42)

	dot := ToDOT(f, coords, Options{})

	for _, want := range []string{
		"layout=neato",
		`"ecoli" -> "ac" [color=violet, penwidth=2.0];`,
		`"ac" -> "bacteroides" [color=violet, penwidth=2.0];`,
		`"bacteroides" -> "lac__L";`,
		"shape=box",     // taxa
		"shape=ellipse", // metabolites
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}

	// Every node position must be pinned.
	for _, n := range f.Graph.Nodes() {
		if !strings.Contains(dot, `"`+n.ID+`" [`) {
			t.Errorf("node %q missing from DOT", n.ID)
		}
	}
	if got := strings.Count(dot, "!\""); got != f.Graph.NodeCount() {
		t.Errorf("pinned positions = %d, want %d", got, f.Graph.NodeCount())
	}
}

func TestToDOTHighlightStyling(t *testing.T) {
	f := focusFixture(t)
	coords := ShellLayout(f.Graph, 42)

	dot := ToDOT(f, coords, Options{})

	var highlightLine, plainLine string
	for _, line := range strings.Split(dot, "\n") {
		if strings.Contains(line, `"ac" [`) {
			highlightLine = line
		}
		if strings.Contains(line, `"lac__L" [`) {
			plainLine = line
		}
	}
	if highlightLine == "" || plainLine == "" {
		t.Fatalf("node lines not found in DOT:\n%s", dot)
	}

	if !strings.Contains(highlightLine, "fillcolor=violet") {
		t.Errorf("highlighted compound should be violet: %s", highlightLine)
	}
	if !strings.Contains(highlightLine, "fontsize=18.0") {
		t.Errorf("highlighted compound should use scaled font: %s", highlightLine)
	}
	if !strings.Contains(plainLine, "fontsize=12.0") {
		t.Errorf("ordinary compound should use base font: %s", plainLine)
	}
	if strings.Contains(plainLine, "violet") {
		t.Errorf("ordinary compound should not be violet: %s", plainLine)
	}
}

func TestToDOTLabels(t *testing.T) {
	f := focusFixture(t)
	coords := ShellLayout(f.Graph, 42)

	dot := ToDOT(f, coords, Options{Labels: map[string]string{"ac": "acetate"}})

	if !strings.Contains(dot, `label="acetate"`) {
		t.Error("relabeled node should use its display label")
	}
	if !strings.Contains(dot, `label="ecoli"`) {
		t.Error("unlabeled node should fall back to its ID")
	}
}

func TestToDOTDeterministic(t *testing.T) {
	f := focusFixture(t)
	coords := ShellLayout(f.Graph, 42)

	if ToDOT(f, coords, Options{}) != ToDOT(f, coords, Options{}) {
		t.Error("identical inputs should produce identical DOT")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<?xml version="1.0"?>` + "\n" +
		`<svg width="8pt" height="6pt" viewBox="0.00 -5.50 432.00 324.00" xmlns="http://www.w3.org/2000/svg">` +
		`<g></g></svg>`)

	out := string(normalizeViewBox(in))

	if !strings.Contains(out, `viewBox="0 0 432.00 324.00"`) {
		t.Errorf("viewBox not normalized: %s", out)
	}
	if !strings.Contains(out, `width="432" height="324"`) {
		t.Errorf("pixel dimensions missing: %s", out)
	}
}

func TestNormalizeViewBoxPassthrough(t *testing.T) {
	in := []byte("<svg>no viewbox here</svg>")
	if string(normalizeViewBox(in)) != string(in) {
		t.Error("SVG without a viewBox should pass through unchanged")
	}
}
