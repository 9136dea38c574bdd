package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/microbeflow/crossfeed/pkg/cache"
	"github.com/microbeflow/crossfeed/pkg/errors"
)

// tsvRow builds a default-layout table row: taxon in column 1, flux in
// column 5, metabolite in column 7, direction in column 8.
func tsvRow(taxon, flux, metabolite, direction string) string {
	cols := make([]string, 9)
	for i := range cols {
		cols[i] = "x"
	}
	cols[1] = taxon
	cols[5] = flux
	cols[7] = metabolite
	cols[8] = direction
	return strings.Join(cols, "\t")
}

func sampleTable() []byte {
	return []byte(strings.Join([]string{
		tsvRow("bacteroides_sp", "5.0", "ac_e", "export"),
		tsvRow("ecoli_sp", "2.0", "ac_e", "import"),
		tsvRow("bacteroides_sp", "0.1", "lac__L_e", "export"),
	}, "\n"))
}

func TestValidateAndSetDefaults(t *testing.T) {
	opts := Options{TableData: sampleTable()}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}

	if opts.Seed != DefaultSeed {
		t.Errorf("Seed = %d, want %d", opts.Seed, DefaultSeed)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}
	if opts.Layout.Delimiter != "\t" {
		t.Error("layout should default to the standard table layout")
	}
	if opts.Logger == nil {
		t.Error("logger should default to a discard logger")
	}
}

func TestValidateRequiresInput(t *testing.T) {
	opts := Options{}
	err := opts.ValidateAndSetDefaults()
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("code = %q, want INVALID_INPUT", errors.GetCode(err))
	}
}

func TestValidateRejectsBadCutoff(t *testing.T) {
	opts := Options{TableData: sampleTable(), Cutoff: "top55"}
	err := opts.ValidateAndSetDefaults()
	if !errors.Is(err, errors.ErrCodeInvalidCutoff) {
		t.Errorf("code = %q, want INVALID_CUTOFF", errors.GetCode(err))
	}
}

func TestValidateRejectsBadFormat(t *testing.T) {
	opts := Options{TableData: sampleTable(), Formats: []string{"gif"}}
	err := opts.ValidateAndSetDefaults()
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("code = %q, want INVALID_INPUT", errors.GetCode(err))
	}
}

func TestHiddenMetabolitesDefaults(t *testing.T) {
	opts := Options{HideMetabolites: []string{"ac"}}

	set := opts.HiddenMetabolites()
	if !set["h2o"] || !set["ac"] {
		t.Error("hide-set should include defaults plus explicit entries")
	}

	opts.ShowInorganic = true
	set = opts.HiddenMetabolites()
	if set["h2o"] {
		t.Error("show_inorganic should drop the default hide list")
	}
	if !set["ac"] {
		t.Error("explicit entries should survive show_inorganic")
	}
}

func TestBuildOptionsEnvNilability(t *testing.T) {
	opts := Options{}
	if opts.BuildOptions().EnvironmentalSources != nil {
		t.Error("absent env sources should stay nil (no restriction)")
	}

	opts.EnvironmentalSources = []string{}
	if opts.BuildOptions().EnvironmentalSources == nil {
		t.Error("empty env sources should be a non-nil set (restriction applies)")
	}
}

func TestExecute(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	opts := Options{
		TableData: sampleTable(),
		Cutoff:    "1.0",
		Formats:   []string{FormatDOT, FormatJSON},
	}

	result, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	// The 0.1 lac__L export falls below the cutoff, leaving the shared
	// acetate exchange.
	if result.Stats.RecordCount != 2 {
		t.Errorf("records = %d, want 2", result.Stats.RecordCount)
	}
	if result.Stats.NodeCount != 3 || result.Stats.EdgeCount != 2 {
		t.Errorf("graph = %d nodes / %d edges, want 3/2",
			result.Stats.NodeCount, result.Stats.EdgeCount)
	}
	if !result.Graph.HasEdge("bacteroides", "ac") || !result.Graph.HasEdge("ac", "ecoli") {
		t.Error("graph should contain the acetate cross-feed")
	}
	if result.GraphHash == "" {
		t.Error("graph hash should be set")
	}

	dot := string(result.Artifacts[FormatDOT])
	if !strings.Contains(dot, `"bacteroides" -> "ac"`) {
		t.Errorf("DOT artifact missing edge:\n%s", dot)
	}
	if !strings.Contains(string(result.Artifacts[FormatJSON]), `"class": "taxon"`) {
		t.Error("JSON artifact should be node-link format")
	}
}

func TestExecuteCaching(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(fc, nil, nil)
	opts := Options{
		TableData: sampleTable(),
		Formats:   []string{FormatDOT},
	}
	ctx := context.Background()

	first, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	if first.CacheInfo.RecordsHit || first.CacheInfo.GraphHit || first.CacheInfo.RenderHit {
		t.Error("first run should miss every stage")
	}

	second, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if !second.CacheInfo.RecordsHit || !second.CacheInfo.GraphHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run should hit every stage, got %+v", second.CacheInfo)
	}
	if string(first.Artifacts[FormatDOT]) != string(second.Artifacts[FormatDOT]) {
		t.Error("cached artifact should match the original")
	}

	// Refresh bypasses the cache.
	opts.Refresh = true
	third, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("third Execute: %v", err)
	}
	if third.CacheInfo.RecordsHit || third.CacheInfo.GraphHit || third.CacheInfo.RenderHit {
		t.Error("refresh run should miss every stage")
	}
}

func TestExecuteDeterministicArtifacts(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	opts := Options{
		TableData: sampleTable(),
		Seed:      7,
		Formats:   []string{FormatDOT},
	}
	ctx := context.Background()

	a, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	b, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if string(a.Artifacts[FormatDOT]) != string(b.Artifacts[FormatDOT]) {
		t.Error("same inputs and seed should produce identical DOT")
	}

	opts.Seed = 8
	c, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if string(a.Artifacts[FormatDOT]) == string(c.Artifacts[FormatDOT]) {
		t.Error("changing the seed should move the layout")
	}
}

func TestRunBatchIsolatesFailures(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	items := []BatchItem{
		{Name: "good", Options: Options{TableData: sampleTable(), Formats: []string{FormatJSON}}},
		{Name: "bad", Options: Options{TablePath: "missing.tsv", Formats: []string{FormatJSON}}},
		{Name: "also-good", Options: Options{TableData: sampleTable(), Formats: []string{FormatJSON}}},
	}

	results := runner.RunBatch(context.Background(), items, 2)

	if len(results) != 3 {
		t.Fatalf("results = %d, want 3", len(results))
	}
	if results[0].Err != nil || results[2].Err != nil {
		t.Errorf("good items should succeed: %v, %v", results[0].Err, results[2].Err)
	}
	if results[1].Err == nil {
		t.Error("bad item should fail")
	}
	if !errors.Is(results[1].Err, errors.ErrCodeSerializationIO) {
		t.Errorf("bad item code = %q, want SERIALIZATION_IO", errors.GetCode(results[1].Err))
	}
	if results[0].Name != "good" || results[1].Name != "bad" {
		t.Error("results should keep item order")
	}
}
