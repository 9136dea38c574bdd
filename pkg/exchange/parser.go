package exchange

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/microbeflow/crossfeed/pkg/errors"
)

// TableLayout describes where the parser finds each field in a row.
// The zero value is not usable; start from [DefaultTableLayout].
type TableLayout struct {
	// Delimiter separates fields within a row.
	Delimiter string

	// Zero-based column positions.
	TaxonColumn      int
	MetaboliteColumn int
	FluxColumn       int
	DirectionColumn  int

	// Suffixes stripped from identifiers during normalization.
	TaxonSuffix      string // species marker, e.g. "_sp"
	MetaboliteSuffix string // compartment marker, e.g. "_e"

	// HeaderMarker identifies the header row by content: any line
	// containing this literal is skipped regardless of position.
	HeaderMarker string

	// Relabel optionally maps normalized metabolite ids to display ids.
	Relabel map[string]string
}

// DefaultTableLayout matches the exchange tables produced by the
// community growth simulation: tab-delimited with taxon in column 1,
// flux in column 5, metabolite in column 7 and direction in column 8.
func DefaultTableLayout() TableLayout {
	return TableLayout{
		Delimiter:        "\t",
		TaxonColumn:      1,
		MetaboliteColumn: 7,
		FluxColumn:       5,
		DirectionColumn:  8,
		TaxonSuffix:      "_sp",
		MetaboliteSuffix: "_e",
		HeaderMarker:     "taxon",
	}
}

// minFields returns the number of fields a row must have to be parseable
// under this layout.
func (l TableLayout) minFields() int {
	m := l.TaxonColumn
	for _, c := range []int{l.MetaboliteColumn, l.FluxColumn, l.DirectionColumn} {
		if c > m {
			m = c
		}
	}
	return m + 1
}

// Result holds the outcome of parsing one exchange table: the records in
// file order plus a warning for every row that could not be parsed.
type Result struct {
	Records  []Record
	Warnings []*RowError
}

// Parse reads an exchange table from r and returns the parsed records.
// Malformed rows (too few fields, non-numeric flux, unknown direction)
// are reported in Result.Warnings and do not abort the parse. An error
// is returned only when reading itself fails.
func Parse(r io.Reader, layout TableLayout) (*Result, error) {
	res := &Result{}
	need := layout.minFields()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		raw := strings.TrimRight(scanner.Text(), "\r\n")
		if raw == "" {
			continue
		}
		if layout.HeaderMarker != "" && strings.Contains(raw, layout.HeaderMarker) {
			continue
		}

		rec, err := parseRow(raw, layout, need)
		if err != nil {
			res.Warnings = append(res.Warnings, &RowError{Line: line, Row: raw, Err: err})
			continue
		}
		res.Records = append(res.Records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeSerializationIO, err, "read exchange table")
	}

	return res, nil
}

// ParseFile opens path and parses it with [Parse].
func ParseFile(path string, layout TableLayout) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSerializationIO, err, "open %s", path)
	}
	defer f.Close()
	return Parse(f, layout)
}

// parseRow converts one data row into a Record.
func parseRow(raw string, layout TableLayout, need int) (Record, error) {
	cols := strings.Split(raw, layout.Delimiter)
	if len(cols) < need {
		return Record{}, errors.New(errors.ErrCodeMalformedRow,
			"expected at least %d fields, got %d", need, len(cols))
	}

	flux, err := strconv.ParseFloat(strings.TrimSpace(cols[layout.FluxColumn]), 64)
	if err != nil {
		return Record{}, errors.New(errors.ErrCodeMalformedRow,
			"flux %q is not numeric", cols[layout.FluxColumn])
	}
	if flux < 0 {
		flux = -flux
	}

	dir := Direction(strings.TrimSpace(cols[layout.DirectionColumn]))
	if dir != Import && dir != Export {
		return Record{}, errors.New(errors.ErrCodeMalformedRow,
			"unknown direction %q", cols[layout.DirectionColumn])
	}

	taxon := strings.TrimSpace(cols[layout.TaxonColumn])
	if layout.TaxonSuffix != "" {
		taxon = strings.ReplaceAll(taxon, layout.TaxonSuffix, "")
	}
	metabolite := strings.TrimSpace(cols[layout.MetaboliteColumn])
	if layout.MetaboliteSuffix != "" {
		metabolite = strings.ReplaceAll(metabolite, layout.MetaboliteSuffix, "")
	}
	if relabeled, ok := layout.Relabel[metabolite]; ok {
		metabolite = relabeled
	}
	if taxon == "" || metabolite == "" {
		return Record{}, errors.New(errors.ErrCodeMalformedRow, "empty identifier")
	}

	return Record{
		Taxon:      taxon,
		Metabolite: metabolite,
		Direction:  dir,
		Flux:       flux,
	}, nil
}

// FormatWarnings renders row warnings for log output, capped at limit
// lines (0 means no cap).
func FormatWarnings(warnings []*RowError, limit int) string {
	if len(warnings) == 0 {
		return ""
	}
	var b strings.Builder
	for i, w := range warnings {
		if limit > 0 && i >= limit {
			fmt.Fprintf(&b, "... and %d more", len(warnings)-limit)
			break
		}
		b.WriteString(w.Error())
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
