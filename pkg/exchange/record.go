package exchange

import "fmt"

// Direction indicates whether a taxon takes up or secretes a metabolite.
type Direction string

const (
	// Import means the taxon consumes the metabolite (metabolite → taxon).
	Import Direction = "import"
	// Export means the taxon secretes the metabolite (taxon → metabolite).
	Export Direction = "export"
)

// Record is one normalized interaction from an exchange table.
// Identifiers have their suffixes stripped and Flux is always a
// magnitude; the sign of the original value is encoded in Direction.
type Record struct {
	Taxon      string
	Metabolite string
	Direction  Direction
	Flux       float64
}

// RowError describes a malformed input row. Rows that cannot be parsed
// are collected as RowError warnings and parsing continues.
type RowError struct {
	Line int    // 1-based line number in the input
	Row  string // offending row content
	Err  error  // what went wrong
}

// Error implements the error interface.
func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: %v: %q", e.Line, e.Err, e.Row)
}

// Unwrap returns the underlying parse failure.
func (e *RowError) Unwrap() error { return e.Err }
