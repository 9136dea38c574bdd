package exchange

import (
	"math"
	"slices"
	"strconv"

	"github.com/microbeflow/crossfeed/pkg/errors"
)

// Percentile keywords accepted by [ParseCutoff].
const (
	CutoffTop10 = "top10" // keep the top 10% of interactions by flux
	CutoffTop20 = "top20" // keep the top 20% of interactions by flux
)

// Cutoff selects which interactions survive filtering.
// The zero value keeps everything.
type Cutoff struct {
	absolute   float64
	percentage float64
	mode       cutoffMode
}

type cutoffMode int

const (
	cutoffNone cutoffMode = iota
	cutoffAbsolute
	cutoffPercentile
)

// NoCutoff keeps all interactions.
func NoCutoff() Cutoff { return Cutoff{} }

// AbsoluteCutoff drops interactions with flux magnitude below floor.
func AbsoluteCutoff(floor float64) Cutoff {
	return Cutoff{mode: cutoffAbsolute, absolute: floor}
}

// ParseCutoff interprets a cutoff literal from configuration: empty
// keeps everything, a number is an absolute floor, and "top10"/"top20"
// keep the top percentile of interactions. Any other string returns an
// INVALID_CUTOFF error carrying the literal.
func ParseCutoff(s string) (Cutoff, error) {
	switch s {
	case "":
		return NoCutoff(), nil
	case CutoffTop10:
		return Cutoff{mode: cutoffPercentile, percentage: 0.1}, nil
	case CutoffTop20:
		return Cutoff{mode: cutoffPercentile, percentage: 0.2}, nil
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return AbsoluteCutoff(v), nil
	}
	return Cutoff{}, errors.New(errors.ErrCodeInvalidCutoff,
		"invalid flux cutoff %q (must be a number, %q or %q)", s, CutoffTop10, CutoffTop20)
}

// IsZero reports whether the cutoff keeps all interactions.
func (c Cutoff) IsZero() bool { return c.mode == cutoffNone }

// String returns the configuration literal for the cutoff.
func (c Cutoff) String() string {
	switch c.mode {
	case cutoffAbsolute:
		return strconv.FormatFloat(c.absolute, 'g', -1, 64)
	case cutoffPercentile:
		if c.percentage == 0.1 {
			return CutoffTop10
		}
		return CutoffTop20
	default:
		return "none"
	}
}

// Filter returns the interactions surviving the cutoff, sorted by flux
// magnitude descending (stable: ties keep their input order).
//
// For a percentile cutoff the flux at rank max(1, floor(N×p)) becomes an
// inclusive floor, so when several interactions tie exactly at that
// value more than the nominal percentage can survive. This matches the
// documented filtering contract and is not a bug.
func (c Cutoff) Filter(records []Record) []Record {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b Record) int {
		switch {
		case a.Flux > b.Flux:
			return -1
		case a.Flux < b.Flux:
			return 1
		default:
			return 0
		}
	})

	switch c.mode {
	case cutoffNone:
		return sorted
	case cutoffAbsolute:
		return keepAtLeast(sorted, c.absolute)
	case cutoffPercentile:
		if len(sorted) == 0 {
			return sorted
		}
		idx := int(math.Floor(float64(len(sorted)) * c.percentage))
		if idx < 1 {
			idx = 1
		}
		floor := sorted[idx-1].Flux
		return keepAtLeast(sorted, floor)
	default:
		return sorted
	}
}

// keepAtLeast keeps the leading run of records with flux ≥ floor.
// The input is sorted descending, so survivors form a prefix.
func keepAtLeast(sorted []Record, floor float64) []Record {
	cut := len(sorted)
	for i, r := range sorted {
		if r.Flux < floor {
			cut = i
			break
		}
	}
	return sorted[:cut]
}
