package exchange

// DefaultHiddenMetabolites lists common inorganic compounds that are
// hidden from exchange graphs unless explicitly requested. These carry
// little trophic information and connect to almost every taxon, which
// turns rendered graphs into hairballs.
//
// The list is a default, not module state: callers copy it into their
// own hide set (see [HiddenMetaboliteSet]) so concurrent builds with
// different visibility rules never interfere.
var DefaultHiddenMetabolites = []string{
	"h",
	"h2",
	"btn",
	"ca2",
	"cl",
	"co2",
	"cu2",
	"fe2",
	"fe3",
	"k",
	"no2",
	"no3",
	"so4",
	"thm",
	"zn2",
	"pi",
	"h2o",
	"h2o2",
	"o2",
	"cobalt2",
	"nh4",
	"hco3",
	"mg2",
	"mn2",
}

// HiddenMetaboliteSet returns a fresh set containing the default hidden
// metabolites plus any extras. The returned map is owned by the caller.
func HiddenMetaboliteSet(extra ...string) map[string]bool {
	set := make(map[string]bool, len(DefaultHiddenMetabolites)+len(extra))
	for _, m := range DefaultHiddenMetabolites {
		set[m] = true
	}
	for _, m := range extra {
		set[m] = true
	}
	return set
}
