// Package exchange reads per-organism metabolite exchange tables and
// prepares them for graph construction.
//
// An exchange table is a delimited text file where each row records one
// taxon importing or exporting one metabolite at some flux. The package
// provides two stages:
//
//  1. Parse: read rows into normalized [Record] values, stripping
//     species and compartment suffixes and collecting malformed rows as
//     warnings instead of aborting.
//  2. Filter: discard low-magnitude interactions using an absolute flux
//     floor or a percentile keyword ("top10", "top20").
//
// Both stages are pure functions over their inputs; callers may run them
// concurrently on independent tables.
package exchange
