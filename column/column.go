// Package column implements the column analyzer: a linear scan over one
// byte column of a key set that reports the distribution the perfect-hash
// selector needs to bound its search.
package column

import "acph/paramselect"

// Stats is the distribution of byte values across a column: the number of
// distinct values present and the largest number of times any single value
// repeats.
type Stats struct {
	UniqueBytes     int
	MaxMultiplicity int
}

// Analyze scans col once and returns its distribution. Running time is
// linear in len(col); it uses a fixed 256-entry frequency table rather than
// a map, since the domain is bounded to a single byte.
func Analyze(col []byte) Stats {
	var freq [256]int
	for _, b := range col {
		freq[b]++
	}

	var stats Stats
	for _, c := range freq {
		if c == 0 {
			continue
		}
		stats.UniqueBytes++
		stats.MaxMultiplicity = paramselect.Max(stats.MaxMultiplicity, c)
	}
	return stats
}

// IsDegenerate reports whether every value in the column is the same byte
// (max multiplicity equals the column length) — the tree builder's signal
// that this column carries no discriminating information for n>1 keys.
func (s Stats) IsDegenerate(n int) bool {
	return n > 1 && s.UniqueBytes == 1 && s.MaxMultiplicity == n
}
