// Package paramselect provides small numeric bookkeeping helpers shared by
// the diagnostics package and the iterative tree builder: picking the
// tightest integer width for a count, sizing buckets for a pre-sized
// explicit work-stack, and a generic running-maximum helper for the
// frequency-table scans in column and phash.
package paramselect

import (
	"acph/internal/errutil"

	"golang.org/x/exp/constraints"
)

// Supported integer widths, in bits, ascending.
const (
	Width8  = 8
	Width16 = 16
	Width32 = 32
	Width64 = 64
)

// widthCeilings pairs each supported width with the largest unsigned value
// it can hold; WidthForMaxValue walks this table looking for the first
// width whose ceiling covers the request.
var widthCeilings = [...]struct {
	width   int
	ceiling uint64
}{
	{Width8, 0xFF},
	{Width16, 0xFFFF},
	{Width32, 0xFFFFFFFF},
	{Width64, ^uint64(0)},
}

// WidthForMaxValue returns the minimum unsigned integer width (in bits)
// required to represent every value in [0, maxInclusive].
func WidthForMaxValue(maxInclusive uint64) int {
	for _, wc := range widthCeilings {
		if maxInclusive <= wc.ceiling {
			return wc.width
		}
	}
	return Width64
}

// WidthForCountWithSentinel returns the minimum width (in bits) that can
// hold indices [0, count-1] plus one sentinel value equal to count itself
// - the convention diag uses for "no such slot" markers.
func WidthForCountWithSentinel(count int) int {
	errutil.BugOn(count < 0, "count must be non-negative, got %d", count)
	return WidthForMaxValue(uint64(count))
}

// WidthCandidates returns every supported width >= minBits, ascending.
func WidthCandidates(minBits int) []int {
	errutil.BugOn(minBits <= 0, "minBits must be positive, got %d", minBits)

	var out []int
	for _, wc := range widthCeilings {
		if wc.width >= minBits {
			out = append(out, wc.width)
		}
	}
	return out
}

// BucketCount returns ceil(totalItems / bucketSize): the number of
// fixed-size chunks the iterative tree builder pre-sizes its explicit
// work-stack in, rather than growing it one node at a time.
func BucketCount(totalItems, bucketSize int) int {
	errutil.BugOn(totalItems < 0, "totalItems must be non-negative, got %d", totalItems)
	errutil.BugOn(bucketSize <= 0, "bucketSize must be positive, got %d", bucketSize)
	if totalItems == 0 {
		return 0
	}
	return (totalItems + bucketSize - 1) / bucketSize
}

// Max returns the larger of a and b. column's byte-frequency scan and
// phash's per-slot score both track a running maximum over a fixed-size
// table; Max spares each of them the two-line branch.
func Max[T constraints.Ordered](a, b T) T {
	if a > b {
		return a
	}
	return b
}
