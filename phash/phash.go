// Package phash implements the byte-hash kernel and the perfect-hash
// selector at the core of ACPH's node construction: given the byte values
// occupying one column of the remaining keys, find the smallest table and
// prime that routes every distinct byte value to its own slot.
package phash

import "acph/paramselect"

// Primes is the fixed, ascending candidate list the selector walks for each
// table size. The order is part of the construction contract: it is what
// makes Select deterministic and reproducible for a given input.
var Primes = [...]uint32{
	2, 3, 5, 7, 11, 13, 17, 19, 23, 29,
	31, 37, 41, 43, 47, 53, 59, 61, 67, 71,
	73, 79, 83, 89, 97, 101, 103, 107, 113, 127,
	131, 137, 149, 151, 157, 163, 167, 173, 211, 223,
	227, 229, 233, 239, 241, 251,
}

// NaturalSlotCount is the zero-based slot count (255, i.e. 256 actual
// slots) at which Hash degenerates to the identity function. A 256-slot
// identity table can never have a false positive, so it is the selector's
// guaranteed fallback.
const NaturalSlotCount = 255

// Hash computes the slot index for byte b under prime a and zero-based
// slot count m (the table has m+1 actual slots). At m == NaturalSlotCount
// the hash is the identity on b; otherwise it is
// (((a-1) XOR b) * a) mod (m+1), carried out in 32-bit arithmetic so the
// multiply cannot overflow before the modulus.
func Hash(b byte, a uint32, m uint32) uint32 {
	if m == NaturalSlotCount {
		return uint32(b)
	}
	return (((a - 1) ^ uint32(b)) * a) % (m + 1)
}

// Candidate is a selected (prime, slot-count) pair together with the
// per-slot byte counts produced by routing the input array under it.
type Candidate struct {
	Prime     uint32
	SlotCount uint32 // zero-based; actual table width is SlotCount+1
	// Counts holds, for each slot 0..SlotCount, the number of input bytes
	// that hash there, and Bytes holds the (arbitrary, since all inputs
	// sharing a slot under a perfect hash share a byte value) byte value
	// that produced that count. Counts[s] == 0 means the slot is empty.
	Counts [256]uint32
	Bytes  [256]byte
}

// Select finds the smallest (prime, slot-count) pair that routes every
// value in col to a distinct slot with no false positives — two different
// byte values landing in the same slot. uniqueBytes and maxMultiplicity
// come from the column analyzer: uniqueBytes lower-bounds the smallest
// feasible table, and maxMultiplicity is the best achievable score (no
// hash can separate two occurrences of the same byte value).
//
// Select always succeeds: at worst it falls back to the 256-slot identity
// table, which is collision-free by construction.
func Select(col []byte, uniqueBytes, maxMultiplicity int) Candidate {
	var best Candidate
	bestScore := -1

	minM := uniqueBytes - 1
	if minM < 0 {
		minM = 0
	}

	for m := minM; m <= NaturalSlotCount; m++ {
		if m == NaturalSlotCount {
			// Guaranteed fallback: identity hash, never a false positive.
			cand := routeIdentity(col)
			if bestScore == -1 {
				best = cand
				bestScore = maxMultiplicity
			}
			return best
		}

		for _, a := range Primes {
			cand, score, ok := route(col, a, uint32(m))
			if !ok {
				continue // false positive: two distinct bytes in one slot
			}
			if bestScore == -1 || score < bestScore {
				best = cand
				bestScore = score
			}
			if bestScore == maxMultiplicity {
				return best
			}
		}
	}

	return best
}

// route simulates placing every byte of col into the (a, m) table. It
// returns ok == false the moment two distinct byte values collide in the
// same slot. The returned score is the heaviest per-slot occupancy
// (counting duplicate-byte collisions, which are not false positives).
func route(col []byte, a, m uint32) (Candidate, int, bool) {
	var cand Candidate
	cand.Prime = a
	cand.SlotCount = m

	var seenByte [256]bool
	var occupied [256]bool

	for _, b := range col {
		slot := Hash(b, a, m)
		switch {
		case !occupied[slot]:
			occupied[slot] = true
			seenByte[slot] = true
			cand.Bytes[slot] = b
			cand.Counts[slot] = 1
		case cand.Bytes[slot] != b:
			return Candidate{}, 0, false
		default:
			cand.Counts[slot]++
		}
	}

	score := 0
	for s := uint32(0); s <= m; s++ {
		score = paramselect.Max(score, int(cand.Counts[s]))
	}
	return cand, score, true
}

// routeIdentity builds the 256-slot natural-hash table. It cannot fail.
func routeIdentity(col []byte) Candidate {
	cand, _, _ := route(col, 1, NaturalSlotCount)
	// a is irrelevant at m == NaturalSlotCount since Hash ignores it, but
	// Select's fallback still records a real prime for the node to store.
	cand.Prime = Primes[0]
	return cand
}
