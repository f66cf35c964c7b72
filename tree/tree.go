// Package tree implements the ACPH node/slot tree: the recursive
// construction that picks a discriminating byte column per node, and the
// traversal that answers lookups against the resulting structure.
package tree

import (
	"errors"

	"acph/column"
	"acph/internal/errutil"
	"acph/phash"
)

// ErrDuplicateKey is returned by Build when two input keys are
// byte-identical.
var ErrDuplicateKey = errors.New("acph/tree: duplicate key")

// slotKind discriminates a Slot's role. Go has no sum types, so the
// builder keeps an explicit discriminant alongside the count-based
// convention the spec allows, to stop a slot from being read as both leaf
// and branch at once.
type slotKind uint8

const (
	slotEmpty slotKind = iota
	slotLeaf
	slotBranch
)

// Slot is one entry in a node's table. Exactly one of key/payload (Leaf)
// or child (Branch) is populated, selected by kind.
type Slot[P any] struct {
	kind    slotKind
	byte    byte
	key     []byte // Leaf only: the complete key, not a suffix
	payload P       // Leaf only
	child   *Node[P] // Branch only
}

// Node is one interior node of the tree: a discriminating column, the
// chosen (prime, slot-count) perfect-hash parameters, and the slot table
// those parameters produce.
type Node[P any] struct {
	Column    int
	Prime     uint32
	SlotCount uint32 // zero-based; actual width is SlotCount+1
	Slots     []Slot[P]
}

// IsEmpty reports whether no key hashes to this slot.
func (s *Slot[P]) IsEmpty() bool { return s.kind == slotEmpty }

// IsLeaf reports whether exactly one key hashes to this slot.
func (s *Slot[P]) IsLeaf() bool { return s.kind == slotLeaf }

// IsBranch reports whether two or more keys hash to this slot, sharing a
// child node keyed by the next discriminating column.
func (s *Slot[P]) IsBranch() bool { return s.kind == slotBranch }

// Child returns the slot's child node, or nil if the slot is not a
// Branch.
func (s *Slot[P]) Child() *Node[P] {
	if s.kind != slotBranch {
		return nil
	}
	return s.child
}

// KeyLen returns the length of the stored leaf key, or 0 if the slot is
// not a Leaf.
func (s *Slot[P]) KeyLen() int {
	if s.kind != slotLeaf {
		return 0
	}
	return len(s.key)
}

// NewLeafSlot builds a Leaf slot for the given discriminating byte, key
// copy, and payload. It exists so callers outside this package (the
// single-column byte builder, which needs no recursive construction) can
// populate a node's slot table directly.
func NewLeafSlot[P any](b byte, key []byte, payload P) Slot[P] {
	return Slot[P]{
		kind:    slotLeaf,
		byte:    b,
		key:     append([]byte(nil), key...),
		payload: payload,
	}
}

// byteAt reads the byte at position col from key, substituting the
// virtual 0x00 pad byte when the key is too short.
func byteAt(key []byte, col int) byte {
	if col >= len(key) {
		return 0
	}
	return key[col]
}

// Build constructs the tree over keys and their parallel payloads. It
// returns ErrDuplicateKey if two keys are byte-identical, and also if two
// keys differ only by trailing 0x00 bytes (such as "a" and "a\x00"), since
// a missing byte reads as 0x00 during the column survey. keys must be
// non-empty and len(keys) == len(payloads); violating that is a caller
// bug, not a reportable error.
func Build[P any](keys [][]byte, payloads []P) (*Node[P], error) {
	errutil.BugOn(len(keys) == 0, "tree.Build called with zero keys")
	errutil.BugOn(len(keys) != len(payloads), "tree.Build: keys/payloads length mismatch")
	return build(keys, payloads)
}

func build[P any](keys [][]byte, payloads []P) (*Node[P], error) {
	n := len(keys)

	// 1. Column survey: find the column whose distribution is tightest.
	bestCol := -1
	var bestImage []byte
	var bestStats column.Stats

	for c := 0; ; c++ {
		image := make([]byte, n)
		allShort := true
		for i, k := range keys {
			image[i] = byteAt(k, c)
			if c < len(k) {
				allShort = false
			}
		}
		if allShort {
			// No key reaches column c: c is the termination rule's
			// last_column. The loop never surveys it.
			break
		}

		stats := column.Analyze(image)
		if bestCol == -1 || stats.MaxMultiplicity < bestStats.MaxMultiplicity {
			bestCol = c
			bestImage = image
			bestStats = stats
		}
	}

	// No column was ever surveyed: every key is the empty string. n>1
	// means they are all the same (empty) key; n==1 is the base case of a
	// one-node, one-leaf tree keyed on the virtual column.
	if bestCol == -1 {
		if n > 1 {
			return nil, ErrDuplicateKey
		}
		return &Node[P]{
			Column:    0,
			Prime:     phash.Primes[0],
			SlotCount: 0,
			Slots:     []Slot[P]{NewLeafSlot(0, keys[0], payloads[0])},
		}, nil
	}

	// 2. Duplicate detection: even the tightest column holds one byte
	// value for all n keys, so every key agrees at every surveyed column.
	// Keys that differ only by trailing 0x00 bytes read the same here
	// (a missing byte is the virtual 0x00) and are reported as duplicates.
	if bestStats.IsDegenerate(n) {
		return nil, ErrDuplicateKey
	}

	// 3. Node construction: select the perfect hash over the winning
	// column's byte image.
	cand := phash.Select(bestImage, bestStats.UniqueBytes, bestStats.MaxMultiplicity)
	if cand.SlotCount+1 < uint32(bestStats.UniqueBytes) {
		errutil.Bug("phash.Select returned %d slots for %d unique bytes", cand.SlotCount+1, bestStats.UniqueBytes)
	}

	node := &Node[P]{
		Column:    bestCol,
		Prime:     cand.Prime,
		SlotCount: cand.SlotCount,
		Slots:     make([]Slot[P], cand.SlotCount+1),
	}

	// 4. Slot population.
	for slot := uint32(0); slot <= cand.SlotCount; slot++ {
		count := cand.Counts[slot]
		if count == 0 {
			continue // Empty
		}

		b := cand.Bytes[slot]

		// Gather the subset of keys whose byte at node.Column is b.
		var groupKeys [][]byte
		var groupPayloads []P
		for i, img := range bestImage {
			if img == b {
				groupKeys = append(groupKeys, keys[i])
				groupPayloads = append(groupPayloads, payloads[i])
			}
		}

		if count == 1 {
			node.Slots[slot] = Slot[P]{
				kind:    slotLeaf,
				byte:    b,
				key:     append([]byte(nil), groupKeys[0]...),
				payload: groupPayloads[0],
			}
			continue
		}

		child, err := build(groupKeys, groupPayloads)
		if err != nil {
			return nil, err
		}
		node.Slots[slot] = Slot[P]{
			kind:  slotBranch,
			byte:  b,
			child: child,
		}
	}

	return node, nil
}

// Find traverses the tree rooted at node looking for key. It never
// allocates and never mutates the tree.
func Find[P any](node *Node[P], key []byte) (P, bool) {
	for {
		b := byteAt(key, node.Column)
		slot := phash.Hash(b, node.Prime, node.SlotCount)
		s := &node.Slots[slot]

		switch s.kind {
		case slotEmpty:
			var zero P
			return zero, false
		case slotLeaf:
			if bytesEqual(s.key, key) {
				return s.payload, true
			}
			var zero P
			return zero, false
		default: // slotBranch
			node = s.child
		}
	}
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Destroy releases the tree rooted at node. Go's garbage collector already
// reclaims unreachable memory, so Destroy's only real job is to sever
// Slots so a caller cannot accidentally keep using a "destroyed" tree —
// it mirrors the explicit post-order teardown the spec's lifecycle
// contract describes.
func Destroy[P any](node *Node[P]) {
	if node == nil {
		return
	}
	for i := range node.Slots {
		s := &node.Slots[i]
		switch s.kind {
		case slotBranch:
			Destroy(s.child)
			s.child = nil
		case slotLeaf:
			s.key = nil
		}
		s.kind = slotEmpty
	}
	node.Slots = nil
}

// Efficiency reports observability data derived from a single post-order
// walk of the tree: it is not used for correctness.
type Efficiency struct {
	SlotsUsed      int
	SlotsTotal     int
	SlotEfficiency float64
	MaxComparisons int
}

// ComputeEfficiency walks the tree once and reports slot occupancy and
// maximum root-to-leaf depth.
func ComputeEfficiency[P any](node *Node[P]) Efficiency {
	var e Efficiency
	walkEfficiency(node, 1, &e)
	if e.SlotsTotal > 0 {
		e.SlotEfficiency = float64(e.SlotsUsed) / float64(e.SlotsTotal)
	}
	return e
}

func walkEfficiency[P any](node *Node[P], depth int, e *Efficiency) {
	if depth > e.MaxComparisons {
		e.MaxComparisons = depth
	}
	e.SlotsTotal += len(node.Slots)
	for i := range node.Slots {
		s := &node.Slots[i]
		switch s.kind {
		case slotLeaf:
			e.SlotsUsed++
		case slotBranch:
			e.SlotsUsed++
			walkEfficiency(s.child, depth+1, e)
		}
	}
}
