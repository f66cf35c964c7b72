// Package acph implements Adaptive Columnar Perfect Hashing: a
// precomputed lookup structure over a static set of byte-string keys.
// Construction builds a tree that discriminates on one byte column per
// node using a per-node perfect hash; lookup is branch-light and bounded
// by the tree's depth, typically 1-3 byte comparisons for realistic
// datasets.
//
// ACPH is not an incremental dictionary: once built, a Tree cannot be
// modified. There is no persistence, no ordering over keys, and no
// defense against adversarial key sets - the per-node hash is keyed by a
// small prime, not a cryptographic function.
package acph

import (
	"encoding/binary"
	"errors"
	"math"

	"acph/internal/errutil"
	"acph/tree"
)

// ErrDuplicateKey is returned by the Build* functions when two input keys
// are byte-identical.
var ErrDuplicateKey = tree.ErrDuplicateKey

// ErrLengthMismatch is returned when the keys and payloads slices passed
// to a Build* function have different lengths.
var ErrLengthMismatch = errors.New("acph: keys and payloads length mismatch")

// Tree is a built ACPH lookup structure over keys with payloads of type P.
type Tree[P any] struct {
	root *tree.Node[P]
}

// Efficiency reports observability data about a built tree: slot
// occupancy and maximum lookup depth. It has no bearing on correctness.
type Efficiency = tree.Efficiency

// BuildBytes builds a tree over n byte-slice keys with parallel payloads.
// It returns ErrDuplicateKey if two keys are byte-identical or differ only
// by trailing 0x00 bytes, and ErrLengthMismatch if
// len(keys) != len(payloads). Building over zero
// keys returns a tree that never finds anything.
func BuildBytes[P any](keys [][]byte, payloads []P) (*Tree[P], error) {
	if len(keys) != len(payloads) {
		return nil, ErrLengthMismatch
	}
	if len(keys) == 0 {
		return &Tree[P]{}, nil
	}

	root, err := tree.Build(keys, payloads)
	if err != nil {
		return nil, err
	}
	return &Tree[P]{root: root}, nil
}

// BuildStrings forwards to BuildBytes after viewing each string as its
// byte image. Go strings are not NUL-terminated, so no length probe is
// needed - this is a direct widening, not a scan.
func BuildStrings[P any](keys []string, payloads []P) (*Tree[P], error) {
	byteKeys := make([][]byte, len(keys))
	for i, k := range keys {
		byteKeys[i] = []byte(k)
	}
	return BuildBytes(byteKeys, payloads)
}

// BuildInt64 forwards to BuildBytes using the big-endian machine byte
// image of each integer. Lookup on the resulting tree must use the same
// byte image FindInt64 produces; this is a caller obligation, not a
// correctness hazard of the algorithm.
func BuildInt64[P any](keys []int64, payloads []P) (*Tree[P], error) {
	byteKeys := make([][]byte, len(keys))
	for i, k := range keys {
		var buf [8]byte
		binary.BigEndian.PutUint64(buf[:], uint64(k))
		byteKeys[i] = buf[:]
	}
	return BuildBytes(byteKeys, payloads)
}

// BuildDouble forwards to BuildBytes using the big-endian machine byte
// image of the IEEE-754 bit pattern of each double.
func BuildDouble[P any](keys []float64, payloads []P) (*Tree[P], error) {
	byteKeys := make([][]byte, len(keys))
	for i, k := range keys {
		var buf [8]byte
		binary.BigEndian.PutUint64(buf[:], math.Float64bits(k))
		byteKeys[i] = buf[:]
	}
	return BuildBytes(byteKeys, payloads)
}

// BuildBytesSingleColumn builds a single-node tree treating keys as n
// one-byte keys. Unlike BuildBytes, duplicate byte values are not an
// error: each byte value keeps the payload of its last occurrence in
// input order, matching the natural "byte -> payload" mapping this path
// exists for.
func BuildBytesSingleColumn[P any](keys []byte, payloads []P) *Tree[P] {
	errutil.BugOn(len(keys) != len(payloads), "BuildBytesSingleColumn: keys/payloads length mismatch")

	root := &tree.Node[P]{
		Column:    0,
		Prime:     2,
		SlotCount: 255,
		Slots:     make([]tree.Slot[P], 256),
	}
	for i, b := range keys {
		root.Slots[b] = tree.NewLeafSlot(b, []byte{b}, payloads[i])
	}
	return &Tree[P]{root: root}
}

// Find looks up key in the tree. It never allocates and never mutates the
// tree, and is safe for unbounded concurrent callers.
func (t *Tree[P]) Find(key []byte) (P, bool) {
	if t == nil || t.root == nil {
		var zero P
		return zero, false
	}
	return tree.Find(t.root, key)
}

// FindString looks up the byte image of key.
func (t *Tree[P]) FindString(key string) (P, bool) {
	return t.Find([]byte(key))
}

// FindInt64 looks up the big-endian byte image of key. The tree must have
// been built with BuildInt64 (or an equivalent byte image) for this to be
// meaningful.
func (t *Tree[P]) FindInt64(key int64) (P, bool) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(key))
	return t.Find(buf[:])
}

// FindDouble looks up the big-endian byte image of the IEEE-754 bit
// pattern of key.
func (t *Tree[P]) FindDouble(key float64) (P, bool) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], math.Float64bits(key))
	return t.Find(buf[:])
}

// Destroy releases the tree. It is idempotent and safe to call on a tree
// built over zero keys.
func (t *Tree[P]) Destroy() {
	if t == nil {
		return
	}
	tree.Destroy(t.root)
	t.root = nil
}

// Efficiency reports slot occupancy and maximum lookup depth for the
// tree, computed by a single post-order walk.
func (t *Tree[P]) Efficiency() Efficiency {
	if t == nil || t.root == nil {
		return Efficiency{}
	}
	return tree.ComputeEfficiency(t.root)
}

// Root exposes the underlying tree node for diagnostics tooling. It is
// nil for a tree built over zero keys.
func (t *Tree[P]) Root() *tree.Node[P] {
	if t == nil {
		return nil
	}
	return t.root
}
