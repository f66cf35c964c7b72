package tree

import (
	"acph/column"
	"acph/paramselect"
	"acph/phash"
)

// job is one pending subtree to construct, targeting a destination slot in
// an already-allocated parent (dest == nil for the root).
type job[P any] struct {
	keys     [][]byte
	payloads []P
	dest     *Slot[P]
}

// BuildIterative is semantics-equivalent to Build but replaces the
// recursive descent with an explicit work-stack, pre-sized in
// paramselect.BucketCount-style chunks. Construction and teardown are
// naturally recursive on the tree, and recursion depth tracks the maximum
// key length; callers working over very long or adversarial keys should
// use this variant to avoid growing the Go call stack one byte-column at a
// time.
func BuildIterative[P any](keys [][]byte, payloads []P) (*Node[P], error) {
	var root *Node[P]

	stackCap := paramselect.BucketCount(len(keys), 1) + 1
	stack := make([]job[P], 0, stackCap)
	stack = append(stack, job[P]{keys: keys, payloads: payloads, dest: nil})

	for len(stack) > 0 {
		j := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node, err := buildOneLevel(j.keys, j.payloads, &stack)
		if err != nil {
			return nil, err
		}
		if j.dest == nil {
			root = node
		} else {
			j.dest.kind = slotBranch
			j.dest.child = node
		}
	}

	return root, nil
}

// buildOneLevel performs steps 1-4 of the construction algorithm for a
// single node, pushing any Group slots onto stack as new jobs instead of
// recursing into them directly.
func buildOneLevel[P any](keys [][]byte, payloads []P, stack *[]job[P]) (*Node[P], error) {
	n := len(keys)

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
			break
		}

		stats := column.Analyze(image)
		if bestCol == -1 || stats.MaxMultiplicity < bestStats.MaxMultiplicity {
			bestCol = c
			bestImage = image
			bestStats = stats
		}
	}

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

	if bestStats.IsDegenerate(n) {
		return nil, ErrDuplicateKey
	}

	cand := phash.Select(bestImage, bestStats.UniqueBytes, bestStats.MaxMultiplicity)

	node := &Node[P]{
		Column:    bestCol,
		Prime:     cand.Prime,
		SlotCount: cand.SlotCount,
		Slots:     make([]Slot[P], cand.SlotCount+1),
	}

	for slot := uint32(0); slot <= cand.SlotCount; slot++ {
		count := cand.Counts[slot]
		if count == 0 {
			continue
		}

		b := cand.Bytes[slot]

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

		*stack = append(*stack, job[P]{
			keys:     groupKeys,
			payloads: groupPayloads,
			dest:     &node.Slots[slot],
		})
	}

	return node, nil
}
