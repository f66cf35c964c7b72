package tree

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func keysFrom(ss ...string) [][]byte {
	out := make([][]byte, len(ss))
	for i, s := range ss {
		out[i] = []byte(s)
	}
	return out
}

func TestBuild_SingleEmptyKey(t *testing.T) {
	root, err := Build(keysFrom(""), []int{42})
	require.NoError(t, err)

	got, ok := Find(root, []byte(""))
	require.True(t, ok)
	require.Equal(t, 42, got)

	_, ok = Find(root, []byte("x"))
	require.False(t, ok)
}

func TestBuild_Titles(t *testing.T) {
	titles := []string{"Mr Smith", "Mr Jones", "Ms Leonard", "Ms James", "Mrs Peabody", "Mr Smile"}
	payloads := []int{0, 1, 2, 3, 4, 5}

	root, err := Build(keysFrom(titles...), payloads)
	require.NoError(t, err)

	for i, title := range titles {
		got, ok := Find(root, []byte(title))
		require.True(t, ok, title)
		require.Equal(t, i, got, title)
	}

	_, ok := Find(root, []byte("Mr Smyth"))
	require.False(t, ok)
}

func TestBuild_DuplicateStringsReturnsError(t *testing.T) {
	keys := []string{"AB", "ABC", "AB", "ABCD", "ABCDE"}
	payloads := []int{0, 1, 2, 3, 4}

	_, err := Build(keysFrom(keys...), payloads)
	require.ErrorIs(t, err, ErrDuplicateKey)
}

func TestBuild_PrefixFamily1000Keys(t *testing.T) {
	n := 1000
	keys := make([][]byte, n)
	payloads := make([]int, n)
	for i := 0; i < n; i++ {
		keys[i] = []byte("PrefixString" + itoa(i))
		payloads[i] = i
	}

	root, err := Build(keys, payloads)
	require.NoError(t, err)

	for i := 0; i < n; i++ {
		got, ok := Find(root, keys[i])
		require.True(t, ok)
		require.Equal(t, i, got)
	}

	for i := n; i < n+100; i++ {
		_, ok := Find(root, []byte("PrefixString"+itoa(i)))
		require.False(t, ok)
	}

	eff := ComputeEfficiency(root)
	require.GreaterOrEqual(t, eff.SlotEfficiency, 0.70)
	require.LessOrEqual(t, eff.MaxComparisons, 3)
}

func TestBuild_Integers(t *testing.T) {
	values := []int64{1, 2, 3, 4, 5, 6, 7, 8, 9000, 100000}
	keys := make([][]byte, len(values))
	payloads := make([]int, len(values))
	for i, v := range values {
		keys[i] = int64BE(v)
		payloads[i] = i
	}

	root, err := Build(keys, payloads)
	require.NoError(t, err)

	for i, v := range values {
		got, ok := Find(root, int64BE(v))
		require.True(t, ok)
		require.Equal(t, i, got)
	}

	_, ok := Find(root, int64BE(0))
	require.False(t, ok)
	_, ok = Find(root, int64BE(9001))
	require.False(t, ok)
}

func TestBuild_SingleKey(t *testing.T) {
	root, err := Build(keysFrom("only"), []string{"payload"})
	require.NoError(t, err)
	require.Len(t, root.Slots, 1)
	require.True(t, root.Slots[0].IsLeaf())

	got, ok := Find(root, []byte("only"))
	require.True(t, ok)
	require.Equal(t, "payload", got)
}

func TestBuild_EmptyKeyAmongOthers(t *testing.T) {
	keys := keysFrom("", "a", "ab")
	payloads := []int{0, 1, 2}

	root, err := Build(keys, payloads)
	require.NoError(t, err)

	for i, k := range keys {
		got, ok := Find(root, k)
		require.True(t, ok)
		require.Equal(t, i, got)
	}
}

func TestDepthBound(t *testing.T) {
	n := 200
	keys := make([][]byte, n)
	payloads := make([]int, n)
	for i := range keys {
		keys[i] = []byte{byte(i % 251), byte(i / 251)}
		payloads[i] = i
	}
	root, err := Build(keys, payloads)
	require.NoError(t, err)

	eff := ComputeEfficiency(root)
	require.LessOrEqual(t, eff.MaxComparisons, maxLen(keys)+1)
}

func TestSlotCountBound(t *testing.T) {
	n := 300
	keys := make([][]byte, n)
	payloads := make([]int, n)
	for i := range keys {
		keys[i] = []byte{byte(i % 256), byte(i / 256)}
		payloads[i] = i
	}
	root, err := Build(keys, payloads)
	require.NoError(t, err)

	var walk func(node *Node[int])
	walk = func(node *Node[int]) {
		require.GreaterOrEqual(t, len(node.Slots), 1)
		require.LessOrEqual(t, len(node.Slots), 256)
		for i := range node.Slots {
			if node.Slots[i].IsBranch() {
				walk(node.Slots[i].Child())
			}
		}
	}
	walk(root)
}

func TestBuildIterative_MatchesBuild(t *testing.T) {
	n := 500
	keys := make([][]byte, n)
	payloads := make([]int, n)
	for i := range keys {
		keys[i] = []byte("PrefixString" + itoa(i))
		payloads[i] = i
	}

	root, err := BuildIterative(keys, payloads)
	require.NoError(t, err)

	for i := range keys {
		got, ok := Find(root, keys[i])
		require.True(t, ok)
		require.Equal(t, i, got)
	}

	want, err := Build(keys, payloads)
	require.NoError(t, err)
	require.Equal(t, want.Column, root.Column)
	require.Equal(t, want.Prime, root.Prime)
	require.Equal(t, want.SlotCount, root.SlotCount)
	require.Equal(t, ComputeEfficiency(want), ComputeEfficiency(root))
}

func TestDestroy_ClearsSlots(t *testing.T) {
	root, err := Build(keysFrom("a", "b", "c"), []int{1, 2, 3})
	require.NoError(t, err)

	Destroy(root)
	require.Nil(t, root.Slots)
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}

func int64BE(v int64) []byte {
	u := uint64(v)
	return []byte{
		byte(u >> 56), byte(u >> 48), byte(u >> 40), byte(u >> 32),
		byte(u >> 24), byte(u >> 16), byte(u >> 8), byte(u),
	}
}

func maxLen(keys [][]byte) int {
	m := 0
	for _, k := range keys {
		if len(k) > m {
			m = len(k)
		}
	}
	return m
}
