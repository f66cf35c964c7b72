package acph

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildStrings_Titles(t *testing.T) {
	titles := []string{"Mr Smith", "Mr Jones", "Ms Leonard", "Ms James", "Mrs Peabody", "Mr Smile"}
	payloads := []int{0, 1, 2, 3, 4, 5}

	tr, err := BuildStrings(titles, payloads)
	require.NoError(t, err)
	defer tr.Destroy()

	for i, title := range titles {
		got, ok := tr.FindString(title)
		require.True(t, ok)
		require.Equal(t, i, got)
	}

	_, ok := tr.FindString("Mr Smyth")
	require.False(t, ok)
}

func TestBuildStrings_SingleEmptyKey(t *testing.T) {
	tr, err := BuildStrings([]string{""}, []int{42})
	require.NoError(t, err)

	got, ok := tr.FindString("")
	require.True(t, ok)
	require.Equal(t, 42, got)

	_, ok = tr.FindString("x")
	require.False(t, ok)

	eff := tr.Efficiency()
	require.Equal(t, 1, eff.SlotsUsed)
}

func TestBuildStrings_DuplicateReturnsError(t *testing.T) {
	keys := []string{"AB", "ABC", "AB", "ABCD", "ABCDE"}
	_, err := BuildStrings(keys, []int{0, 1, 2, 3, 4})
	require.ErrorIs(t, err, ErrDuplicateKey)
}

func TestBuildStrings_LengthMismatch(t *testing.T) {
	_, err := BuildStrings([]string{"a", "b"}, []int{1})
	require.ErrorIs(t, err, ErrLengthMismatch)
}

func TestBuildBytesSingleColumn_FullAlphabet(t *testing.T) {
	keys := make([]byte, 256)
	payloads := make([]byte, 256)
	for i := range keys {
		keys[i] = byte(i)
		payloads[i] = byte(i)
	}

	tr := BuildBytesSingleColumn(keys, payloads)
	require.Equal(t, uint32(255), tr.Root().SlotCount)

	for i := 0; i < 256; i++ {
		got, ok := tr.Find([]byte{byte(i)})
		require.True(t, ok)
		require.Equal(t, byte(i), got)
	}
}

func TestBuildBytesSingleColumn_DuplicatesKeepLastOccurrence(t *testing.T) {
	keys := []byte{'a', 'b', 'a'}
	payloads := []int{10, 20, 30}

	tr := BuildBytesSingleColumn(keys, payloads)

	got, ok := tr.Find([]byte{'a'})
	require.True(t, ok)
	require.Equal(t, 30, got)

	got, ok = tr.Find([]byte{'b'})
	require.True(t, ok)
	require.Equal(t, 20, got)
}

func TestBuildInt64(t *testing.T) {
	values := []int64{1, 2, 3, 4, 5, 6, 7, 8, 9000, 100000}
	payloads := make([]int, len(values))
	for i := range payloads {
		payloads[i] = i
	}

	tr, err := BuildInt64(values, payloads)
	require.NoError(t, err)

	for i, v := range values {
		got, ok := tr.FindInt64(v)
		require.True(t, ok)
		require.Equal(t, i, got)
	}

	_, ok := tr.FindInt64(0)
	require.False(t, ok)
	_, ok = tr.FindInt64(9001)
	require.False(t, ok)
}

func TestBuildDouble(t *testing.T) {
	values := []float64{1.5, -2.25, 0, 3.14159, 1e10}
	payloads := make([]int, len(values))
	for i := range payloads {
		payloads[i] = i
	}

	tr, err := BuildDouble(values, payloads)
	require.NoError(t, err)

	for i, v := range values {
		got, ok := tr.FindDouble(v)
		require.True(t, ok)
		require.Equal(t, i, got)
	}

	_, ok := tr.FindDouble(2.71828)
	require.False(t, ok)
}

func TestBuildBytes_ZeroKeys(t *testing.T) {
	tr, err := BuildBytes[int](nil, nil)
	require.NoError(t, err)

	_, ok := tr.Find([]byte("anything"))
	require.False(t, ok)
}

func TestTree_NilReceiverIsSafe(t *testing.T) {
	var tr *Tree[int]
	_, ok := tr.Find([]byte("x"))
	require.False(t, ok)
	tr.Destroy()
}
