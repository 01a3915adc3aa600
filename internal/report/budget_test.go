package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBudget_AddWithinLimit(t *testing.T) {
	b := NewBudget(10)
	require.True(t, b.Add("hello"))
	require.Equal(t, 5, b.Bytes())
	require.False(t, b.Exhausted())
}

func TestBudget_ExactFit(t *testing.T) {
	b := NewBudget(5)
	require.True(t, b.Add("hello"))
	require.Equal(t, 5, b.Bytes())
	require.False(t, b.Exhausted())
}

func TestBudget_ExhaustionIsStickyAndNonMutating(t *testing.T) {
	b := NewBudget(8)
	require.True(t, b.Add("hello"))

	require.False(t, b.Add("world"))
	require.Equal(t, 5, b.Bytes(), "rejected write must not consume budget")
	require.True(t, b.Exhausted())

	// Even a write that would fit on its own is vetoed after exhaustion.
	require.False(t, b.Add("x"))
	require.Equal(t, 5, b.Bytes())
}

func TestBudget_UTF8ByteLength(t *testing.T) {
	// "héllo" is 6 bytes in UTF-8, not 5 characters' worth.
	require.False(t, NewBudget(5).Add("héllo"))
	require.True(t, NewBudget(5).Add("hél")) // 4 bytes
}

func TestBudget_Monotonic(t *testing.T) {
	b := NewBudget(100)
	prev := 0
	for _, chunk := range []string{"a", "bb", "", "ccc", strings.Repeat("d", 200)} {
		b.Add(chunk)
		require.GreaterOrEqual(t, b.Bytes(), prev)
		prev = b.Bytes()
	}
}

func TestBudget_DefaultCeiling(t *testing.T) {
	b := NewBudget(0)
	require.Equal(t, DefaultMaxBytes, b.Max())
}
