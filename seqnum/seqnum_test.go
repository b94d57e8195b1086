package seqnum

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValueComparison(t *testing.T) {
	require := require.New(t)

	t.Run("LessThan", func(t *testing.T) {
		require.True(Value(10).LessThan(20))
		require.False(Value(20).LessThan(10))
		require.False(Value(10).LessThan(10))

		// Comparison wraps across the end of the sequence space.
		require.True(Value(math.MaxUint32 - 1).LessThan(2))
		require.False(Value(2).LessThan(math.MaxUint32 - 1))
	})

	t.Run("LessThanEq", func(t *testing.T) {
		require.True(Value(10).LessThanEq(10))
		require.True(Value(10).LessThanEq(11))
		require.False(Value(11).LessThanEq(10))
	})

	t.Run("InRange", func(t *testing.T) {
		require.True(Value(5).InRange(5, 10))
		require.True(Value(9).InRange(5, 10))
		require.False(Value(10).InRange(5, 10))
		require.False(Value(4).InRange(5, 10))

		// Range straddling the wraparound point.
		require.True(Value(1).InRange(math.MaxUint32-1, 5))
		require.False(Value(6).InRange(math.MaxUint32-1, 5))
	})
}

func TestValueArithmetic(t *testing.T) {
	require := require.New(t)

	require.Equal(Value(1500), Value(1000).Add(500))
	require.Equal(Value(3), Value(math.MaxUint32).Add(4))

	require.Equal(Size(500), Value(1000).Size(1500))
	require.Equal(Size(8), Value(math.MaxUint32-3).Size(4))
}
