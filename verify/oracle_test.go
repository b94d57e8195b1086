package verify

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOracleCheck(t *testing.T) {
	require := require.New(t)

	t.Run("Match", func(t *testing.T) {
		o := NewOracle("match", 500)
		require.NoError(o.Check(10002, 20))
		require.NoError(o.Check(10000, 20))
	})

	t.Run("Mismatch", func(t *testing.T) {
		o := NewOracle("mismatch case", 500)
		err := o.Check(10002, 19)
		require.ErrorIs(err, ErrAccountingMismatch)
		// The diagnostic carries the scenario description and both values.
		require.Contains(err.Error(), "mismatch case")
		require.Contains(err.Error(), "20")
		require.Contains(err.Error(), "19")
	})

	t.Run("Truncates Partial Final Segment", func(t *testing.T) {
		o := NewOracle("truncation", 500)
		// 9752 = 19 full segments, a 250-byte tail, plus the SYN and FIN
		// sequence numbers; integer division hides everything but the 19.
		require.NoError(o.Check(9752, 19))
		require.ErrorIs(o.Check(9752, 20), ErrAccountingMismatch)
	})

	t.Run("Zero Observation", func(t *testing.T) {
		o := NewOracle("zero", 500)
		require.NoError(o.Check(0, 0))
	})
}
