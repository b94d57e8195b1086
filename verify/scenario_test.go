package verify

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/simkit/tcpverify/seqnum"
	"github.com/simkit/tcpverify/tcp"
)

func TestRegistry(t *testing.T) {
	require := require.New(t)

	reg := NewRegistry()
	require.ErrorIs(reg.Register(Scenario{}), ErrEmptyDescription)

	require.NoError(reg.Register(Scenario{Desc: "b"}))
	require.NoError(reg.Register(Scenario{Desc: "a"}))
	require.ErrorIs(reg.Register(Scenario{Desc: "a"}), ErrDuplicateScenario)

	scenarios := reg.Scenarios()
	require.Len(scenarios, 2)
	require.Equal("a", scenarios[0].Desc)
	require.Equal("b", scenarios[1].Desc)
}

// TestDefaultSuite runs every shipped scenario; each registers as an
// independent named test case and passes when the oracle stays silent.
func TestDefaultSuite(t *testing.T) {
	reg, err := DefaultSuite()
	require.NoError(t, err)
	require.Len(t, reg.Scenarios(), 4)

	for _, s := range reg.Scenarios() {
		s := s
		t.Run(s.Desc, func(t *testing.T) {
			res, err := Run(s)
			require.NoError(t, err)
			require.Equal(t, res.ExpectedSegments, res.AccountingTotal)
		})
	}
}

func TestScenarioOpenState(t *testing.T) {
	require := require.New(t)

	res, err := Run(Scenario{Desc: "PktsAcked check while in OPEN state"})
	require.NoError(err)

	// 20 segments of 500 bytes, plus one sequence number each for SYN and
	// FIN, give a final cumulative acknowledgment of 10002.
	require.Equal(seqnum.Value(DefaultAppByteCount+2), res.ObservedAck)
	require.Equal(uint32(DefaultSegmentCount), res.ExpectedSegments)
	require.Equal(uint32(DefaultSegmentCount), res.AccountingTotal)

	// No loss, so the sender never left the open state.
	require.True(res.States.Has(tcp.CongStateOpen))
	require.False(res.States.Has(tcp.CongStateDisorder))
	require.False(res.States.Has(tcp.CongStateRecovery))
	require.False(res.States.Has(tcp.CongStateLoss))
}

func TestScenarioAllStates(t *testing.T) {
	require := require.New(t)

	res, err := Run(Scenario{
		Desc:  "PktsAcked check while in all the states",
		Drops: NewDropSet(2001),
	})
	require.NoError(err)

	// The invariant is state-agnostic: the equality holds even though the
	// dropped segment sent the connection through disorder and recovery.
	require.Equal(res.ExpectedSegments, res.AccountingTotal)
	require.Equal(uint32(DefaultSegmentCount), res.AccountingTotal)
	require.Equal(seqnum.Value(DefaultAppByteCount+2), res.ObservedAck)

	require.True(res.States.Has(tcp.CongStateDisorder))
	require.True(res.States.Has(tcp.CongStateRecovery))
}

func TestScenarioRetransmissionTimeout(t *testing.T) {
	require := require.New(t)

	// Dropping the final segment starves fast retransmit of duplicate
	// acks; only the retransmission timer can recover, through the loss
	// state.
	res, err := Run(Scenario{
		Desc:  "PktsAcked check with retransmission timeout",
		Drops: NewDropSet(9501),
	})
	require.NoError(err)

	require.Equal(res.ExpectedSegments, res.AccountingTotal)
	require.Equal(uint32(DefaultSegmentCount), res.AccountingTotal)
	require.True(res.States.Has(tcp.CongStateLoss))
}

func TestScenarioPartialFinalSegment(t *testing.T) {
	require := require.New(t)

	// 19.5 segments: the half-sized tail is truncated away on both sides
	// of the comparison, so the invariant holds at 19.
	res, err := Run(Scenario{
		Desc:         "PktsAcked check with partial final segment",
		AppByteCount: DefaultAppByteCount - DefaultSegmentSize/2,
	})
	require.NoError(err)

	require.Equal(seqnum.Value(DefaultAppByteCount-DefaultSegmentSize/2+2), res.ObservedAck)
	require.Equal(uint32(DefaultSegmentCount-1), res.ExpectedSegments)
	require.Equal(uint32(DefaultSegmentCount-1), res.AccountingTotal)
}

func TestScenarioIdempotence(t *testing.T) {
	require := require.New(t)

	s := Scenario{
		Desc:  "PktsAcked check while in all the states",
		Drops: NewDropSet(2001),
	}

	first, err := Run(s)
	require.NoError(err)
	second, err := Run(s)
	require.NoError(err)

	// The discrete-event schedule is deterministic, so two runs of the
	// same configuration are indistinguishable.
	require.Equal(first, second)
}
