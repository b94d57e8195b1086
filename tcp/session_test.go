package tcp

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/simkit/tcpverify/seqnum"
)

func TestSessionConfigValidation(t *testing.T) {
	require := require.New(t)

	_, err := NewSession(Config{MSS: 0, AppByteCount: 100}, NewReno())
	require.ErrorIs(err, ErrConfigInvalid)

	_, err = NewSession(Config{MSS: 500, AppByteCount: 0}, NewReno())
	require.ErrorIs(err, ErrConfigInvalid)

	_, err = NewSession(Config{MSS: 500, AppByteCount: 100}, nil)
	require.ErrorIs(err, ErrNilCongestionControl)

	sess, err := NewSession(Config{MSS: 500, AppByteCount: 100}, NewReno())
	require.NoError(err)
	require.Equal(1, sess.Config().DelAckCount)
	require.NotZero(sess.Config().Delay)
	require.NotZero(sess.Config().TimeLimit)
}

func TestSessionLossFreeTransfer(t *testing.T) {
	require := require.New(t)

	const mss = 500
	const appBytes = 20 * mss

	sess, err := NewSession(Config{MSS: mss, AppByteCount: appBytes}, NewReno())
	require.NoError(err)

	var lastAckAtSender seqnum.Value
	sess.OnReceive(func(seg *Segment, who Role) {
		if who == RoleSender && !seg.Flags.Has(FlagSyn) {
			lastAckAtSender = seg.AckNum
		}
	})

	finalChecked := false
	sess.OnFinalChecks(func() { finalChecked = true })

	require.NoError(sess.Run())
	require.True(finalChecked)

	require.EqualValues(appBytes, sess.Receiver().ReceivedBytes())
	require.EqualValues(appBytes, sess.Sender().AckedBytes())

	// SYN and FIN each consume one sequence number, so the final
	// cumulative acknowledgment sits two past the data.
	require.Equal(seqnum.Value(appBytes+2), lastAckAtSender)

	// Without loss the sender never leaves the open state.
	states := sess.Sender().VisitedStates()
	require.True(states.Has(CongStateOpen))
	require.False(states.Has(CongStateDisorder))
	require.False(states.Has(CongStateRecovery))
	require.False(states.Has(CongStateLoss))
	require.True(sess.Sender().CongState().IsOpen())
}

// singleDrop discards the first wire occurrence of one sequence number.
type singleDrop struct {
	seq  seqnum.Value
	done bool
}

func (d *singleDrop) Admit(seg *Segment) bool {
	if !d.done && seg.SeqNum == d.seq {
		d.done = true
		return false
	}
	return true
}

func TestSessionRecoversFromLoss(t *testing.T) {
	require := require.New(t)

	const mss = 500
	const appBytes = 20 * mss

	sess, err := NewSession(Config{MSS: mss, AppByteCount: appBytes}, NewReno())
	require.NoError(err)
	require.NoError(sess.SetErrorModel(&singleDrop{seq: 2001}))

	require.NoError(sess.Run())
	require.EqualValues(appBytes, sess.Receiver().ReceivedBytes())
	require.EqualValues(appBytes, sess.Sender().AckedBytes())

	states := sess.Sender().VisitedStates()
	require.True(states.Has(CongStateDisorder))
	require.True(states.Has(CongStateRecovery))
	// The connection drains back in the open state.
	require.True(sess.Sender().CongState().IsOpen())
}

func TestSessionTailLossTakesRTOPath(t *testing.T) {
	require := require.New(t)

	const mss = 500
	const appBytes = 20 * mss

	sess, err := NewSession(Config{MSS: mss, AppByteCount: appBytes}, NewReno())
	require.NoError(err)
	// Dropping the last segment leaves no segments behind it to generate
	// duplicate acks, so only the retransmission timer can recover.
	require.NoError(sess.SetErrorModel(&singleDrop{seq: 9501}))

	require.NoError(sess.Run())
	require.EqualValues(appBytes, sess.Receiver().ReceivedBytes())
	require.True(sess.Sender().VisitedStates().Has(CongStateLoss))
}

func TestSessionErrorModelAfterRun(t *testing.T) {
	require := require.New(t)

	sess, err := NewSession(Config{MSS: 500, AppByteCount: 500}, NewReno())
	require.NoError(err)
	require.NoError(sess.Run())
	require.ErrorIs(sess.SetErrorModel(&singleDrop{seq: 1}), ErrSessionRunning)
}

func TestSessionDeterminism(t *testing.T) {
	require := require.New(t)

	run := func() (int64, CongStateSet, int64) {
		sess, err := NewSession(Config{MSS: 500, AppByteCount: 10000}, NewReno())
		require.NoError(err)
		require.NoError(sess.SetErrorModel(&singleDrop{seq: 2001}))
		require.NoError(sess.Run())
		return sess.Sender().AckedBytes(), sess.Sender().VisitedStates(), int64(sess.Elapsed())
	}

	acked1, states1, elapsed1 := run()
	acked2, states2, elapsed2 := run()
	require.Equal(acked1, acked2)
	require.Equal(states1, states2)
	require.Equal(elapsed1, elapsed2)
}
