package verify

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/simkit/tcpverify/seqnum"
	"github.com/simkit/tcpverify/tcp"
)

func TestDropSet(t *testing.T) {
	require := require.New(t)

	require.True(NewDropSet().IsEmpty())

	set := NewDropSet(2001, 4501)
	require.False(set.IsEmpty())
	require.Len(set.Values(), 2)
}

func TestSeqDropModelAdmit(t *testing.T) {
	require := require.New(t)

	seg := func(seq uint32) *tcp.Segment {
		return &tcp.Segment{Flags: tcp.FlagAck | tcp.FlagPsh, SeqNum: seqnum.Value(seq), DataLen: 500}
	}

	t.Run("Empty Set Admits Everything", func(t *testing.T) {
		m := NewSeqDropModel(NewDropSet())
		for _, s := range []uint32{1, 501, 2001} {
			require.True(m.Admit(seg(s)))
		}
	})

	t.Run("Drops Listed Sequence Exactly Once", func(t *testing.T) {
		m := NewSeqDropModel(NewDropSet(2001))

		require.True(m.Admit(seg(1501)))
		require.False(m.Admit(seg(2001)))
		// The retransmission is a distinct occurrence; with the single
		// entry consumed it is delivered.
		require.True(m.Admit(seg(2001)))
	})

	t.Run("Duplicate Entry Drops Twice", func(t *testing.T) {
		m := NewSeqDropModel(NewDropSet(2001, 2001))

		require.False(m.Admit(seg(2001)))
		require.False(m.Admit(seg(2001)))
		require.True(m.Admit(seg(2001)))
	})

	t.Run("Unrelated Segments Unaffected", func(t *testing.T) {
		m := NewSeqDropModel(NewDropSet(2001))

		require.True(m.Admit(seg(2000)))
		require.True(m.Admit(seg(2002)))
		require.False(m.Admit(seg(2001)))
	})
}
