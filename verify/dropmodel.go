package verify

import (
	"github.com/simkit/tcpverify/logger"
	"github.com/simkit/tcpverify/seqnum"
	"github.com/simkit/tcpverify/tcp"
)

// DropSet is an ordered multiset of sequence numbers to discard on the path
// toward the receiver. Each entry kills exactly one wire occurrence of its
// value: a retransmission of a dropped sequence number is delivered again
// unless the value appears in the set another time.
type DropSet struct {
	values []seqnum.Value
}

// NewDropSet builds a DropSet from the given sequence numbers. Listing a
// value n times drops its first n occurrences on the wire.
func NewDropSet(values ...seqnum.Value) DropSet {
	return DropSet{values: append([]seqnum.Value(nil), values...)}
}

// IsEmpty returns true if the set contains no entries.
func (d DropSet) IsEmpty() bool {
	return len(d.values) == 0
}

// Values returns a copy of the configured entries.
func (d DropSet) Values() []seqnum.Value {
	return append([]seqnum.Value(nil), d.values...)
}

// SeqDropModel implements tcp.ErrorModel: it discards every segment whose
// starting sequence number still has drop budget left, and admits everything
// else unchanged. Dropping is the designed behavior, not an error, so the
// model has no failure mode.
type SeqDropModel struct {
	budget map[seqnum.Value]int
	logger logger.Logger
}

var _ tcp.ErrorModel = (*SeqDropModel)(nil)

// NewSeqDropModel creates a drop model for one session. Models hold mutable
// budget state and must not be shared between sessions.
func NewSeqDropModel(set DropSet) *SeqDropModel {
	budget := make(map[seqnum.Value]int, len(set.values))
	for _, v := range set.values {
		budget[v]++
	}
	return &SeqDropModel{
		budget: budget,
		logger: logger.With("component", "seq-drop-model"),
	}
}

// Admit implements tcp.ErrorModel.Admit.
func (m *SeqDropModel) Admit(seg *tcp.Segment) bool {
	n, ok := m.budget[seg.SeqNum]
	if !ok || n == 0 {
		return true
	}
	m.budget[seg.SeqNum] = n - 1
	m.logger.Debug("killing segment", "seq", seg.SeqNum, "len", seg.DataLen, "remaining", n-1)
	return false
}
