package verify

import (
	"github.com/simkit/tcpverify/seqnum"
	"github.com/simkit/tcpverify/tcp"
)

// WireObserver watches segments delivered to the sender and records the
// acknowledgment number of the latest non-handshake segment. At session end
// the stored value is the highest cumulative byte offset the receiver
// confirmed; no filtering of duplicate or partial acknowledgments is done,
// the final value is authoritative.
type WireObserver struct {
	lastAck seqnum.Value
	seen    bool
}

// NewWireObserver creates an observer with no recorded acknowledgment.
func NewWireObserver() *WireObserver {
	return &WireObserver{}
}

// Observe is a tcp.RxHook; register it with Session.OnReceive.
func (o *WireObserver) Observe(seg *tcp.Segment, who tcp.Role) {
	if who != tcp.RoleSender || seg.Flags.Has(tcp.FlagSyn) {
		return
	}
	o.lastAck = seg.AckNum
	o.seen = true
}

// AckNumber returns the most recently observed acknowledgment number, or
// zero if none was seen.
func (o *WireObserver) AckNumber() seqnum.Value {
	return o.lastAck
}

// Seen reports whether any acknowledgment was observed.
func (o *WireObserver) Seen() bool {
	return o.seen
}
