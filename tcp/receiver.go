package tcp

import (
	"time"

	"github.com/simkit/tcpverify/logger"
	"github.com/simkit/tcpverify/seqnum"
	"github.com/simkit/tcpverify/sim"
)

// oooSegment is an out-of-order segment buffered until the hole before it
// fills.
type oooSegment struct {
	dataLen int
	fin     bool
}

// Receiver is the data-consuming endpoint of a session. It generates
// cumulative acknowledgments, acknowledges out-of-order arrivals
// immediately (duplicate acks), and otherwise follows the configured
// delayed-acknowledgment policy.
type Receiver struct {
	clock  *sim.Simulator
	out    func(*Segment)
	logger logger.Logger

	delAckCount   int
	delAckTimeout time.Duration

	irs    seqnum.Value
	rcvNxt seqnum.Value
	sndNxt seqnum.Value

	ooo     map[seqnum.Value]oooSegment
	pending int
	delAck  *sim.Timer

	received int64

	established bool
	finRcvd     bool
	finSent     bool
	finAcked    bool
}

func newReceiver(clock *sim.Simulator, delAckCount int, delAckTimeout time.Duration, log logger.Logger) *Receiver {
	r := &Receiver{
		clock:         clock,
		logger:        log.With("endpoint", RoleReceiver.String()),
		delAckCount:   delAckCount,
		delAckTimeout: delAckTimeout,
		ooo:           make(map[seqnum.Value]oooSegment),
	}
	r.delAck = clock.NewTimer(r.flushAck)
	return r
}

// ReceivedBytes returns the number of in-order data bytes consumed.
func (r *Receiver) ReceivedBytes() int64 {
	return r.received
}

func (r *Receiver) done() bool {
	return r.finRcvd && r.finSent && r.finAcked
}

// handleSegment processes one segment arriving at the receiver.
func (r *Receiver) handleSegment(seg *Segment) {
	if seg.Flags.Has(FlagSyn) {
		r.handleSyn(seg)
		return
	}
	if !r.established {
		return
	}

	if r.finSent && seg.Flags.Has(FlagAck) && seg.AckNum == r.sndNxt {
		r.finAcked = true
	}

	if seg.DataLen == 0 && !seg.Flags.Has(FlagFin) {
		// Pure acknowledgment; nothing to respond to.
		return
	}

	switch {
	case seg.SeqNum == r.rcvNxt:
		r.consume(seg.DataLen, seg.Flags.Has(FlagFin))
		merged := r.mergeBuffered()
		if merged || r.finRcvd || len(r.ooo) > 0 {
			r.flushAck()
			return
		}
		r.pending++
		if r.pending >= r.delAckCount || r.delAckTimeout <= 0 {
			r.flushAck()
		} else if !r.delAck.Armed() {
			r.delAck.Reset(r.delAckTimeout)
		}
	case r.rcvNxt.LessThan(seg.SeqNum):
		// A hole precedes this segment; buffer it and send an immediate
		// duplicate acknowledgment.
		r.ooo[seg.SeqNum] = oooSegment{dataLen: seg.DataLen, fin: seg.Flags.Has(FlagFin)}
		r.logger.Debug("out of order segment buffered", "seq", seg.SeqNum, "rcv_nxt", r.rcvNxt)
		r.sendAck()
	default:
		// Already-covered retransmission; re-announce rcvNxt.
		r.sendAck()
	}
}

func (r *Receiver) handleSyn(seg *Segment) {
	if !r.established {
		r.established = true
		r.irs = seg.SeqNum
		r.rcvNxt = seg.SeqNum.Add(1)
		r.logger.Debug("connection request", "irs", r.irs)
	}
	// A retransmitted SYN gets the same SYN-ACK again.
	r.out(&Segment{Flags: FlagSyn | FlagAck, SeqNum: 0, AckNum: r.rcvNxt})
	r.sndNxt = 1
}

func (r *Receiver) consume(dataLen int, fin bool) {
	r.received += int64(dataLen)
	r.rcvNxt = r.rcvNxt.Add(seqnum.Size(dataLen))
	if fin {
		r.finRcvd = true
		r.rcvNxt = r.rcvNxt.Add(1)
	}
}

// mergeBuffered consumes buffered segments that have become contiguous.
func (r *Receiver) mergeBuffered() bool {
	merged := false
	for {
		seg, ok := r.ooo[r.rcvNxt]
		if !ok {
			return merged
		}
		delete(r.ooo, r.rcvNxt)
		r.consume(seg.dataLen, seg.fin)
		merged = true
	}
}

// flushAck sends the pending cumulative acknowledgment, and the receiver's
// own FIN once the sender's FIN has been consumed.
func (r *Receiver) flushAck() {
	r.pending = 0
	r.delAck.Stop()
	r.sendAck()
	if r.finRcvd && !r.finSent {
		r.finSent = true
		r.out(&Segment{Flags: FlagFin | FlagAck, SeqNum: r.sndNxt, AckNum: r.rcvNxt})
		r.sndNxt = r.sndNxt.Add(1)
	}
}

func (r *Receiver) sendAck() {
	r.out(&Segment{Flags: FlagAck, SeqNum: r.sndNxt, AckNum: r.rcvNxt})
}
