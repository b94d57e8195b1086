package tcp

import (
	"time"

	"github.com/simkit/tcpverify/logger"
	"github.com/simkit/tcpverify/seqnum"
	"github.com/simkit/tcpverify/sim"
)

const (
	// dupAckThreshold is the number of duplicate acknowledgments required
	// before fast retransmit is entered.
	dupAckThreshold = 3

	// initialRTO is the retransmission timeout before any backoff.
	initialRTO = 200 * time.Millisecond
)

// flightSegment tracks one transmitted, not yet acknowledged segment.
type flightSegment struct {
	seq     seqnum.Value
	dataLen int
	fin     bool
}

func (f flightSegment) logicalLen() seqnum.Size {
	l := seqnum.Size(f.dataLen)
	if f.fin {
		l++
	}
	return l
}

// fastRecovery holds the NewReno fast-recovery bookkeeping.
type fastRecovery struct {
	active bool
	// first is the earliest unacknowledged sequence number when recovery
	// was entered; duplicate acks for it inflate the window.
	first seqnum.Value
	// last is the highest sequence number transmitted when recovery was
	// entered; an acknowledgment beyond it ends recovery.
	last seqnum.Value
	// maxCwnd caps window inflation during recovery.
	maxCwnd int
}

// Sender is the data-transmitting endpoint of a session.
type Sender struct {
	clock  *sim.Simulator
	out    func(*Segment)
	logger logger.Logger

	mss    int
	unsent int

	iss    seqnum.Value
	sndUna seqnum.Value
	sndNxt seqnum.Value
	rcvNxt seqnum.Value

	state   SocketState
	visited CongStateSet
	cc      CongestionControl

	dupAcks     int
	fr          fastRecovery
	lossRecover seqnum.Value

	inFlight   []flightSegment
	ackedBytes int64

	rto      time.Duration
	rtoTimer *sim.Timer

	established bool
	finSent     bool
	finAcked    bool
	peerFinSeen bool
}

func newSender(clock *sim.Simulator, cc CongestionControl, mss, appBytes int, log logger.Logger) *Sender {
	s := &Sender{
		clock:  clock,
		logger: log.With("endpoint", RoleSender.String()),
		mss:    mss,
		unsent: appBytes,
		state:  newSocketState(),
		cc:     cc,
		rto:    initialRTO,
	}
	s.visited.add(CongStateOpen)
	s.rtoTimer = clock.NewTimer(s.retransmitTimerExpired)
	return s
}

// CongState returns the sender's current congestion state.
func (s *Sender) CongState() CongState {
	return s.state.Cong
}

// VisitedStates returns the set of congestion states visited so far.
func (s *Sender) VisitedStates() CongStateSet {
	return s.visited
}

// AckedBytes returns the cumulative number of acknowledged data bytes.
func (s *Sender) AckedBytes() int64 {
	return s.ackedBytes
}

// done reports whether the sender has delivered everything and both FINs
// have been processed.
func (s *Sender) done() bool {
	return s.established && s.finSent && s.finAcked && s.peerFinSeen
}

// connect starts the three-way handshake.
func (s *Sender) connect() {
	s.sndUna = s.iss
	s.sndNxt = s.iss.Add(1)
	s.output(&Segment{Flags: FlagSyn, SeqNum: s.iss})
	s.rtoTimer.Reset(s.rto)
}

func (s *Sender) setCongState(cs CongState) {
	if s.state.Cong == cs {
		return
	}
	s.logger.Debug("congestion state change", "prev_state", s.state.Cong, "new_state", cs, "cwnd", s.state.Cwnd, "ssthresh", s.state.Ssthresh)
	s.state.Cong = cs
	s.visited.add(cs)
}

// handleSegment processes one segment arriving at the sender.
func (s *Sender) handleSegment(seg *Segment) {
	if seg.Flags.Has(FlagSyn | FlagAck) {
		s.handleSynAck(seg)
		return
	}
	if !s.established || !seg.Flags.Has(FlagAck) {
		return
	}

	if seg.Flags.Has(FlagFin) && seg.SeqNum == s.rcvNxt {
		s.rcvNxt = s.rcvNxt.Add(seg.logicalLen())
		s.peerFinSeen = true
	}

	ack := seg.AckNum
	switch {
	case ack.InRange(s.sndUna.Add(1), s.sndNxt.Add(1)):
		s.handleAck(ack)
	case ack == s.sndUna:
		s.checkDuplicateAck(seg)
	}

	if seg.Flags.Has(FlagFin) {
		s.sendAck()
	}
	s.sendData()
}

func (s *Sender) handleSynAck(seg *Segment) {
	if s.established {
		return
	}
	s.established = true
	s.rcvNxt = seg.SeqNum.Add(1)
	s.sndUna = seg.AckNum
	s.rtoTimer.Stop()
	s.rto = initialRTO
	s.logger.Debug("connection established", "iss", s.iss, "irs", seg.SeqNum)
	s.sendAck()
	s.sendData()
}

// handleAck processes a cumulative acknowledgment that advances sndUna.
func (s *Sender) handleAck(ack seqnum.Value) {
	acked := s.sndUna.Size(ack)
	s.sndUna = ack

	// Pop acknowledged segments off the retransmit queue. FIN entries carry
	// no data but consume one sequence number.
	ackLeft := acked
	dataAcked := 0
	for ackLeft > 0 && len(s.inFlight) > 0 {
		fs := s.inFlight[0]
		l := fs.logicalLen()
		if l > ackLeft {
			fs.seq = fs.seq.Add(ackLeft)
			fs.dataLen -= int(ackLeft)
			dataAcked += int(ackLeft)
			s.inFlight[0] = fs
			ackLeft = 0
			break
		}
		dataAcked += fs.dataLen
		if fs.fin {
			s.finAcked = true
		}
		s.inFlight = s.inFlight[1:]
		ackLeft -= l
	}

	// Accounting happens in every congestion state. The remainder is
	// carried between acknowledgments so a partial final segment counts
	// exactly once, when its last byte is covered.
	prevSegs := s.ackedBytes / int64(s.mss)
	s.ackedBytes += int64(dataAcked)
	newSegs := int(s.ackedBytes/int64(s.mss) - prevSegs)
	if newSegs > 0 {
		s.cc.SegmentsAcked(&s.state, newSegs)
	}

	rtx := false
	if s.fr.active {
		if s.fr.last.LessThan(ack) {
			s.leaveFastRecovery()
		} else {
			// Partial ack: the next hole is retransmitted and the window
			// deflates by the amount acknowledged, plus one for the
			// segment going back on the wire.
			s.fr.first = ack
			s.state.Cwnd -= newSegs - 1
			if s.state.Cwnd < 1 {
				s.state.Cwnd = 1
			}
			s.dupAcks = 0
			rtx = true
		}
	} else {
		switch s.state.Cong {
		case CongStateDisorder:
			s.setCongState(CongStateOpen)
		case CongStateLoss:
			if s.lossRecover.LessThan(ack) {
				s.setCongState(CongStateOpen)
			} else if len(s.inFlight) > 0 {
				rtx = true
			}
		}
		s.cc.IncreaseWindow(&s.state, newSegs)
		s.dupAcks = 0
	}

	if len(s.inFlight) > 0 {
		s.rtoTimer.Reset(s.rto)
	} else {
		s.rtoTimer.Stop()
		s.rto = initialRTO
	}

	if rtx {
		s.resendSegment()
	}
}

// checkDuplicateAck manages duplicate-ack state according to the NewReno
// rules and triggers fast retransmit at the threshold.
func (s *Sender) checkDuplicateAck(seg *Segment) {
	ack := seg.AckNum
	if s.fr.active {
		// Inflate the window by one segment for every duplicate ack for
		// the retransmitted hole.
		if seg.DataLen == 0 && ack == s.fr.first && s.state.Cwnd < s.fr.maxCwnd {
			s.state.Cwnd++
		}
		return
	}

	// A duplicate must carry no data and must not acknowledge everything
	// in flight.
	if seg.DataLen != 0 || seg.Flags.Has(FlagFin) || ack == s.sndNxt || len(s.inFlight) == 0 {
		s.dupAcks = 0
		return
	}

	s.dupAcks++
	if s.dupAcks < dupAckThreshold {
		if s.state.Cong == CongStateOpen {
			s.setCongState(CongStateDisorder)
		}
		return
	}

	s.cc.HandleNDupAcks(&s.state, len(s.inFlight))
	s.enterFastRecovery()
	s.dupAcks = 0
	s.resendSegment()
	s.rtoTimer.Reset(s.rto)
}

func (s *Sender) enterFastRecovery() {
	s.fr.active = true
	s.fr.first = s.sndUna
	s.fr.last = s.sndNxt - 1 // highest transmitted sequence number
	// Inflate by three for the segments that triggered the duplicate acks
	// and have left the network.
	s.state.Cwnd = s.state.Ssthresh + dupAckThreshold
	s.fr.maxCwnd = s.state.Cwnd + len(s.inFlight)
	s.setCongState(CongStateRecovery)
}

func (s *Sender) leaveFastRecovery() {
	s.fr.active = false
	s.fr.maxCwnd = 0
	s.dupAcks = 0
	s.cc.PostRecovery(&s.state)
	s.setCongState(CongStateOpen)
}

// retransmitTimerExpired fires when no acknowledgment arrived in time.
func (s *Sender) retransmitTimerExpired() {
	if !s.established {
		// The SYN was lost; try again.
		s.output(&Segment{Flags: FlagSyn, SeqNum: s.iss})
		s.rto *= 2
		s.rtoTimer.Reset(s.rto)
		return
	}
	if len(s.inFlight) == 0 {
		return
	}

	s.logger.Debug("retransmission timeout", "snd_una", s.sndUna, "outstanding", len(s.inFlight), "rto", s.rto)

	if s.fr.active {
		s.fr.active = false
		s.dupAcks = 0
	}

	s.rto *= 2
	s.cc.HandleRTOExpired(&s.state, len(s.inFlight))
	s.lossRecover = s.sndNxt - 1
	s.setCongState(CongStateLoss)
	s.resendSegment()
	s.rtoTimer.Reset(s.rto)
}

// resendSegment retransmits the earliest unacknowledged segment.
func (s *Sender) resendSegment() {
	if len(s.inFlight) == 0 {
		return
	}
	fs := s.inFlight[0]
	flags := FlagAck | FlagPsh
	if fs.fin {
		flags = FlagAck | FlagFin
	}
	s.logger.Debug("retransmit", "seq", fs.seq, "len", fs.dataLen)
	s.output(&Segment{Flags: flags, SeqNum: fs.seq, AckNum: s.rcvNxt, DataLen: fs.dataLen})
}

// sendData transmits as much new data as the congestion window allows, then
// a FIN once everything has been sent and acknowledged.
func (s *Sender) sendData() {
	if !s.established {
		return
	}

	for s.unsent > 0 && len(s.inFlight) < s.state.Cwnd {
		n := s.unsent
		if n > s.mss {
			n = s.mss
		}
		s.inFlight = append(s.inFlight, flightSegment{seq: s.sndNxt, dataLen: n})
		s.output(&Segment{Flags: FlagAck | FlagPsh, SeqNum: s.sndNxt, AckNum: s.rcvNxt, DataLen: n})
		s.sndNxt = s.sndNxt.Add(seqnum.Size(n))
		s.unsent -= n
	}

	if s.unsent == 0 && len(s.inFlight) == 0 && !s.finSent {
		s.finSent = true
		s.inFlight = append(s.inFlight, flightSegment{seq: s.sndNxt, fin: true})
		s.output(&Segment{Flags: FlagAck | FlagFin, SeqNum: s.sndNxt, AckNum: s.rcvNxt})
		s.sndNxt = s.sndNxt.Add(1)
	}

	if len(s.inFlight) > 0 && !s.rtoTimer.Armed() {
		s.rtoTimer.Reset(s.rto)
	}
}

func (s *Sender) sendAck() {
	s.output(&Segment{Flags: FlagAck, SeqNum: s.sndNxt, AckNum: s.rcvNxt})
}

func (s *Sender) output(seg *Segment) {
	s.out(seg)
}
