package verify

import (
	"github.com/simkit/tcpverify/tcp"
)

// AckObserver receives the segment count of every accounting callback the
// TCP state machine makes into the wrapped congestion-control algorithm.
type AckObserver func(segmentsAcked int)

// InstrumentedControl wraps a congestion-control algorithm and forwards all
// control decisions to it unchanged, so window evolution is identical to
// running the wrapped algorithm bare. Its single additional side effect is
// reporting every SegmentsAcked count to the observer, before delegating.
type InstrumentedControl struct {
	inner    tcp.CongestionControl
	observer AckObserver
}

var _ tcp.CongestionControl = (*InstrumentedControl)(nil)

// NewInstrumentedControl creates an adapter around inner. The observer is
// mandatory: an adapter nobody listens to has no reason to exist.
func NewInstrumentedControl(inner tcp.CongestionControl, observer AckObserver) (*InstrumentedControl, error) {
	if inner == nil {
		return nil, ErrNilControl
	}
	if observer == nil {
		return nil, ErrNilObserver
	}
	return &InstrumentedControl{inner: inner, observer: observer}, nil
}

// IncreaseWindow implements tcp.CongestionControl.IncreaseWindow.
func (c *InstrumentedControl) IncreaseWindow(state *tcp.SocketState, segmentsAcked int) {
	c.inner.IncreaseWindow(state, segmentsAcked)
}

// SegmentsAcked implements tcp.CongestionControl.SegmentsAcked. The exact
// count is reported to the observer, then handed to the wrapped algorithm.
func (c *InstrumentedControl) SegmentsAcked(state *tcp.SocketState, segmentsAcked int) {
	c.observer(segmentsAcked)
	c.inner.SegmentsAcked(state, segmentsAcked)
}

// HandleNDupAcks implements tcp.CongestionControl.HandleNDupAcks.
func (c *InstrumentedControl) HandleNDupAcks(state *tcp.SocketState, outstanding int) {
	c.inner.HandleNDupAcks(state, outstanding)
}

// HandleRTOExpired implements tcp.CongestionControl.HandleRTOExpired.
func (c *InstrumentedControl) HandleRTOExpired(state *tcp.SocketState, outstanding int) {
	c.inner.HandleRTOExpired(state, outstanding)
}

// PostRecovery implements tcp.CongestionControl.PostRecovery.
func (c *InstrumentedControl) PostRecovery(state *tcp.SocketState) {
	c.inner.PostRecovery(state)
}
