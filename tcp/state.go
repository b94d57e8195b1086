package tcp

import "math"

// CongState represents the congestion-control state of the sender.
type CongState uint32

// Sender congestion states. The sender starts in CongStateOpen and moves
// through the others in response to out-of-order acknowledgments and loss.
const (
	// CongStateOpen indicates normal operation with in-order acknowledgments.
	CongStateOpen CongState = iota
	// CongStateDisorder indicates duplicate acknowledgments have been seen
	// but the fast-retransmit threshold has not been reached.
	CongStateDisorder
	// CongStateRecovery indicates a fast retransmit has been sent and the
	// sender is in NewReno fast recovery.
	CongStateRecovery
	// CongStateLoss indicates a retransmission timeout has fired and the
	// sender is rebuilding its window from scratch.
	CongStateLoss
)

// IsOpen returns true if the current state is the open state.
func (cs CongState) IsOpen() bool { return cs == CongStateOpen }

// String returns the string representation of the congestion state.
func (cs CongState) String() string {
	switch cs {
	case CongStateOpen:
		return "open"
	case CongStateDisorder:
		return "disorder"
	case CongStateRecovery:
		return "recovery"
	case CongStateLoss:
		return "loss"
	default:
		return "unknown"
	}
}

// CongStateSet is the set of congestion states a sender has visited during
// one session.
type CongStateSet uint32

// Has reports whether the set contains the given state.
func (s CongStateSet) Has(cs CongState) bool {
	return s&(1<<cs) != 0
}

func (s *CongStateSet) add(cs CongState) {
	*s |= 1 << cs
}

// InitialCwnd is the initial congestion window, in segments.
const InitialCwnd = 1

// InitialSsthresh is the initial slow-start threshold, in segments. It is
// effectively unbounded so the first loss event sets the real value.
const InitialSsthresh = math.MaxInt32

// SocketState holds the congestion variables shared between the sender and
// its congestion-control algorithm. Every CongestionControl method receives
// a pointer to it; algorithms mutate the window and threshold in place.
type SocketState struct {
	// Cwnd is the congestion window, in segments.
	Cwnd int
	// Ssthresh is the slow-start threshold, in segments.
	Ssthresh int
	// AckCount accumulates acknowledged segments during congestion
	// avoidance until a full window has been covered.
	AckCount int
	// Cong is the current congestion state.
	Cong CongState
}

func newSocketState() SocketState {
	return SocketState{
		Cwnd:     InitialCwnd,
		Ssthresh: InitialSsthresh,
		Cong:     CongStateOpen,
	}
}
