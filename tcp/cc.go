package tcp

// CongestionControl is the capability a congestion-control algorithm must
// implement to govern the sender's window. All methods receive the shared
// SocketState and mutate it in place; none of them transmit anything.
//
// The interface separates window growth (IncreaseWindow) from acknowledgment
// accounting (SegmentsAcked): the sender invokes SegmentsAcked on every
// cumulative acknowledgment advance regardless of congestion state, while
// IncreaseWindow is withheld during fast recovery, where the sender manages
// window inflation itself.
type CongestionControl interface {
	// IncreaseWindow grows the congestion window in response to newly
	// acknowledged segments, in slow start or congestion avoidance.
	IncreaseWindow(state *SocketState, segmentsAcked int)

	// SegmentsAcked informs the algorithm how many segments the most recent
	// cumulative acknowledgment newly covered. It is invoked in every
	// congestion state and is a pure accounting hook; algorithms that keep
	// no per-acknowledgment state implement it as a no-op.
	SegmentsAcked(state *SocketState, segmentsAcked int)

	// HandleNDupAcks is invoked when the duplicate-ack threshold is reached,
	// just before the sender enters fast retransmit. outstanding is the
	// number of segments in flight.
	HandleNDupAcks(state *SocketState, outstanding int)

	// HandleRTOExpired is invoked when the retransmission timer expires.
	// outstanding is the number of segments in flight.
	HandleRTOExpired(state *SocketState, outstanding int)

	// PostRecovery is invoked when the sender leaves fast recovery, giving
	// the algorithm a chance to deflate the window.
	PostRecovery(state *SocketState)
}
