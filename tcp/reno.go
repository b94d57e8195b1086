package tcp

// Reno implements the NewReno congestion-control algorithm: slow start below
// the threshold, additive increase above it, and threshold halving on loss.
// It keeps no state of its own; everything lives in the shared SocketState.
type Reno struct{}

var _ CongestionControl = (*Reno)(nil)

// NewReno creates a NewReno congestion-control algorithm.
func NewReno() *Reno {
	return &Reno{}
}

// updateSlowStart grows the window by one segment per acknowledged segment.
// If the growth crosses the slow-start threshold, the window is clamped to
// the threshold and the segments left over are returned for congestion
// avoidance to consume.
func (r *Reno) updateSlowStart(state *SocketState, segmentsAcked int) int {
	newcwnd := state.Cwnd + segmentsAcked
	if newcwnd >= state.Ssthresh {
		newcwnd = state.Ssthresh
		state.AckCount = 0
	}
	segmentsAcked -= newcwnd - state.Cwnd
	state.Cwnd = newcwnd
	return segmentsAcked
}

// updateCongestionAvoidance grows the window by one segment per window of
// acknowledged data.
func (r *Reno) updateCongestionAvoidance(state *SocketState, segmentsAcked int) {
	state.AckCount += segmentsAcked
	if state.AckCount >= state.Cwnd {
		state.Cwnd += state.AckCount / state.Cwnd
		state.AckCount %= state.Cwnd
	}
}

// reduceSlowStartThreshold halves the threshold based on the amount of data
// in flight, with a floor of two segments.
func (r *Reno) reduceSlowStartThreshold(state *SocketState, outstanding int) {
	state.Ssthresh = outstanding / 2
	if state.Ssthresh < 2 {
		state.Ssthresh = 2
	}
}

// IncreaseWindow implements CongestionControl.IncreaseWindow.
func (r *Reno) IncreaseWindow(state *SocketState, segmentsAcked int) {
	if state.Cwnd < state.Ssthresh {
		segmentsAcked = r.updateSlowStart(state, segmentsAcked)
		if segmentsAcked == 0 {
			return
		}
	}
	r.updateCongestionAvoidance(state, segmentsAcked)
}

// SegmentsAcked implements CongestionControl.SegmentsAcked. NewReno keeps no
// per-acknowledgment state, so this is a no-op.
func (r *Reno) SegmentsAcked(state *SocketState, segmentsAcked int) {
}

// HandleNDupAcks implements CongestionControl.HandleNDupAcks.
func (r *Reno) HandleNDupAcks(state *SocketState, outstanding int) {
	r.reduceSlowStartThreshold(state, outstanding)
}

// HandleRTOExpired implements CongestionControl.HandleRTOExpired. The window
// collapses to one segment so the sender re-enters slow start.
func (r *Reno) HandleRTOExpired(state *SocketState, outstanding int) {
	r.reduceSlowStartThreshold(state, outstanding)
	state.Cwnd = 1
}

// PostRecovery implements CongestionControl.PostRecovery. The window
// deflates to the threshold set when recovery was entered.
func (r *Reno) PostRecovery(state *SocketState) {
	state.Cwnd = state.Ssthresh
	state.AckCount = 0
}
