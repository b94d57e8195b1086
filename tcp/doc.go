// Package tcp implements a deterministic two-endpoint TCP session model on
// top of the virtual-time simulator in package sim.
//
// The model is intentionally narrow: one sender streams a configured number
// of application bytes to one receiver over a fixed-delay path, with
// cumulative acknowledgments, duplicate-ack fast retransmit, NewReno fast
// recovery, and retransmission timeouts. Payload bytes are synthetic; only
// segment boundaries and lengths matter. What the package does guarantee is
// full control of the pieces a congestion-control verification harness needs:
//
//   - a pluggable CongestionControl capability installed on the sender before
//     the connection is established,
//   - an ErrorModel admission hook on the path toward the receiver,
//   - observation hooks for every segment transmitted and received by either
//     endpoint, and
//   - bit-for-bit reproducible runs for a fixed configuration.
package tcp
