// Package verify checks one correctness invariant of the TCP sender's
// congestion-control feedback path: every acknowledged data segment triggers
// exactly one segments-acknowledged accounting callback into the active
// congestion-control algorithm.
//
// The check is deliberately state-agnostic. A scenario configures a set of
// sequence numbers to drop on the way to the receiver, runs a session to
// quiescence, and then compares two independently derived values: the number
// of segments implied by the last cumulative acknowledgment observed on the
// wire at the sender, and the total reported by an instrumented adapter
// wrapped around the congestion-control algorithm. Because both derivations
// are oblivious to how acknowledgments arrived, the same equality validates
// the open, disorder, recovery, and loss paths alike.
package verify
