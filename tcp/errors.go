package tcp

import "errors"

var (
	// ErrConfigInvalid indicates that a session configuration field is out
	// of range.
	ErrConfigInvalid = errors.New("invalid session config")

	// ErrNilCongestionControl indicates that a session was constructed
	// without a congestion-control algorithm.
	ErrNilCongestionControl = errors.New("congestion control is nil")

	// ErrSessionStalled indicates that the event queue drained before the
	// session reached quiescence, i.e. some endpoint is waiting for a
	// segment that will never arrive.
	ErrSessionStalled = errors.New("session stalled before quiescence")

	// ErrSessionRunning indicates that a configuration mutator was called
	// after Run started the session.
	ErrSessionRunning = errors.New("session already running")
)
