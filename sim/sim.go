// Package sim implements a single-threaded discrete-event simulator with a
// virtual clock. All scheduled callbacks run one at a time in strictly
// non-decreasing virtual-time order; callbacks scheduled for the same instant
// run in scheduling order. A fixed schedule therefore always produces an
// identical execution, which is what makes the protocol scenarios built on
// top of it reproducible.
package sim

import (
	"errors"
	"fmt"
	"time"

	"github.com/simkit/tcpverify/internal/eventq"
)

// ErrTimeLimit is returned by Run when the virtual clock reaches the time
// limit while events are still pending.
var ErrTimeLimit = errors.New("simulation time limit reached")

// Simulator owns the virtual clock and the event queue.
type Simulator struct {
	queue *eventq.Queue
	now   int64
}

// New creates a Simulator with the virtual clock at zero.
func New() *Simulator {
	return &Simulator{queue: eventq.New(64)}
}

// Now returns the current virtual time.
func (s *Simulator) Now() time.Duration {
	return time.Duration(s.now)
}

// Schedule arranges for fn to run after the given virtual delay.
// A negative delay is treated as zero.
func (s *Simulator) Schedule(delay time.Duration, fn func()) {
	if delay < 0 {
		delay = 0
	}
	s.queue.Push(s.now+int64(delay), fn)
}

// Run dispatches events until the queue drains or the virtual clock would
// pass limit, in which case it returns ErrTimeLimit with the number of
// pending events.
func (s *Simulator) Run(limit time.Duration) error {
	for {
		ev, ok := s.queue.Pop()
		if !ok {
			return nil
		}
		if ev.At > int64(limit) {
			return fmt.Errorf("%w: %v elapsed, %d events pending", ErrTimeLimit, s.Now(), s.queue.Length()+1)
		}
		s.now = ev.At
		ev.Fn()
	}
}

// Pending returns the number of events waiting in the queue.
func (s *Simulator) Pending() int {
	return s.queue.Length()
}
