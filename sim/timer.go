package sim

import "time"

// Timer is a restartable virtual-time timer. Cancellation is lazy: a stopped
// or reset timer leaves its old event in the queue, and the event checks the
// timer's generation before firing. This keeps the event queue append-only,
// so the simulator can always drain it.
type Timer struct {
	s     *Simulator
	fn    func()
	gen   uint64
	armed bool
}

// NewTimer creates a stopped timer that invokes fn on expiry.
func (s *Simulator) NewTimer(fn func()) *Timer {
	return &Timer{s: s, fn: fn}
}

// Reset arms the timer to fire after the given virtual delay, superseding
// any earlier arming.
func (t *Timer) Reset(delay time.Duration) {
	t.gen++
	t.armed = true
	gen := t.gen
	t.s.Schedule(delay, func() {
		if !t.armed || t.gen != gen {
			return
		}
		t.armed = false
		t.fn()
	})
}

// Stop disarms the timer. Events already queued become no-ops.
func (t *Timer) Stop() {
	t.gen++
	t.armed = false
}

// Armed reports whether the timer is currently armed.
func (t *Timer) Armed() bool {
	return t.armed
}
