// Package eventq provides the ordered event queue backing the discrete-event
// simulator. Events are dequeued in strictly non-decreasing activation-time
// order; events with equal activation times are dequeued in the order they
// were enqueued.
package eventq

import "container/heap"

// Event is a single scheduled callback.
type Event struct {
	// At is the virtual activation time in nanoseconds.
	At int64
	// Fn is invoked when the event is dequeued and dispatched.
	Fn func()

	seq uint64
}

// Queue is a two-key priority queue of events, ordered by activation time
// and, within one activation time, by insertion order.
type Queue struct {
	items eventHeap
	seq   uint64
}

// New creates an empty Queue with the given preallocated capacity.
func New(prealloc int) *Queue {
	return &Queue{items: make(eventHeap, 0, prealloc)}
}

// Push adds an event activating at the given virtual time.
func (q *Queue) Push(at int64, fn func()) {
	q.seq++
	heap.Push(&q.items, Event{At: at, Fn: fn, seq: q.seq})
}

// Pop removes and returns the earliest event. The second return value is
// false if the queue is empty.
func (q *Queue) Pop() (Event, bool) {
	if len(q.items) == 0 {
		return Event{}, false
	}
	return heap.Pop(&q.items).(Event), true
}

// Peek returns the earliest event without removing it. The second return
// value is false if the queue is empty.
func (q *Queue) Peek() (Event, bool) {
	if len(q.items) == 0 {
		return Event{}, false
	}
	return q.items[0], true
}

// Reset resets the queue to an empty state.
func (q *Queue) Reset() {
	q.items = q.items[:0]
}

// IsEmpty returns true if the queue is empty, false otherwise.
func (q *Queue) IsEmpty() bool {
	return len(q.items) == 0
}

// Length returns the number of pending events.
func (q *Queue) Length() int {
	return len(q.items)
}

type eventHeap []Event

func (h eventHeap) Len() int { return len(h) }

func (h eventHeap) Less(i, j int) bool {
	if h[i].At != h[j].At {
		return h[i].At < h[j].At
	}
	return h[i].seq < h[j].seq
}

func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *eventHeap) Push(x any) { *h = append(*h, x.(Event)) }

func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	ev := old[n-1]
	*h = old[:n-1]
	return ev
}
