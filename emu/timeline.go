package emu

import (
	"cmp"
	"slices"
)

// An Event is anything scheduled at a clock tick.
type Event interface {
	EventTick() uint64
}

// A Timeline is an ordered sequence of events, consumed front to back.
type Timeline interface {
	Name() string

	// Next returns the tick of the next pending event, ok is false once the
	// timeline is exhausted.
	Next() (tick uint64, ok bool)

	// Dispatch fires the next pending event and consumes it, even if firing
	// fails.
	Dispatch() error

	Pending() int
	Dispatched() int
}

// Queue is a Timeline over a slice of events, each fired with a handler.
// Events must already be sorted, Queue doesn't reorder them.
type Queue[E Event] struct {
	name   string
	events []E
	idx    int
	fire   func(E) error
}

// NewQueue returns a timeline dispatching events to fire.
func NewQueue[E Event](name string, events []E, fire func(E) error) *Queue[E] {
	return &Queue[E]{name: name, events: events, fire: fire}
}

func (q *Queue[E]) Name() string { return q.name }

func (q *Queue[E]) Next() (uint64, bool) {
	if q.idx >= len(q.events) {
		return 0, false
	}
	return q.events[q.idx].EventTick(), true
}

func (q *Queue[E]) Dispatch() error {
	ev := q.events[q.idx]
	q.idx++
	return q.fire(ev)
}

func (q *Queue[E]) Pending() int    { return len(q.events) - q.idx }
func (q *Queue[E]) Dispatched() int { return q.idx }

// Events returns all the events of the queue, dispatched or not.
func (q *Queue[E]) Events() []E { return q.events }

// SortEvents sorts events by tick. Events sharing a tick keep their order.
func SortEvents[E Event](events []E) {
	slices.SortStableFunc(events, func(a, b E) int {
		return cmp.Compare(a.EventTick(), b.EventTick())
	})
}

// FirstUnordered returns the index of the first event scheduled before its
// predecessor, or -1 if events are in non-decreasing tick order.
func FirstUnordered[E Event](events []E) int {
	for i := 1; i < len(events); i++ {
		if events[i].EventTick() < events[i-1].EventTick() {
			return i
		}
	}
	return -1
}

// Unordered returns the index of the first out of order event of the queue,
// or -1.
func (q *Queue[E]) Unordered() int { return FirstUnordered(q.events) }
