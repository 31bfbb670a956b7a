package emu

import (
	"github.com/pkg/errors"

	"sidbench/emu/log"
)

// Merger dispatches the events of several timelines in tick order. Events
// sharing a tick are dispatched in timeline registration order.
type Merger struct {
	timelines []Timeline
	fired     uint64
}

// Register adds tl to the merger. A timeline whose events are out of order is
// accepted as is, but a warning is logged since it will be dispatched late.
func (m *Merger) Register(tl Timeline) {
	if u, ok := tl.(interface{ Unordered() int }); ok {
		if idx := u.Unordered(); idx >= 0 {
			log.ModTimeline.WarnZ("timeline is not sorted by tick").
				String("timeline", tl.Name()).
				Int("index", idx).
				End()
		}
	}
	m.timelines = append(m.timelines, tl)
}

func (m *Merger) Timelines() []Timeline { return m.timelines }

// Fired returns the number of events dispatched so far.
func (m *Merger) Fired() uint64 { return m.fired }

// Next returns the earliest pending tick across all timelines.
func (m *Merger) Next() (tick uint64, ok bool) {
	_, tick, ok = m.earliest()
	return tick, ok
}

// Pending returns the number of events not dispatched yet.
func (m *Merger) Pending() int {
	n := 0
	for _, tl := range m.timelines {
		n += tl.Pending()
	}
	return n
}

func (m *Merger) earliest() (Timeline, uint64, bool) {
	var (
		best Timeline
		tick uint64
	)
	for _, tl := range m.timelines {
		t, ok := tl.Next()
		if !ok {
			continue
		}
		if best == nil || t < tick {
			best, tick = tl, t
		}
	}
	return best, tick, best != nil
}

// DispatchDue dispatches, earliest first, every event whose tick is lower
// than or equal to now(). Since dispatching an event may advance the clock,
// now is called again after each dispatch and events becoming due meanwhile
// are dispatched too. It returns the number of dispatched events.
func (m *Merger) DispatchDue(now func() uint64) (int, error) {
	n := 0
	for {
		tl, tick, ok := m.earliest()
		if !ok || tick > now() {
			return n, nil
		}

		log.ModTimeline.DebugZ("dispatch").
			String("timeline", tl.Name()).
			Uint64("at", tick).
			End()

		err := tl.Dispatch()
		n++
		m.fired++
		if err != nil {
			return n, errors.Wrapf(err, "%s: event at tick %d", tl.Name(), tick)
		}
	}
}
