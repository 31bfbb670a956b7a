// Package score composes note and filter timelines for the TT6581.
package score

import (
	"sidbench/emu"
	"sidbench/hw/tt6581"
)

const (
	// DefaultReleaseGap is how long before the end of a note its gate is
	// released, so the envelope can retrigger on the next note.
	DefaultReleaseGap = 0.03

	arpeggioStep = 0.125
)

// Builder converts times in seconds to ticks at audio sample boundaries and
// accumulates note and filter events.
type Builder struct {
	fs  float64
	tps uint64

	notes   []tt6581.NoteEvent
	filters []tt6581.FilterEvent
}

// NewBuilder returns a builder for a synthesizer producing sampleRate
// samples per second, each lasting ticksPerSample clock ticks.
func NewBuilder(sampleRate, ticksPerSample uint64) *Builder {
	return &Builder{fs: float64(sampleRate), tps: ticksPerSample}
}

// Sample returns the sample at which t seconds starts.
func (b *Builder) Sample(t float64) uint64 { return uint64(t * b.fs) }

// Tick returns the tick of the sample boundary at which t seconds starts.
func (b *Builder) Tick(t float64) uint64 { return b.Sample(t) * b.tps }

// Note plays freq on voice v from start for dur seconds.
func (b *Builder) Note(v int, start, freq, dur float64, wave uint8) {
	b.NoteGap(v, start, freq, dur, wave, DefaultReleaseGap)
}

// NoteGap is like Note, with a custom release gap.
func (b *Builder) NoteGap(v int, start, freq, dur float64, wave uint8, gap float64) {
	b.notes = append(b.notes,
		tt6581.NoteEvent{Tick: b.Tick(start), Voice: v, Freq: freq, Wave: wave, Kind: tt6581.GateOn},
		tt6581.NoteEvent{Tick: b.Tick(start + dur - gap), Voice: v, Wave: wave, Kind: tt6581.GateOff},
	)
}

// Arpeggio cycles through freqs on voice v, one step every 125ms, keeping
// the gate on from start until shortly before end.
func (b *Builder) Arpeggio(v int, start, end float64, wave uint8, freqs ...float64) {
	b.notes = append(b.notes, tt6581.NoteEvent{Tick: b.Tick(start), Voice: v, Freq: freqs[0], Wave: wave, Kind: tt6581.GateOn})

	idx := 1
	for t := start + arpeggioStep; t < end-0.05; t += arpeggioStep {
		b.notes = append(b.notes, tt6581.NoteEvent{
			Tick:  b.Tick(t),
			Voice: v,
			Freq:  freqs[idx%len(freqs)],
			Wave:  wave,
			Kind:  tt6581.FreqOnly,
		})
		idx++
	}

	b.notes = append(b.notes, tt6581.NoteEvent{Tick: b.Tick(end - 0.02), Voice: v, Wave: wave, Kind: tt6581.GateOff})
}

// Freq changes the frequency of voice v at t, without touching the gate.
func (b *Builder) Freq(v int, t, freq float64) {
	b.notes = append(b.notes, tt6581.NoteEvent{Tick: b.Tick(t), Voice: v, Freq: freq, Kind: tt6581.FreqOnly})
}

// Filter changes the filter parameters at t.
func (b *Builder) Filter(t, fc, q float64, enMode uint8) {
	b.filters = append(b.filters, tt6581.FilterEvent{Tick: b.Tick(t), Cutoff: fc, Q: q, EnMode: enMode})
}

// Notes returns the note events sorted by tick.
func (b *Builder) Notes() []tt6581.NoteEvent {
	emu.SortEvents(b.notes)
	return b.notes
}

// Filters returns the filter events sorted by tick.
func (b *Builder) Filters() []tt6581.FilterEvent {
	emu.SortEvents(b.filters)
	return b.filters
}

// Score is a composition ready to be played: the register writes setting up
// the synthesizer, the events and the run budget.
type Score struct {
	Name    string
	Budget  uint64 // in ticks
	Notes   []tt6581.NoteEvent
	Filters []tt6581.FilterEvent

	setup func(p *tt6581.Programmer) error
}

// Setup programs the initial state of the synthesizer.
func (s *Score) Setup(p *tt6581.Programmer) error {
	if s.setup == nil {
		return nil
	}
	return s.setup(p)
}
