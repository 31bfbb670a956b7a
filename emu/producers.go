package emu

import (
	"sidbench/hw/tt6581"
	"sidbench/stimulus"
)

// NewNoteTimeline returns a timeline playing note events through p.
func NewNoteTimeline(name string, events []tt6581.NoteEvent, p *tt6581.Programmer) *Queue[tt6581.NoteEvent] {
	return NewQueue(name, events, func(ev tt6581.NoteEvent) error {
		return ev.Fire(p)
	})
}

// NewFilterTimeline returns a timeline applying filter events through p.
func NewFilterTimeline(name string, events []tt6581.FilterEvent, p *tt6581.Programmer) *Queue[tt6581.FilterEvent] {
	return NewQueue(name, events, func(ev tt6581.FilterEvent) error {
		return ev.Fire(p)
	})
}

// NewStimulusTimeline returns a timeline replaying register writes to w.
func NewStimulusTimeline(name string, events []stimulus.Event, w tt6581.RegWriter) *Queue[stimulus.Event] {
	return NewQueue(name, events, func(ev stimulus.Event) error {
		return w.Write(ev.Addr, ev.Data)
	})
}
