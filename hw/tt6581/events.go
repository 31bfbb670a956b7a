package tt6581

import (
	"fmt"

	"github.com/pkg/errors"
)

type NoteKind uint8

const (
	GateOn   NoteKind = iota // set frequency then gate the voice on
	GateOff                  // gate the voice off, starting the release
	FreqOnly                 // change the frequency, keep the gate
)

func (k NoteKind) String() string {
	switch k {
	case GateOn:
		return "gate-on"
	case GateOff:
		return "gate-off"
	case FreqOnly:
		return "freq"
	}
	return fmt.Sprintf("NoteKind(%d)", uint8(k))
}

// NoteEvent is a note change on one voice.
type NoteEvent struct {
	Tick  uint64
	Voice int
	Freq  float64
	Wave  uint8
	Kind  NoteKind
}

func (e NoteEvent) EventTick() uint64 { return e.Tick }

// Fire applies the event.
func (e NoteEvent) Fire(p *Programmer) error {
	switch e.Kind {
	case GateOn:
		if err := p.SetVoiceFreq(e.Voice, e.Freq); err != nil {
			return err
		}
		return p.SetControl(e.Voice, e.Wave, true)
	case GateOff:
		return p.SetControl(e.Voice, e.Wave, false)
	case FreqOnly:
		return p.SetVoiceFreq(e.Voice, e.Freq)
	}
	return errors.Errorf("tt6581: invalid note kind %v", e.Kind)
}

// FilterEvent changes the filter parameters.
type FilterEvent struct {
	Tick   uint64
	Cutoff float64
	Q      float64
	EnMode uint8
}

func (e FilterEvent) EventTick() uint64 { return e.Tick }

// Fire applies the event.
func (e FilterEvent) Fire(p *Programmer) error {
	return p.SetFilter(e.Cutoff, e.Q, e.EnMode)
}
