package score

import (
	"sidbench/hw/tt6581"
)

// DemoDuration is the length of the demo song in seconds.
const DemoDuration = 10.0

const (
	lead = 0 // pulse
	bass = 1 // sawtooth
	arp  = 2 // triangle

	filtAllLP = tt6581.FiltAll | tt6581.FiltLP
	filtAllHP = tt6581.FiltAll | tt6581.FiltHP
)

// Demo returns a 10 seconds song using the three voices, a low-pass filter
// sweep and a high-pass ending.
func Demo(sampleRate, ticksPerSample uint64) *Score {
	b := NewBuilder(sampleRate, ticksPerSample)

	const (
		E = Eighth
		Q = Quarter
		H = Half
	)

	melody := func(start, freq, dur float64) { b.Note(lead, start, freq, dur, tt6581.WavePulse) }
	melody(1.00, G4, E)
	melody(1.25, Eb4, E)
	melody(1.50, C4, Q)

	melody(2.00, F4, E)
	melody(2.25, Ab4, E)
	melody(2.50, G4, Q)
	melody(3.00, Eb4, E)
	melody(3.25, D4, E)
	melody(3.50, C4, Q)

	melody(4.00, Eb4, E)
	melody(4.25, G4, E)
	melody(4.50, Ab4, Q)
	melody(5.00, Bb4, E)
	melody(5.25, Ab4, E)
	melody(5.50, G4, Q)

	melody(6.00, F4, E)
	melody(6.25, Ab4, E)
	melody(6.50, G4, Q)
	melody(7.00, F4, E)
	melody(7.25, Eb4, E)
	melody(7.50, D4, Q)

	melody(8.00, C5, H)
	melody(9.00, G4, Q)
	b.NoteGap(lead, 9.50, C4, Q, tt6581.WavePulse, 0.15)

	bassline := []struct {
		start, freq float64
	}{
		{0.0, C2}, {0.5, G2}, {1.0, C2}, {1.5, G2},
		{2.0, F2}, {2.5, C3}, {3.0, G2}, {3.5, D3},
		{4.0, Ab2}, {4.5, Eb3}, {5.0, Bb2}, {5.5, F3},
		{6.0, F2}, {6.5, C3}, {7.0, G2}, {7.5, D3},
		{8.0, C2}, {8.5, G2},
	}
	for _, n := range bassline {
		b.Note(bass, n.start, n.freq, Q, tt6581.WaveSaw)
	}
	b.NoteGap(bass, 9.00, C3, Q, tt6581.WaveSaw, 0.15)

	b.Arpeggio(arp, 0.0, 2.0, tt6581.WaveTri, C4, Eb4, G4)
	b.Arpeggio(arp, 2.0, 3.0, tt6581.WaveTri, F3, Ab3, C4)
	b.Arpeggio(arp, 3.0, 4.0, tt6581.WaveTri, G3, B3, D4)
	b.Arpeggio(arp, 4.0, 5.0, tt6581.WaveTri, Ab3, C4, Eb4)
	b.Arpeggio(arp, 5.0, 6.0, tt6581.WaveTri, Bb3, D4, F4)
	b.Arpeggio(arp, 6.0, 7.0, tt6581.WaveTri, F3, Ab3, C4)
	b.Arpeggio(arp, 7.0, 8.0, tt6581.WaveTri, G3, B3, D4)
	b.Arpeggio(arp, 8.0, 9.5, tt6581.WaveTri, C4, Eb4, G4)

	b.Filter(0.00, 600, 1.0, filtAllLP)
	b.Filter(0.50, 800, 1.0, filtAllLP)
	b.Filter(1.00, 1200, 0.9, filtAllLP)
	b.Filter(1.50, 1500, 0.8, filtAllLP)
	b.Filter(2.00, 2000, 1.0, filtAllLP)
	b.Filter(2.50, 2200, 1.2, filtAllLP)
	b.Filter(3.00, 2500, 1.5, filtAllLP)
	b.Filter(3.50, 2800, 1.2, filtAllLP)
	b.Filter(4.00, 3500, 2.0, filtAllLP)
	b.Filter(4.50, 4000, 2.5, filtAllLP)
	b.Filter(5.00, 5000, 2.0, filtAllLP)
	b.Filter(6.00, 8000, 1.2, filtAllLP)
	b.Filter(9.00, 100, 0.707, filtAllHP)
	b.Filter(9.50, 4000, 1.5, filtAllHP)

	return &Score{
		Name:    "song",
		Budget:  b.Tick(DemoDuration),
		Notes:   b.Notes(),
		Filters: b.Filters(),
		setup:   demoSetup,
	}
}

func demoSetup(p *tt6581.Programmer) error {
	if err := p.SetPulseWidth(lead, 0x400); err != nil {
		return err
	}
	if err := p.SetADSR(lead, 2, 6, 10, 5); err != nil {
		return err
	}
	if err := p.SetADSR(bass, 0, 5, 10, 3); err != nil {
		return err
	}
	if err := p.SetADSR(arp, 0, 2, 15, 3); err != nil {
		return err
	}
	if err := p.SetVolume(0xFF); err != nil {
		return err
	}
	return p.SetFilter(600, 0.707, filtAllLP)
}
