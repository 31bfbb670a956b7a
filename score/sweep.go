package score

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"

	"sidbench/hw/tt6581"
)

// SweepConfig describes a stepped logarithmic frequency sweep played on
// voice 1 through the filter.
type SweepConfig struct {
	StartFreq     float64
	EndFreq       float64
	Steps         int
	CyclesPerStep float64 // waveform periods played at each step
	Settle        float64 // seconds before the first step

	Cutoff float64
	Q      float64
}

// DefaultSweep measures the low-pass response at 1kHz from 20Hz up to an
// eighth of the sample rate.
var DefaultSweep = SweepConfig{
	StartFreq:     20,
	EndFreq:       6250,
	Steps:         200,
	CyclesPerStep: 20,
	Settle:        0.05,
	Cutoff:        1000,
	Q:             0.707,
}

// Row is a line of the sweep CSV: the frequency played during one sample.
type Row struct {
	Time float64 // seconds since the first step
	Freq float64
}

// Sweep returns the score of the sweep and the frequency played at each
// sample after the settling time.
func Sweep(cfg SweepConfig, sampleRate, ticksPerSample uint64) (*Score, []Row) {
	b := NewBuilder(sampleRate, ticksPerSample)
	fs := float64(sampleRate)

	var (
		rows   []Row
		t      float64
		sample = uint64(cfg.Settle * fs)
	)
	for step := range cfg.Steps {
		frac := float64(step) / float64(cfg.Steps-1)
		freq := cfg.StartFreq * math.Pow(cfg.EndFreq/cfg.StartFreq, frac)

		b.notes = append(b.notes, tt6581.NoteEvent{
			Tick:  sample * ticksPerSample,
			Voice: 0,
			Freq:  freq,
			Kind:  tt6581.FreqOnly,
		})

		dwell := max(1, int(cfg.CyclesPerStep/freq*fs))
		for range dwell {
			rows = append(rows, Row{Time: t, Freq: freq})
			t += 1 / fs
		}
		sample += uint64(dwell)
	}

	setup := func(p *tt6581.Programmer) error {
		if err := p.SetVoiceFreq(0, cfg.StartFreq); err != nil {
			return err
		}
		if err := p.SetPulseWidth(0, 0x800); err != nil {
			return err
		}
		if err := p.SetADSR(0, 0, 0, 15, 0); err != nil {
			return err
		}
		if err := p.SetControl(0, tt6581.WaveTri, true); err != nil {
			return err
		}
		if err := p.SetFilter(cfg.Cutoff, cfg.Q, tt6581.FiltV1|tt6581.FiltLP); err != nil {
			return err
		}
		return p.SetVolume(0xFF)
	}

	return &Score{
		Name:   "bode",
		Budget: sample * ticksPerSample,
		Notes:  b.Notes(),
		setup:  setup,
	}, rows
}

// WriteCSV writes rows with a time_sec,freq_hz header.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	cw.Write([]string{"time_sec", "freq_hz"})
	for _, r := range rows {
		cw.Write([]string{
			strconv.FormatFloat(r.Time, 'g', 6, 64),
			strconv.FormatFloat(r.Freq, 'g', 6, 64),
		})
	}
	cw.Flush()
	return cw.Error()
}
