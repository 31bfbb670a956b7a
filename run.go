package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"sidbench/emu"
	"sidbench/emu/log"
	"sidbench/hw/pdm"
	"sidbench/hw/tt6581"
	"sidbench/score"
	"sidbench/stimulus"
)

func newModel(t emu.TimingConfig) *tt6581.Model {
	return tt6581.NewModel(tt6581.Config{
		CyclesPerSample: t.TicksPerSample(),
		CyclesPerDAC:    t.TicksPerDAC(),
		SampleRate:      float64(t.SampleRate),
	})
}

// runJob runs one simulation and writes its outputs in the output directory.
// On failure, the partial result is returned along with the error, if the
// run started. When tickLogs is set, all log entries carry the current tick;
// log contexts are global so this is only for jobs running alone.
func runJob(cfg emu.Config, job emu.JobConfig, tickLogs bool) (*emu.Result, error) {
	t := cfg.Timing
	if err := job.Check(); err != nil {
		return nil, err
	}

	// Inputs are loaded before anything ticks.
	var stim *stimulus.File
	if job.Mode == "play" {
		var err error
		if stim, err = stimulus.Load(job.Stimulus); err != nil {
			return nil, err
		}
		if _, ok := stim.LastTick(); !ok {
			return nil, errors.Errorf("%s: no events", job.Stimulus)
		}
	}

	var sc *score.Score
	var rows []score.Row
	switch job.Mode {
	case "song":
		sc = score.Demo(t.SampleRate, t.TicksPerSample())
		if job.Duration > 0 {
			sc.Budget = emu.DurationBudget(job.Duration, t.ClockHz)
		}
	case "bode":
		sc, rows = score.Sweep(score.DefaultSweep, t.SampleRate, t.TicksPerSample())
	}

	model := newModel(t)
	bench, err := emu.NewBench(model, t, cfg.SPI.Timing(job.Mode == "play"))
	if err != nil {
		return nil, err
	}
	if tickLogs {
		log.AddContext(bench.Clock())
		defer log.RemoveContext(bench.Clock())
	}

	if err := os.MkdirAll(cfg.Output.Dir, 0755); err != nil {
		return nil, err
	}
	out := func(ext string) string { return filepath.Join(cfg.Output.Dir, job.Name+ext) }

	var (
		sinks  []io.Writer
		pdmOut *os.File
		wavBuf bytes.Buffer
	)
	if cfg.Output.PDM {
		if pdmOut, err = os.Create(out(".bin")); err != nil {
			return nil, err
		}
		defer pdmOut.Close()
		sinks = append(sinks, pdmOut)
	}
	if cfg.Output.WAV {
		sinks = append(sinks, &wavBuf)
	}
	if len(sinks) != 0 {
		bench.SetCapture(pdm.NewCapture(io.MultiWriter(sinks...), t.TicksPerDAC()))
	}

	if err := bench.Reset(); err != nil {
		return nil, err
	}

	var (
		budget uint64
		rec    *stimulus.Recorder
	)
	if stim != nil {
		bench.SetOrigin(emu.OriginPowerUp)
		bench.Register(emu.NewStimulusTimeline(stim.Name, stim.Events, bench.Encoder()))
		last, _ := stim.LastTick()
		budget = emu.TailBudget(last, emu.DurationBudget(job.TailSeconds(), t.ClockHz))
	} else {
		var w tt6581.RegWriter = bench.Encoder()
		if job.Record != "" {
			rec = stimulus.NewRecorder(w, bench.Clock().Ticks)
			w = rec
		}
		prog := tt6581.NewProgrammer(w, float64(t.SampleRate))
		if err := sc.Setup(prog); err != nil {
			return nil, errors.Wrap(err, "setup")
		}
		bench.SetOrigin(emu.OriginRun)
		bench.Register(emu.NewNoteTimeline("notes", sc.Notes, prog))
		if len(sc.Filters) != 0 {
			bench.Register(emu.NewFilterTimeline("filter", sc.Filters, prog))
		}
		budget = sc.Budget
	}

	log.ModEmu.InfoZ("starting run").
		String("name", job.Name).
		String("mode", job.Mode).
		Uint64("budget", budget).
		Float("seconds", float64(budget)/float64(t.ClockHz)).
		End()

	res, err := bench.Run(budget)
	if res != nil {
		res.Name = job.Name
	}
	if err != nil {
		return res, err
	}

	if pdmOut != nil {
		if err := pdmOut.Close(); err != nil {
			return res, err
		}
	}
	if rec != nil {
		if err := writeStimulus(job.Record, job.Name, rec.Events()); err != nil {
			return res, err
		}
	}
	if rows != nil {
		if err := writeFile(out(".csv"), func(w io.Writer) error { return score.WriteCSV(w, rows) }); err != nil {
			return res, err
		}
	}
	if cfg.Output.WAV {
		samples, err := pdm.Decode(&wavBuf, float64(t.DACRate), float64(t.SampleRate))
		if err != nil {
			return res, err
		}
		pdm.Normalize(samples)
		if err := writeFile(out(".wav"), func(w io.Writer) error {
			return pdm.WriteWAV(w, samples, uint32(t.SampleRate))
		}); err != nil {
			return res, err
		}
	}
	if cfg.Output.Report {
		if err := writeFile(out(".json"), func(w io.Writer) error { return emu.WriteReport(w, res) }); err != nil {
			return res, err
		}
	}
	return res, nil
}

func writeStimulus(path, name string, events []stimulus.Event) error {
	return writeFile(path, func(w io.Writer) error {
		return stimulus.Write(w, "recorded from "+name, events)
	})
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return errors.Wrapf(err, "writing %s", path)
	}
	return f.Close()
}

func printResult(w io.Writer, res *emu.Result) {
	fmt.Fprintf(w, "[%s] %d ticks (%v simulated, %v wall), %d samples, %d writes, %d events\n",
		res.Name, res.Ticks, res.SimTime, res.Wall.Round(time.Millisecond), res.Samples, res.Writes, res.Events)
	fmt.Fprintf(w, "[%s] PDM: %d bits, %d bytes\n", res.Name, res.Bits, res.Bytes)
	for _, tl := range res.Timelines {
		fmt.Fprintf(w, "[%s]   %-12s %d dispatched, %d pending\n", res.Name, tl.Name, tl.Dispatched, tl.Pending)
	}
	if res.Err != "" {
		fmt.Fprintf(w, "[%s] error: %s\n", res.Name, res.Err)
	}
}
