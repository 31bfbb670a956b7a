package emu

import (
	"time"

	"github.com/pkg/errors"

	"sidbench/emu/log"
	"sidbench/hw"
	"sidbench/hw/pdm"
	"sidbench/hw/spi"
)

//go:generate go tool stringer -type=State -output=state_string.go

// State is the state of the bench run loop.
type State uint8

const (
	Idle State = iota
	Dispatching
	Advancing
	Done
)

// Origin is the tick from which event ticks and the capture phase are
// counted.
type Origin uint8

const (
	OriginRun     Origin = iota // start of Run, after reset and setup writes
	OriginPowerUp               // first tick of the clock, reset included
)

// Bench drives a device with a clock, programs it over SPI and dispatches
// timeline events while capturing its output.
type Bench struct {
	cfg    TimingConfig
	dev    hw.Device
	clk    *hw.Clock
	enc    *spi.Encoder
	merger Merger

	capture   *pdm.Capture
	capturing bool

	origin Origin
	base   uint64 // clock tick of the origin

	state      State
	iterations uint64
	samples    uint64
}

// NewBench connects dev to a clock running at cfg.ClockHz and to an SPI
// encoder with the given bus timing. The device isn't reset, call Reset for
// that.
func NewBench(dev hw.Device, cfg TimingConfig, timing spi.Timing) (*Bench, error) {
	clk := hw.NewClock(dev, cfg.ClockHz)
	enc, err := spi.NewEncoder(clk, timing)
	if err != nil {
		return nil, err
	}

	b := &Bench{
		cfg: cfg,
		dev: dev,
		clk: clk,
		enc: enc,
	}
	clk.Observe(b.onTick)
	return b, nil
}

func (b *Bench) onTick(tick uint64) {
	if b.capturing && b.capture != nil {
		b.capture.OnTick(tick-b.base, b.dev.Get(hw.Wave))
	}
}

func (b *Bench) Clock() *hw.Clock      { return b.clk }
func (b *Bench) Encoder() *spi.Encoder { return b.enc }
func (b *Bench) State() State          { return b.state }

// Iterations returns the number of advance steps performed by Run.
func (b *Bench) Iterations() uint64 { return b.iterations }

// SetOrigin sets the origin of event ticks. It must be called before Run.
func (b *Bench) SetOrigin(o Origin) { b.origin = o }

// SetCapture attaches c to the Wave pin. Capture starts with Run and c is
// flushed when Run returns.
func (b *Bench) SetCapture(c *pdm.Capture) { b.capture = c }

// Register adds a timeline. Timelines sharing a tick are dispatched in
// registration order.
func (b *Bench) Register(tl Timeline) { b.merger.Register(tl) }

// Now returns the current tick, relative to the origin.
func (b *Bench) Now() uint64 { return b.clk.Ticks() - b.base }

// Reset drives the initial pin levels, holds the device in reset for
// ResetTicks ticks then lets it run for ResetTicks ticks.
func (b *Bench) Reset() error {
	b.dev.Set(hw.Clk, false)
	b.dev.Set(hw.RstN, false)
	b.dev.Set(hw.SCLK, false)
	b.dev.Set(hw.CS, true)
	b.dev.Set(hw.MOSI, false)

	if err := b.clk.TickBatch(b.cfg.ResetTicks); err != nil {
		return errors.Wrap(err, "reset")
	}
	b.dev.Set(hw.RstN, true)
	if err := b.clk.TickBatch(b.cfg.ResetTicks); err != nil {
		return errors.Wrap(err, "reset")
	}

	log.ModEmu.DebugZ("reset done").Uint64("ticks", b.clk.Ticks()).End()
	return nil
}

// Run dispatches events and advances the clock until Now reaches budget.
//
// Each iteration dispatches every due event then advances the clock to the
// earliest of the budget, the next pending event and the next sample
// boundary, or by a single tick if that target is already reached. On
// return, the capture is flushed and the device is finalized, so Run can
// only be called once. If the device terminates, Run stops and returns the
// partial result along with the error.
func (b *Bench) Run(budget uint64) (*Result, error) {
	if b.state != Idle {
		return nil, errors.Errorf("bench: cannot run in state %v", b.state)
	}

	start := time.Now()
	if b.origin == OriginRun {
		b.base = b.clk.Ticks()
	}
	writes := b.enc.Writes()

	log.ModEmu.InfoZ("run").
		Uint64("budget", budget).
		Int("events", b.merger.Pending()).
		Int("timelines", len(b.merger.Timelines())).
		End()

	b.capturing = true
	err := b.loop(budget)
	b.capturing = false
	b.state = Done

	if b.capture != nil {
		if ferr := b.capture.Flush(); ferr != nil && err == nil {
			err = errors.Wrap(ferr, "flushing capture")
		}
	}
	if f, ok := b.dev.(hw.Finalizer); ok {
		f.Final()
	}

	res := b.result(time.Since(start), b.enc.Writes()-writes, err)
	if err != nil {
		log.ModEmu.ErrorZ("run aborted").Error("err", err).End()
	}
	return res, err
}

func (b *Bench) loop(budget uint64) error {
	tps := b.cfg.TicksPerSample()
	next := tps

	for b.Now() < budget {
		b.state = Dispatching
		if _, err := b.merger.DispatchDue(b.Now); err != nil {
			return err
		}

		b.state = Advancing
		target := budget
		if tick, ok := b.merger.Next(); ok {
			target = min(target, tick)
		}
		if tps > 0 {
			target = min(target, next)
		}

		n := uint64(1)
		if now := b.Now(); target > now {
			n = target - now
		}
		if err := b.clk.TickBatch(n); err != nil {
			return err
		}
		b.iterations++

		for tps > 0 && b.Now() >= next {
			b.samples++
			next += tps
			if b.cfg.ReportEvery != 0 && b.samples%b.cfg.ReportEvery == 0 {
				log.ModEmu.InfoZ("progress").
					Uint64("samples", b.samples).
					Uint64("fired", b.merger.Fired()).
					Int("pending", b.merger.Pending()).
					End()
			}
		}
	}
	return nil
}

func (b *Bench) result(wall time.Duration, writes uint64, err error) *Result {
	res := &Result{
		Ticks:      b.clk.Ticks(),
		RunTicks:   b.Now(),
		SimTime:    b.clk.Time(),
		Samples:    b.samples,
		Writes:     writes,
		Events:     b.merger.Fired(),
		Iterations: b.iterations,
		Wall:       wall,
	}
	if b.capture != nil {
		res.Bits = b.capture.Bits()
		res.Bytes = b.capture.Bytes()
	}
	for _, tl := range b.merger.Timelines() {
		res.Timelines = append(res.Timelines, TimelineStats{
			Name:       tl.Name(),
			Dispatched: tl.Dispatched(),
			Pending:    tl.Pending(),
		})
	}
	if err != nil {
		res.Err = err.Error()
	}
	return res
}

// DurationBudget returns the number of ticks in seconds. Negative durations
// give an empty budget.
func DurationBudget(seconds float64, ticksPerSecond uint64) uint64 {
	if seconds <= 0 {
		return 0
	}
	return uint64(seconds * float64(ticksPerSecond))
}

// TailBudget returns a budget ending tail ticks after lastTick. The budget
// always covers lastTick so the last event is dispatched.
func TailBudget(lastTick, tail uint64) uint64 {
	return lastTick + max(tail, 1)
}
