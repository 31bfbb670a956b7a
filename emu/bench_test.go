package emu

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"

	"sidbench/hw"
	"sidbench/hw/hwtest"
	"sidbench/hw/pdm"
	"sidbench/hw/spi"
	"sidbench/stimulus"
)

var testTiming = TimingConfig{
	ClockHz:    50_000_000,
	SampleRate: 50_000,
	DACRate:    10_000_000,
	ResetTicks: 5,
}

type finalProbe struct {
	*hwtest.Probe
	finals int
}

func (p *finalProbe) Final() { p.finals++ }

func newTestBench(t *testing.T) (*Bench, *finalProbe) {
	t.Helper()

	p := &finalProbe{Probe: hwtest.NewProbe()}
	b, err := NewBench(p, testTiming, spi.Timing{Divider: 2, Trail: spi.DefaultTrail})
	if err != nil {
		t.Fatal(err)
	}
	if err := b.Reset(); err != nil {
		t.Fatal(err)
	}
	return b, p
}

func stimTimeline(name string, b *Bench, events ...stimulus.Event) *Queue[stimulus.Event] {
	return NewStimulusTimeline(name, events, b.Encoder())
}

func TestBenchReset(t *testing.T) {
	b, p := newTestBench(t)

	if got := b.Clock().Ticks(); got != 10 {
		t.Errorf("ticks after reset = %d, want 10", got)
	}
	if !p.Get(hw.RstN) || !p.Get(hw.CS) || p.Get(hw.SCLK) {
		t.Errorf("pins after reset: rst_n=%t cs=%t sclk=%t", p.Get(hw.RstN), p.Get(hw.CS), p.Get(hw.SCLK))
	}
	if len(p.Transfers) != 0 {
		t.Errorf("reset started %d transfers", len(p.Transfers))
	}
	if b.State() != Idle {
		t.Errorf("State() = %v, want Idle", b.State())
	}
}

func TestBenchCapture(t *testing.T) {
	b, p := newTestBench(t)
	p.Wave = func(cycle uint64) bool { return cycle%10 == 5 }

	var buf bytes.Buffer
	b.SetCapture(pdm.NewCapture(&buf, testTiming.TicksPerDAC()))

	res, err := b.Run(10_000)
	if err != nil {
		t.Fatal(err)
	}

	want := &Result{
		Ticks:      10_010,
		RunTicks:   10_000,
		SimTime:    b.Clock().Time(),
		Samples:    10,
		Bits:       2000,
		Bytes:      250,
		Iterations: 10,
		Wall:       res.Wall,
	}
	if diff := cmp.Diff(want, res); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}

	// The capture phase starts with the run: bits are sampled at clock ticks
	// 15, 20, 25...
	if diff := cmp.Diff(bytes.Repeat([]byte{0xAA}, 250), buf.Bytes()); diff != "" {
		t.Errorf("captured bytes mismatch (-want +got):\n%s", diff)
	}
	if p.finals != 1 {
		t.Errorf("device finalized %d times, want 1", p.finals)
	}
	if b.State() != Done {
		t.Errorf("State() = %v, want Done", b.State())
	}
	if _, err := b.Run(10_000); err == nil {
		t.Errorf("second Run should fail")
	}
}

func TestBenchTieOrder(t *testing.T) {
	b, p := newTestBench(t)
	b.Register(stimTimeline("A", b, stimulus.Event{Tick: 500, Addr: 0x0A, Data: 1}))
	b.Register(stimTimeline("B", b, stimulus.Event{Tick: 500, Addr: 0x0B, Data: 2}))
	b.Register(stimTimeline("C", b, stimulus.Event{Tick: 500, Addr: 0x0C, Data: 3}))

	res, err := b.Run(2000)
	if err != nil {
		t.Fatal(err)
	}

	want := [][2]uint8{{0x0A, 1}, {0x0B, 2}, {0x0C, 3}}
	if diff := cmp.Diff(want, p.Writes()); diff != "" {
		t.Errorf("writes mismatch (-want +got):\n%s", diff)
	}

	// Run starts at clock tick 10, the first write starts on tick 510 and
	// the next ones follow back to back.
	wticks := b.Encoder().Timing().WriteTicks()
	for i, start := range []uint64{511, 511 + wticks, 511 + 2*wticks} {
		if got := p.Transfers[i].Start; got != start {
			t.Errorf("transfer %d started at cycle %d, want %d", i, got, start)
		}
	}
	if res.Writes != 3 || res.Events != 3 {
		t.Errorf("result: writes=%d events=%d, want 3, 3", res.Writes, res.Events)
	}
}

func TestBenchSameTick(t *testing.T) {
	b, p := newTestBench(t)

	events := make([]stimulus.Event, 200)
	for i := range events {
		events[i] = stimulus.Event{Tick: 0, Addr: uint8(i) & 0x7F, Data: uint8(i)}
	}
	b.Register(stimTimeline("burst", b, events...))

	res, err := b.Run(1000)
	if err != nil {
		t.Fatal(err)
	}

	if len(p.Writes()) != 200 {
		t.Errorf("got %d writes, want 200", len(p.Writes()))
	}
	// All writes are done in the first dispatch, then the budget is
	// already exceeded and the bench moves by a single tick.
	if res.Iterations != 1 {
		t.Errorf("Iterations = %d, want 1", res.Iterations)
	}
	if want := 200*b.Encoder().Timing().WriteTicks() + 1; res.RunTicks != want {
		t.Errorf("RunTicks = %d, want %d", res.RunTicks, want)
	}
}

func TestBenchUnordered(t *testing.T) {
	b, p := newTestBench(t)
	b.Register(stimTimeline("unordered", b,
		stimulus.Event{Tick: 500, Addr: 1, Data: 1},
		stimulus.Event{Tick: 100, Addr: 2, Data: 2},
		stimulus.Event{Tick: 900, Addr: 3, Data: 3},
	))

	if _, err := b.Run(3000); err != nil {
		t.Fatal(err)
	}

	want := [][2]uint8{{1, 1}, {2, 2}, {3, 3}}
	if diff := cmp.Diff(want, p.Writes()); diff != "" {
		t.Errorf("writes mismatch (-want +got):\n%s", diff)
	}
	// The late event is fired right after its predecessor.
	if got, want := p.Transfers[1].Start, p.Transfers[0].Start+b.Encoder().Timing().WriteTicks(); got != want {
		t.Errorf("second transfer started at %d, want %d", got, want)
	}
}

func TestBenchBudget(t *testing.T) {
	b, _ := newTestBench(t)
	b.Register(stimTimeline("stim", b,
		stimulus.Event{Tick: 500, Addr: 1, Data: 1},
		stimulus.Event{Tick: 5000, Addr: 2, Data: 2},
	))

	res, err := b.Run(2000)
	if err != nil {
		t.Fatal(err)
	}

	want := []TimelineStats{{Name: "stim", Dispatched: 1, Pending: 1}}
	if diff := cmp.Diff(want, res.Timelines); diff != "" {
		t.Errorf("timeline stats mismatch (-want +got):\n%s", diff)
	}
	if res.RunTicks != 2000 {
		t.Errorf("RunTicks = %d, want 2000", res.RunTicks)
	}
}

func TestBenchOriginPowerUp(t *testing.T) {
	b, p := newTestBench(t)
	b.SetOrigin(OriginPowerUp)
	b.Register(stimTimeline("stim", b, stimulus.Event{Tick: 12, Addr: 1, Data: 1}))

	res, err := b.Run(100)
	if err != nil {
		t.Fatal(err)
	}

	if got := p.Transfers[0].Start; got != 13 {
		t.Errorf("transfer started at cycle %d, want 13", got)
	}
	if res.Ticks != res.RunTicks {
		t.Errorf("Ticks (%d) and RunTicks (%d) should match", res.Ticks, res.RunTicks)
	}
}

func TestBenchTerminated(t *testing.T) {
	b, p := newTestBench(t)

	// Reset took 20 evaluations, the device fails on the first evaluation
	// of the second sample.
	p.FailAfter = 20 + 2*1000 + 1

	var buf bytes.Buffer
	b.SetCapture(pdm.NewCapture(&buf, testTiming.TicksPerDAC()))

	res, err := b.Run(5000)
	if errors.Cause(err) != hw.ErrTerminated {
		t.Fatalf("Run() err = %v, want cause %v", err, hw.ErrTerminated)
	}
	if res == nil || res.Err == "" {
		t.Fatalf("Run() should return a partial result with the error, got %+v", res)
	}
	if res.RunTicks != 1000 || res.Bits != 200 || res.Bytes != 25 {
		t.Errorf("partial result: run_ticks=%d bits=%d bytes=%d, want 1000, 200, 25",
			res.RunTicks, res.Bits, res.Bytes)
	}
	if buf.Len() != 25 {
		t.Errorf("capture wasn't flushed: %d bytes written", buf.Len())
	}
	if b.State() != Done {
		t.Errorf("State() = %v, want Done", b.State())
	}
}

func TestBudgets(t *testing.T) {
	if got := DurationBudget(10, 50_000_000); got != 500_000_000 {
		t.Errorf("DurationBudget(10s) = %d", got)
	}
	if got := DurationBudget(0.05, 50_000_000); got != 2_500_000 {
		t.Errorf("DurationBudget(50ms) = %d", got)
	}
	if got := TailBudget(1234, 50_000_000); got != 50_001_234 {
		t.Errorf("TailBudget() = %d", got)
	}
	if got := TailBudget(1234, 0); got != 1235 {
		t.Errorf("TailBudget(no tail) = %d, want 1235", got)
	}
	if got := DurationBudget(-0.5, 50_000_000); got != 0 {
		t.Errorf("DurationBudget(-0.5s) = %d, want 0", got)
	}
	if got := TailBudget(1000, DurationBudget(-0.5, 50_000_000)); got != 1001 {
		t.Errorf("TailBudget(negative tail) = %d, want 1001", got)
	}
}

func TestStateString(t *testing.T) {
	for s, want := range map[State]string{Idle: "Idle", Dispatching: "Dispatching", Advancing: "Advancing", Done: "Done", 9: "State(9)"} {
		if s.String() != want {
			t.Errorf("State(%d).String() = %q, want %q", s, s.String(), want)
		}
	}
}
