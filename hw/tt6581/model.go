package tt6581

import (
	"github.com/pkg/errors"

	"sidbench/emu/log"
	"sidbench/hw"
	"sidbench/hw/hwio"
	"sidbench/hw/spi"
)

// ErrFinished is returned by Eval once the model has been finalized.
var ErrFinished = errors.New("tt6581: model evaluated after Final")

// Config holds the timing of the model, in system clock cycles.
type Config struct {
	CyclesPerSample uint64  // audio sample period
	CyclesPerDAC    uint64  // delta-sigma output period
	SampleRate      float64 // audio sample rate, for envelope timing
}

// Model is a behavioral model of the TT6581, seen through its pins. On each
// rising edge of Clk, with RstN high, it samples the SPI bus, computes a new
// audio sample every CyclesPerSample cycles, and drives the delta-sigma
// output on Wave every CyclesPerDAC cycles. While RstN is low, every rising
// edge resets the chip.
type Model struct {
	hw.Pins

	cfg   Config
	regs  *hwio.Table
	slave spi.Slave
	rates *rates

	voices [NumVoices]voice
	filt   filter
	dsm    dsm

	prevClk bool
	cycles  uint64
	sample  int32
	samples uint64
	done    bool
}

func NewModel(cfg Config) *Model {
	if cfg.CyclesPerSample == 0 || cfg.CyclesPerDAC == 0 {
		panic("tt6581: zero cycles per sample or per DAC output")
	}

	m := &Model{
		cfg:   cfg,
		regs:  hwio.NewTable("tt6581"),
		rates: newRates(cfg.SampleRate),
	}
	m.Pins[hw.CS] = true
	m.slave.OnWrite = m.regs.Write8
	m.slave.OnRead = m.regs.Read8

	m.reset()
	for i := range m.voices {
		m.regs.MapBank(VoiceBase(i), &m.voices[i])
	}
	m.regs.MapBank(FiltBase, &m.filt)
	return m
}

func (m *Model) reset() {
	for i := range m.voices {
		v := &m.voices[i]
		hwio.MustInitRegs(v)
		v.env.rates = m.rates
		v.reset()
	}
	hwio.MustInitRegs(&m.filt)
	m.filt.reset()
	m.dsm.reset()
	m.slave.Reset()

	m.cycles = 0
	m.sample = 0
	m.samples = 0
	m.Set(hw.MISO, false)
	m.Set(hw.Wave, false)
}

func (m *Model) Eval() error {
	if m.done {
		return ErrFinished
	}

	clk := m.Get(hw.Clk)
	rise := clk && !m.prevClk
	m.prevClk = clk
	if !rise {
		return nil
	}

	if !m.Get(hw.RstN) {
		m.reset()
		return nil
	}

	m.slave.Clock(m.Get(hw.CS), m.Get(hw.SCLK), m.Get(hw.MOSI))
	m.Set(hw.MISO, m.slave.MISO())

	m.cycles++
	if m.cycles%m.cfg.CyclesPerSample == 0 {
		m.step()
	}
	if m.cycles%m.cfg.CyclesPerDAC == 0 {
		m.Set(hw.Wave, m.dsm.clock(m.sample))
	}
	return nil
}

// step computes one audio sample.
func (m *Model) step() {
	for i := range m.voices {
		m.voices[i].advance()
	}
	for i := range m.voices {
		m.voices[i].sync(m.source(i))
	}

	var outs [NumVoices]int32
	for i := range m.voices {
		outs[i] = m.voices[i].output(m.source(i))
		m.voices[i].latch()
	}

	m.sample = m.filt.mix(outs)
	m.samples++
}

// source returns the voice providing sync and ring modulation to voice i.
func (m *Model) source(i int) *voice {
	return &m.voices[(i+NumVoices-1)%NumVoices]
}

// Final stops the model, any later evaluation fails.
func (m *Model) Final() {
	m.done = true
	log.ModDevice.InfoZ("model finished").
		Uint64("cycles", m.cycles).
		Uint64("samples", m.samples).
		End()
}

// Peek returns the value of the register at addr, without side effects.
func (m *Model) Peek(addr uint8) uint8 { return m.regs.Peek8(addr) }

// Sample returns the last computed audio sample, signed 14-bit.
func (m *Model) Sample() int32 { return m.sample }

// Samples returns the number of audio samples computed since the end of the
// last reset.
func (m *Model) Samples() uint64 { return m.samples }

// Cycles returns the number of clock cycles since the end of the last reset.
func (m *Model) Cycles() uint64 { return m.cycles }
