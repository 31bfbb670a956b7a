package spi

import (
	"github.com/pkg/errors"

	"sidbench/emu/log"
	"sidbench/hw"
)

// DefaultTrail is the number of idle ticks after chip-select is released,
// long enough for the device to latch a write.
const DefaultTrail = 20

var ErrDivider = errors.New("spi clock divider must be even and >= 2")

// Timing describes the bus timing in system clock ticks.
type Timing struct {
	Divider uint64 // ticks per SPI clock period
	Trail   uint64 // idle ticks after chip-select release
}

func (t Timing) Validate() error {
	if t.Divider < 2 || t.Divider%2 != 0 {
		return errors.Wrapf(ErrDivider, "divider %d", t.Divider)
	}
	return nil
}

// WriteTicks returns the number of ticks consumed by one write.
func (t Timing) WriteTicks() uint64 {
	return FrameBits*t.Divider + t.Divider/2 + t.Trail
}

// Encoder bit-bangs SPI transfers on the pins of a clocked device, advancing
// the clock while doing so. Chip-select is active low, data is sampled by the
// device on the rising edge of SCLK.
type Encoder struct {
	clk    *hw.Clock
	dev    hw.Device
	timing Timing
	writes uint64
	tap    func(addr, data uint8)
}

func NewEncoder(clk *hw.Clock, timing Timing) (*Encoder, error) {
	if err := timing.Validate(); err != nil {
		return nil, err
	}
	return &Encoder{
		clk:    clk,
		dev:    clk.Device(),
		timing: timing,
	}, nil
}

func (e *Encoder) Timing() Timing { return e.timing }

// Tap registers fn to be called after each completed write.
func (e *Encoder) Tap(fn func(addr, data uint8)) { e.tap = fn }

// Writes returns the number of completed writes.
func (e *Encoder) Writes() uint64 { return e.writes }

// Write transmits a write frame of data at addr.
func (e *Encoder) Write(addr, data uint8) error {
	f := NewFrame(addr, data)
	log.ModSPI.DebugZ("write").
		Hex8("addr", f.Addr()).
		Hex8("data", f.Data()).
		End()

	e.dev.Set(hw.CS, false)
	for i := range FrameBits {
		if _, err := e.bit(f.Bit(i)); err != nil {
			return errors.Wrapf(err, "spi write %s", f)
		}
	}
	if err := e.release(); err != nil {
		return errors.Wrapf(err, "spi write %s", f)
	}
	e.writes++
	if e.tap != nil {
		e.tap(f.Addr(), f.Data())
	}
	return nil
}

// Read sends a read command for addr and returns the byte clocked in from
// MISO. MISO is sampled right after each falling edge of SCLK.
func (e *Encoder) Read(addr uint8) (uint8, error) {
	cmd := addr & 0x7F

	e.dev.Set(hw.CS, false)
	for i := 7; i >= 0; i-- {
		if _, err := e.bit(cmd>>i&1 != 0); err != nil {
			return 0, errors.Wrapf(err, "spi read %02x", addr)
		}
	}

	var val uint8
	for i := 7; i >= 0; i-- {
		miso, err := e.bit(false)
		if err != nil {
			return 0, errors.Wrapf(err, "spi read %02x", addr)
		}
		val |= hw.B2U(miso) << i
	}
	if err := e.release(); err != nil {
		return 0, errors.Wrapf(err, "spi read %02x", addr)
	}

	log.ModSPI.DebugZ("read").
		Hex8("addr", cmd).
		Hex8("data", val).
		End()
	return val, nil
}

// bit transfers one bit and returns the MISO level seen at the end of the
// SCLK high phase.
func (e *Encoder) bit(mosi bool) (bool, error) {
	half := e.timing.Divider / 2

	e.dev.Set(hw.MOSI, mosi)
	if err := e.clk.TickBatch(half); err != nil {
		return false, err
	}
	e.dev.Set(hw.SCLK, true)
	if err := e.clk.TickBatch(half); err != nil {
		return false, err
	}
	e.dev.Set(hw.SCLK, false)
	return e.dev.Get(hw.MISO), nil
}

func (e *Encoder) release() error {
	if err := e.clk.TickBatch(e.timing.Divider / 2); err != nil {
		return err
	}
	e.dev.Set(hw.CS, true)
	return e.clk.TickBatch(e.timing.Trail)
}
