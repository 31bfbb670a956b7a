package spi_test

import (
	"testing"

	"sidbench/hw"
	"sidbench/hw/spi"
)

// regFile is a device exposing a register file through an SPI slave.
type regFile struct {
	hw.Pins
	slave spi.Slave
	regs  [128]uint8

	prevClk bool
}

func newRegFile() *regFile {
	d := &regFile{}
	d.Pins[hw.CS] = true
	d.slave.OnWrite = func(addr, data uint8) { d.regs[addr] = data }
	d.slave.OnRead = func(addr uint8) uint8 { return d.regs[addr] }
	return d
}

func (d *regFile) Eval() error {
	clk := d.Get(hw.Clk)
	if clk && !d.prevClk {
		d.slave.Clock(d.Get(hw.CS), d.Get(hw.SCLK), d.Get(hw.MOSI))
		d.Set(hw.MISO, d.slave.MISO())
	}
	d.prevClk = clk
	return nil
}

func TestSlaveWriteRead(t *testing.T) {
	for _, div := range []uint64{2, 4, 20} {
		dev := newRegFile()
		clk := hw.NewClock(dev, 50_000_000)
		enc, err := spi.NewEncoder(clk, spi.Timing{Divider: div, Trail: spi.DefaultTrail})
		if err != nil {
			t.Fatal(err)
		}

		for addr := range uint8(0x80) {
			if err := enc.Write(addr, addr^0xA5); err != nil {
				t.Fatal(err)
			}
		}
		for addr := range uint8(0x80) {
			if got := dev.regs[addr]; got != addr^0xA5 {
				t.Fatalf("div=%d: reg[%02x] = %02x, want %02x", div, addr, got, addr^0xA5)
			}
			got, err := enc.Read(addr)
			if err != nil {
				t.Fatal(err)
			}
			if got != addr^0xA5 {
				t.Fatalf("div=%d: Read(%02x) = %02x, want %02x", div, addr, got, addr^0xA5)
			}
		}
	}
}

func TestSlaveAbortedTransfer(t *testing.T) {
	dev := newRegFile()
	s := &dev.slave

	// 8 bits of a write frame then CS release: nothing is committed.
	f := spi.NewFrame(0x03, 0x44)
	for i := range 8 {
		s.Clock(false, false, f.Bit(i))
		s.Clock(false, true, f.Bit(i))
	}
	s.Clock(true, false, false)
	if dev.regs[3] != 0 {
		t.Errorf("aborted write committed: reg[03] = %02x", dev.regs[3])
	}

	// A complete frame afterwards starts from scratch.
	for i := range spi.FrameBits {
		s.Clock(false, false, f.Bit(i))
		s.Clock(false, true, f.Bit(i))
	}
	if dev.regs[3] != 0x44 {
		t.Errorf("reg[03] = %02x, want 44", dev.regs[3])
	}
}
