// Package hwtest provides pin-level devices for testing code that drives a
// hw.Device.
package hwtest

import (
	"github.com/pkg/errors"

	"sidbench/hw"
)

// ErrFailed is returned by Eval once a probe reaches its FailAfter count.
var ErrFailed = errors.New("probe: simulated failure")

// Transfer is an SPI transfer observed on the pins, from chip-select
// assertion to release.
type Transfer struct {
	Bits  int
	Value uint32   // bits shifted in from MOSI, first bit in the MSB
	Start uint64   // cycle at which CS was seen low
	End   uint64   // cycle at which CS was seen high again, 0 if still active
	Rises []uint64 // cycle of each SCLK rising edge
}

// Probe is a device that records what happens on its pins.
//
// Cycles counts rising edges of the clock. SPI transfers are decoded by
// watching CS, SCLK and MOSI at each rising clock edge. During a transfer,
// MISO shifts out ReadData (MSB first) on SCLK falling edges after the first
// 8 bits. Wave, when not nil, drives the Wave pin at each rising edge.
type Probe struct {
	hw.Pins

	Evals  uint64
	Cycles uint64

	Transfers []Transfer
	ReadData  uint8
	Wave      func(cycle uint64) bool

	// FailAfter makes the Eval call number FailAfter (1-based) and all
	// subsequent ones fail. Zero disables failures.
	FailAfter uint64

	prevClk  bool
	prevSCLK bool
	cur      *Transfer
	out      uint8
}

func NewProbe() *Probe {
	p := &Probe{}
	p.Pins[hw.CS] = true
	p.prevSCLK = false
	return p
}

func (p *Probe) Eval() error {
	p.Evals++
	if p.FailAfter != 0 && p.Evals >= p.FailAfter {
		return ErrFailed
	}

	clk := p.Get(hw.Clk)
	rise := clk && !p.prevClk
	p.prevClk = clk
	if !rise {
		return nil
	}

	p.Cycles++
	if p.Wave != nil {
		p.Set(hw.Wave, p.Wave(p.Cycles))
	}
	p.watchSPI()
	return nil
}

func (p *Probe) watchSPI() {
	cs, sclk := p.Get(hw.CS), p.Get(hw.SCLK)
	srise := sclk && !p.prevSCLK
	sfall := !sclk && p.prevSCLK
	p.prevSCLK = sclk

	if cs {
		if p.cur != nil {
			p.cur.End = p.Cycles
			p.cur = nil
		}
		p.Set(hw.MISO, false)
		return
	}

	if p.cur == nil {
		p.Transfers = append(p.Transfers, Transfer{Start: p.Cycles})
		p.cur = &p.Transfers[len(p.Transfers)-1]
	}

	t := p.cur
	if srise {
		t.Value = t.Value<<1 | uint32(hw.B2U(p.Get(hw.MOSI)))
		t.Bits++
		t.Rises = append(t.Rises, p.Cycles)
		if t.Bits == 8 {
			p.out = p.ReadData
		}
	}
	if sfall && t.Bits >= 8 && t.Bits < 16 {
		p.Set(hw.MISO, p.out&0x80 != 0)
		p.out <<= 1
	}
}

// Writes returns the (address, data) pairs of all complete 16-bit write
// transfers seen so far.
func (p *Probe) Writes() [][2]uint8 {
	var ws [][2]uint8
	for _, t := range p.Transfers {
		if t.Bits == 16 && t.Value&0x8000 != 0 {
			ws = append(ws, [2]uint8{uint8(t.Value>>8) & 0x7F, uint8(t.Value)})
		}
	}
	return ws
}
