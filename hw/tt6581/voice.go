package tt6581

import (
	"sidbench/hw/hwio"
)

const (
	phaseBits = 19
	phaseMask = 1<<phaseBits - 1
	phaseMSB  = 1 << (phaseBits - 1)

	noiseSeed = 0x7FFFF8
)

// voice is one oscillator with its envelope. Its registers form a bank
// mapped at the voice base address.
type voice struct {
	FreqLo hwio.Reg8 `hwio:"offset=0x00"`
	FreqHi hwio.Reg8 `hwio:"offset=0x01"`
	PwLo   hwio.Reg8 `hwio:"offset=0x02"`
	PwHi   hwio.Reg8 `hwio:"offset=0x03,romask=0xF0"`
	Ctrl   hwio.Reg8 `hwio:"offset=0x04,wcb"`
	AD     hwio.Reg8 `hwio:"offset=0x05"`
	SR     hwio.Reg8 `hwio:"offset=0x06"`

	phase   uint32
	prevMSB bool
	noise   uint32
	env     envelope
}

func (v *voice) reset() {
	v.phase = 0
	v.prevMSB = false
	v.noise = noiseSeed
	v.env.reset()
}

func (v *voice) WriteCtrl(old, val uint8) {
	if (old^val)&CtrlGate != 0 {
		v.env.gate(val&CtrlGate != 0)
	}
}

func (v *voice) fcw() uint32 {
	return uint32(v.FreqHi.Value)<<8 | uint32(v.FreqLo.Value)
}

func (v *voice) pw() uint32 {
	return uint32(v.PwHi.Value&0x0F)<<8 | uint32(v.PwLo.Value)
}

// advance moves the oscillator by one sample.
func (v *voice) advance() {
	prev := v.phase
	v.phase = (v.phase + v.fcw()) & phaseMask

	// noise is clocked on each rising edge of phase bit 15
	if prev&(1<<15) == 0 && v.phase&(1<<15) != 0 {
		bit := (v.noise>>22 ^ v.noise>>17) & 1
		v.noise = (v.noise<<1 | bit) & 0x7FFFFF
	}
}

// sync resets the phase if hard sync is on and src's phase MSB just rose.
func (v *voice) sync(src *voice) {
	if v.Ctrl.Value&CtrlSync != 0 && src.phase&phaseMSB != 0 && !src.prevMSB {
		v.phase = 0
	}
}

// latch ends the sample: records the phase MSB and clocks the envelope.
func (v *voice) latch() {
	v.prevMSB = v.phase&phaseMSB != 0
	v.env.clock(v.AD.Value, v.SR.Value)
}

// wave returns the unsigned 10-bit waveform output. Selected waveforms are
// ANDed together. src is the voice providing ring modulation.
func (v *voice) wave(src *voice) uint32 {
	ctrl := v.Ctrl.Value
	out := uint32(0x3FF)
	selected := false

	if ctrl&WaveTri != 0 {
		msb := v.phase&phaseMSB != 0
		if ctrl&CtrlRing != 0 && src.phase&phaseMSB != 0 {
			msb = !msb
		}
		tri := v.phase >> (phaseBits - 11) & 0x3FF
		if msb {
			tri ^= 0x3FF
		}
		out &= tri
		selected = true
	}
	if ctrl&WaveSaw != 0 {
		out &= v.phase >> (phaseBits - 10)
		selected = true
	}
	if ctrl&WavePulse != 0 {
		if v.phase>>(phaseBits-12) < v.pw() {
			out = 0
		}
		selected = true
	}
	if ctrl&WaveNoise != 0 {
		out &= v.noise >> 13 & 0x3FF
		selected = true
	}

	if !selected {
		return 0x200
	}
	return out
}

// output returns the signed 10-bit voice output, scaled by the envelope.
func (v *voice) output(src *voice) int32 {
	w := int32(v.wave(src)) - 0x200
	return w * v.env.output() / 255
}
