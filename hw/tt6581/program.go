package tt6581

import (
	"sidbench/hw/coeff"
)

// A RegWriter writes synthesizer registers, usually over SPI.
type RegWriter interface {
	Write(addr, data uint8) error
}

// Programmer provides high level operations on top of register writes.
type Programmer struct {
	w  RegWriter
	fs float64
}

// NewProgrammer returns a programmer writing to w, for a synthesizer
// running at sampleRate samples per second.
func NewProgrammer(w RegWriter, sampleRate float64) *Programmer {
	return &Programmer{w: w, fs: sampleRate}
}

func (p *Programmer) write(regs ...[2]uint8) error {
	for _, r := range regs {
		if err := p.w.Write(r[0], r[1]); err != nil {
			return err
		}
	}
	return nil
}

// SetVoiceFreq sets the oscillator frequency of voice v.
func (p *Programmer) SetVoiceFreq(v int, freq float64) error {
	base := VoiceBase(v)
	lo, hi := coeff.Split(coeff.FCW(freq, p.fs))
	return p.write(
		[2]uint8{base + RegFreqLo, lo},
		[2]uint8{base + RegFreqHi, hi},
	)
}

// SetPulseWidth sets the 12-bit pulse width of voice v.
func (p *Programmer) SetPulseWidth(v int, pw uint16) error {
	base := VoiceBase(v)
	lo, hi := coeff.Split(pw & 0x0FFF)
	return p.write(
		[2]uint8{base + RegPwLo, lo},
		[2]uint8{base + RegPwHi, hi},
	)
}

// SetADSR sets the envelope of voice v, each parameter is 4 bits.
func (p *Programmer) SetADSR(v int, attack, decay, sustain, release uint8) error {
	base := VoiceBase(v)
	return p.write(
		[2]uint8{base + RegAD, (attack&0x0F)<<4 | decay&0x0F},
		[2]uint8{base + RegSR, (sustain&0x0F)<<4 | release&0x0F},
	)
}

// SetControl sets the waveform bits and the gate of voice v.
func (p *Programmer) SetControl(v int, wave uint8, gate bool) error {
	ctrl := wave
	if gate {
		ctrl |= CtrlGate
	}
	return p.write([2]uint8{VoiceBase(v) + RegCtrl, ctrl})
}

// SetupVoice sets a 50% pulse width and writes the control register.
func (p *Programmer) SetupVoice(v int, ctrl uint8) error {
	if err := p.SetPulseWidth(v, 0x800); err != nil {
		return err
	}
	return p.write([2]uint8{VoiceBase(v) + RegCtrl, ctrl})
}

// SetFilter sets the filter cutoff frequency, its Q factor and the
// routing/mode register.
func (p *Programmer) SetFilter(fc, q float64, enMode uint8) error {
	flo, fhi := coeff.Split(coeff.Cutoff(fc, p.fs))
	qlo, qhi := coeff.Split(coeff.Resonance(q))
	return p.write(
		[2]uint8{FiltBase + RegFLo, flo},
		[2]uint8{FiltBase + RegFHi, fhi},
		[2]uint8{FiltBase + RegQLo, qlo},
		[2]uint8{FiltBase + RegQHi, qhi},
		[2]uint8{FiltBase + RegEnMode, enMode},
	)
}

// SetVolume sets the master volume.
func (p *Programmer) SetVolume(vol uint8) error {
	return p.write([2]uint8{FiltBase + RegVolume, vol})
}
