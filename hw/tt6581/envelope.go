package tt6581

import "sidbench/hw/hwio"

// Attack times in milliseconds, indexed by the 4-bit attack value. Decay
// and release take three times as long.
var attackMs = [16]float64{
	2, 8, 16, 24, 38, 56, 68, 80, 100, 250, 500, 800, 1000, 3000, 5000, 8000,
}

type envState uint8

const (
	envRelease envState = iota
	envAttack
	envDecay
)

const envMax = 255 << 16

// rates holds the per-sample envelope increments, in 8.16 fixed point.
type rates struct {
	attack [16]uint32
	decay  [16]uint32
}

func newRates(sampleRate float64) *rates {
	var r rates
	for i, ms := range attackMs {
		r.attack[i] = step(ms, sampleRate)
		r.decay[i] = step(3*ms, sampleRate)
	}
	return &r
}

// step returns the increment that covers the full range in ms milliseconds.
func step(ms, sampleRate float64) uint32 {
	n := ms * sampleRate / 1000
	if n < 1 {
		n = 1
	}
	return uint32(envMax / n)
}

// envelope is a linear ADSR envelope generator, clocked once per sample.
type envelope struct {
	rates *rates
	state envState
	level uint32 // 8.16 fixed point
}

func (e *envelope) reset() {
	e.state = envRelease
	e.level = 0
}

func (e *envelope) gate(on bool) {
	if on {
		e.state = envAttack
	} else {
		e.state = envRelease
	}
}

func (e *envelope) clock(ad, sr uint8) {
	a, d := hwio.Nibbles(ad)
	s, r := hwio.Nibbles(sr)
	sustain := uint32(s) * 17 << 16

	switch e.state {
	case envAttack:
		e.level += e.rates.attack[a]
		if e.level >= envMax {
			e.level = envMax
			e.state = envDecay
		}
	case envDecay:
		if e.level > sustain {
			e.level = max(sustain, e.level-min(e.level, e.rates.decay[d]))
		}
	case envRelease:
		e.level -= min(e.level, e.rates.decay[r])
	}
}

// output returns the envelope level, 0-255.
func (e *envelope) output() int32 {
	return int32(e.level >> 16)
}
