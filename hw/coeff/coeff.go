// Package coeff converts frequencies and filter parameters into the
// fixed-point register values of the synthesizer.
package coeff

import "math"

// PhaseBits is the width of the oscillator phase accumulator.
const PhaseBits = 19

// FCW returns the frequency control word for an oscillator running at freq
// Hz when the phase accumulator advances once per sample at fs Hz.
//
// The result is truncated, not rounded, then truncated to 16 bits.
func FCW(freq, fs float64) uint16 {
	if freq <= 0 {
		return 0
	}
	return uint16(uint64(math.Floor(freq * (1 << PhaseBits) / fs)))
}

// Cutoff returns the Q1.15 state-variable filter coefficient
// 2·sin(π·fc/fs) for a cutoff at fc Hz.
//
// The coefficient wraps around when it reaches 1.0 (fc > fs/6) and the sine
// aliases past fs/2. Callers keep fc in range.
func Cutoff(fc, fs float64) int16 {
	return int16(int32(math.Round(2 * math.Sin(math.Pi*fc/fs) * 32768)))
}

// Resonance returns the Q4.12 damping coefficient 1/q. q must be positive.
func Resonance(q float64) int16 {
	return int16(int32(math.Round(4096 / q)))
}

// Split returns the low and high bytes of v, in register order.
func Split[T ~uint16 | ~int16](v T) (lo, hi uint8) {
	return uint8(v), uint8(uint16(v) >> 8)
}
