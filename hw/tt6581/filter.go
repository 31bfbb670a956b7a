package tt6581

import "sidbench/hw/hwio"

const (
	sampleMax = 1<<13 - 1
	sampleMin = -1 << 13

	svfStateMax = 1 << 17
)

// filter is the Chamberlin state-variable filter and the output mixer.
// Its registers form a bank mapped at FiltBase.
type filter struct {
	FLo    hwio.Reg8 `hwio:"offset=0x00"`
	FHi    hwio.Reg8 `hwio:"offset=0x01"`
	QLo    hwio.Reg8 `hwio:"offset=0x02"`
	QHi    hwio.Reg8 `hwio:"offset=0x03"`
	EnMode hwio.Reg8 `hwio:"offset=0x04"`
	Volume hwio.Reg8 `hwio:"offset=0x05"`

	low, band int64
}

func (f *filter) reset() {
	f.low, f.band = 0, 0
}

func (f *filter) coeffF() int64 { return int64(int16(uint16(f.FHi.Value)<<8 | uint16(f.FLo.Value))) }
func (f *filter) coeffQ() int64 { return int64(int16(uint16(f.QHi.Value)<<8 | uint16(f.QLo.Value))) }

// clock runs the filter for one sample on in (14-bit) and returns the
// filter output selected by the mode bits.
func (f *filter) clock(in int32) int32 {
	cf, cq := f.coeffF(), f.coeffQ()

	f.low = clamp(f.low+(cf*f.band)>>15, svfStateMax)
	high := clamp(int64(in)-f.low-(cq*f.band)>>12, svfStateMax)
	f.band = clamp(f.band+(cf*high)>>15, svfStateMax)

	mode := f.EnMode.Value
	var out int64
	if mode&FiltLP != 0 {
		out += f.low
	}
	if mode&FiltBP != 0 {
		out += f.band
	}
	if mode&FiltHP != 0 {
		out += high
	}
	return int32(clamp(out, svfStateMax))
}

// mix routes the voice outputs (signed 10-bit) through the filter or
// directly to the output and applies the master volume. It returns a signed
// 14-bit sample.
func (f *filter) mix(voices [NumVoices]int32) int32 {
	var filtered, direct int32
	for i, v := range voices {
		// 3 voices at 4x fit in 14 bits.
		v <<= 2
		if hwio.GetBit8(f.EnMode.Value, uint(3+i)) {
			filtered += v
		} else {
			direct += v
		}
	}

	out := f.clock(filtered) + direct
	out = out * int32(f.Volume.Value) / 255
	return clamp(out, -sampleMin)
}

// clamp limits v to [-lim, lim-1].
func clamp[T int32 | int64](v, lim T) T {
	return min(max(v, -lim), lim-1)
}
