// Package tt6581 supports the TT6581, an SPI-programmed three-voice
// synthesizer with a state-variable filter and a one-bit delta-sigma output.
package tt6581

// Voice register banks.
const (
	V1Base = 0x00
	V2Base = 0x07
	V3Base = 0x0E

	NumVoices = 3
)

// Voice register offsets.
const (
	RegFreqLo = 0x00
	RegFreqHi = 0x01
	RegPwLo   = 0x02
	RegPwHi   = 0x03
	RegCtrl   = 0x04
	RegAD     = 0x05
	RegSR     = 0x06
)

// Filter register bank and offsets.
const (
	FiltBase = 0x15

	RegFLo    = 0x00
	RegFHi    = 0x01
	RegQLo    = 0x02
	RegQHi    = 0x03
	RegEnMode = 0x04
	RegVolume = 0x05

	// NumRegs is the number of mapped registers.
	NumRegs = FiltBase + 6
)

// Waveform bits of the control register.
const (
	WaveTri   = 0x10
	WaveSaw   = 0x20
	WavePulse = 0x40
	WaveNoise = 0x80
)

// Other control register bits.
const (
	CtrlGate = 0x01
	CtrlSync = 0x02
	CtrlRing = 0x04
)

// Filter mode bits and voice routing bits of the EN_MODE register.
const (
	FiltLP = 0x01
	FiltBP = 0x02
	FiltHP = 0x04
	FiltBR = FiltLP | FiltHP

	FiltV1 = 0x08
	FiltV2 = 0x10
	FiltV3 = 0x20

	FiltAll = FiltV1 | FiltV2 | FiltV3
)

var voiceBases = [NumVoices]uint8{V1Base, V2Base, V3Base}

// VoiceBase returns the base register address of voice v (0-2).
func VoiceBase(v int) uint8 {
	return voiceBases[v]
}
