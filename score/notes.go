package score

// Note frequencies in Hz.
const (
	C2  = 65.41
	D2  = 73.42
	Eb2 = 77.78
	F2  = 87.31
	G2  = 98.00
	Ab2 = 103.83
	Bb2 = 116.54
	B2  = 123.47
	C3  = 130.81
	D3  = 146.83
	Eb3 = 155.56
	F3  = 174.61
	G3  = 196.00
	Ab3 = 207.65
	Bb3 = 233.08
	B3  = 246.94
	C4  = 261.63
	D4  = 293.66
	Eb4 = 311.13
	F4  = 349.23
	G4  = 392.00
	Ab4 = 415.30
	Bb4 = 466.16
	B4  = 493.88
	C5  = 523.25
	D5  = 587.33
	Eb5 = 622.25
	G5  = 783.99
)

// Note lengths in seconds, at 120 BPM.
const (
	Eighth  = 0.25
	Quarter = 0.5
	Half    = 1.0
)
