package tt6581

import "testing"

func TestEnvelope(t *testing.T) {
	e := envelope{rates: newRates(50000)}

	clock := func(n int, ad, sr uint8) {
		for range n {
			e.clock(ad, sr)
		}
	}

	clock(10, 0x00, 0xA0)
	if e.output() != 0 {
		t.Fatalf("envelope moved without gate: %d", e.output())
	}

	// attack 0 is 2ms, 100 samples at 50kHz.
	e.gate(true)
	clock(100, 0x00, 0xA0)
	if e.state != envAttack || e.output() != 254 {
		t.Errorf("after 100 samples: state=%d output=%d, want attack and 254", e.state, e.output())
	}
	clock(1, 0x00, 0xA0)
	if e.state != envDecay || e.output() != 255 {
		t.Errorf("after 101 samples: state=%d output=%d, want decay and 255", e.state, e.output())
	}

	// decay 0 is 6ms, sustain 10 is 170.
	clock(200, 0x00, 0xA0)
	if e.output() != 170 {
		t.Errorf("sustain level = %d, want 170", e.output())
	}

	// release 0 is 6ms.
	e.gate(false)
	clock(150, 0x00, 0xA0)
	if out := e.output(); out == 0 || out >= 170 {
		t.Errorf("mid-release output = %d", out)
	}
	clock(300, 0x00, 0xA0)
	if e.output() != 0 {
		t.Errorf("released output = %d, want 0", e.output())
	}
}

func TestVoiceWaves(t *testing.T) {
	var v, src voice
	v.reset()
	src.reset()
	v.PwHi.Value, v.PwLo.Value = 0x08, 0x00

	tests := []struct {
		ctrl  uint8
		phase uint32
		want  uint32
	}{
		{WaveSaw, 0, 0},
		{WaveSaw, phaseMSB, 0x200},
		{WaveSaw, phaseMask, 0x3FF},
		{WaveTri, 0, 0},
		{WaveTri, phaseMSB - 1, 0x3FF},
		{WaveTri, phaseMask, 0},
		{WavePulse, phaseMSB - 1, 0},
		{WavePulse, phaseMSB, 0x3FF},
		{WaveSaw | WavePulse, phaseMSB - 1, 0},
		{0, 12345, 0x200},
	}
	for _, tt := range tests {
		v.Ctrl.Value = tt.ctrl
		v.phase = tt.phase
		if got := v.wave(&src); got != tt.want {
			t.Errorf("ctrl=%02x phase=%05x: wave = %03x, want %03x", tt.ctrl, tt.phase, got, tt.want)
		}
	}
}

func TestVoiceRingAndSync(t *testing.T) {
	var v, src voice
	v.reset()
	src.reset()

	// Ring modulation flips the triangle when the source MSB is set.
	v.Ctrl.Value = WaveTri | CtrlRing
	v.phase = 0x100
	src.phase = phaseMSB
	if got := v.wave(&src); got != 0x3FF^0x001 {
		t.Errorf("ring modulated triangle = %03x", got)
	}

	// Hard sync resets the phase when the source MSB rises.
	v.Ctrl.Value = WaveSaw | CtrlSync
	v.phase = 0x12345
	src.prevMSB = false
	src.phase = phaseMSB
	v.sync(&src)
	if v.phase != 0 {
		t.Errorf("synced phase = %05x, want 0", v.phase)
	}

	v.phase = 0x12345
	src.prevMSB = true
	v.sync(&src)
	if v.phase != 0x12345 {
		t.Errorf("phase reset without a rising source MSB")
	}
}

func TestVoiceAdvance(t *testing.T) {
	var v voice
	v.reset()
	v.FreqLo.Value, v.FreqHi.Value = 0x05, 0x12 // 440Hz

	for range 50000 {
		v.advance()
	}
	// 4613 per sample, over a second.
	if want := uint32(4613*50000) & phaseMask; v.phase != want {
		t.Errorf("phase = %05x, want %05x", v.phase, want)
	}
}

func TestFilterDC(t *testing.T) {
	var f filter
	f.FHi.Value, f.FLo.Value = 0x10, 0x13 // 1kHz
	f.QHi.Value, f.QLo.Value = 0x16, 0xA1 // 0.707

	f.EnMode.Value = FiltLP
	var out int32
	for range 5000 {
		out = f.clock(4000)
	}
	// truncation leaves a small steady-state error
	if out < 3960 || out > 4040 {
		t.Errorf("low-pass DC output = %d, want ~4000", out)
	}

	f.reset()
	f.EnMode.Value = FiltHP
	for range 5000 {
		out = f.clock(4000)
	}
	if out < -40 || out > 40 {
		t.Errorf("high-pass DC output = %d, want ~0", out)
	}
}

func TestMixVolume(t *testing.T) {
	var f filter
	f.Volume.Value = 0xFF
	if got := f.mix([NumVoices]int32{100, 200, -50}); got != 1000 {
		t.Errorf("direct mix = %d, want 1000", got)
	}
	f.Volume.Value = 0
	if got := f.mix([NumVoices]int32{100, 200, -50}); got != 0 {
		t.Errorf("muted mix = %d, want 0", got)
	}
}

func TestDSMDensity(t *testing.T) {
	for _, x := range []int32{0, 4096, -4096, sampleMax, sampleMin} {
		var d dsm
		ones := 0
		const n = 16384
		for range n {
			if d.clock(x) {
				ones++
			}
		}
		want := int(int64(x-sampleMin) * n / (1 << 14))
		if ones < want-2 || ones > want+2 {
			t.Errorf("x=%d: %d ones out of %d, want ~%d", x, ones, n, want)
		}
	}
}
