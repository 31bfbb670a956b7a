package coeff

import "testing"

func TestFCW(t *testing.T) {
	tests := []struct {
		freq, fs float64
		want     uint16
	}{
		{440, 50000, 4613},
		{1000, 50000, 10485},
		{20, 50000, 209},
		{6250, 50000, 0}, // 65536 truncated to 16 bits
		{0, 50000, 0},
		{-10, 50000, 0},
	}
	for _, tt := range tests {
		if got := FCW(tt.freq, tt.fs); got != tt.want {
			t.Errorf("FCW(%v, %v) = %d, want %d", tt.freq, tt.fs, got, tt.want)
		}
	}
}

func TestCutoff(t *testing.T) {
	tests := []struct {
		fc, fs float64
		want   int16
	}{
		{1000, 50000, 4115},
		{600, 50000, 2470},
		{0, 50000, 0},
		{20000, 50000, -3208}, // out of Q1.15 range, wraps
	}
	for _, tt := range tests {
		if got := Cutoff(tt.fc, tt.fs); got != tt.want {
			t.Errorf("Cutoff(%v, %v) = %d, want %d", tt.fc, tt.fs, got, tt.want)
		}
	}
}

func TestResonance(t *testing.T) {
	tests := []struct {
		q    float64
		want int16
	}{
		{0.707, 5793},
		{0.5, 8192},
		{1, 4096},
		{4, 1024},
	}
	for _, tt := range tests {
		if got := Resonance(tt.q); got != tt.want {
			t.Errorf("Resonance(%v) = %d, want %d", tt.q, got, tt.want)
		}
	}
}

func TestSplit(t *testing.T) {
	lo, hi := Split(uint16(0x1205))
	if lo != 0x05 || hi != 0x12 {
		t.Errorf("Split(0x1205) = %02x, %02x", lo, hi)
	}
	lo, hi = Split(int16(-2))
	if lo != 0xFE || hi != 0xFF {
		t.Errorf("Split(-2) = %02x, %02x", lo, hi)
	}
}
