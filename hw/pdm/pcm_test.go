package pdm

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDecodeSquare(t *testing.T) {
	const (
		bitRate    = 10_000_000
		sampleRate = 50_000
		halfPeriod = 5000 // bits, 1kHz square
		nbits      = 800_000
	)

	var buf bytes.Buffer
	c := NewCapture(&buf, 1)
	for i := range nbits {
		c.Capture((i/halfPeriod)%2 == 0)
	}
	if err := c.Flush(); err != nil {
		t.Fatal(err)
	}

	samples, err := Decode(&buf, bitRate, sampleRate)
	if err != nil {
		t.Fatal(err)
	}

	want := nbits * sampleRate / bitRate
	if len(samples) < want-1 || len(samples) > want+1 {
		t.Fatalf("got %d samples, want %d", len(samples), want)
	}

	const perHalf = halfPeriod * sampleRate / bitRate
	for half := 2; half < len(samples)/perHalf-1; half++ {
		s := samples[half*perHalf+perHalf/2]
		if half%2 == 0 && s <= 0 {
			t.Errorf("half period %d: sample %d should be positive", half, s)
		}
		if half%2 == 1 && s >= 0 {
			t.Errorf("half period %d: sample %d should be negative", half, s)
		}
	}
}

func TestDecodeInvalidRates(t *testing.T) {
	if _, err := Decode(bytes.NewReader(nil), 1000, 50000); err == nil {
		t.Errorf("bit rate below sample rate should fail")
	}
	if _, err := Decode(bytes.NewReader(nil), 1e12, 1); err == nil {
		t.Errorf("ratio above blip.MaxRatio should fail")
	}
}

func TestNormalize(t *testing.T) {
	s := []int16{100, -200, 50, 0}
	Normalize(s)
	if diff := cmp.Diff([]int16{16383, -32767, 8191, 0}, s); diff != "" {
		t.Errorf("Normalize mismatch (-want +got):\n%s", diff)
	}

	silence := []int16{0, 0}
	Normalize(silence)
	if diff := cmp.Diff([]int16{0, 0}, silence); diff != "" {
		t.Errorf("Normalize(silence) mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteWAV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteWAV(&buf, []int16{1, -1, 0x1234}, 50000); err != nil {
		t.Fatal(err)
	}

	b := buf.Bytes()
	if len(b) != wavHeaderSize+6 {
		t.Fatalf("wav size = %d, want %d", len(b), wavHeaderSize+6)
	}

	le := binary.LittleEndian
	got := struct {
		Riff, Wave, Fmt, Data string
		Size, Rate, DataSize  uint32
		Format, Channels, Bps uint16
	}{
		Riff: string(b[0:4]), Wave: string(b[8:12]), Fmt: string(b[12:16]), Data: string(b[36:40]),
		Size: le.Uint32(b[4:]), Rate: le.Uint32(b[24:]), DataSize: le.Uint32(b[40:]),
		Format: le.Uint16(b[20:]), Channels: le.Uint16(b[22:]), Bps: le.Uint16(b[34:]),
	}
	want := got
	want.Riff, want.Wave, want.Fmt, want.Data = "RIFF", "WAVE", "fmt ", "data"
	want.Size, want.Rate, want.DataSize = 36+6, 50000, 6
	want.Format, want.Channels, want.Bps = 1, 1, 16
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("wav header mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]byte{0x01, 0x00, 0xFF, 0xFF, 0x34, 0x12}, b[44:]); diff != "" {
		t.Errorf("wav data mismatch (-want +got):\n%s", diff)
	}
}
