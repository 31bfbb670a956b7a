package pdm

import (
	"bufio"
	"io"

	"github.com/arl/blip"
	"github.com/pkg/errors"

	"sidbench/emu/log"
)

// Amplitude of a PDM level, in PCM sample units.
const Amplitude = 8192

// samples per blip frame.
const frameSamples = 1000

// Converter turns a PDM bit stream into PCM samples. Each bit is one input
// clock of a band-limited step synthesizer whose output runs at the audio
// sample rate, which both low-pass filters and decimates the stream.
type Converter struct {
	buf         *blip.Buffer
	frameClocks uint64

	clock uint64 // position in the current frame
	level int32
	out   []int16
}

// NewConverter returns a converter for a stream of bitRate bits per second
// producing sampleRate samples per second.
func NewConverter(bitRate, sampleRate float64) (*Converter, error) {
	if sampleRate <= 0 || bitRate < sampleRate {
		return nil, errors.Errorf("pdm: invalid rates, bit rate %v, sample rate %v", bitRate, sampleRate)
	}
	if bitRate/sampleRate > blip.MaxRatio {
		return nil, errors.Errorf("pdm: bit rate %v too high for sample rate %v", bitRate, sampleRate)
	}

	buf := blip.NewBuffer(2 * frameSamples)
	buf.SetRates(bitRate, sampleRate)
	return &Converter{
		buf:         buf,
		frameClocks: uint64(bitRate / sampleRate * frameSamples),
	}, nil
}

// Write feeds packed PDM bytes, most significant bit first.
func (c *Converter) Write(p []byte) (int, error) {
	for _, b := range p {
		for i := 7; i >= 0; i-- {
			c.addBit(b>>i&1 != 0)
		}
	}
	return len(p), nil
}

func (c *Converter) addBit(bit bool) {
	level := int32(-Amplitude)
	if bit {
		level = Amplitude
	}
	if level != c.level {
		c.buf.AddDelta(c.clock, level-c.level)
		c.level = level
	}
	c.clock++
	if c.clock == c.frameClocks {
		c.endFrame()
	}
}

func (c *Converter) endFrame() {
	c.buf.EndFrame(int(c.clock))
	c.clock = 0

	n := c.buf.SamplesAvailable()
	start := len(c.out)
	c.out = append(c.out, make([]int16, n)...)
	c.buf.ReadSamples(c.out[start:], n, blip.Mono)
}

// Samples ends the current frame and returns all samples produced so far.
func (c *Converter) Samples() []int16 {
	if c.clock > 0 {
		c.endFrame()
	}
	return c.out
}

// Decode reads a whole PDM stream from r and returns its PCM samples.
func Decode(r io.Reader, bitRate, sampleRate float64) ([]int16, error) {
	conv, err := NewConverter(bitRate, sampleRate)
	if err != nil {
		return nil, err
	}
	n, err := io.Copy(conv, bufio.NewReader(r))
	if err != nil {
		return nil, errors.Wrap(err, "pdm: read")
	}

	samples := conv.Samples()
	log.ModAudio.InfoZ("pdm decoded").
		Int64("bytes", n).
		Int("samples", len(samples)).
		End()
	return samples, nil
}

// Normalize scales samples in place so that the loudest one reaches full
// scale. Silence is left untouched.
func Normalize(samples []int16) {
	var peak int32
	for _, s := range samples {
		v := int32(s)
		if v < 0 {
			v = -v
		}
		peak = max(peak, v)
	}
	if peak == 0 {
		return
	}
	for i, s := range samples {
		samples[i] = int16(int32(s) * 32767 / peak)
	}
}
