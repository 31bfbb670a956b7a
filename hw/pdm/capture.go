// Package pdm captures the one-bit output of the synthesizer into a packed
// binary stream and converts such streams back to PCM audio.
package pdm

import (
	"bufio"
	"io"

	"github.com/pkg/errors"

	"sidbench/emu/log"
)

var ErrFlushed = errors.New("pdm: capture already flushed")

// Capture samples a one-bit signal every ratio clock ticks and packs the
// samples, earliest first, into the most significant bits of each byte.
type Capture struct {
	ratio uint64
	w     *bufio.Writer

	shift uint8  // accumulator, last captured bit is bit 0
	nbits uint8  // bits in the accumulator, 0..7
	bits  uint64 // total captured bits
	bytes uint64 // total bytes written

	flushed bool
	err     error
}

// NewCapture returns a capture writing packed bytes to w, keeping one bit
// every ratio ticks.
func NewCapture(w io.Writer, ratio uint64) *Capture {
	if ratio == 0 {
		panic("pdm: zero decimation ratio")
	}
	return &Capture{
		ratio: ratio,
		w:     bufio.NewWriterSize(w, 64*1024),
	}
}

// OnTick must be called after every clock tick with the number of the tick
// and the level of the captured pin.
func (c *Capture) OnTick(tick uint64, bit bool) {
	if tick%c.ratio == 0 {
		c.Capture(bit)
	}
}

// Capture appends one bit to the stream.
func (c *Capture) Capture(bit bool) {
	c.shift <<= 1
	if bit {
		c.shift |= 1
	}
	c.nbits++
	c.bits++
	if c.nbits == 8 {
		c.emit(c.shift)
		c.shift, c.nbits = 0, 0
	}
}

func (c *Capture) emit(b uint8) {
	if c.err != nil {
		return
	}
	if err := c.w.WriteByte(b); err != nil {
		c.err = errors.Wrap(err, "pdm: write")
		log.ModCapture.ErrorZ("capture write failed").Error("err", err).End()
		return
	}
	c.bytes++
}

// Flush writes the remaining bits, if any, as a last byte padded with zeros
// in its low bits, then flushes the underlying writer. Flush must be called
// exactly once, at the end of the stream.
func (c *Capture) Flush() error {
	if c.flushed {
		return ErrFlushed
	}
	c.flushed = true

	if c.nbits > 0 {
		c.emit(c.shift << (8 - c.nbits))
		c.shift, c.nbits = 0, 0
	}
	if c.err == nil {
		if err := c.w.Flush(); err != nil {
			c.err = errors.Wrap(err, "pdm: flush")
		}
	}

	log.ModCapture.InfoZ("capture flushed").
		Uint64("bits", c.bits).
		Uint64("bytes", c.bytes).
		End()
	return c.err
}

// Ratio returns the decimation ratio.
func (c *Capture) Ratio() uint64 { return c.ratio }

// Bits returns the number of captured bits.
func (c *Capture) Bits() uint64 { return c.bits }

// Bytes returns the number of bytes written so far.
func (c *Capture) Bytes() uint64 { return c.bytes }
