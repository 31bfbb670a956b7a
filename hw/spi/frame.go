package spi

import "fmt"

// Frame is a 16-bit command as transmitted on the bus, MSB first:
//
//	15     write flag
//	14..8  register address
//	7..0   data
type Frame uint16

const WriteFlag Frame = 0x8000

// FrameBits is the number of bits in a frame.
const FrameBits = 16

// NewFrame returns the write frame for data at addr. addr is masked to 7
// bits.
func NewFrame(addr, data uint8) Frame {
	return WriteFlag | Frame(addr&0x7F)<<8 | Frame(data)
}

func (f Frame) IsWrite() bool { return f&WriteFlag != 0 }
func (f Frame) Addr() uint8   { return uint8(f>>8) & 0x7F }
func (f Frame) Data() uint8   { return uint8(f) }

// Bit returns the value of the i-th transmitted bit, i=0 being the MSB.
func (f Frame) Bit(i int) bool {
	return f>>(FrameBits-1-i)&1 != 0
}

func (f Frame) String() string {
	if f.IsWrite() {
		return fmt.Sprintf("W[%02x]=%02x", f.Addr(), f.Data())
	}
	return fmt.Sprintf("R[%02x]", f.Addr())
}
