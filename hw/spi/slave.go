package spi

// Slave is the device side of the bus. It's clocked by the device's system
// clock and samples the bus pins synchronously, so it sees the edges of SCLK
// one system clock late, as real hardware does.
//
// A transfer starts when CS goes low. MOSI is shifted in on SCLK rising
// edges. After 8 bits, a command byte with the write flag cleared is a read:
// OnRead provides the byte which is shifted out on MISO on the following
// falling edges. A write is committed with OnWrite on the 16th rising edge.
type Slave struct {
	OnWrite func(addr, data uint8)
	OnRead  func(addr uint8) uint8

	prevSCLK bool
	shift    uint16
	nbits    int
	read     bool
	out      uint8
	miso     bool
}

func (s *Slave) Reset() {
	*s = Slave{OnWrite: s.OnWrite, OnRead: s.OnRead}
}

// Clock samples the bus, it must be called once per system clock.
func (s *Slave) Clock(cs, sclk, mosi bool) {
	rise := sclk && !s.prevSCLK
	fall := !sclk && s.prevSCLK
	s.prevSCLK = sclk

	if cs {
		s.shift, s.nbits, s.read, s.miso = 0, 0, false, false
		return
	}

	if rise && s.nbits < FrameBits {
		s.shift <<= 1
		if mosi {
			s.shift |= 1
		}
		s.nbits++

		switch s.nbits {
		case 8:
			if s.shift&0x80 == 0 {
				s.read = true
				if s.OnRead != nil {
					s.out = s.OnRead(uint8(s.shift) & 0x7F)
				}
			}
		case FrameBits:
			f := Frame(s.shift)
			if f.IsWrite() && s.OnWrite != nil {
				s.OnWrite(f.Addr(), f.Data())
			}
		}
	}

	if fall && s.read && s.nbits >= 8 && s.nbits < FrameBits {
		s.miso = s.out&0x80 != 0
		s.out <<= 1
	}
}

// MISO returns the level driven on the MISO pin.
func (s *Slave) MISO() bool { return s.miso }
