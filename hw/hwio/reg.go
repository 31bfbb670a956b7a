package hwio

// Reg8 is an 8-bit register written over SPI. Bits set in RoMask are not
// implemented by the chip: writes leave them unchanged.
type Reg8 struct {
	Name    string
	Value   uint8
	RoMask  uint8
	WriteCb func(old, val uint8)
}

// Write8 stores val, masked, and notifies WriteCb with the previous and the
// stored value.
func (reg *Reg8) Write8(val uint8) {
	old := reg.Value
	reg.Value = (reg.Value & reg.RoMask) | (val &^ reg.RoMask)
	if reg.WriteCb != nil {
		reg.WriteCb(old, reg.Value)
	}
}
