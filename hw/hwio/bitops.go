package hwio

// GetBit8 reports whether bit n of v is set.
func GetBit8(v uint8, n uint) bool {
	return v>>n&1 != 0
}

// Nibbles returns the high and low nibbles of v.
func Nibbles(v uint8) (hi, lo uint8) {
	return v >> 4, v & 0x0F
}
