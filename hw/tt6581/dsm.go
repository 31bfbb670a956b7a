package tt6581

// dsm is a first-order delta-sigma modulator turning signed 14-bit samples
// into a one-bit stream whose density of ones follows the sample value.
type dsm struct {
	integ int32
	out   bool
}

func (d *dsm) reset() {
	d.integ = 0
	d.out = false
}

func (d *dsm) clock(x int32) bool {
	fb := int32(sampleMin)
	if d.out {
		fb = sampleMax + 1
	}
	d.integ += x - fb
	d.out = d.integ >= 0
	return d.out
}
