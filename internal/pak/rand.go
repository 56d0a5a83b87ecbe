package pak

// crtRand is the linear congruential generator of the Microsoft C runtime.
type crtRand struct {
	seed uint32
}

func newCRTRand(seed uint32) *crtRand {
	return &crtRand{seed: seed}
}

// next returns a value in [0, 0x7FFF].
func (r *crtRand) next() int {
	r.seed = r.seed*214013 + 2531011
	return int((r.seed >> 16) & 0x7FFF)
}

// lehmerRand is a Park-Miller minimal standard generator using Schrage's
// method, scaled down to a byte-sized range.
type lehmerRand struct {
	seed int32
}

func newLehmerRand(seed int32) *lehmerRand {
	return &lehmerRand{seed: seed ^ 123459876}
}

// next returns a value in [0, 255].
func (r *lehmerRand) next() int {
	r.seed = 48271*(r.seed%44488) - 3399*(r.seed/44488)
	if r.seed < 0 {
		r.seed += 2147483647
	}
	return int(float64(r.seed) * 4.656612875245797e-10 * 256)
}
