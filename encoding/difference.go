package encoding

// Difference writes the second-order differences of samples into dst.
//
// The anchor is the logical sample following the block and closes the first-difference
// sequence: d[k] = s[k+1] - s[k] for k < m-1 and d[m-1] = anchor - s[m-1]. The second
// difference is then taken in place from the highest index down, leaving d[0] as the
// first difference. All arithmetic wraps modulo 2^32, so any input round-trips.
//
// dst must be at least len(samples) long; samples and dst may alias.
func Difference(dst, samples []int32, anchor int32) {
	m := len(samples)
	if m == 0 {
		return
	}

	dst = dst[:m]
	for k := 0; k < m-1; k++ {
		dst[k] = samples[k+1] - samples[k]
	}
	dst[m-1] = anchor - samples[m-1]

	for k := m - 1; k >= 1; k-- {
		dst[k] -= dst[k-1]
	}
}

// Integrate reverses Difference in place.
//
// Given second differences and the block's first sample, it restores the original
// samples into diffs and returns the continuity anchor, the value the caller passes as
// the expected first sample of the next block.
func Integrate(diffs []int32, first int32) int32 {
	for k := 1; k < len(diffs); k++ {
		diffs[k] += diffs[k-1]
	}

	running := first
	for k, d := range diffs {
		diffs[k] = running
		running += d
	}

	return running
}
