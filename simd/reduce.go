package simd

// hadd3x4 computes the horizontal sums of three narrow vectors at once:
// [ sum(a), sum(b), sum(c), 0 ]. 3 additions, 4 shuffles, 2 blends.
func hadd3x4(a, b, c Vec4) Vec4 {
	// a = [ a.xy + a.zw, b.xy + b.zw ]
	t0 := shuffle4(a, b, shuffleImm(1, 0, 3, 2))
	t1 := blend4(a, b, 0b1100)
	a = add4(t0, t1)

	// c.xy += c.zw, then c.zw = 0
	c = add4(c, movehl4(c, c))
	c = blend4(c, Vec4{}, 0b1100)

	// [ a.x, a.z, c.x, c.w ] + [ a.y, a.w, c.y, c.w ]
	t0 = shuffle4(a, c, shuffleImm(3, 0, 2, 0))
	t1 = shuffle4(a, c, shuffleImm(3, 1, 3, 1))
	return add4(t0, t1)
}

// HAdd3x8 reduces three wide vectors into [ sum(a), sum(b), sum(c), 0 ]. Each input is
// first folded to 4 lanes by adding its upper half onto its lower half.
func HAdd3x8(a, b, c Vec8) Vec4 {
	a4 := add4(upper4(a), lower4(a))
	b4 := add4(upper4(b), lower4(b))
	c4 := add4(upper4(c), lower4(c))
	return hadd3x4(a4, b4, c4)
}

// Finalize turns a reduced [ Σa², Σb², Σab, 0 ] vector into z / (sqrt(x) * sqrt(y)).
// A zero norm gives NaN or ±Inf.
func Finalize(v Vec4) float32 {
	dot := v[2]
	v = sqrt4(v)
	return dot / (v[0] * v[1])
}

// PairwiseSum adds partial results with a balanced binary tree instead of a running sum.
// An empty input gives a zero vector.
func PairwiseSum(parts []Vec4) Vec4 {
	switch len(parts) {
	case 0:
		return Vec4{}
	case 1:
		return parts[0]
	}
	half := (len(parts) + 1) / 2
	return add4(PairwiseSum(parts[:half]), PairwiseSum(parts[half:]))
}
