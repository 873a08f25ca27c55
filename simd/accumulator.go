package simd

// Accumulator keeps three running lane-wise sums: Σa², Σb² and Σab.
// The zero value is ready to use.
type Accumulator struct {
	a2, b2, dot Vec8
}

func (acc *Accumulator) addVectors(a, b Vec8) {
	acc.a2 = fmadd8(a, a, acc.a2)
	acc.b2 = fmadd8(b, b, acc.b2)
	acc.dot = fmadd8(a, b, acc.dot)
}

// Add loads exactly Lanes elements from a[offset:] and b[offset:] and accumulates them.
func (acc *Accumulator) Add(a, b []float32, offset int) {
	acc.addVectors(load8(a, offset), load8(b, offset))
}

// AddPartial accumulates up to Lanes elements starting at offset, where length counts
// from index 0 of a and b, not from offset. Lanes at or past length read as zero and are
// never loaded, so offset may lie beyond the end of the slices.
func (acc *Accumulator) AddPartial(a, b []float32, offset, length int) {
	m := RemainderMask(length - offset)
	acc.addVectors(maskLoad8(a, offset, m), maskLoad8(b, offset, m))
}

// Combine adds the sums of other into acc, lane by lane.
func (acc *Accumulator) Combine(other *Accumulator) {
	acc.dot = add8(acc.dot, other.dot)
	acc.a2 = add8(acc.a2, other.a2)
	acc.b2 = add8(acc.b2, other.b2)
}

// Reduce returns [ Σa², Σb², Σab, 0 ].
func (acc *Accumulator) Reduce() Vec4 {
	return HAdd3x8(acc.a2, acc.b2, acc.dot)
}

// Result reduces and finalizes the accumulated sums into a cosine similarity.
func (acc *Accumulator) Result() float32 {
	return Finalize(acc.Reduce())
}
