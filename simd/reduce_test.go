package simd

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHAdd3x8(t *testing.T) {
	a := Vec8{1, 2, 3, 4, 5, 6, 7, 8}
	b := Vec8{10, 20, 30, 40, 50, 60, 70, 80}
	c := Vec8{-1, -1, -1, -1, 1, 1, 1, 2}
	got := HAdd3x8(a, b, c)
	assert.Equal(t, Vec4{36, 360, 1, 0}, got)
}

func TestHAdd3x8UnusedLaneIsZero(t *testing.T) {
	inf := float32(math.Inf(1))
	got := HAdd3x8(Vec8{1}, Vec8{2}, Vec8{inf, 0, 0, 0, 0, 0, 0, 0})
	require.Equal(t, float32(0), got[3])
	require.True(t, math.IsInf(float64(got[2]), 1))
}

func TestAccumulatorReduce(t *testing.T) {
	a := []float32{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}
	b := []float32{1, 1, 1, 1, 1, 1, 1, 1, 2, 2, 2}

	var acc Accumulator
	acc.Add(a, b, 0)
	acc.AddPartial(a, b, 8, len(a))
	got := acc.Reduce()

	var a2, b2, dot float32
	for i := range a {
		a2 += a[i] * a[i]
		b2 += b[i] * b[i]
		dot += a[i] * b[i]
	}
	assert.Equal(t, Vec4{a2, b2, dot, 0}, got)
}

func TestAccumulatorCombine(t *testing.T) {
	a := []float32{1, 2, 3, 4, 5, 6, 7, 8}
	var x, y Accumulator
	x.Add(a, a, 0)
	y.AddPartial(a, a, 0, 3)
	x.Combine(&y)
	got := x.Reduce()
	assert.Equal(t, float32(204+14), got[0])
	assert.Equal(t, got[0], got[1])
	assert.Equal(t, got[0], got[2])
}

func TestFinalize(t *testing.T) {
	assert.InDelta(t, 0.5, Finalize(Vec4{4, 16, 4, 0}), 1e-7)
	assert.True(t, math.IsNaN(float64(Finalize(Vec4{0, 3, 0, 0}))))
}

func TestPairwiseSum(t *testing.T) {
	assert.Equal(t, Vec4{}, PairwiseSum(nil))
	parts := make([]Vec4, 7)
	for i := range parts {
		parts[i] = Vec4{float32(i), 1, float32(2 * i), 0}
	}
	assert.Equal(t, Vec4{21, 7, 42, 0}, PairwiseSum(parts))
}

func TestPairwiseSumTreeOrder(t *testing.T) {
	// A running sum loses the small terms against 1e8; the tree adds them together first.
	parts := []Vec4{{1}, {1}, {1e8}, {-1e8}}
	assert.Equal(t, float32(2), PairwiseSum(parts)[0])
}

// x*x = 1 + 2^-11 + 2^-24 exactly; rounded to float32 the 2^-24 term is a tie and drops.
var nearOne = float32(1 + math.Ldexp(1, -12))

func TestFMA32KeepsProductUnrounded(t *testing.T) {
	want := float32(math.Ldexp(1, -11) + math.Ldexp(1, -24))
	require.Equal(t, want, fma32(nearOne, nearOne, -1))
	require.Equal(t, Vec8{want, want, want, want, want, want, want, want},
		fmadd8(Vec8{nearOne, nearOne, nearOne, nearOne, nearOne, nearOne, nearOne, nearOne},
			Vec8{nearOne, nearOne, nearOne, nearOne, nearOne, nearOne, nearOne, nearOne},
			Vec8{-1, -1, -1, -1, -1, -1, -1, -1}))
}

func TestScalarSumsRoundEachProduct(t *testing.T) {
	a := []float32{1, nearOne}
	b := []float32{-1, nearOne}
	got := scalarSums(a, b)
	// A fused accumulate would keep the 2^-24 term.
	assert.Equal(t, float32(math.Ldexp(1, -11)), got[2])
	assert.Equal(t, float32(2+math.Ldexp(1, -11)), got[0])
	assert.Equal(t, float32(2+math.Ldexp(1, -11)), got[1])
}
