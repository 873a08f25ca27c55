// Package simd computes cosine similarity between two equal-length float32 vectors with
// progressively more aggressive kernels: scalar, single-stream 8-lane, four-stream unrolled
// and fork-join parallel. The lane kernels run on AVX2+FMA intrinsics when the CPU and CGO
// allow it, and on a pure Go 8-lane emulation otherwise.
package simd

import "fmt"

var (
	vectorizedImpl func(a, b []float32) float32
	unrolledImpl   func(a, b []float32) Vec4
	implDesc       string
)

func init() {
	// Default; dispatch files override in init() based on GOARCH and CGO.
	if vectorizedImpl == nil {
		vectorizedImpl = similarityVectorizedGo
		unrolledImpl = unrolledPartialGo
		implDesc = "Go"
	}
}

// ImplDesc returns a description of the lane kernel implementation (for logging).
func ImplDesc() string {
	if implDesc != "" {
		return implDesc
	}
	return "Go"
}

func mustMatch(a, b []float32) {
	if len(a) != len(b) {
		panic(fmt.Sprintf("simd: vector length mismatch: %d vs %d", len(a), len(b)))
	}
	if len(a) == 0 {
		panic("simd: empty vectors")
	}
}

// SimilarityScalar is the sequential reference kernel. It sums in input order and applies
// dot / (sqrt(a2) * sqrt(b2)). Panics on mismatched or empty input; a zero vector gives NaN.
func SimilarityScalar(a, b []float32) float32 {
	mustMatch(a, b)
	return Finalize(scalarSums(a, b))
}

// scalarSums rounds every product before adding it; the explicit conversions stop the
// compiler from fusing into an FMA on arm64, ppc64 and s390x.
func scalarSums(a, b []float32) Vec4 {
	var dot, a2, b2 float32
	for i := range a {
		x, y := a[i], b[i]
		dot += float32(x * y)
		a2 += float32(x * x)
		b2 += float32(y * y)
	}
	return Vec4{a2, b2, dot, 0}
}

// SimilarityVectorized walks the input in Lanes-wide blocks with one Accumulator and folds
// the last block, of length [1, Lanes], in through a masked load.
func SimilarityVectorized(a, b []float32) float32 {
	mustMatch(a, b)
	return vectorizedImpl(a, b)
}

// SimilarityUnrolled runs four independent accumulators over 4*Lanes wide blocks.
func SimilarityUnrolled(a, b []float32) float32 {
	mustMatch(a, b)
	return Finalize(unrolledImpl(a, b))
}

// UnrolledPartial runs the unrolled kernel and returns the reduced [ Σa², Σb², Σab, 0 ]
// without applying the ratio. It is the per-worker unit of the parallel kernel.
func UnrolledPartial(a, b []float32) Vec4 {
	mustMatch(a, b)
	return unrolledImpl(a, b)
}

func similarityVectorizedGo(a, b []float32) float32 {
	length := len(a)
	// Remainder in [1, Lanes] rather than [0, Lanes-1].
	rem := (length-1)%Lanes + 1
	end := length - rem

	var acc Accumulator
	i := 0
	for ; i < end; i += Lanes {
		acc.Add(a, b, i)
	}
	acc.AddPartial(a[i:], b[i:], 0, rem)
	return acc.Result()
}

const unrollBlock = 4 * Lanes

func unrolledPartialGo(a, b []float32) Vec4 {
	length := len(a)
	// Remainder in [1, 4*Lanes].
	rem := (length-1)%unrollBlock + 1
	end := length - rem

	var a0, a1, a2, a3 Accumulator
	i := 0
	for ; i < end; i += unrollBlock {
		a0.Add(a, b, i)
		a1.Add(a, b, i+Lanes)
		a2.Add(a, b, i+2*Lanes)
		a3.Add(a, b, i+3*Lanes)
	}

	ta, tb := a[i:], b[i:]
	a0.AddPartial(ta, tb, 0, rem)
	a1.AddPartial(ta, tb, Lanes, rem)
	a2.AddPartial(ta, tb, 2*Lanes, rem)
	a3.AddPartial(ta, tb, 3*Lanes, rem)

	a0.Combine(&a1)
	a2.Combine(&a3)
	a0.Combine(&a2)
	return a0.Reduce()
}
