package simd

import "github.com/viterin/vek/vek32"

// SimilarityVek computes the ratio with the vek32 library reductions. It is the
// library baseline the hand-written kernels are measured against.
func SimilarityVek(a, b []float32) float32 {
	mustMatch(a, b)
	return vek32.Dot(a, b) / (vek32.Norm(a) * vek32.Norm(b))
}
