//go:build !amd64 || !cgo

package simd

// similarityVectorizedAVX2 falls back to pure Go when not amd64 or CGO is disabled.
func similarityVectorizedAVX2(a, b []float32) float32 {
	return similarityVectorizedGo(a, b)
}

// unrolledPartialAVX2 falls back to pure Go when not amd64 or CGO is disabled.
func unrolledPartialAVX2(a, b []float32) Vec4 {
	return unrolledPartialGo(a, b)
}
