//go:build amd64 && cgo

package simd

import (
	"testing"
)

func BenchmarkSimilarity_VectorizedAVX2(b *testing.B) {
	if !canUseAVX2() {
		b.Skip("AVX2 not available")
	}
	va, vb := initBenchVectors()
	b.SetBytes(benchLen * 8)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = similarityVectorizedAVX2(va, vb)
	}
}

func BenchmarkSimilarity_UnrolledAVX2(b *testing.B) {
	if !canUseAVX2() {
		b.Skip("AVX2 not available")
	}
	va, vb := initBenchVectors()
	b.SetBytes(benchLen * 8)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Finalize(unrolledPartialAVX2(va, vb))
	}
}
