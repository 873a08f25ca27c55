//go:build amd64 && cgo

package simd

import "golang.org/x/sys/cpu"

func init() {
	if cpu.X86.HasAVX2 && cpu.X86.HasFMA {
		vectorizedImpl = similarityVectorizedAVX2
		unrolledImpl = unrolledPartialAVX2
		implDesc = "AVX2"
	} else {
		vectorizedImpl = similarityVectorizedGo
		unrolledImpl = unrolledPartialGo
		implDesc = "Go"
	}
}
