// Package vector allocates float32 buffers aligned to the 32-byte lane-vector boundary.
package vector

import "unsafe"

// Alignment is the byte boundary of every buffer returned by this package.
const Alignment = 32

const floatSize = int(unsafe.Sizeof(float32(0)))

// Aligned returns a zeroed heap slice of n float32 whose first element is 32-byte aligned.
// Its capacity equals n so appends reallocate instead of writing into padding.
func Aligned(n int) []float32 {
	if n < 0 {
		n = 0
	}
	pad := Alignment / floatSize
	buf := make([]float32, n+pad)
	skip := 0
	if rem := int(uintptr(unsafe.Pointer(&buf[0])) % Alignment); rem != 0 {
		skip = (Alignment - rem) / floatSize
	}
	return buf[skip : skip+n : skip+n]
}

// IsAligned reports whether v starts on a 32-byte boundary. Empty slices are aligned.
func IsAligned(v []float32) bool {
	if len(v) == 0 {
		return true
	}
	return uintptr(unsafe.Pointer(&v[0]))%Alignment == 0
}

// CopyAligned returns an aligned copy of v.
func CopyAligned(v []float32) []float32 {
	out := Aligned(len(v))
	copy(out, v)
	return out
}
