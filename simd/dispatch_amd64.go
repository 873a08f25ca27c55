//go:build amd64

package simd

import "golang.org/x/sys/cpu"

func init() {
	// Byte-mask synthesis needs the AVX2 sign-extend; the table works everywhere.
	if cpu.X86.HasAVX2 {
		remainderMaskImpl = maskShift
		remainderMaskImplDesc = "shift"
	} else {
		remainderMaskImpl = maskTable
		remainderMaskImplDesc = "table"
	}
}
