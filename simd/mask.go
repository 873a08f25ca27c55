package simd

// Mask selects lanes for maskLoad8: a lane is loaded when its sign bit is set (-1), and
// skipped when it is 0.
type Mask [Lanes]int32

// remainderMaskTable holds Lanes ones followed by Lanes zeros. An unaligned read of Lanes
// entries starting at index (Lanes - length) yields the mask for that length.
var remainderMaskTable = [2 * Lanes]int32{-1, -1, -1, -1, -1, -1, -1, -1, 0, 0, 0, 0, 0, 0, 0, 0}

var (
	remainderMaskImpl     func(length int) Mask
	remainderMaskImplDesc string
)

func init() {
	// Default; dispatch files override in init() based on CPU features.
	if remainderMaskImpl == nil {
		remainderMaskImpl = maskTable
		remainderMaskImplDesc = "table"
	}
}

// RemainderMask returns a mask selecting the first length lanes. length is clipped into
// [0, Lanes]: 0 selects nothing and Lanes selects everything.
func RemainderMask(length int) Mask {
	return remainderMaskImpl(length)
}

// MaskStrategy names the mask generator picked at startup ("shift" or "table").
func MaskStrategy() string {
	return remainderMaskImplDesc
}

func clampMissing(length int) int {
	missing := Lanes - length
	if missing < 0 {
		missing = 0
	}
	if missing > Lanes {
		missing = Lanes
	}
	return missing
}

// maskShift builds 8 mask bytes in a uint64, shifts out the missing lanes and sign
// extends every byte into an int32 lane.
func maskShift(length int) Mask {
	missing := clampMissing(length)
	var bits uint64
	if missing < Lanes {
		bits = ^uint64(0)
	}
	bits >>= uint(missing) * 8
	var m Mask
	for i := range m {
		m[i] = int32(int8(bits >> (uint(i) * 8)))
	}
	return m
}

func maskTable(length int) Mask {
	missing := clampMissing(length)
	var m Mask
	copy(m[:], remainderMaskTable[missing:missing+Lanes])
	return m
}
