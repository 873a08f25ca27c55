package simd

import "math"

// Lanes is the number of float32 lanes in one wide lane-vector (256 bits).
const Lanes = 8

// Vec8 is a wide lane-vector of 8 float32 lanes.
type Vec8 [Lanes]float32

// Vec4 is a narrow lane-vector of 4 float32 lanes.
type Vec4 [4]float32

// shuffleImm builds the immediate for shuffle4, same argument order as _MM_SHUFFLE.
func shuffleImm(d, c, b, a uint8) uint8 {
	return d<<6 | c<<4 | b<<2 | a
}

// fma32 is x*y+z with the product kept unrounded. The float64 sum is rounded to float32
// afterwards, so in rare cases the result is 1 ulp away from a single-precision hardware
// FMA; the product itself is always exact in float64.
func fma32(x, y, z float32) float32 {
	return float32(math.FMA(float64(x), float64(y), float64(z)))
}

// load8 reads exactly Lanes elements starting at s[off].
func load8(s []float32, off int) Vec8 {
	_ = s[off+Lanes-1]
	var v Vec8
	copy(v[:], s[off:off+Lanes])
	return v
}

// maskLoad8 reads s[off+i] only for lanes whose mask sign bit is set; other lanes are zero
// and their addresses are never touched.
func maskLoad8(s []float32, off int, m Mask) Vec8 {
	var v Vec8
	for i := 0; i < Lanes; i++ {
		if m[i] < 0 {
			v[i] = s[off+i]
		}
	}
	return v
}

func fmadd8(a, b, c Vec8) Vec8 {
	var r Vec8
	for i := range r {
		r[i] = fma32(a[i], b[i], c[i])
	}
	return r
}

func add8(a, b Vec8) Vec8 {
	var r Vec8
	for i := range r {
		r[i] = a[i] + b[i]
	}
	return r
}

func add4(a, b Vec4) Vec4 {
	return Vec4{a[0] + b[0], a[1] + b[1], a[2] + b[2], a[3] + b[3]}
}

func lower4(v Vec8) Vec4 {
	return Vec4{v[0], v[1], v[2], v[3]}
}

func upper4(v Vec8) Vec4 {
	return Vec4{v[4], v[5], v[6], v[7]}
}

// shuffle4 takes the low two lanes from a and the high two from b, selected by imm.
func shuffle4(a, b Vec4, imm uint8) Vec4 {
	return Vec4{a[imm&3], a[(imm>>2)&3], b[(imm>>4)&3], b[(imm>>6)&3]}
}

// blend4 takes lane i from b when bit i of imm is set, otherwise from a.
func blend4(a, b Vec4, imm uint8) Vec4 {
	r := a
	for i := 0; i < 4; i++ {
		if imm&(1<<i) != 0 {
			r[i] = b[i]
		}
	}
	return r
}

// movehl4 returns [b.z, b.w, a.z, a.w].
func movehl4(a, b Vec4) Vec4 {
	return Vec4{b[2], b[3], a[2], a[3]}
}

func sqrt4(v Vec4) Vec4 {
	var r Vec4
	for i := range r {
		r[i] = float32(math.Sqrt(float64(v[i])))
	}
	return r
}
