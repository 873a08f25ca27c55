// Package gen 提供压测用可复现随机向量生成
package gen

import (
	"math"

	"github.com/ic-timon/simbench/vector"
)

// seedSalt 与种子混合，使相邻的小种子也产生互不相关的序列
const seedSalt = 0x5AEC34BF

// fnv1a 将一个 32 位值并入 FNV-1a 哈希
func fnv1a(val, hash uint32) uint32 {
	const prime = 16777619
	hash ^= val
	hash *= prime
	return hash
}

// xorshift32 推进状态并返回
func xorshift32(x *uint32) uint32 {
	*x ^= *x << 13
	*x ^= *x >> 17
	*x ^= *x << 5
	return *x
}

// floatFromBits 用低 23 位构造 [1, 2) 的浮点数再减 1
func floatFromBits(bits uint32) float32 {
	const mantissaMask = 0x007FFFFF
	const one = 0x3F800000
	return math.Float32frombits(bits&mantissaMask|one) - 1
}

// RandomFloats 生成 length 个 [0, 1) 均匀分布的 float32，32 字节对齐；同一种子在所有平台结果一致
func RandomFloats(length int, seed uint32) []float32 {
	v := vector.Aligned(length)
	FillRandom(v, seed)
	return v
}

// FillRandom 用 seed 对应的 RandomFloats 序列覆盖 v
func FillRandom(v []float32, seed uint32) {
	state := fnv1a(seed^seedSalt, 0)
	for i := range v {
		v[i] = floatFromBits(xorshift32(&state))
	}
}
