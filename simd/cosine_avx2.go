//go:build amd64 && cgo

package simd

/*
#cgo CFLAGS: -march=haswell -O3
#include <immintrin.h>
#include <stddef.h>
#include <stdint.h>

// Mask selecting the first length lanes; length is clipped into [0, 8].
static inline __m256i remainder_load_mask(ptrdiff_t length) {
	ptrdiff_t missing = 8 - length;
	if (missing < 0) missing = 0;
	if (missing >= 8) return _mm256_setzero_si256();
	uint64_t mask = ~(uint64_t)0 >> (missing * 8);
	// Sign extend the bytes into int32 lanes
	return _mm256_cvtepi8_epi32(_mm_cvtsi64_si128((int64_t)mask));
}

static inline __m128 hadd3x4(__m128 a, __m128 b, __m128 c) {
	__m128 t0 = _mm_shuffle_ps(a, b, _MM_SHUFFLE(1, 0, 3, 2));
	__m128 t1 = _mm_blend_ps(a, b, 0xC);
	a = _mm_add_ps(t0, t1);

	c = _mm_add_ps(c, _mm_movehl_ps(c, c));
	c = _mm_blend_ps(c, _mm_setzero_ps(), 0xC);

	t0 = _mm_shuffle_ps(a, c, _MM_SHUFFLE(3, 0, 2, 0));
	t1 = _mm_shuffle_ps(a, c, _MM_SHUFFLE(3, 1, 3, 1));
	return _mm_add_ps(t0, t1);
}

static inline __m128 hadd3x8(__m256 a, __m256 b, __m256 c) {
	__m128 a4 = _mm_add_ps(_mm256_extractf128_ps(a, 1), _mm256_castps256_ps128(a));
	__m128 b4 = _mm_add_ps(_mm256_extractf128_ps(b, 1), _mm256_castps256_ps128(b));
	__m128 c4 = _mm_add_ps(_mm256_extractf128_ps(c, 1), _mm256_castps256_ps128(c));
	return hadd3x4(a4, b4, c4);
}

typedef struct {
	__m256 a2, b2, dot;
} acc_t;

static inline void acc_zero(acc_t* acc) {
	acc->a2 = _mm256_setzero_ps();
	acc->b2 = _mm256_setzero_ps();
	acc->dot = _mm256_setzero_ps();
}

static inline void acc_vectors(acc_t* acc, __m256 a, __m256 b) {
	acc->a2 = _mm256_fmadd_ps(a, a, acc->a2);
	acc->b2 = _mm256_fmadd_ps(b, b, acc->b2);
	acc->dot = _mm256_fmadd_ps(a, b, acc->dot);
}

static inline void acc_add(acc_t* acc, const float* a, const float* b, ptrdiff_t off) {
	acc_vectors(acc, _mm256_loadu_ps(a + off), _mm256_loadu_ps(b + off));
}

static inline void acc_add_partial(acc_t* acc, const float* a, const float* b, ptrdiff_t off, ptrdiff_t length) {
	const __m256i mask = remainder_load_mask(length - off);
	acc_vectors(acc, _mm256_maskload_ps(a + off, mask), _mm256_maskload_ps(b + off, mask));
}

static inline void acc_combine(acc_t* acc, const acc_t* that) {
	acc->dot = _mm256_add_ps(acc->dot, that->dot);
	acc->a2 = _mm256_add_ps(acc->a2, that->a2);
	acc->b2 = _mm256_add_ps(acc->b2, that->b2);
}

static inline float compute_result(__m128 v) {
	const float mul = _mm_cvtss_f32(_mm_movehl_ps(v, v));
	v = _mm_sqrt_ps(v);
	v = _mm_mul_ss(v, _mm_movehdup_ps(v));
	return mul / _mm_cvtss_f32(v);
}

static float CosineVectorizedAVX2(const float* a, const float* b, size_t length) {
	const ptrdiff_t rem = (ptrdiff_t)((length - 1) % 8) + 1;
	const float* const end = a + length - rem;
	acc_t acc;
	acc_zero(&acc);
	for (; a < end; a += 8, b += 8)
		acc_add(&acc, a, b, 0);
	acc_add_partial(&acc, a, b, 0, rem);
	return compute_result(hadd3x8(acc.a2, acc.b2, acc.dot));
}

static void CosineUnrolledPartialAVX2(const float* a, const float* b, size_t length, float* out) {
	const ptrdiff_t rem = (ptrdiff_t)((length - 1) % 32) + 1;
	const float* const end = a + length - rem;
	acc_t a0, a1, a2, a3;
	acc_zero(&a0);
	acc_zero(&a1);
	acc_zero(&a2);
	acc_zero(&a3);
	for (; a < end; a += 32, b += 32) {
		acc_add(&a0, a, b, 0);
		acc_add(&a1, a, b, 8);
		acc_add(&a2, a, b, 16);
		acc_add(&a3, a, b, 24);
	}
	acc_add_partial(&a0, a, b, 0, rem);
	acc_add_partial(&a1, a, b, 8, rem);
	acc_add_partial(&a2, a, b, 16, rem);
	acc_add_partial(&a3, a, b, 24, rem);

	acc_combine(&a0, &a1);
	acc_combine(&a2, &a3);
	acc_combine(&a0, &a2);
	_mm_storeu_ps(out, hadd3x8(a0.a2, a0.b2, a0.dot));
}
*/
import "C"

import "unsafe"

func similarityVectorizedAVX2(a, b []float32) float32 {
	return float32(C.CosineVectorizedAVX2(
		(*C.float)(unsafe.Pointer(&a[0])),
		(*C.float)(unsafe.Pointer(&b[0])),
		C.size_t(len(a)),
	))
}

func unrolledPartialAVX2(a, b []float32) Vec4 {
	var out Vec4
	C.CosineUnrolledPartialAVX2(
		(*C.float)(unsafe.Pointer(&a[0])),
		(*C.float)(unsafe.Pointer(&b[0])),
		C.size_t(len(a)),
		(*C.float)(unsafe.Pointer(&out[0])),
	)
	return out
}
