package workpool

import (
	"math"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ic-timon/simbench/simd"
)

var (
	_ simd.Executor = (*Resident)(nil)
	_ simd.Executor = (*Ants)(nil)
)

func checkRunsAll(t *testing.T, exec simd.Executor) {
	for _, n := range []int{1, 3, 8, 33} {
		hits := make([]int32, n)
		exec.Run(n, func(i int) {
			atomic.AddInt32(&hits[i], 1)
		})
		for i, h := range hits {
			require.Equal(t, int32(1), h, "n=%d task %d", n, i)
		}
	}
}

func TestResidentRunsEveryTaskOnce(t *testing.T) {
	p := NewResident(4, 8)
	defer p.Close()
	require.Equal(t, 4, p.Size())
	checkRunsAll(t, p)
}

func TestResidentDefaultSize(t *testing.T) {
	p := NewResident(0, 1)
	defer p.Close()
	require.Greater(t, p.Size(), 0)
}

func TestAntsRunsEveryTaskOnce(t *testing.T) {
	p, err := NewAnts(4)
	require.NoError(t, err)
	defer p.Close()
	require.Equal(t, 4, p.Size())
	checkRunsAll(t, p)
}

func TestExecutorsDriveParallelKernel(t *testing.T) {
	a := make([]float32, 10_000)
	b := make([]float32, 10_000)
	for i := range a {
		a[i] = float32(i%17) / 17
		b[i] = float32(i%5) / 5
	}
	want := cosine64(a, b)
	// Same partitions and merge tree, so any executor matches the goroutine one exactly.
	exact := simd.NewParallel(&simd.ParallelConfig{Workers: 8}).Similarity(a, b)
	require.InDelta(t, want, exact, 1e-6)

	resident := NewResident(8, 8)
	defer resident.Close()
	pool, err := NewAnts(8)
	require.NoError(t, err)
	defer pool.Close()

	for _, exec := range []simd.Executor{resident, pool} {
		k := simd.NewParallel(&simd.ParallelConfig{Workers: 8, Executor: exec})
		got := k.Similarity(a, b)
		require.InDelta(t, want, got, 1e-6)
		require.Equal(t, exact, got)
	}
}

// cosine64 is a float64 reference, free of the float32 drift of a sequential sum.
func cosine64(a, b []float32) float64 {
	var dot, a2, b2 float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		a2 += x * x
		b2 += y * y
	}
	return dot / (math.Sqrt(a2) * math.Sqrt(b2))
}
