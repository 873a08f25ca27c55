package simd

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
)

// ErrTooFewBlocks reports an input with fewer Lanes-wide blocks than parallel workers.
var ErrTooFewBlocks = errors.New("simd: fewer blocks than workers")

// Executor runs fn(0) .. fn(n-1) concurrently and returns once every call has returned.
type Executor interface {
	Run(n int, fn func(i int))
}

// GoExecutor starts one goroutine per call and joins them with a WaitGroup.
type GoExecutor struct{}

// Run implements Executor.
func (GoExecutor) Run(n int, fn func(i int)) {
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			fn(i)
		}(i)
	}
	wg.Wait()
}

// ParallelConfig holds parallel kernel parameters.
type ParallelConfig struct {
	Workers  int      // worker count W, default runtime.NumCPU()
	Executor Executor // fork-join runner, default GoExecutor
	Strict   bool     // panic with ErrTooFewBlocks instead of clamping W to the block count
}

// DefaultParallelConfig returns the default configuration.
func DefaultParallelConfig() *ParallelConfig {
	return &ParallelConfig{
		Workers:  runtime.NumCPU(),
		Executor: GoExecutor{},
	}
}

// OrDefault returns DefaultParallelConfig if c is nil, otherwise normalizes c.
func (c *ParallelConfig) OrDefault() *ParallelConfig {
	if c == nil {
		return DefaultParallelConfig()
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.Executor == nil {
		c.Executor = GoExecutor{}
	}
	return c
}

// Parallel statically partitions the input across a fixed number of workers, runs the
// unrolled kernel on each slice and merges the partial sums with PairwiseSum.
type Parallel struct {
	workers  int
	executor Executor
	strict   bool
}

// NewParallel creates a parallel kernel. cfg may be nil to use DefaultParallelConfig().
func NewParallel(cfg *ParallelConfig) *Parallel {
	cfg = cfg.OrDefault()
	return &Parallel{
		workers:  cfg.Workers,
		executor: cfg.Executor,
		strict:   cfg.Strict,
	}
}

// Workers returns the configured worker count W.
func (p *Parallel) Workers() int {
	return p.workers
}

// Check reports whether an input of the given length has at least W blocks.
func (p *Parallel) Check(length int) error {
	if blocks := BlockCount(length); blocks < p.workers {
		return fmt.Errorf("%w: %d blocks for %d workers", ErrTooFewBlocks, blocks, p.workers)
	}
	return nil
}

// EffectiveWorkers returns the number of workers Similarity uses for the given length:
// W, or the block count when that is smaller and the kernel is not strict.
func (p *Parallel) EffectiveWorkers(length int) int {
	if blocks := BlockCount(length); blocks < p.workers {
		return blocks
	}
	return p.workers
}

// Similarity computes the cosine similarity of a and b. Panics on mismatched or empty
// input, and in strict mode on inputs with fewer blocks than workers.
func (p *Parallel) Similarity(a, b []float32) float32 {
	mustMatch(a, b)
	if p.strict {
		if err := p.Check(len(a)); err != nil {
			panic(err)
		}
	}
	workers := p.EffectiveWorkers(len(a))

	// One slot per worker; no two workers write the same slot.
	results := make([]Vec4, workers)
	p.executor.Run(workers, func(i int) {
		begin, end := PartitionRange(len(a), workers, i)
		results[i] = unrolledImpl(a[begin:end], b[begin:end])
	})
	return Finalize(PairwiseSum(results))
}

// Range is a half-open element range [Begin, End).
type Range struct {
	Begin, End int
}

// Len returns End - Begin.
func (r Range) Len() int {
	return r.End - r.Begin
}

// BlockCount returns ceil(length / Lanes).
func BlockCount(length int) int {
	return (length + Lanes - 1) / Lanes
}

// PartitionRange returns the element range of worker i out of workers. Worker i owns the
// blocks [i*B/W, (i+1)*B/W); the last range is clipped to length.
func PartitionRange(length, workers, i int) (begin, end int) {
	blocks := BlockCount(length)
	vBegin := i * blocks / workers
	vEnd := (i + 1) * blocks / workers
	begin = vBegin * Lanes
	end = begin + min((vEnd-vBegin)*Lanes, length-begin)
	return begin, end
}

// Partitions returns the ranges of all workers, indexed by worker id.
func Partitions(length, workers int) []Range {
	out := make([]Range, workers)
	for i := range out {
		out[i].Begin, out[i].End = PartitionRange(length, workers, i)
	}
	return out
}

var defaultParallel = NewParallel(nil)

// SimilarityParallel runs the default parallel kernel (W = runtime.NumCPU()).
func SimilarityParallel(a, b []float32) float32 {
	return defaultParallel.Similarity(a, b)
}

// WorkerCount reports W of the default parallel kernel.
func WorkerCount() int {
	return defaultParallel.Workers()
}
