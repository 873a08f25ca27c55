package harness

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ic-timon/simbench/simd"
	"github.com/ic-timon/simbench/workpool"
)

// Kernel is a selected similarity function plus its log label.
type Kernel struct {
	Algorithm Algorithm
	Label     string
	Fn        func(a, b []float32) float32
	close     func()
}

// Close releases the executor behind a parallel kernel.
func (k *Kernel) Close() {
	if k.close != nil {
		k.close()
		k.close = nil
	}
}

func newExecutor(name string, workers int) (simd.Executor, func(), error) {
	switch name {
	case "", ExecutorGoroutine:
		return simd.GoExecutor{}, nil, nil
	case ExecutorResident:
		p := workpool.NewResident(workers, 1)
		return p, p.Close, nil
	case ExecutorAnts:
		p, err := workpool.NewAnts(workers)
		if err != nil {
			return nil, nil, err
		}
		return p, p.Close, nil
	}
	return nil, nil, fmt.Errorf("%w: unknown executor %q", ErrInvalidConfig, name)
}

// NewKernel selects the kernel for alg and input length. For Parallel it checks the block
// count: a strict config fails with simd.ErrTooFewBlocks, otherwise the worker count is
// clamped and a warning logged.
func NewKernel(alg Algorithm, length int, cfg *Config, logger *zap.Logger) (*Kernel, error) {
	k := &Kernel{Algorithm: alg, Label: alg.Label(0)}
	switch alg {
	case Scalar:
		k.Fn = simd.SimilarityScalar
	case Naive:
		k.Fn = simd.SimilarityVectorized
	case Unrolled:
		k.Fn = simd.SimilarityUnrolled
	case Vek:
		k.Fn = simd.SimilarityVek
	case Parallel:
		exec, closeExec, err := newExecutor(cfg.Executor, cfg.Workers)
		if err != nil {
			return nil, err
		}
		k.close = closeExec
		p := simd.NewParallel(&simd.ParallelConfig{
			Workers:  cfg.Workers,
			Executor: exec,
			Strict:   cfg.Strict,
		})
		if err := p.Check(length); err != nil {
			if cfg.Strict {
				k.Close()
				return nil, err
			}
			logger.Warn("too few blocks for the configured workers, clamping",
				zap.Int("workers", p.Workers()),
				zap.Int("effective", p.EffectiveWorkers(length)),
				zap.Int("length", length))
		}
		k.Fn = p.Similarity
		k.Label = alg.Label(p.EffectiveWorkers(length))
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownAlgorithm, alg)
	}
	return k, nil
}
