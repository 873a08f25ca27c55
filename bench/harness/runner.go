package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ic-timon/simbench/bench/metrics"
	"github.com/ic-timon/simbench/simd"
)

// ErrUsage reports a wrong argument count.
var ErrUsage = errors.New("usage: bench <algorithm> <length>")

// resultSink keeps the last kernel result reachable so the timed calls are not dropped.
var resultSink float32

// Runner executes one benchmark invocation.
type Runner struct {
	Config   *Config
	Logger   *zap.Logger
	Stdout   io.Writer
	OpenSink func(path string) (SinkCloser, error)
}

// NewRunner returns a Runner writing to stdout and appending to cfg.LogFile.
func NewRunner(cfg *Config, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		Config:   cfg.OrDefault(),
		Logger:   logger,
		Stdout:   os.Stdout,
		OpenSink: openFileSink,
	}
}

// Report is the outcome of a successful run.
type Report struct {
	RunID   string
	Record  metrics.Record
	Summary metrics.SummaryResult
	Runtime metrics.Delta
}

// Run benchmarks args[0] (algorithm) at args[1] (length). Argument, algorithm, length and
// log file failures return an ExitError carrying the matching exit code; nothing is
// written to the log on any failure.
func (r *Runner) Run(ctx context.Context, args []string) (*Report, error) {
	if len(args) != 2 {
		return nil, exitError(ExitUsage, fmt.Errorf("%w: got %d arguments", ErrUsage, len(args)))
	}
	alg, err := ParseAlgorithm(args[0])
	if err != nil {
		return nil, exitError(ExitAlgorithm, err)
	}
	length, err := ParseLength(args[1])
	if err != nil {
		return nil, exitError(ExitLength, err)
	}
	if length == 0 {
		return nil, exitError(ExitLength, fmt.Errorf("%w: length must be positive", ErrInvalidLength))
	}

	sink, err := r.OpenSink(r.Config.LogFile)
	if err != nil {
		return nil, exitError(ExitLogFile, fmt.Errorf("open log file: %w", err))
	}
	defer sink.Close()

	runID := uuid.NewString()
	logger := r.Logger.With(
		zap.String("run_id", runID),
		zap.String("algorithm", alg.String()),
		zap.Int("length", length),
	)

	kernel, err := NewKernel(alg, length, r.Config, logger)
	if err != nil {
		return nil, err
	}
	defer kernel.Close()

	in, err := LoadInputs(length, r.Config)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	logger.Debug("starting",
		zap.String("label", kernel.Label),
		zap.String("impl", simd.ImplDesc()),
		zap.String("mask", simd.MaskStrategy()),
		zap.String("inputs", in.Source),
		zap.Int("iterations", r.Config.Iterations))

	metrics.GC()
	before := metrics.Take()
	var (
		summary metrics.Summary
		result  float32
	)
	for i := 0; i < r.Config.Iterations; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sw := metrics.StartStopwatch()
		result = kernel.Fn(in.A, in.B)
		resultSink = result
		summary.Add(sw.ElapsedMilliseconds())
	}
	delta := metrics.Diff(before, metrics.Take())

	res := summary.Result()
	fmt.Fprintf(r.Stdout, "%s, %s: average %.6g ms, range [ %.6g .. %.6g ] ms, st.dev %.6g ms\n",
		kernel.Label, args[1], res.Average, res.Min, res.Max, res.StDev)

	rec := metrics.Record{
		Label:   kernel.Label,
		Length:  length,
		Average: res.Average,
		Min:     res.Min,
		Max:     res.Max,
		StDev:   res.StDev,
		Result:  result,
	}
	if err := sink.WriteRecord(rec); err != nil {
		return nil, fmt.Errorf("write record: %w", err)
	}

	if math.IsNaN(float64(result)) {
		logger.Warn("result is NaN, an input vector is all zeros")
	}
	logger.Info("benchmark finished",
		zap.String("label", kernel.Label),
		zap.Float64("avg_ms", res.Average),
		zap.Float64("stdev_ms", res.StDev),
		zap.Float32("result", result),
		zap.Uint64("alloc_bytes", delta.AllocBytes),
		zap.Float64("alloc_rate_bps", delta.AllocRateBps),
		zap.Uint32("gcs", delta.GCs),
		zap.Duration("elapsed", delta.Elapsed))

	return &Report{RunID: runID, Record: rec, Summary: res, Runtime: delta}, nil
}
