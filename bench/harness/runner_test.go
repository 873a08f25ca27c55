package harness

import (
	"bytes"
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ic-timon/simbench/bench/gen"
	"github.com/ic-timon/simbench/bench/metrics"
	"github.com/ic-timon/simbench/simd"
	"github.com/ic-timon/simbench/vecstore"
)

type memorySink struct {
	records []metrics.Record
	opened  int
	closed  int
}

func (s *memorySink) WriteRecord(r metrics.Record) error {
	s.records = append(s.records, r)
	return nil
}

func (s *memorySink) Close() error {
	s.closed++
	return nil
}

func testRunner(t *testing.T, cfg *Config) (*Runner, *memorySink, *bytes.Buffer, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	sink := &memorySink{}
	var stdout bytes.Buffer
	r := NewRunner(cfg, zap.New(core))
	r.Stdout = &stdout
	r.OpenSink = func(string) (SinkCloser, error) {
		sink.opened++
		return sink, nil
	}
	return r, sink, &stdout, logs
}

func smallConfig() *Config {
	cfg := DefaultConfig()
	cfg.Iterations = 4
	cfg.Workers = 4
	return cfg
}

func TestRunWritesOneRecord(t *testing.T) {
	r, sink, stdout, logs := testRunner(t, smallConfig())
	report, err := r.Run(context.Background(), []string{"naive", "1k"})
	require.NoError(t, err)

	require.Len(t, sink.records, 1)
	rec := sink.records[0]
	assert.Equal(t, "Naive", rec.Label)
	assert.Equal(t, 1024, rec.Length)
	assert.LessOrEqual(t, rec.Min, rec.Average)
	assert.LessOrEqual(t, rec.Average, rec.Max)

	a := gen.RandomFloats(1024, 1)
	b := gen.RandomFloats(1024, 2)
	assert.InDelta(t, simd.SimilarityScalar(a, b), rec.Result, 1e-5)

	assert.Equal(t, int64(4), report.Summary.Count)
	assert.NotEmpty(t, report.RunID)
	assert.True(t, strings.HasPrefix(stdout.String(), "Naive, 1k: average "), stdout.String())
	assert.Equal(t, 1, sink.closed)
	assert.Equal(t, 1, logs.FilterMessage("benchmark finished").Len())
}

func TestRunParallelLabel(t *testing.T) {
	for _, exec := range []string{ExecutorGoroutine, ExecutorResident, ExecutorAnts} {
		cfg := smallConfig()
		cfg.Executor = exec
		r, sink, _, _ := testRunner(t, cfg)
		_, err := r.Run(context.Background(), []string{"Parallel", "4096"})
		require.NoError(t, err, exec)
		require.Len(t, sink.records, 1)
		assert.Equal(t, "Parallel( 4 )", sink.records[0].Label, exec)
	}
}

func TestRunParallelClampsWorkers(t *testing.T) {
	cfg := smallConfig()
	cfg.Workers = 8
	r, sink, _, logs := testRunner(t, cfg)
	_, err := r.Run(context.Background(), []string{"parallel", "20"})
	require.NoError(t, err)
	// 20 floats are 3 blocks.
	assert.Equal(t, "Parallel( 3 )", sink.records[0].Label)
	assert.Equal(t, 1, logs.FilterMessageSnippet("clamping").Len())
}

func TestRunParallelStrict(t *testing.T) {
	cfg := smallConfig()
	cfg.Workers = 8
	cfg.Strict = true
	r, sink, _, _ := testRunner(t, cfg)
	_, err := r.Run(context.Background(), []string{"parallel", "20"})
	require.ErrorIs(t, err, simd.ErrTooFewBlocks)
	assert.Equal(t, ExitFailure, ExitCode(err))
	assert.Empty(t, sink.records)
}

func TestRunExitCodes(t *testing.T) {
	cases := []struct {
		args []string
		code int
	}{
		{nil, ExitUsage},
		{[]string{"Scalar"}, ExitUsage},
		{[]string{"Scalar", "1", "2"}, ExitUsage},
		{[]string{"Fast", "100"}, ExitAlgorithm},
		{[]string{"Scalar", "12x"}, ExitLength},
		{[]string{"Scalar", "0"}, ExitLength},
	}
	for _, c := range cases {
		r, sink, stdout, _ := testRunner(t, smallConfig())
		_, err := r.Run(context.Background(), c.args)
		require.Error(t, err, "%v", c.args)
		assert.Equal(t, c.code, ExitCode(err), "%v", c.args)
		assert.Zero(t, sink.opened, "%v", c.args)
		assert.Empty(t, stdout.String())
	}
}

func TestRunLogFileError(t *testing.T) {
	r, _, _, _ := testRunner(t, smallConfig())
	r.OpenSink = func(string) (SinkCloser, error) { return nil, errors.New("read-only") }
	_, err := r.Run(context.Background(), []string{"Scalar", "16"})
	assert.Equal(t, ExitLogFile, ExitCode(err))
}

func TestRunAppendsToFile(t *testing.T) {
	cfg := smallConfig()
	cfg.LogFile = filepath.Join(t.TempDir(), "log.tsv")
	r := NewRunner(cfg, nil)
	r.Stdout = &bytes.Buffer{}
	for _, alg := range []string{"Scalar", "Unrolled", "Vek"} {
		_, err := r.Run(context.Background(), []string{alg, "100"})
		require.NoError(t, err)
	}

	f, err := os.Open(cfg.LogFile)
	require.NoError(t, err)
	defer f.Close()
	records, skipped, err := metrics.ReadLog(f)
	require.NoError(t, err)
	assert.Zero(t, skipped)
	require.Len(t, records, 3)
	assert.Equal(t, "Unroll", records[1].Label)
	assert.InDelta(t, records[0].Result, records[2].Result, 1e-5)
}

func TestRunCancelled(t *testing.T) {
	r, sink, _, _ := testRunner(t, smallConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := r.Run(ctx, []string{"Scalar", "64"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, sink.records)
}

func TestRunFromVectorFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pair.svec")
	require.NoError(t, Generate(path, 300, 5, 6))

	cfg := smallConfig()
	cfg.Vectors = path
	r, sink, _, _ := testRunner(t, cfg)
	_, err := r.Run(context.Background(), []string{"Unrolled", "300"})
	require.NoError(t, err)

	want := simd.SimilarityScalar(gen.RandomFloats(300, 5), gen.RandomFloats(300, 6))
	assert.InDelta(t, want, sink.records[0].Result, 1e-5)

	_, err = r.Run(context.Background(), []string{"Unrolled", "301"})
	assert.ErrorIs(t, err, vecstore.ErrLengthMismatch)
	assert.Len(t, sink.records, 1)
}

func TestRunOffheap(t *testing.T) {
	cfg := smallConfig()
	cfg.Offheap = true
	r, sink, _, _ := testRunner(t, cfg)
	_, err := r.Run(context.Background(), []string{"Scalar", "77"})
	require.NoError(t, err)
	want := simd.SimilarityScalar(gen.RandomFloats(77, 1), gen.RandomFloats(77, 2))
	assert.Equal(t, want, sink.records[0].Result)
}

func TestRunNaNWarns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zero.svec")
	require.NoError(t, vecstore.Save(path, make([]float32, 40), gen.RandomFloats(40, 1)))

	cfg := smallConfig()
	cfg.Vectors = path
	r, sink, _, logs := testRunner(t, cfg)
	_, err := r.Run(context.Background(), []string{"Naive", "40"})
	require.NoError(t, err)
	assert.True(t, math.IsNaN(float64(sink.records[0].Result)))
	assert.Equal(t, 1, logs.FilterMessageSnippet("NaN").Len())
}

func TestSummarizeLog(t *testing.T) {
	log := "Naive\t1024\t0.5\t0.4\t0.7\t0.1\t0.75\n" +
		"Naive\t1024\t0.3\t0.2\t0.4\t0.05\t0.75\n" +
		"Scalar\t1024\t2\n"
	core, logs := observer.New(zap.WarnLevel)
	var out bytes.Buffer
	require.NoError(t, Summarize(&out, strings.NewReader(log), zap.New(core)))
	assert.Contains(t, out.String(), "Naive")
	assert.NotContains(t, out.String(), "Scalar")
	assert.Equal(t, 1, logs.Len())
}
