package harness

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/ic-timon/simbench/bench/gen"
	"github.com/ic-timon/simbench/bench/metrics"
	"github.com/ic-timon/simbench/vecstore"
)

// Generate writes the seeded vector pair of the given length to a vecstore file, so that
// later runs can benchmark through --vectors on exactly the same data.
func Generate(path string, length int, seed1, seed2 uint32) error {
	if length <= 0 {
		return fmt.Errorf("%w: length must be positive", ErrInvalidLength)
	}
	a := gen.RandomFloats(length, seed1)
	b := gen.RandomFloats(length, seed2)
	return vecstore.Save(path, a, b)
}

// Summarize reads a TSV log from r and writes one aggregate row per label and length.
func Summarize(w io.Writer, r io.Reader, logger *zap.Logger) error {
	records, skipped, err := metrics.ReadLog(r)
	if err != nil {
		return fmt.Errorf("read log: %w", err)
	}
	if skipped > 0 && logger != nil {
		logger.Warn("skipped malformed log lines", zap.Int("skipped", skipped))
	}
	return metrics.WriteReport(w, metrics.Summarize(records))
}

// SummarizeFile is Summarize over the log file at path.
func SummarizeFile(w io.Writer, path string, logger *zap.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return Summarize(w, f, logger)
}
