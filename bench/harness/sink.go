package harness

import (
	"io"
	"os"

	"github.com/ic-timon/simbench/bench/metrics"
)

// RecordSink receives the one record a successful run produces.
type RecordSink interface {
	WriteRecord(r metrics.Record) error
}

// SinkCloser is a RecordSink that owns a resource.
type SinkCloser interface {
	RecordSink
	io.Closer
}

// FileSink appends records to a TSV log file.
type FileSink struct {
	f *os.File
	w *metrics.TSVWriter
}

// OpenLogFile opens path for appending, creating it when missing.
func OpenLogFile(path string) (*FileSink, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	return &FileSink{f: f, w: metrics.NewTSVWriter(f)}, nil
}

// WriteRecord implements RecordSink.
func (s *FileSink) WriteRecord(r metrics.Record) error {
	return s.w.WriteRecord(r)
}

// Close closes the file.
func (s *FileSink) Close() error {
	return s.f.Close()
}

func openFileSink(path string) (SinkCloser, error) {
	return OpenLogFile(path)
}
