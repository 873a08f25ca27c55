package harness

import (
	"fmt"

	"github.com/ic-timon/simbench/bench/gen"
	"github.com/ic-timon/simbench/vecstore"
	"github.com/ic-timon/simbench/vector"
)

// Inputs is the vector pair under test.
type Inputs struct {
	A, B   []float32
	Source string
	close  func() error
}

// Close releases the storage behind the pair.
func (in *Inputs) Close() error {
	if in.close == nil {
		return nil
	}
	err := in.close()
	in.close = nil
	return err
}

// LoadInputs reads the pair from cfg.Vectors when set, otherwise generates it from the two
// seeds, off-heap when cfg.Offheap is set.
func LoadInputs(length int, cfg *Config) (*Inputs, error) {
	if cfg.Vectors != "" {
		return loadStore(cfg.Vectors, length)
	}
	if cfg.Offheap {
		a, b := vector.NewOffheap(length), vector.NewOffheap(length)
		gen.FillRandom(a.Data(), cfg.Seed1)
		gen.FillRandom(b.Data(), cfg.Seed2)
		return &Inputs{
			A:      a.Data(),
			B:      b.Data(),
			Source: "offheap",
			close: func() error {
				a.Close()
				b.Close()
				return nil
			},
		}, nil
	}
	return &Inputs{
		A:      gen.RandomFloats(length, cfg.Seed1),
		B:      gen.RandomFloats(length, cfg.Seed2),
		Source: "generated",
	}, nil
}

func loadStore(path string, length int) (*Inputs, error) {
	s, err := vecstore.OpenMmap(path)
	if err != nil {
		return nil, fmt.Errorf("open vectors %s: %w", path, err)
	}
	if s.Count() < 2 {
		s.Close()
		return nil, fmt.Errorf("vectors %s: need 2 vectors, have %d", path, s.Count())
	}
	if s.Len() != length {
		s.Close()
		return nil, fmt.Errorf("vectors %s: %w: file has %d, requested %d",
			path, vecstore.ErrLengthMismatch, s.Len(), length)
	}
	return &Inputs{A: s.Vector(0), B: s.Vector(1), Source: path, close: s.Close}, nil
}
