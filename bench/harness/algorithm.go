// Package harness drives the cosine similarity benchmark: it parses the algorithm and
// length arguments, generates or loads the input pair, times repeated kernel runs and
// appends one record per invocation to a log sink.
package harness

import (
	"errors"
	"fmt"
	"strings"
)

// Algorithm selects a kernel.
type Algorithm uint8

const (
	Scalar Algorithm = iota
	Naive
	Unrolled
	Parallel
	Vek
)

var algorithmNames = []string{"Scalar", "Naive", "Unrolled", "Parallel", "Vek"}

// ErrUnknownAlgorithm is returned by ParseAlgorithm for an unrecognized name.
var ErrUnknownAlgorithm = errors.New("unknown algorithm")

// ParseAlgorithm maps a case-insensitive name to an Algorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	for i, name := range algorithmNames {
		if strings.EqualFold(s, name) {
			return Algorithm(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, s)
}

// String returns the canonical algorithm name.
func (a Algorithm) String() string {
	if int(a) < len(algorithmNames) {
		return algorithmNames[a]
	}
	return fmt.Sprintf("Algorithm(%d)", uint8(a))
}

// Label returns the log row header; the parallel label carries the worker count.
func (a Algorithm) Label(workers int) string {
	switch a {
	case Unrolled:
		return "Unroll"
	case Parallel:
		return fmt.Sprintf("Parallel( %d )", workers)
	}
	return a.String()
}

// AlgorithmNames lists the accepted names, for usage text.
func AlgorithmNames() []string {
	return append([]string(nil), algorithmNames...)
}
