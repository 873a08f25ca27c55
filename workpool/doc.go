// Package workpool provides long-lived fork-join executors for the parallel cosine kernel.
// Both implementations satisfy simd.Executor and avoid starting fresh goroutines on every
// call, which matters when the same kernel runs thousands of times in a benchmark loop.
package workpool
