package workpool

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
)

// Ants is an executor backed by an ants goroutine pool.
type Ants struct {
	pool *ants.Pool
}

// NewAnts creates an ants-backed executor. size <= 0 uses runtime.NumCPU().
func NewAnts(size int) (*Ants, error) {
	if size <= 0 {
		size = runtime.NumCPU()
	}
	p, err := ants.NewPool(size)
	if err != nil {
		return nil, fmt.Errorf("workpool: create ants pool: %w", err)
	}
	return &Ants{pool: p}, nil
}

// Run submits n tasks and waits for all of them. A task the pool rejects runs inline on
// the calling goroutine, so Run always completes every task.
func (a *Ants) Run(n int, fn func(i int)) {
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		i := i
		task := func() {
			defer wg.Done()
			fn(i)
		}
		if err := a.pool.Submit(task); err != nil {
			task()
		}
	}
	wg.Wait()
}

// Size returns the pool capacity.
func (a *Ants) Size() int {
	return a.pool.Cap()
}

// Close releases the pool.
func (a *Ants) Close() {
	a.pool.Release()
}
