package workpool

import (
	"runtime"
	"sync"
)

// job is a single fork-join task.
type job struct {
	idx int
	fn  func(i int)
	wg  *sync.WaitGroup
}

// Resident is a resident worker pool; each worker has its own channel.
type Resident struct {
	chans []chan job
	wg    sync.WaitGroup
}

// NewResident creates and starts a pool. nWorkers <= 0 uses runtime.NumCPU().
func NewResident(nWorkers, bufSize int) *Resident {
	if nWorkers <= 0 {
		nWorkers = runtime.NumCPU()
	}
	p := &Resident{
		chans: make([]chan job, nWorkers),
	}
	for i := 0; i < nWorkers; i++ {
		p.chans[i] = make(chan job, bufSize)
		p.wg.Add(1)
		go p.worker(i)
	}
	return p
}

func (p *Resident) worker(idx int) {
	defer p.wg.Done()
	for j := range p.chans[idx] {
		j.fn(j.idx)
		j.wg.Done()
	}
}

// Size returns the number of workers.
func (p *Resident) Size() int {
	return len(p.chans)
}

// Run routes task i to worker i % Size and waits for all n tasks.
func (p *Resident) Run(n int, fn func(i int)) {
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		p.chans[i%len(p.chans)] <- job{idx: i, fn: fn, wg: &wg}
	}
	wg.Wait()
}

// Close closes the pool and waits for all workers to exit.
func (p *Resident) Close() {
	for i := range p.chans {
		close(p.chans[i])
	}
	p.wg.Wait()
}
