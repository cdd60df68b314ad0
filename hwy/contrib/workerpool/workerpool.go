// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

// Package workerpool runs the row loops of the kernel packages on a fixed set
// of goroutines that live as long as the Pool.
//
// A prepared matrix is typically multiplied many times, so the pool is built
// once and handed to every call:
//
//	pool := workerpool.New(0)
//	defer pool.Close()
//
//	for _, u := range inputs {
//	    intsimd.MatrixDotVectorParallel(pool, prepared, scales, u, v)
//	}
//
// All methods block until the submitted work is done. A closed pool keeps
// working but runs everything on the calling goroutine.
package workerpool

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool is a set of persistent worker goroutines.
type Pool struct {
	numWorkers int
	tasks      chan task
	closeOnce  sync.Once
	closed     atomic.Bool
}

type task struct {
	run  func()
	done *sync.WaitGroup
}

// New starts numWorkers goroutines, or GOMAXPROCS of them when numWorkers <= 0.
func New(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}
	p := &Pool{
		numWorkers: numWorkers,
		tasks:      make(chan task, numWorkers*2),
	}
	for range numWorkers {
		go p.loop()
	}
	return p
}

func (p *Pool) loop() {
	for t := range p.tasks {
		t.run()
		t.done.Done()
	}
}

// NumWorkers returns the number of worker goroutines.
func (p *Pool) NumWorkers() int {
	return p.numWorkers
}

// Closed reports whether Close has been called.
func (p *Pool) Closed() bool {
	return p.closed.Load()
}

// Close stops the workers once queued work drains. It is safe to call more
// than once.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		close(p.tasks)
	})
}

// workersFor returns how many workers to use for n units, 1 meaning inline.
func (p *Pool) workersFor(n int) int {
	if p.closed.Load() {
		return 1
	}
	return min(p.numWorkers, n)
}

// fanOut queues run on workers goroutines and waits for all of them.
func (p *Pool) fanOut(workers int, run func(worker int)) {
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := range workers {
		p.tasks <- task{run: func() { run(w) }, done: &wg}
	}
	wg.Wait()
}

// ParallelFor splits [0, n) into one contiguous range per worker and calls
// fn(start, end) for each.
func (p *Pool) ParallelFor(n int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	workers := p.workersFor(n)
	if workers == 1 {
		fn(0, n)
		return
	}
	chunk := (n + workers - 1) / workers
	// Trailing workers may get nothing when n is just above a multiple.
	workers = (n + chunk - 1) / chunk
	p.fanOut(workers, func(w int) {
		start := w * chunk
		fn(start, min(start+chunk, n))
	})
}

// ParallelForAtomic calls fn(i) for every i in [0, n), handing out indices
// one at a time so uneven items balance across workers.
func (p *Pool) ParallelForAtomic(n int, fn func(i int)) {
	p.ParallelForAtomicBatched(n, 1, func(start, end int) {
		for i := start; i < end; i++ {
			fn(i)
		}
	})
}

// ParallelForAtomicBatched is ParallelForAtomic handing out batchSize
// consecutive indices per grab. fn receives [start, end).
func (p *Pool) ParallelForAtomicBatched(n, batchSize int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	batchSize = max(batchSize, 1)
	numBatches := (n + batchSize - 1) / batchSize
	workers := p.workersFor(numBatches)
	if workers == 1 {
		fn(0, n)
		return
	}
	var next atomic.Int64
	p.fanOut(workers, func(int) {
		for {
			start := int(next.Add(1)-1) * batchSize
			if start >= n {
				return
			}
			fn(start, min(start+batchSize, n))
		}
	})
}
