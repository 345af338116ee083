// ABOUTME: Small worker pool for fanning out independent filesystem tasks
// ABOUTME: Used to count files in many genre folders at once for listings and the picker

package pool

import (
	"runtime"
	"sync"
)

// WorkerPool runs submitted tasks on a fixed set of goroutines
type WorkerPool struct {
	workers  int
	taskChan chan func()
	workerWg sync.WaitGroup // tracks worker goroutines lifetime
	taskWg   sync.WaitGroup // tracks submitted tasks completion
}

// ForIO returns a worker count for I/O-bound work (2 per CPU), capped by limit.
// A limit of 0 means no cap.
func ForIO(limit int) int {
	workers := runtime.GOMAXPROCS(0) * 2
	if workers < 1 {
		workers = 1
	}

	if limit > 0 && workers > limit {
		workers = limit
	}

	return workers
}

// NewWorkerPool starts a pool with the given number of workers.
// workers <= 0 uses one worker per CPU.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	p := &WorkerPool{
		workers:  workers,
		taskChan: make(chan func(), workers),
	}

	for range workers {
		p.workerWg.Add(1)

		go func() {
			defer p.workerWg.Done()

			for task := range p.taskChan {
				task()
				p.taskWg.Done()
			}
		}()
	}

	return p
}

// Workers returns the number of worker goroutines
func (p *WorkerPool) Workers() int {
	return p.workers
}

// Submit adds a task to the pool.
// Blocks if every worker is busy and the queue is full.
func (p *WorkerPool) Submit(task func()) {
	p.taskWg.Add(1)
	p.taskChan <- task
}

// Wait blocks until all submitted tasks have completed
func (p *WorkerPool) Wait() {
	p.taskWg.Wait()
}

// Close shuts down the pool and waits for all workers to exit
func (p *WorkerPool) Close() {
	close(p.taskChan)
	p.workerWg.Wait()
}
