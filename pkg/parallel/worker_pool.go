// Package parallel runs independent jobs on a bounded set of goroutines.
package parallel

import (
	"fmt"
	"sync"
)

// Pool manages a fixed set of worker goroutines
type Pool struct {
	workers int
	tasks   chan func()
	wg      sync.WaitGroup
	once    sync.Once
	mu      sync.RWMutex // guards tasks against close during send
	closed  bool
}

// NewPool starts a pool. workers below 1 means 1.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	p := &Pool{
		workers: workers,
		tasks:   make(chan func(), workers*2),
	}
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		task()
	}
}

// Submit queues a task. It returns false once the pool is closed.
func (p *Pool) Submit(task func()) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return false
	}
	p.tasks <- task
	return true
}

// Close stops accepting tasks and waits for queued ones to finish
func (p *Pool) Close() {
	p.once.Do(func() {
		p.mu.Lock()
		p.closed = true
		close(p.tasks)
		p.mu.Unlock()
	})
	p.wg.Wait()
}

// ForEach calls fn for every index in [0, n) using up to workers goroutines.
// All indexes run; the returned error is the one with the lowest index, so
// the outcome does not depend on scheduling. A panicking fn fails its index.
func ForEach(workers, n int, fn func(i int) error) error {
	if n == 0 {
		return nil
	}
	errs := make([]error, n)

	pool := NewPool(min(workers, n))
	for i := 0; i < n; i++ {
		pool.Submit(func() {
			defer func() {
				if r := recover(); r != nil {
					errs[i] = fmt.Errorf("job %d panicked: %v", i, r)
				}
			}()
			errs[i] = fn(i)
		})
	}
	pool.Close()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
