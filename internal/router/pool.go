package router

import (
	"context"
	"sync"
)

// workerPool is a fixed-size goroutine pool with a bounded input queue.
// Jobs already queued when Drain is called are still processed.
type workerPool[T any] struct {
	mu      sync.RWMutex
	closed  bool
	queue   chan T
	process func(ctx context.Context, t T)
	wg      sync.WaitGroup
}

// newWorkerPool starts n workers reading from a queue of the given depth.
func newWorkerPool[T any](ctx context.Context, n, depth int, fn func(context.Context, T)) *workerPool[T] {
	p := &workerPool[T]{
		queue:   make(chan T, depth),
		process: fn,
	}

	for range n {
		p.wg.Go(func() {
			for t := range p.queue {
				p.process(ctx, t)
			}
		})
	}

	return p
}

// Submit enqueues a job without blocking. It returns false when the queue is full
// or the pool is draining.
func (p *workerPool[T]) Submit(t T) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return false
	}

	select {
	case p.queue <- t:
		return true
	default:
		return false
	}
}

// Drain stops intake and waits until every queued job is processed.
func (p *workerPool[T]) Drain() {
	p.mu.Lock()

	if !p.closed {
		p.closed = true
		close(p.queue)
	}

	p.mu.Unlock()

	p.wg.Wait()
}

func (p *workerPool[T]) isClosed() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.closed
}

// QueueLen returns how many jobs are currently queued.
func (p *workerPool[T]) QueueLen() int {
	return len(p.queue)
}
