package workerpool

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"codeberg.org/snonux/readaloud/internal/observability"
)

// DefaultSize is the worker count used for non-positive sizes
const DefaultSize = 4

// ErrClosed is returned for work submitted after Close
var ErrClosed = errors.New("worker pool is closed")

// Pool bounds concurrent task execution with a weighted semaphore.
// A single dispatcher hands queued tasks to the semaphore in FIFO order.
type Pool struct {
	size   int
	sem    *semaphore.Weighted
	logger zerolog.Logger

	mu     sync.Mutex
	queue  []func()
	closed bool
	wake   chan struct{}

	running atomic.Int64
	done    chan struct{}
	wg      sync.WaitGroup
}

// New starts a pool with size workers
func New(size int) *Pool {
	if size <= 0 {
		size = DefaultSize
	}

	p := &Pool{
		size:   size,
		sem:    semaphore.NewWeighted(int64(size)),
		logger: observability.Component("workerpool"),
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	go p.dispatch()
	return p
}

// Size returns the maximum number of concurrently running tasks
func (p *Pool) Size() int {
	return p.size
}

// Running returns the number of tasks currently executing
func (p *Pool) Running() int {
	return int(p.running.Load())
}

// Queued returns the number of tasks waiting for a worker
func (p *Pool) Queued() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue)
}

// Close stops accepting work, runs everything already queued and waits
// for it to finish
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		<-p.done
		p.wg.Wait()
		return
	}
	p.closed = true
	p.mu.Unlock()
	p.notify()

	<-p.done
	p.wg.Wait()
}

func (p *Pool) enqueue(task func()) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrClosed
	}
	p.queue = append(p.queue, task)
	p.mu.Unlock()

	p.notify()
	return nil
}

func (p *Pool) notify() {
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

func (p *Pool) dispatch() {
	defer close(p.done)

	for {
		task, ok := p.next()
		if !ok {
			return
		}

		// Acquire only fails on context cancellation
		_ = p.sem.Acquire(context.Background(), 1)
		p.wg.Add(1)
		p.running.Add(1)

		go func() {
			defer p.wg.Done()
			defer p.sem.Release(1)
			defer p.running.Add(-1)
			task()
		}()
	}
}

// next blocks until a task is queued or the pool is closed and drained
func (p *Pool) next() (func(), bool) {
	for {
		p.mu.Lock()
		if len(p.queue) > 0 {
			task := p.queue[0]
			p.queue[0] = nil
			p.queue = p.queue[1:]
			p.mu.Unlock()
			return task, true
		}
		if p.closed {
			p.mu.Unlock()
			return nil, false
		}
		p.mu.Unlock()

		<-p.wake
	}
}

// Future holds the eventual result of a submitted task
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
}

// Submit queues fn on the pool. fn is skipped when ctx is already done by
// the time a worker picks it up.
func Submit[T any](ctx context.Context, p *Pool, fn func(context.Context) (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}

	err := p.enqueue(func() {
		defer close(f.done)
		defer func() {
			if r := recover(); r != nil {
				p.logger.Error().Interface("panic", r).Msg("task panicked")
				f.err = fmt.Errorf("task panicked: %v", r)
			}
		}()

		if err := ctx.Err(); err != nil {
			f.err = err
			return
		}
		f.value, f.err = fn(ctx)
	})
	if err != nil {
		f.err = err
		close(f.done)
	}

	return f
}

// Await blocks until the task finishes or ctx is done
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Done is closed once the task has finished
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}
