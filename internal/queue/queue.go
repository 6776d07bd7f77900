// Package queue implements the unbounded channels that connect the UI and the
// state loop: many producers, one consumer, producers never block.
package queue

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned by Send once the consumer has hung up.
var ErrClosed = errors.New("queue: receiver closed")

// Unbounded is a FIFO queue with a select-friendly readiness channel.
// Only one goroutine may consume from it.
type Unbounded[T any] struct {
	mu     sync.Mutex
	items  []T
	closed bool
	ready  chan struct{}
}

func New[T any]() *Unbounded[T] {
	return &Unbounded[T]{ready: make(chan struct{}, 1)}
}

// Send enqueues v without blocking.
func (q *Unbounded[T]) Send(v T) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrClosed
	}
	q.items = append(q.items, v)
	q.notify()
	return nil
}

// Ready fires when at least one item is waiting. After receiving from it the
// consumer should call TryRecv; Ready is re-armed while items remain.
func (q *Unbounded[T]) Ready() <-chan struct{} {
	return q.ready
}

// TryRecv pops the oldest item, if any.
func (q *Unbounded[T]) TryRecv() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	var zero T
	if len(q.items) == 0 {
		return zero, false
	}
	v := q.items[0]
	q.items[0] = zero
	q.items = q.items[1:]
	if len(q.items) > 0 {
		q.notify()
	}
	return v, true
}

// Recv blocks until an item is available or ctx ends.
func (q *Unbounded[T]) Recv(ctx context.Context) (T, error) {
	for {
		if v, ok := q.TryRecv(); ok {
			return v, nil
		}
		select {
		case <-q.ready:
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		}
	}
}

// Close marks the consumer as gone and drops anything still buffered.
// It is safe to call more than once.
func (q *Unbounded[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.items = nil
}

// Closed reports whether Close has been called.
func (q *Unbounded[T]) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

func (q *Unbounded[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// notify must be called with mu held.
func (q *Unbounded[T]) notify() {
	select {
	case q.ready <- struct{}{}:
	default:
	}
}
