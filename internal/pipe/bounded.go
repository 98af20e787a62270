package pipe

import (
	"context"
	"sync"
)

// Bounded is a Queue with a fixed capacity. Put blocks once the buffer is
// full, applying backpressure to the producer until the consumer catches up.
type Bounded[T any] struct {
	ch     chan T
	mu     sync.Mutex
	closed bool
}

// NewBounded creates a Bounded queue holding at most capacity messages.
func NewBounded[T any](capacity int) *Bounded[T] {
	return &Bounded[T]{ch: make(chan T, capacity)}
}

// Put implements Queue.
func (q *Bounded[T]) Put(ctx context.Context, v T) error {
	q.mu.Lock()
	closed := q.closed
	q.mu.Unlock()
	if closed {
		return ErrClosed
	}

	select {
	case q.ch <- v:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Get implements Queue. Buffered messages remain receivable after Close.
func (q *Bounded[T]) Get(ctx context.Context) (T, error) {
	select {
	case v, ok := <-q.ch:
		if !ok {
			var zero T
			return zero, ErrClosed
		}
		return v, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Close implements Queue.
func (q *Bounded[T]) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil
	}
	q.closed = true
	close(q.ch)
	return nil
}
