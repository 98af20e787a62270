package pipe

import (
	"context"
	"sync"

	"github.com/eapache/queue"
)

// Unbounded is a Queue without a capacity limit: Put never blocks on a full
// buffer. Overflow beyond the channel handoff is held in a ring buffer, so a
// slow consumer grows memory instead of stalling the producer.
type Unbounded[T any] struct {
	in     chan T
	out    chan T
	mu     sync.Mutex
	closed bool
}

// NewUnbounded creates an Unbounded queue and starts its buffering loop.
func NewUnbounded[T any]() *Unbounded[T] {
	q := &Unbounded[T]{
		in:  make(chan T),
		out: make(chan T),
	}
	go q.buffer()
	return q
}

// buffer shuttles messages from in to out, absorbing any backlog in a ring
// buffer so senders on in are never blocked by a lagging receiver on out.
func (q *Unbounded[T]) buffer() {
	backlog := queue.New()
	for {
		if backlog.Length() == 0 {
			v, ok := <-q.in
			if !ok {
				close(q.out)
				return
			}
			backlog.Add(v)
		}

		select {
		case v, ok := <-q.in:
			if !ok {
				for backlog.Length() > 0 {
					q.out <- backlog.Remove().(T)
				}
				close(q.out)
				return
			}
			backlog.Add(v)
		case q.out <- backlog.Peek().(T):
			backlog.Remove()
		}
	}
}

// Put implements Queue.
func (q *Unbounded[T]) Put(ctx context.Context, v T) error {
	q.mu.Lock()
	closed := q.closed
	q.mu.Unlock()
	if closed {
		return ErrClosed
	}

	select {
	case q.in <- v:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Get implements Queue. Buffered messages remain receivable after Close.
func (q *Unbounded[T]) Get(ctx context.Context) (T, error) {
	select {
	case v, ok := <-q.out:
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
func (q *Unbounded[T]) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil
	}
	q.closed = true
	close(q.in)
	return nil
}
