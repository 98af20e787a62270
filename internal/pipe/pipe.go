// Package pipe provides ordered single-producer/single-consumer message
// queues used to connect pipeline stages.
//
// A queue preserves strict FIFO order and never drops or duplicates a
// message while open. Close is producer-side: the producer calls Close after
// its final Put, and the consumer observes closure as ErrClosed from Get once
// all buffered messages have been drained.
package pipe

import (
	"context"
	"errors"
)

// ErrClosed is returned by Put on a closed queue, and by Get once a closed
// queue has been fully drained.
var ErrClosed = errors.New("pipe: queue closed")

// Queue is an ordered conduit between exactly one producer and one consumer.
// Put and Get block until they can complete or ctx is done.
type Queue[T any] interface {
	// Put publishes v. It returns ErrClosed if the queue is closed and
	// ctx.Err() if ctx is done before the message is accepted.
	Put(ctx context.Context, v T) error

	// Get receives the next message in publish order. It returns ErrClosed
	// once the queue is closed and drained, and ctx.Err() if ctx is done
	// before a message arrives.
	Get(ctx context.Context) (T, error)

	// Close marks the end of the sequence. Only the producer may call Close,
	// and only after its final Put has returned. Close is idempotent.
	Close() error
}
