package echo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/omochice/toy-line-echo/internal/pipe"
	"github.com/omochice/toy-line-echo/pkg/protocol"
)

// DefaultBuffer is the queue capacity used when no option overrides it.
const DefaultBuffer = 64

// Transform rewrites a line between receipt and echo. The default is the
// identity transform; replacing it is the extension point for echo policy.
type Transform func(line string) string

// Pipeline serves one connection with three concurrent stages: a reader
// publishing received lines to the incoming queue, a bridge forwarding them
// to the outgoing queue, and a writer emitting the formatted echo for each.
// The queues are the only state shared between stages.
type Pipeline struct {
	conn      Conn
	incoming  pipe.Queue[string]
	outgoing  pipe.Queue[string]
	transform Transform
	state     atomic.Int32
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithBuffer sets the queue capacity. A value of zero or less selects
// unbounded queues, trading backpressure for a never-blocking publish.
func WithBuffer(n int) Option {
	return func(p *Pipeline) {
		if n <= 0 {
			p.incoming = pipe.NewUnbounded[string]()
			p.outgoing = pipe.NewUnbounded[string]()
			return
		}
		p.incoming = pipe.NewBounded[string](n)
		p.outgoing = pipe.NewBounded[string](n)
	}
}

// WithTransform replaces the identity forward in the bridge stage.
func WithTransform(fn Transform) Option {
	return func(p *Pipeline) {
		p.transform = fn
	}
}

// New creates a Pipeline for conn. The pipeline is in StateAccepted until
// Run is called.
func New(conn Conn, opts ...Option) *Pipeline {
	p := &Pipeline{
		conn:      conn,
		incoming:  pipe.NewBounded[string](DefaultBuffer),
		outgoing:  pipe.NewBounded[string](DefaultBuffer),
		transform: func(line string) string { return line },
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// State returns the current lifecycle state.
func (p *Pipeline) State() State {
	return State(p.state.Load())
}

// Run serves the connection until end-of-stream, an I/O failure, or ctx
// cancellation, whichever comes first. It returns nil on a clean shutdown
// (end-of-stream or cancellation) and the first stage error otherwise.
func (p *Pipeline) Run(ctx context.Context) error {
	if p.transition(StateAccepted, StateServing) {
		log.Printf("Connection %s: %s", p.conn.RemoteAddr(), StateServing)
	}

	g, ctx := errgroup.WithContext(ctx)

	// A blocking read on the connection cannot observe ctx directly;
	// closing the connection is what unblocks it. The errgroup context also
	// ends when any stage fails, so a writer error releases a pending read.
	stop := context.AfterFunc(ctx, func() {
		p.beginClose("shutdown requested")
		p.conn.Close()
	})
	defer stop()
	g.Go(func() error { return p.readLines(ctx) })
	g.Go(func() error { return p.forward(ctx) })
	g.Go(func() error { return p.writeEchoes(ctx) })

	err := g.Wait()
	p.state.Store(int32(StateClosed))
	log.Printf("Connection %s: %s", p.conn.RemoteAddr(), StateClosed)
	return err
}

// readLines is the reader stage: one publish per received line, in arrival
// order. End-of-stream is a clean exit, signalled downstream by closing the
// incoming queue, never by publishing a sentinel line.
func (p *Pipeline) readLines(ctx context.Context) error {
	defer p.incoming.Close()

	for {
		line, err := p.conn.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				p.beginClose("end of stream")
				return nil
			}
			if ctx.Err() != nil {
				// Unblocked by the shutdown close above.
				return nil
			}
			p.beginClose("read failure")
			return fmt.Errorf("read line: %w", err)
		}

		if err := p.incoming.Put(ctx, line); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("publish line: %w", err)
		}
	}
}

// forward is the bridge stage: every incoming line is republished to the
// outgoing queue exactly once, in order. When the incoming queue is closed
// and drained, closing the outgoing queue propagates shutdown to the writer.
func (p *Pipeline) forward(ctx context.Context) error {
	defer p.outgoing.Close()

	for {
		line, err := p.incoming.Get(ctx)
		if err != nil {
			if errors.Is(err, pipe.ErrClosed) || ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("bridge receive: %w", err)
		}

		if err := p.outgoing.Put(ctx, p.transform(line)); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("bridge forward: %w", err)
		}
	}
}

// writeEchoes is the writer stage: one write per consumed line, flushed
// immediately so the peer observes each echo before the next is consumed.
func (p *Pipeline) writeEchoes(ctx context.Context) error {
	for {
		line, err := p.outgoing.Get(ctx)
		if err != nil {
			if errors.Is(err, pipe.ErrClosed) || ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("writer receive: %w", err)
		}

		if err := p.conn.WriteLine(protocol.FormatResponse(line)); err != nil {
			p.beginClose("write failure")
			return fmt.Errorf("write line: %w", err)
		}
		if err := p.conn.Flush(); err != nil {
			p.beginClose("flush failure")
			return fmt.Errorf("flush: %w", err)
		}
	}
}

// beginClose records the SERVING -> CLOSING transition once, with the reason
// that triggered it.
func (p *Pipeline) beginClose(reason string) {
	if p.transition(StateServing, StateClosing) {
		log.Printf("Connection %s: %s (%s)", p.conn.RemoteAddr(), StateClosing, reason)
	}
}

func (p *Pipeline) transition(from, to State) bool {
	return p.state.CompareAndSwap(int32(from), int32(to))
}
