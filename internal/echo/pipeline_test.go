package echo_test

import (
	"context"
	"errors"
	"io"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/omochice/toy-line-echo/internal/echo"
)

// scriptConn is a scripted echo.Conn: reads come from a channel (closing it
// is end-of-stream) and writes are recorded as an event log so tests can
// check ordering and flush placement.
type scriptConn struct {
	lines chan string

	mu       sync.Mutex
	events   []string // "write:<line>" and "flush" entries, in call order
	writeErr error

	closeOnce sync.Once
	closed    chan struct{}
}

func newScriptConn() *scriptConn {
	return &scriptConn{
		lines:  make(chan string, 64),
		closed: make(chan struct{}),
	}
}

func (c *scriptConn) ReadLine() (string, error) {
	select {
	case line, ok := <-c.lines:
		if !ok {
			return "", io.EOF
		}
		return line, nil
	case <-c.closed:
		return "", net.ErrClosed
	}
}

func (c *scriptConn) WriteLine(line string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.writeErr != nil {
		return c.writeErr
	}
	c.events = append(c.events, "write:"+line)
	return nil
}

func (c *scriptConn) Flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, "flush")
	return nil
}

func (c *scriptConn) Close() error {
	c.closeOnce.Do(func() { close(c.closed) })
	return nil
}

func (c *scriptConn) RemoteAddr() string { return "script" }

func (c *scriptConn) log() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.events...)
}

// runPipeline runs p and fails the test if it has not finished within two
// seconds, so a stuck stage never hangs the suite.
func runPipeline(t *testing.T, ctx context.Context, p *echo.Pipeline) error {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()
	select {
	case err := <-done:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("pipeline did not terminate")
		return nil
	}
}

func TestPipeline_EchoesInOrder(t *testing.T) {
	conn := newScriptConn()
	for _, line := range []string{"hello", "world", ""} {
		conn.lines <- line
	}
	close(conn.lines)

	p := echo.New(conn)
	if err := runPipeline(t, context.Background(), p); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := []string{
		"write:Echoing: hello", "flush",
		"write:Echoing: world", "flush",
		"write:Echoing: ", "flush",
	}
	got := conn.log()
	if len(got) != len(want) {
		t.Fatalf("event log = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestPipeline_FlushFollowsEveryWrite(t *testing.T) {
	conn := newScriptConn()
	for i := 0; i < 50; i++ {
		conn.lines <- "line"
	}
	close(conn.lines)

	p := echo.New(conn)
	if err := runPipeline(t, context.Background(), p); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	events := conn.log()
	if len(events) != 100 {
		t.Fatalf("got %d events, want 100", len(events))
	}
	for i, e := range events {
		if i%2 == 0 && !strings.HasPrefix(e, "write:") {
			t.Fatalf("event[%d] = %q, want a write", i, e)
		}
		if i%2 == 1 && e != "flush" {
			t.Fatalf("event[%d] = %q, want flush after write", i, e)
		}
	}
}

func TestPipeline_EndOfStreamWithoutData(t *testing.T) {
	conn := newScriptConn()
	close(conn.lines)

	p := echo.New(conn)
	if err := runPipeline(t, context.Background(), p); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if events := conn.log(); len(events) != 0 {
		t.Errorf("event log = %v, want no writes for empty input", events)
	}
	if state := p.State(); state != echo.StateClosed {
		t.Errorf("State() = %v, want %v", state, echo.StateClosed)
	}
}

func TestPipeline_Transform(t *testing.T) {
	conn := newScriptConn()
	conn.lines <- "hello"
	close(conn.lines)

	p := echo.New(conn, echo.WithTransform(strings.ToUpper))
	if err := runPipeline(t, context.Background(), p); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	got := conn.log()
	if len(got) == 0 || got[0] != "write:Echoing: HELLO" {
		t.Errorf("event log = %v, want transformed echo first", got)
	}
}

func TestPipeline_UnboundedBuffer(t *testing.T) {
	conn := newScriptConn()
	conn.lines <- "a"
	conn.lines <- "b"
	close(conn.lines)

	p := echo.New(conn, echo.WithBuffer(0))
	if err := runPipeline(t, context.Background(), p); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	got := conn.log()
	if len(got) != 4 || got[0] != "write:Echoing: a" || got[2] != "write:Echoing: b" {
		t.Errorf("event log = %v, want both lines echoed in order", got)
	}
}

func TestPipeline_WriteFailureTerminates(t *testing.T) {
	conn := newScriptConn()
	conn.writeErr = errors.New("connection reset by peer")
	conn.lines <- "doomed"
	// The input stays open: termination must come from the write failure.

	p := echo.New(conn)
	err := runPipeline(t, context.Background(), p)
	if err == nil {
		t.Fatal("Run() error = nil, want write failure")
	}
	if !strings.Contains(err.Error(), "write line") {
		t.Errorf("Run() error = %v, want wrapped write failure", err)
	}
	if state := p.State(); state != echo.StateClosed {
		t.Errorf("State() = %v, want %v", state, echo.StateClosed)
	}
}

func TestPipeline_ContextCancellation(t *testing.T) {
	conn := newScriptConn()
	// No input and no end-of-stream: only cancellation can stop the reader.

	ctx, cancel := context.WithCancel(context.Background())
	p := echo.New(conn)

	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v, want nil on external shutdown", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("pipeline did not stop after cancellation")
	}
}

func TestPipeline_StateLifecycle(t *testing.T) {
	conn := newScriptConn()
	p := echo.New(conn)

	if state := p.State(); state != echo.StateAccepted {
		t.Errorf("State() before Run = %v, want %v", state, echo.StateAccepted)
	}

	close(conn.lines)
	if err := runPipeline(t, context.Background(), p); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if state := p.State(); state != echo.StateClosed {
		t.Errorf("State() after Run = %v, want %v", state, echo.StateClosed)
	}
}
