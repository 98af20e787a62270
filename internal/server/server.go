// Package server wires one accepted connection to the echo pipeline,
// serving raw TCP and WebSocket clients on a single port.
package server

import (
	"context"
	"fmt"
	"log"
	"net"
	"sync"

	"github.com/omochice/toy-line-echo/internal/echo"
)

// Server accepts a single connection and serves it to completion.
type Server struct {
	address  string
	buffer   int
	quit     chan struct{}
	stopOnce sync.Once

	mu       sync.Mutex
	listener net.Listener
	cancel   context.CancelFunc
}

// Option configures a Server.
type Option func(*Server)

// WithBuffer sets the pipeline queue capacity; zero or less selects
// unbounded queues.
func WithBuffer(n int) Option {
	return func(s *Server) {
		s.buffer = n
	}
}

// New creates a new Server instance.
func New(address string, opts ...Option) *Server {
	s := &Server{
		address: address,
		buffer:  echo.DefaultBuffer,
		quit:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start listens on the configured address, accepts one connection, serves
// its echo pipeline until the peer disconnects or Stop is called, and then
// returns. It returns nil on clean shutdown and the pipeline's first failure
// otherwise.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.address)
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	log.Printf("Echo server started on %s", listener.Addr().String())

	conn, err := listener.Accept()
	if err != nil {
		select {
		case <-s.quit:
			return nil
		default:
			return fmt.Errorf("failed to accept connection: %w", err)
		}
	}

	// One connection per server instance: stop listening once it is in.
	listener.Close()
	defer conn.Close()

	log.Printf("Connection accepted from %s", conn.RemoteAddr())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()

	select {
	case <-s.quit:
		return nil
	default:
	}

	econn, err := detect(conn)
	if err != nil {
		return fmt.Errorf("failed to prepare connection: %w", err)
	}

	pipeline := echo.New(econn, echo.WithBuffer(s.buffer))
	if err := pipeline.Run(ctx); err != nil {
		return fmt.Errorf("failed to serve connection: %w", err)
	}
	return nil
}

// Stop stops the server, cancelling a running pipeline and unblocking a
// pending accept.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		close(s.quit)
		s.mu.Lock()
		if s.listener != nil {
			s.listener.Close()
		}
		s.mu.Unlock()
	})

	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Addr returns the server's listening address.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return ""
}
