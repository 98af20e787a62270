// Package ws provides a WebSocket client for the echo server.
package ws

import (
	"context"
	"fmt"
	"io"
	"log"
	"net"
	"strings"
	"sync"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
)

// Client represents a WebSocket echo client.
type Client struct {
	address  string
	conn     net.Conn
	rw       io.ReadWriter
	lines    chan string
	mu       sync.RWMutex
	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New creates a new WebSocket Client instance. The address is host:port or
// a full ws:// URL.
func New(address string) *Client {
	return &Client{
		address: address,
		lines:   make(chan string, 10),
		done:    make(chan struct{}),
	}
}

// Connect establishes a WebSocket connection to the server.
func (c *Client) Connect() error {
	url := c.address
	if !strings.Contains(url, "://") {
		url = "ws://" + url + "/"
	}

	conn, br, _, err := ws.Dial(context.Background(), url)
	if err != nil {
		return fmt.Errorf("failed to connect to server: %w", err)
	}

	var rw io.ReadWriter = conn
	if br != nil {
		// The dialer read past the handshake; keep using its buffer.
		rw = struct {
			io.Reader
			io.Writer
		}{br, conn}
	}

	c.mu.Lock()
	c.conn = conn
	c.rw = rw
	c.mu.Unlock()

	c.wg.Add(1)
	go c.receiveLines()

	return nil
}

// Disconnect closes the WebSocket connection.
func (c *Client) Disconnect() {
	c.mu.Lock()
	if c.conn != nil {
		_ = wsutil.WriteClientMessage(c.rw, ws.OpClose, nil)
		c.conn.Close()
		c.conn = nil
	}
	c.mu.Unlock()

	c.stopOnce.Do(func() { close(c.done) })
	c.wg.Wait()
}

// IsConnected returns whether the client is connected.
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.conn != nil
}

// Send sends one line to the server as a text frame.
func (c *Client) Send(line string) error {
	c.mu.RLock()
	conn, rw := c.conn, c.rw
	c.mu.RUnlock()

	if conn == nil {
		return fmt.Errorf("not connected to server")
	}

	if err := wsutil.WriteClientText(rw, []byte(line)); err != nil {
		return fmt.Errorf("failed to send line: %w", err)
	}
	return nil
}

// Lines returns the channel of echoed response lines. The channel is closed
// when the server ends the stream.
func (c *Client) Lines() <-chan string {
	return c.lines
}

// receiveLines continuously receives response frames from the server.
func (c *Client) receiveLines() {
	defer c.wg.Done()
	defer close(c.lines)

	c.mu.RLock()
	rw := c.rw
	c.mu.RUnlock()
	if rw == nil {
		return
	}

	for {
		data, err := wsutil.ReadServerText(rw)
		if err != nil {
			select {
			case <-c.done:
			default:
				if err != io.EOF {
					log.Printf("Error reading from server: %v", err)
				}
			}
			return
		}

		select {
		case c.lines <- string(data):
		case <-c.done:
			return
		}
	}
}
