// Package tcp provides a TCP client for the echo server.
package tcp

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"net"
	"strings"
	"sync"
)

// Client represents a TCP echo client.
type Client struct {
	address  string
	conn     net.Conn
	lines    chan string
	mu       sync.RWMutex
	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New creates a new Client instance.
func New(address string) *Client {
	return &Client{
		address: address,
		lines:   make(chan string, 10),
		done:    make(chan struct{}),
	}
}

// Connect establishes a connection to the server.
func (c *Client) Connect() error {
	conn, err := net.Dial("tcp", c.address)
	if err != nil {
		return fmt.Errorf("failed to connect to server: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	c.wg.Add(1)
	go c.receiveLines()

	return nil
}

// Disconnect closes the connection to the server.
func (c *Client) Disconnect() {
	c.mu.Lock()
	if c.conn != nil {
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

// Send sends one line to the server. The line must not contain a newline.
func (c *Client) Send(line string) error {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()

	if conn == nil {
		return fmt.Errorf("not connected to server")
	}
	if strings.ContainsAny(line, "\r\n") {
		return fmt.Errorf("line contains a terminator")
	}

	if _, err := conn.Write([]byte(line + "\n")); err != nil {
		return fmt.Errorf("failed to send line: %w", err)
	}
	return nil
}

// Lines returns the channel of echoed response lines, terminator stripped.
// The channel is closed when the server ends the stream.
func (c *Client) Lines() <-chan string {
	return c.lines
}

// receiveLines continuously receives response lines from the server.
func (c *Client) receiveLines() {
	defer c.wg.Done()
	defer close(c.lines)

	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()
	if conn == nil {
		return
	}

	reader := bufio.NewReader(conn)
	for {
		line, err := reader.ReadString('\n')
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

		line = strings.TrimSuffix(line, "\n")
		line = strings.TrimSuffix(line, "\r")

		select {
		case c.lines <- line:
		case <-c.done:
			return
		}
	}
}
