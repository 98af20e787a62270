// Package tcp provides the TCP transport implementation for the echo server.
package tcp

import (
	"bufio"
	"io"
	"net"
	"strings"
)

// Conn adapts a net.Conn to the echo.Conn interface, with buffered
// line-oriented reads and buffered writes flushed on demand.
type Conn struct {
	conn   net.Conn
	reader *bufio.Reader
	writer *bufio.Writer
}

// NewConn wraps a net.Conn.
func NewConn(conn net.Conn) *Conn {
	return NewConnWithReader(conn, bufio.NewReader(conn))
}

// NewConnWithReader wraps a net.Conn using an existing buffered reader.
// This is used when the connection has already been peeked at for protocol
// detection and the reader may hold consumed bytes.
func NewConnWithReader(conn net.Conn, reader *bufio.Reader) *Conn {
	return &Conn{
		conn:   conn,
		reader: reader,
		writer: bufio.NewWriter(conn),
	}
}

// ReadLine implements echo.Conn.
// A trailing line without a terminator is still returned as a line; the
// end-of-stream signal follows on the next call.
func (c *Conn) ReadLine() (string, error) {
	line, err := c.reader.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			return strings.TrimSuffix(line, "\r"), nil
		}
		return "", err
	}
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, nil
}

// WriteLine implements echo.Conn.
func (c *Conn) WriteLine(line string) error {
	if _, err := c.writer.WriteString(line); err != nil {
		return err
	}
	return c.writer.WriteByte('\n')
}

// Flush implements echo.Conn.
func (c *Conn) Flush() error {
	return c.writer.Flush()
}

// Close implements echo.Conn.
func (c *Conn) Close() error {
	return c.conn.Close()
}

// RemoteAddr implements echo.Conn.
func (c *Conn) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}
