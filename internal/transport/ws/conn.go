// Package ws provides the WebSocket transport implementation for the echo
// server, using gobwas/ws. One text frame carries one line.
package ws

import (
	"io"
	"net"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
)

// Conn adapts an upgraded WebSocket connection to the echo.Conn interface.
type Conn struct {
	rw   io.ReadWriter
	conn net.Conn
}

// NewConn wraps an upgraded net.Conn.
func NewConn(conn net.Conn) *Conn {
	return &Conn{rw: conn, conn: conn}
}

// NewConnWithReadWriter wraps a connection whose frame I/O must go through
// rw instead of the raw conn. This is used when a buffered reader already
// holds bytes consumed during protocol detection or the handshake.
func NewConnWithReadWriter(rw io.ReadWriter, conn net.Conn) *Conn {
	return &Conn{rw: rw, conn: conn}
}

// ReadLine implements echo.Conn.
// Each client text frame is one line. A close frame from the peer maps to
// io.EOF so the pipeline treats it as a normal end-of-stream.
func (c *Conn) ReadLine() (string, error) {
	data, err := wsutil.ReadClientText(c.rw)
	if err != nil {
		if _, closed := err.(wsutil.ClosedError); closed {
			return "", io.EOF
		}
		return "", err
	}
	return string(data), nil
}

// WriteLine implements echo.Conn.
// The line terminator is implicit in the frame boundary; the payload carries
// the line as-is.
func (c *Conn) WriteLine(line string) error {
	return wsutil.WriteServerText(c.rw, []byte(line))
}

// Flush implements echo.Conn. Frames are written whole, so there is nothing
// left to push.
func (c *Conn) Flush() error {
	return nil
}

// Close implements echo.Conn.
func (c *Conn) Close() error {
	// Best effort close frame; the peer may already be gone.
	_ = wsutil.WriteServerMessage(c.rw, ws.OpClose, nil)
	return c.conn.Close()
}

// RemoteAddr implements echo.Conn.
func (c *Conn) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}
