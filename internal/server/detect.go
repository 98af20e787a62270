package server

import (
	"bufio"
	"bytes"
	"fmt"
	"log"
	"net"

	"github.com/gobwas/ws"

	"github.com/omochice/toy-line-echo/internal/echo"
	"github.com/omochice/toy-line-echo/internal/transport/tcp"
	wstransport "github.com/omochice/toy-line-echo/internal/transport/ws"
)

// HTTP requests start with a method; raw echo clients start with an
// arbitrary text line.
var httpMethodPrefixes = [][]byte{
	[]byte("GET "),
	[]byte("POST"),
	[]byte("PUT "),
	[]byte("HEAD"),
	[]byte("OPTI"), // OPTIONS
	[]byte("PATC"), // PATCH
	[]byte("DELE"), // DELETE
	[]byte("CONN"), // CONNECT
}

// detect peeks at the first bytes of conn to decide between a raw TCP line
// client and a WebSocket upgrade, and returns the matching transport
// adapter. A connection closed before any data falls through to the TCP
// path so the pipeline observes a clean end of stream.
func detect(conn net.Conn) (echo.Conn, error) {
	reader := bufio.NewReader(conn)

	// Grow the peek one byte at a time; demanding four up front would stall
	// a client whose whole first line is shorter than that. A newline among
	// the peeked bytes settles it as a raw line client immediately.
	if _, err := reader.Peek(1); err != nil {
		return tcp.NewConnWithReader(conn, reader), nil
	}
	for {
		n := min(reader.Buffered(), 4)
		peek, err := reader.Peek(n)
		if err != nil {
			return tcp.NewConnWithReader(conn, reader), nil
		}
		if bytes.ContainsRune(peek, '\n') || !couldBeHTTP(peek) {
			return tcp.NewConnWithReader(conn, reader), nil
		}
		if n == 4 {
			break
		}
		// Still a strict prefix of an HTTP method; wait for one more byte.
		if _, err := reader.Peek(n + 1); err != nil {
			return tcp.NewConnWithReader(conn, reader), nil
		}
	}

	bc := &bufferedConn{Conn: conn, reader: reader}
	if _, err := ws.Upgrade(bc); err != nil {
		return nil, fmt.Errorf("websocket upgrade: %w", err)
	}
	log.Printf("WebSocket connection from %s", conn.RemoteAddr())
	return wstransport.NewConnWithReadWriter(bc, conn), nil
}

// couldBeHTTP reports whether peek matches an HTTP method prefix, or is a
// strict prefix of one when fewer than four bytes have arrived.
func couldBeHTTP(peek []byte) bool {
	for _, m := range httpMethodPrefixes {
		if len(peek) >= len(m) {
			if bytes.HasPrefix(peek, m) {
				return true
			}
		} else if bytes.HasPrefix(m, peek) {
			return true
		}
	}
	return false
}

// bufferedConn wraps a net.Conn with a bufio.Reader to preserve peeked data.
type bufferedConn struct {
	net.Conn
	reader *bufio.Reader
}

func (bc *bufferedConn) Read(p []byte) (int, error) {
	return bc.reader.Read(p)
}
