// Package echo provides the core echo pipeline shared by all transports.
package echo

// Conn abstracts a line-oriented bidirectional connection for both TCP and
// WebSocket. This interface isolates transport details from the pipeline.
//
// The read side and the write side are independent: exactly one goroutine
// drives each direction, so implementations need no locking across them.
type Conn interface {
	// ReadLine reads a single line, without its terminator.
	// Returns io.EOF when the peer has closed its write side.
	ReadLine() (string, error)

	// WriteLine queues a single line, appending the terminator.
	WriteLine(line string) error

	// Flush pushes any buffered output to the peer.
	Flush() error

	// Close closes the connection, unblocking any pending read.
	Close() error

	// RemoteAddr returns the remote address for logging.
	RemoteAddr() string
}
