// Package client selects an echo client implementation by transport.
package client

import (
	"fmt"

	"github.com/omochice/toy-line-echo/internal/client/tcp"
	"github.com/omochice/toy-line-echo/internal/client/ws"
)

// Client is the transport-independent echo client surface.
type Client interface {
	Connect() error
	Disconnect()
	IsConnected() bool
	Send(line string) error
	Lines() <-chan string
}

// New creates a client for the given transport ("tcp" or "ws").
func New(address, transport string) (Client, error) {
	switch transport {
	case "tcp", "":
		return tcp.New(address), nil
	case "ws", "websocket":
		return ws.New(address), nil
	default:
		return nil, fmt.Errorf("unknown transport %q", transport)
	}
}
