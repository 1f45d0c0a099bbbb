package model

import (
	"context"
	"net"
)

// SecurityLayer opens the listeners servers accept connections on.
type SecurityLayer interface {
	Listen(protocol, addr string) (net.Listener, error)
}

// Server is a network server managed by the process lifecycle.
type Server interface {
	// Start blocks until the server stops.
	Start(securityLayer SecurityLayer) error
	Stop(ctx context.Context) error
	Address() string
}
