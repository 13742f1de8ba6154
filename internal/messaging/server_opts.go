package messaging

import (
	"time"

	"github.com/nats-io/nats-server/v2/server"
)

type NatsServerOpt func(*NatsServer)

// WithStartTimeout bounds how long Start waits for the server, and how long
// publishers wait for Start.
func WithStartTimeout(d time.Duration) NatsServerOpt {
	return func(n *NatsServer) {
		n.startupTimeout = d
	}
}

func WithHost(host string) NatsServerOpt {
	return func(n *NatsServer) {
		n.host = host
	}
}

// WithPort sets the client port. Zero picks a free port.
func WithPort(port int) NatsServerOpt {
	return func(n *NatsServer) {
		if port == 0 {
			port = server.RANDOM_PORT
		}
		n.port = port
	}
}
