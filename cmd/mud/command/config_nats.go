package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-mudcore/internal/messaging"
)

// NatsConfig enables the embedded NATS server as the session output bus.
type NatsConfig struct {
	Enabled      bool   `json:"enabled" env:"MUD_NATS_ENABLED"`
	Host         string `json:"host" env:"MUD_NATS_HOST"`
	Port         int    `json:"port" env:"MUD_NATS_PORT"`
	StartTimeout string `json:"start_timeout" env:"MUD_NATS_START_TIMEOUT"`
}

func (c *NatsConfig) validate() error {
	el := errors.NewErrorList()

	if c.StartTimeout != "" {
		if _, err := time.ParseDuration(c.StartTimeout); err != nil {
			el.Add(fmt.Errorf("nats: parsing start_timeout: %w", err))
		}
	}
	if c.Port < 0 {
		el.Add(fmt.Errorf("nats: port must not be negative"))
	}

	return el.Err()
}

func (c *NatsConfig) buildNatsServer() (*messaging.NatsServer, error) {
	var opts []messaging.NatsServerOpt
	if c.StartTimeout != "" {
		d, err := time.ParseDuration(c.StartTimeout)
		if err != nil {
			return nil, fmt.Errorf("parsing start_timeout: %w", err)
		}
		opts = append(opts, messaging.WithStartTimeout(d))
	}
	if c.Host != "" {
		opts = append(opts, messaging.WithHost(c.Host))
	}
	opts = append(opts, messaging.WithPort(c.Port))

	return messaging.NewNatsServer(opts...)
}
