package command

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/pixil98/go-errors"
	"github.com/sirupsen/logrus"
)

type Config struct {
	LogLevel  string           `json:"log_level"`
	Listeners []ListenerConfig `json:"listeners"`
	Storage   StorageConfig    `json:"storage"`
	World     WorldConfig      `json:"world"`
	Commands  CommandsConfig   `json:"commands"`
	Text      TextConfig       `json:"text"`
	Nats      NatsConfig       `json:"nats"`
	Metrics   MetricsConfig    `json:"metrics"`
}

// applyEnv overlays MUD_* environment variables on the loaded config. Unset
// variables leave the loaded values alone.
func (c *Config) applyEnv() error {
	logging := struct {
		LogLevel string `env:"MUD_LOG_LEVEL"`
	}{c.LogLevel}

	sections := []struct {
		prefix string
		target any
	}{
		{target: &logging},
		{target: &c.World},
		{target: &c.Commands},
		{target: &c.Text},
		{target: &c.Nats},
		{target: &c.Metrics},
		{prefix: "MUD_ROOMS_", target: &c.Storage.Rooms},
		{prefix: "MUD_ITEMS_", target: &c.Storage.Items},
		{prefix: "MUD_ACCOUNTS_", target: &c.Storage.Accounts},
	}

	el := errors.NewErrorList()
	for _, s := range sections {
		el.Add(env.ParseWithOptions(s.target, env.Options{Prefix: s.prefix}))
	}
	if err := el.Err(); err != nil {
		return fmt.Errorf("parsing environment: %w", err)
	}

	c.LogLevel = logging.LogLevel
	return nil
}

func (c *Config) Validate() error {
	el := errors.NewErrorList()

	if c.LogLevel != "" {
		if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
			el.Add(fmt.Errorf("log_level: %w", err))
		}
	}

	if len(c.Listeners) == 0 {
		el.Add(fmt.Errorf("at least one listener is required"))
	}
	for i, l := range c.Listeners {
		if err := l.validate(); err != nil {
			el.Add(fmt.Errorf("listener %d: %w", i, err))
		}
	}

	el.Add(c.Storage.validate())
	el.Add(c.World.validate())
	el.Add(c.Commands.validate())
	el.Add(c.Nats.validate())

	return el.Err()
}
