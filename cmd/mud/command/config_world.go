package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-mudcore/internal/commands"
	"github.com/pixil98/go-mudcore/internal/driver"
	"github.com/pixil98/go-mudcore/internal/player"
)

type WorldConfig struct {
	StartZone          int    `json:"start_zone" env:"MUD_START_ZONE"`
	StartRoom          int    `json:"start_room" env:"MUD_START_ROOM"`
	SweepInterval      string `json:"sweep_interval" env:"MUD_SWEEP_INTERVAL"`
	PasswordIterations int    `json:"password_iterations" env:"MUD_PASSWORD_ITERATIONS"`
}

func (c *WorldConfig) validate() error {
	el := errors.NewErrorList()

	if c.StartZone < 0 || c.StartZone > 999 {
		el.Add(fmt.Errorf("world: start_zone must be between 0 and 999"))
	}
	if c.StartRoom < 0 || c.StartRoom > 999 {
		el.Add(fmt.Errorf("world: start_room must be between 0 and 999"))
	}
	if c.SweepInterval != "" {
		d, err := time.ParseDuration(c.SweepInterval)
		if err != nil {
			el.Add(fmt.Errorf("world: parsing sweep_interval: %w", err))
		} else if d < time.Second {
			el.Add(fmt.Errorf("world: sweep_interval must be at least 1 second"))
		}
	}
	if c.PasswordIterations < 0 {
		el.Add(fmt.Errorf("world: password_iterations must not be negative"))
	}

	return el.Err()
}

func (c *WorldConfig) sweepInterval() time.Duration {
	d, err := time.ParseDuration(c.SweepInterval)
	if err != nil {
		return driver.DefaultTickLength
	}
	return d
}

// CommandsConfig points at a verb definitions file. The built-in set is used
// when it is empty.
type CommandsConfig struct {
	Path string `json:"path" env:"MUD_COMMANDS_PATH"`
}

func (c *CommandsConfig) validate() error {
	if c.Path == "" {
		return nil
	}
	if _, err := commands.LoadDefinitions(c.Path); err != nil {
		return fmt.Errorf("commands: %w", err)
	}
	return nil
}

func (c *CommandsConfig) load() ([]*commands.Command, error) {
	if c.Path == "" {
		return commands.DefaultDefinitions()
	}
	return commands.LoadDefinitions(c.Path)
}

type TextConfig struct {
	Banner      string `json:"banner"`
	AsciiBanner string `json:"ascii_banner"`
	Welcome     string `json:"welcome"`
	Spawn       string `json:"spawn"`
	Motd        string `json:"motd" env:"MUD_MOTD"`
}

func (c *TextConfig) texts() player.Texts {
	return player.Texts{
		Banner:      c.Banner,
		AsciiBanner: c.AsciiBanner,
		Welcome:     c.Welcome,
		Spawn:       c.Spawn,
		Motd:        c.Motd,
	}
}

// MetricsConfig serves prometheus metrics when Address is set.
type MetricsConfig struct {
	Address string `json:"address" env:"MUD_METRICS_ADDRESS"`
}
