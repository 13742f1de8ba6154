package commands

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-mudcore/internal/game"
)

//go:embed commands.json
var defaultDefinitions []byte

// Command is a verb definition loaded from JSON.
type Command struct {
	Name        string         `json:"name"`
	Aliases     []string       `json:"aliases"`
	Category    string         `json:"category"`
	Usage       string         `json:"usage"`
	Description string         `json:"description"`
	Handler     string         `json:"handler"`
	Config      map[string]any `json:"config"` // passed to the handler factory
	Role        game.Role      `json:"role"`   // minimum role; empty admits visitors
}

func (c *Command) Validate() error {
	el := errors.NewErrorList()

	if c.Name == "" {
		el.Add(fmt.Errorf("command name not set"))
	}
	if strings.ContainsAny(c.Name, " \t") || c.Name != strings.ToLower(c.Name) {
		el.Add(fmt.Errorf("command %q: name must be a single lower case word", c.Name))
	}
	if c.Handler == "" {
		el.Add(fmt.Errorf("command %q: handler not set", c.Name))
	}
	for _, a := range c.Aliases {
		if a == "" || strings.ContainsAny(a, " \t") || a != strings.ToLower(a) {
			el.Add(fmt.Errorf("command %q: invalid alias %q", c.Name, a))
		}
	}
	switch c.Role {
	case "", game.RoleVisitor, game.RolePlayer, game.RoleAdmin:
	default:
		el.Add(fmt.Errorf("command %q: unknown role %q", c.Name, c.Role))
	}

	return el.Err()
}

// Allows reports whether a session's role meets the command's minimum.
func (c *Command) Allows(s *game.Session) bool {
	return s.Role.Rank() >= c.Role.Rank()
}

// DefaultDefinitions returns the built-in verb set.
func DefaultDefinitions() ([]*Command, error) {
	return ParseDefinitions(defaultDefinitions)
}

// LoadDefinitions reads verb definitions from a JSON file.
func LoadDefinitions(path string) ([]*Command, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading command definitions: %w", err)
	}
	return ParseDefinitions(data)
}

// ParseDefinitions decodes and validates a JSON array of definitions.
func ParseDefinitions(data []byte) ([]*Command, error) {
	var cmds []*Command
	if err := json.Unmarshal(data, &cmds); err != nil {
		return nil, fmt.Errorf("parsing command definitions: %w", err)
	}

	el := errors.NewErrorList()
	for i, c := range cmds {
		if c == nil {
			el.Add(fmt.Errorf("command %d: empty definition", i))
			continue
		}
		el.Add(c.Validate())
	}
	if err := el.Err(); err != nil {
		return nil, err
	}
	return cmds, nil
}
