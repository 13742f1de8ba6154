package commands

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/pixil98/go-mudcore/internal/game"
)

// WhoHandlerFactory creates handlers that list active players.
type WhoHandlerFactory struct{}

func (f *WhoHandlerFactory) ValidateConfig(config map[string]any) error {
	return nil
}

func (f *WhoHandlerFactory) Create() (CommandFunc, error) {
	return func(ctx context.Context, cmdCtx *CommandContext) error {
		var lines []string
		for _, s := range cmdCtx.Users.Active() {
			if !s.Online() {
				continue
			}
			line := "  " + s.DisplayName()
			switch s.Role {
			case game.RoleVisitor:
				line += " (visitor)"
			case game.RoleAdmin:
				line += " (admin)"
			}
			lines = append(lines, line)
		}
		slices.Sort(lines)

		noun := "players"
		if len(lines) == 1 {
			noun = "player"
		}
		out := append([]string{"Players online:"}, lines...)
		out = append(out, fmt.Sprintf("%d %s online.", len(lines), noun))
		cmdCtx.Reply(strings.Join(out, "\n"))
		return nil
	}, nil
}
