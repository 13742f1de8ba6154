package commands

import (
	"context"
	"strings"
)

// InventoryHandlerFactory creates handlers that list what the actor holds.
type InventoryHandlerFactory struct{}

func (f *InventoryHandlerFactory) ValidateConfig(config map[string]any) error {
	return nil
}

func (f *InventoryHandlerFactory) Create() (CommandFunc, error) {
	return func(ctx context.Context, cmdCtx *CommandContext) error {
		held := findHeld(cmdCtx, "")
		if len(held) == 0 {
			cmdCtx.Reply("You are carrying nothing.")
			return nil
		}

		lines := []string{"You are carrying:"}
		for _, it := range held {
			lines = append(lines, "  "+it.Label())
		}
		cmdCtx.Reply(strings.Join(lines, "\n"))
		return nil
	}, nil
}
