package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/pixil98/go-mudcore/internal/display"
	"github.com/pixil98/go-mudcore/internal/game"
)

// LookHandlerFactory creates handlers that describe the room or something
// in it.
type LookHandlerFactory struct{}

func (f *LookHandlerFactory) ValidateConfig(config map[string]any) error {
	return nil
}

func (f *LookHandlerFactory) Create() (CommandFunc, error) {
	return func(ctx context.Context, cmdCtx *CommandContext) error {
		room, err := cmdCtx.Room()
		if err != nil {
			return err
		}

		target := strings.TrimSpace(strings.TrimPrefix(cmdCtx.Args, "at "))
		if target == "" {
			cmdCtx.Reply(DescribeRoom(cmdCtx, room))
			return nil
		}
		return f.showTarget(cmdCtx, room, target)
	}, nil
}

func (f *LookHandlerFactory) showTarget(cmdCtx *CommandContext, room *game.Room, target string) error {
	if text, ok := room.Prop(target); ok {
		cmdCtx.Reply(display.Wrap(text))
		return nil
	}

	sel := ParseSelector(target)
	if items := findNearby(cmdCtx, sel.Name); len(items) > 0 {
		it, err := SelectOne(sel, items, "")
		if err != nil {
			return err
		}
		cmdCtx.Reply(describeItem(cmdCtx, it))
		return nil
	}

	people := findPeopleHere(cmdCtx, sel.Name)
	s, err := SelectSession(sel, people, "You don't see that here.")
	if err != nil {
		return err
	}
	cmdCtx.Replyf("%s\n%s", s.DisplayName(), display.Wrap(s.LookDescription()))
	return nil
}

// DescribeRoom renders the room as the actor sees it.
func DescribeRoom(cmdCtx *CommandContext, room *game.Room) string {
	lines := []string{
		fmt.Sprintf("<bold>%s<reset>", room.Name),
		display.Wrap(room.Description),
	}

	dirs := room.Directions()
	if len(dirs) == 0 {
		lines = append(lines, "<cyan>Exits: none<reset>")
	} else {
		lines = append(lines, fmt.Sprintf("<cyan>Exits: %s<reset>", strings.Join(dirs, ", ")))
	}

	for _, it := range findHere(cmdCtx, "") {
		lines = append(lines, fmt.Sprintf("<yellow>%s is here.<reset>", display.Capitalize(it.Label())))
	}
	for _, s := range cmdCtx.Users.Recipients(game.ScopeRoom, cmdCtx.Session, false) {
		lines = append(lines, fmt.Sprintf("<green>%s is here.<reset>", s.DisplayName()))
	}

	return strings.Join(lines, "\n")
}

func describeItem(cmdCtx *CommandContext, it *game.Item) string {
	lines := []string{it.Label(), display.Wrap(it.Description)}

	if it.Container {
		if !it.Open {
			lines = append(lines, "It is closed.")
		} else {
			contents := cmdCtx.Items.FindItems(game.LocatedAt(it.Id))
			if len(contents) == 0 {
				lines = append(lines, "It is empty.")
			} else {
				lines = append(lines, "It contains:")
				for _, c := range contents {
					lines = append(lines, "  "+c.Label())
				}
			}
		}
	}
	return strings.Join(lines, "\n")
}
