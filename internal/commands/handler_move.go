package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/pixil98/go-mudcore/internal/game"
)

var directionAliases = map[string]string{
	"n":  "north",
	"s":  "south",
	"e":  "east",
	"w":  "west",
	"u":  "up",
	"d":  "down",
	"ne": "northeast",
	"nw": "northwest",
	"se": "southeast",
	"sw": "southwest",
}

var oppositeDirections = map[string]string{
	"north":     "south",
	"south":     "north",
	"east":      "west",
	"west":      "east",
	"up":        "below",
	"down":      "above",
	"northeast": "southwest",
	"southwest": "northeast",
	"northwest": "southeast",
	"southeast": "northwest",
}

// NormalizeDirection expands a direction abbreviation.
func NormalizeDirection(dir string) string {
	dir = strings.ToLower(strings.TrimSpace(dir))
	if full, ok := directionAliases[dir]; ok {
		return full
	}
	return dir
}

// arrivalFrom names where someone moving dir arrives from, as seen from
// the destination.
func arrivalFrom(dir string) string {
	if o, ok := oppositeDirections[dir]; ok {
		return "the " + o
	}
	return "somewhere"
}

// MoveHandlerFactory creates handlers that move players between rooms.
// Config:
//   - direction (optional): the direction to move; when absent the first
//     argument is used
type MoveHandlerFactory struct{}

func (f *MoveHandlerFactory) ValidateConfig(config map[string]any) error {
	if d, ok := config["direction"]; ok {
		if s, _ := d.(string); s == "" {
			return fmt.Errorf("direction must be a non-empty string")
		}
	}
	return nil
}

func (f *MoveHandlerFactory) Create() (CommandFunc, error) {
	return func(ctx context.Context, cmdCtx *CommandContext) error {
		direction := cmdCtx.Config["direction"]
		if direction == "" {
			direction, _, _ = strings.Cut(cmdCtx.Args, " ")
		}
		direction = NormalizeDirection(direction)
		if direction == "" {
			return NewUserError("Go where?")
		}

		from, err := cmdCtx.Room()
		if err != nil {
			return err
		}

		destKey, ok := from.Exit(direction)
		if !ok {
			return NewUserError("You can't go that way.")
		}
		dest, err := cmdCtx.Rooms.Load(destKey)
		if err != nil {
			cmdCtx.Log.WithError(err).WithField("exit", direction).Warn("exit leads to a missing room")
			return NewUserError("That way leads nowhere.")
		}
		if !dest.CanEnter(cmdCtx.Session.Id) {
			return NewUserError(fmt.Sprintf("The way %s is locked.", direction))
		}

		leaving := cmdCtx.Users.Recipients(game.ScopeRoom, cmdCtx.Session, false)
		if err := cmdCtx.Users.MoveUsers([]string{cmdCtx.Session.Id}, dest.ZoneId, dest.RoomId); err != nil {
			return fmt.Errorf("moving %s: %w", cmdCtx.Session.Id, err)
		}

		name := cmdCtx.Actor()
		cmdCtx.Users.Send(game.Ids(leaving), fmt.Sprintf("%s left heading %s.", name, direction))
		cmdCtx.Users.Send(game.Ids(cmdCtx.Users.Recipients(game.ScopeRoom, cmdCtx.Session, false)),
			fmt.Sprintf("%s arrived from %s.", name, arrivalFrom(direction)))
		cmdCtx.Replyf("You head %s.", direction)
		return nil
	}, nil
}
