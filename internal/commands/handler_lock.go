package commands

import (
	"context"
	"fmt"

	"github.com/pixil98/go-mudcore/internal/game"
)

// LockHandlerFactory creates handlers that lock or unlock the actor's room.
// Only the room's creator or an admin may do so.
// Config:
//   - locked (required): true to lock, false to unlock
type LockHandlerFactory struct{}

func (f *LockHandlerFactory) ValidateConfig(config map[string]any) error {
	if _, ok := config["locked"].(bool); !ok {
		return fmt.Errorf("locked must be a boolean")
	}
	return nil
}

func (f *LockHandlerFactory) Create() (CommandFunc, error) {
	return func(ctx context.Context, cmdCtx *CommandContext) error {
		locked := cmdCtx.Config["locked"] == "true"
		verb := "unlock"
		if locked {
			verb = "lock"
		}

		room, err := cmdCtx.Room()
		if err != nil {
			return err
		}
		if !room.Lockable {
			return NewUserError("This room cannot be locked.")
		}
		isCreator := room.Creator != nil && *room.Creator == cmdCtx.Session.Id
		if !isCreator && cmdCtx.Session.Role != game.RoleAdmin {
			return NewUserError(fmt.Sprintf("Only the owner of this room may %s it.", verb))
		}
		if room.Locked == locked {
			return NewUserError(fmt.Sprintf("The room is already %sed.", verb))
		}

		room.Locked = locked
		if err := cmdCtx.Rooms.Save(room); err != nil {
			room.Locked = !locked
			return fmt.Errorf("saving room %s: %w", room.Key(), err)
		}

		cmdCtx.Users.Announce(game.ScopeRoom, cmdCtx.Session,
			fmt.Sprintf("You %s the room.", verb),
			fmt.Sprintf("%s %ss the room.", cmdCtx.Actor(), verb))
		return nil
	}, nil
}
