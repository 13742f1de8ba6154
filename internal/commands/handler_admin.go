package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/pixil98/go-mudcore/internal/game"
)

// SummonHandlerFactory creates handlers that pull another player to the
// actor's room.
type SummonHandlerFactory struct{}

func (f *SummonHandlerFactory) ValidateConfig(config map[string]any) error {
	return nil
}

func (f *SummonHandlerFactory) Create() (CommandFunc, error) {
	return func(ctx context.Context, cmdCtx *CommandContext) error {
		if cmdCtx.Args == "" {
			return NewUserError("Summon whom?")
		}

		sel := ParseSelector(cmdCtx.Args)
		var found []*game.Session
		for _, s := range cmdCtx.Users.ByName(sel.Name) {
			if s.IsActive() && s != cmdCtx.Session {
				found = append(found, s)
			}
		}
		target, err := SelectSession(sel, found, fmt.Sprintf("Nobody called %q is online.", sel.Name))
		if err != nil {
			return err
		}
		if target.Location() == cmdCtx.Session.Location() {
			return NewUserError(fmt.Sprintf("%s is already here.", target.DisplayName()))
		}

		leaving := cmdCtx.Users.Recipients(game.ScopeRoom, target, false)
		err = cmdCtx.Users.MoveUsers([]string{target.Id}, cmdCtx.Session.ZoneId, cmdCtx.Session.RoomId)
		if err != nil {
			return fmt.Errorf("summoning %s: %w", target.Id, err)
		}

		cmdCtx.Users.Send(game.Ids(leaving), fmt.Sprintf("%s vanishes.", target.DisplayName()))
		cmdCtx.Users.Send([]string{target.Id}, fmt.Sprintf("%s has summoned you.", cmdCtx.Actor()))
		cmdCtx.Users.Announce(game.ScopeRoom, cmdCtx.Session,
			fmt.Sprintf("You summon %s.", target.DisplayName()),
			fmt.Sprintf("%s appears, summoned by %s.", target.DisplayName(), cmdCtx.Actor()))
		return nil
	}, nil
}

// TeleportHandlerFactory creates handlers that move the actor to any room
// by key: "teleport 1:20". With no argument it goes to the start room.
type TeleportHandlerFactory struct{}

func (f *TeleportHandlerFactory) ValidateConfig(config map[string]any) error {
	return nil
}

func (f *TeleportHandlerFactory) Create() (CommandFunc, error) {
	return func(ctx context.Context, cmdCtx *CommandContext) error {
		dest := cmdCtx.World.StartKey()
		if cmdCtx.Args != "" {
			key, err := game.RoomKey(cmdCtx.Args).Normalize()
			if err != nil {
				return NewUserError("Usage: teleport <zone>:<room>")
			}
			dest = key
		}
		if !cmdCtx.Rooms.Exists(dest) {
			return NewUserError(fmt.Sprintf("There is no room %s.", dest))
		}

		zone, room, _ := game.ParseRoomKey(string(dest))
		leaving := cmdCtx.Users.Recipients(game.ScopeRoom, cmdCtx.Session, false)
		if err := cmdCtx.Users.MoveUsers([]string{cmdCtx.Session.Id}, zone, room); err != nil {
			if errors.Is(err, game.ErrRoomNotFound) {
				return NewUserError(fmt.Sprintf("There is no room %s.", dest))
			}
			return fmt.Errorf("teleporting to %s: %w", dest, err)
		}

		cmdCtx.Users.Send(game.Ids(leaving), fmt.Sprintf("%s vanishes.", cmdCtx.Actor()))
		cmdCtx.Users.Announce(game.ScopeRoom, cmdCtx.Session,
			fmt.Sprintf("You teleport to %s.", dest),
			fmt.Sprintf("%s appears out of thin air.", cmdCtx.Actor()))
		return nil
	}, nil
}
