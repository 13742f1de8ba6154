package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pixil98/go-mudcore/internal/display"
	"github.com/pixil98/go-mudcore/internal/game"
)

// credentials parses "<first> <last> <password>".
func credentials(args, usage string) (first, last, password string, err error) {
	fields := strings.Fields(args)
	if len(fields) != 3 {
		return "", "", "", NewUserError("Usage: " + usage)
	}
	return display.Name(fields[0]), display.Name(fields[1]), fields[2], nil
}

// RegisterHandlerFactory creates handlers that turn a visitor into a
// persisted player.
type RegisterHandlerFactory struct{}

func (f *RegisterHandlerFactory) ValidateConfig(config map[string]any) error {
	return nil
}

func (f *RegisterHandlerFactory) Create() (CommandFunc, error) {
	return func(ctx context.Context, cmdCtx *CommandContext) error {
		first, last, password, err := credentials(cmdCtx.Args, "register <first name> <last name> <password>")
		if err != nil {
			return err
		}

		oldName := cmdCtx.Actor()
		err = cmdCtx.Users.CreateAccount(cmdCtx.Session, first, last, password)
		switch {
		case errors.Is(err, game.ErrAlreadyRegistered):
			return NewUserError("You already have an account.")
		case errors.Is(err, game.ErrDuplicateName):
			return NewUserError(fmt.Sprintf("The name %s %s is taken.", first, last))
		case err != nil:
			return fmt.Errorf("creating account: %w", err)
		}

		cmdCtx.Log.WithField("account", cmdCtx.Session.FullName()).Info("account created")
		cmdCtx.Users.Announce(game.ScopeRoom, cmdCtx.Session,
			fmt.Sprintf("Welcome, %s. Your account has been created.", cmdCtx.Session.FullName()),
			fmt.Sprintf("%s is now known as %s.", oldName, cmdCtx.Actor()))
		return nil
	}, nil
}

// LoginHandlerFactory creates handlers that rebind a session to a stored
// account and return it to where it was saved. Items the visitor held move
// to the account.
type LoginHandlerFactory struct{}

func (f *LoginHandlerFactory) ValidateConfig(config map[string]any) error {
	return nil
}

func (f *LoginHandlerFactory) Create() (CommandFunc, error) {
	return func(ctx context.Context, cmdCtx *CommandContext) error {
		if !cmdCtx.Session.Temporary {
			return NewUserError("You are already logged in.")
		}
		first, last, password, err := credentials(cmdCtx.Args, "login <first name> <last name> <password>")
		if err != nil {
			return err
		}

		oldName := cmdCtx.Actor()
		oldId := cmdCtx.Session.Id
		here := cmdCtx.Session.Location()
		leaving := cmdCtx.Users.Recipients(game.ScopeRoom, cmdCtx.Session, false)

		err = cmdCtx.Users.Login(cmdCtx.Session, first, last, password)
		switch {
		case errors.Is(err, game.ErrBadCredentials):
			return NewUserError("Unknown name or wrong password.")
		case errors.Is(err, game.ErrAlreadyOnline):
			return NewUserError("That player is already online.")
		case err != nil:
			return fmt.Errorf("logging in: %w", err)
		}
		cmdCtx.Log.WithField("account", cmdCtx.Session.FullName()).Info("logged in")

		// Whatever the visitor was carrying stays with the player.
		for _, it := range cmdCtx.Items.FindItems(game.OwnedBy(oldId)) {
			if _, err := cmdCtx.Items.Update(it.Id, game.ItemPatch{Owner: game.SetRef(cmdCtx.Session.Id)}); err != nil {
				cmdCtx.Log.WithError(err).WithField("item", it.Id).Warn("handing over visitor item")
			}
		}

		dest := cmdCtx.Session.Location()
		if !cmdCtx.Rooms.Exists(dest) {
			dest = cmdCtx.World.StartKey()
		}
		zone, room, _ := game.ParseRoomKey(string(dest))
		if err := cmdCtx.Users.MoveUsers([]string{cmdCtx.Session.Id}, zone, room); err != nil {
			return fmt.Errorf("placing %s: %w", cmdCtx.Session.Id, err)
		}

		cmdCtx.Replyf("Welcome back, %s.", cmdCtx.Session.FullName())
		if dest != here {
			cmdCtx.Users.Send(game.Ids(leaving), fmt.Sprintf("%s fades away.", oldName))
			cmdCtx.Users.Send(game.Ids(cmdCtx.Users.Recipients(game.ScopeRoom, cmdCtx.Session, false)),
				fmt.Sprintf("%s appears.", cmdCtx.Actor()))
		} else {
			cmdCtx.Users.Send(game.Ids(leaving), fmt.Sprintf("%s is now known as %s.", oldName, cmdCtx.Actor()))
		}
		return nil
	}, nil
}

// SaveHandlerFactory creates handlers that persist the actor's account.
type SaveHandlerFactory struct{}

func (f *SaveHandlerFactory) ValidateConfig(config map[string]any) error {
	return nil
}

func (f *SaveHandlerFactory) Create() (CommandFunc, error) {
	return func(ctx context.Context, cmdCtx *CommandContext) error {
		if cmdCtx.Session.Temporary {
			return NewUserError("Visitors cannot be saved. Register first.")
		}
		if err := cmdCtx.Users.Save(cmdCtx.Session); err != nil {
			return fmt.Errorf("saving %s: %w", cmdCtx.Session.Id, err)
		}
		cmdCtx.Reply("Saved.")
		return nil
	}, nil
}

// MorphHandlerFactory creates handlers that set or clear a name overlay.
// "morph <name> [= <description>]" sets it; with clear=true it is removed.
// Config:
//   - clear (optional): true for the unmorph verb
type MorphHandlerFactory struct{}

func (f *MorphHandlerFactory) ValidateConfig(config map[string]any) error {
	if c, ok := config["clear"]; ok {
		if _, isBool := c.(bool); !isBool {
			return fmt.Errorf("clear must be a boolean")
		}
	}
	return nil
}

func (f *MorphHandlerFactory) Create() (CommandFunc, error) {
	return func(ctx context.Context, cmdCtx *CommandContext) error {
		s := cmdCtx.Session
		before := cmdCtx.Actor()

		if cmdCtx.Config["clear"] == "true" {
			if s.MorphName == "" {
				return NewUserError("You are already yourself.")
			}
			s.MorphName = ""
			s.MorphDescription = ""
		} else {
			name, desc, _ := strings.Cut(cmdCtx.Args, "=")
			name = strings.TrimSpace(name)
			if name == "" {
				return NewUserError("Usage: morph <name> [= <description>]")
			}
			s.MorphName = name
			s.MorphDescription = strings.TrimSpace(desc)
		}

		if err := cmdCtx.Users.Save(s); err != nil {
			cmdCtx.Log.WithError(err).Warn("saving morph")
		}
		cmdCtx.Users.Announce(game.ScopeRoom, s,
			fmt.Sprintf("You are now %s.", cmdCtx.Actor()),
			fmt.Sprintf("%s shimmers and becomes %s.", before, cmdCtx.Actor()))
		return nil
	}, nil
}

// QuitHandlerFactory creates handlers that save and quit.
type QuitHandlerFactory struct{}

func (f *QuitHandlerFactory) ValidateConfig(config map[string]any) error {
	return nil
}

func (f *QuitHandlerFactory) Create() (CommandFunc, error) {
	return func(ctx context.Context, cmdCtx *CommandContext) error {
		if err := cmdCtx.Users.Save(cmdCtx.Session); err != nil {
			return fmt.Errorf("saving character on quit: %w", err)
		}

		cmdCtx.Reply("Goodbye.")
		cmdCtx.Session.Quit = true
		return nil
	}, nil
}
