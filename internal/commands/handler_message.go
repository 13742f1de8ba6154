package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/pixil98/go-mudcore/internal/game"
)

func parseScope(s string) (game.Scope, error) {
	switch strings.ToLower(s) {
	case "", "room":
		return game.ScopeRoom, nil
	case "local":
		return game.ScopeLocal, nil
	case "global":
		return game.ScopeGlobal, nil
	default:
		return 0, fmt.Errorf("unknown scope %q", s)
	}
}

// MessageHandlerFactory creates handlers that speak to a scope.
// Config:
//   - scope (optional): room, local or global; defaults to room
//   - self (optional): template for the actor's echo
//   - others (required): template for everyone else in scope
//   - empty (optional): reply when no text is given
type MessageHandlerFactory struct{}

func (f *MessageHandlerFactory) ValidateConfig(config map[string]any) error {
	scope, _ := config["scope"].(string)
	if _, err := parseScope(scope); err != nil {
		return err
	}
	if others, _ := config["others"].(string); others == "" {
		return fmt.Errorf("others is required")
	}
	return validateTemplates(config, "self", "others")
}

func (f *MessageHandlerFactory) Create() (CommandFunc, error) {
	return func(ctx context.Context, cmdCtx *CommandContext) error {
		if cmdCtx.Args == "" {
			empty := cmdCtx.Config["empty"]
			if empty == "" {
				empty = "What do you want to say?"
			}
			return NewUserError(empty)
		}

		scope, err := parseScope(cmdCtx.Config["scope"])
		if err != nil {
			return err
		}

		data := MessageData{Actor: cmdCtx.Actor(), Message: cmdCtx.Args}
		self, err := ExpandTemplate(cmdCtx.Config["self"], data)
		if err != nil {
			return fmt.Errorf("expanding self template: %w", err)
		}
		others, err := ExpandTemplate(cmdCtx.Config["others"], data)
		if err != nil {
			return fmt.Errorf("expanding others template: %w", err)
		}

		cmdCtx.Users.Announce(scope, cmdCtx.Session, self, others)
		return nil
	}, nil
}

// SocialHandlerFactory creates canned gestures, optionally aimed at someone
// in the room.
// Config:
//   - self, others (required): templates without a target
//   - self_target, target, others_target (optional): templates with one
type SocialHandlerFactory struct{}

func (f *SocialHandlerFactory) ValidateConfig(config map[string]any) error {
	for _, k := range []string{"self", "others"} {
		if s, _ := config[k].(string); s == "" {
			return fmt.Errorf("%s is required", k)
		}
	}
	return validateTemplates(config, "self", "others", "self_target", "target", "others_target")
}

func (f *SocialHandlerFactory) Create() (CommandFunc, error) {
	return func(ctx context.Context, cmdCtx *CommandContext) error {
		data := MessageData{Actor: cmdCtx.Actor()}

		if cmdCtx.Args == "" || cmdCtx.Config["target"] == "" {
			return f.announce(cmdCtx, data, cmdCtx.Config["self"], cmdCtx.Config["others"], nil, "")
		}

		sel := ParseSelector(cmdCtx.Args)
		victim, err := SelectSession(sel, findPeopleHere(cmdCtx, sel.Name), "You don't see them here.")
		if err != nil {
			return err
		}
		data.Target = victim.DisplayName()
		return f.announce(cmdCtx, data, cmdCtx.Config["self_target"], cmdCtx.Config["others_target"], victim, cmdCtx.Config["target"])
	}, nil
}

func (f *SocialHandlerFactory) announce(cmdCtx *CommandContext, data MessageData, selfTmpl, othersTmpl string, victim *game.Session, victimTmpl string) error {
	self, err := ExpandTemplate(selfTmpl, data)
	if err != nil {
		return err
	}
	cmdCtx.Reply(self)

	var exclude string
	if victim != nil && victim != cmdCtx.Session {
		msg, err := ExpandTemplate(victimTmpl, data)
		if err != nil {
			return err
		}
		cmdCtx.Users.Send([]string{victim.Id}, msg)
		exclude = victim.Id
	}

	others, err := ExpandTemplate(othersTmpl, data)
	if err != nil {
		return err
	}
	var ids []string
	for _, s := range cmdCtx.Users.Recipients(game.ScopeRoom, cmdCtx.Session, false) {
		if s.Id != exclude {
			ids = append(ids, s.Id)
		}
	}
	cmdCtx.Users.Send(ids, others)
	return nil
}
