package commands

import (
	"context"
	"fmt"

	"github.com/pixil98/go-mudcore/internal/game"
	"github.com/sirupsen/logrus"
)

// Invocation tags how a command reached the router.
type Invocation string

const (
	InvocationUser Invocation = "user" // typed by the player
	InvocationEmit Invocation = "emit" // re-injected by the system, e.g. a look after a move
)

// CommandContext is what every handler receives.
type CommandContext struct {
	Session *game.Session
	Users   *game.Registry
	Rooms   *game.RoomStore
	Items   *game.ItemStore
	World   *game.World

	// Args is the raw remainder of the input line after the verb.
	Args       string
	Invocation Invocation
	Command    *Command
	Config     map[string]string
	Log        logrus.FieldLogger

	router *Router
	ctx    context.Context
}

// Reply sends text to the acting session unchanged.
func (c *CommandContext) Reply(text string) {
	c.Users.Send([]string{c.Session.Id}, text)
}

// Replyf formats text and sends it to the acting session.
func (c *CommandContext) Replyf(format string, args ...any) {
	c.Reply(fmt.Sprintf(format, args...))
}

// Emit runs another command on the actor's behalf.
func (c *CommandContext) Emit(line string) bool {
	return c.router.dispatch(c.ctx, c.Session, line, InvocationEmit)
}

// Room loads the room the actor is standing in.
func (c *CommandContext) Room() (*game.Room, error) {
	room, err := c.Rooms.Load(c.Session.Location())
	if err != nil {
		c.Log.WithError(err).Warn("actor is in a missing room")
		return nil, NewUserError("You are nowhere at all. Try teleporting home.")
	}
	return room, nil
}

// Actor is the display name others see for the acting session.
func (c *CommandContext) Actor() string {
	return c.Session.DisplayName()
}
