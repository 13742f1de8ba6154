package player

import (
	"context"
	"fmt"
	"strings"

	"github.com/pixil98/go-mudcore/internal/commands"
	"github.com/pixil98/go-mudcore/internal/game"
	"github.com/pixil98/go-mudcore/internal/log"
)

const (
	colorPrompt    = "Would you like color? (y/n) "
	asciiPrompt    = "Does your terminal show ASCII art correctly? (y/n) "
	continuePrompt = "Press enter to continue. "
	commandPrompt  = "> "
)

// Begin allocates a temporary session for a new connection, registers it
// and asks the first negotiation question.
func (m *PlayerManager) Begin(ctx context.Context) (*game.Session, error) {
	m.world.Lock()
	defer m.world.Unlock()

	first, last := m.names()
	sess := game.NewSession(first, last, m.world.StartZone, m.world.StartRoom)
	sess.Attach()
	if err := m.world.Users.Add(sess); err != nil {
		sess.Detach()
		return nil, fmt.Errorf("registering session: %w", err)
	}

	sess.Status = game.StatusColorCheck
	m.world.Users.Prompt(sess, colorPrompt)
	return sess, nil
}

// HandleLine advances the session by one line of input. It reports true when
// the session asked to disconnect.
func (m *PlayerManager) HandleLine(ctx context.Context, sess *game.Session, line string) bool {
	m.world.Lock()
	defer m.world.Unlock()

	line = strings.TrimSpace(line)

	switch sess.Status {
	case game.StatusColorCheck:
		answer, ok := parseYesNo(line)
		if !ok {
			m.world.Users.Prompt(sess, colorPrompt)
			return false
		}
		sess.Color = answer
		sess.Status = game.StatusAsciiCheck
		m.world.Users.Prompt(sess, asciiPrompt)

	case game.StatusAsciiCheck:
		answer, ok := parseYesNo(line)
		if !ok {
			m.world.Users.Prompt(sess, asciiPrompt)
			return false
		}
		sess.Ascii = answer
		m.greet(sess)
		sess.Status = game.StatusWelcomePause
		m.world.Users.Prompt(sess, continuePrompt)

	case game.StatusWelcomePause:
		m.enter(ctx, sess)

	case game.StatusActive:
		m.command(ctx, sess, line)
	}

	if sess.Quit {
		return true
	}
	select {
	case <-sess.Moved():
		m.look(ctx, sess)
	default:
	}
	m.prompt(sess)
	return false
}

// End takes a closed connection's session out of the world.
func (m *PlayerManager) End(ctx context.Context, sess *game.Session) {
	m.world.Lock()
	defer m.world.Unlock()

	logger := log.GetLogger(ctx)
	wasActive := sess.IsActive()

	sess.Detach()
	if !sess.Temporary {
		if err := m.world.Users.Save(sess); err != nil {
			logger.WithError(err).Warn("saving session on disconnect")
		}
	}
	m.world.Users.Remove(sess)

	if wasActive {
		m.world.Users.Broadcast(fmt.Sprintf("%s has left the world.", sess.DisplayName()))
	}
}

func (m *PlayerManager) greet(sess *game.Session) {
	banner := m.texts.Banner
	if sess.Ascii {
		banner = m.texts.AsciiBanner
	}
	for _, text := range []string{banner, m.texts.Welcome, m.texts.Spawn, m.texts.Motd} {
		if text != "" {
			m.world.Users.Send([]string{sess.Id}, text)
		}
	}
}

func (m *PlayerManager) enter(ctx context.Context, sess *game.Session) {
	m.world.Users.Broadcast(fmt.Sprintf("%s has entered the world.", sess.DisplayName()))

	err := m.world.Users.MoveUsers([]string{sess.Id}, m.world.StartZone, m.world.StartRoom)
	if err != nil {
		log.GetLogger(ctx).WithError(err).Warn("moving session to start room")
	}
	sess.Status = game.StatusActive
	log.GetLogger(ctx).WithField("name", sess.DisplayName()).Info("session joined")
}

func (m *PlayerManager) command(ctx context.Context, sess *game.Session, line string) {
	if line == "" {
		return
	}

	verb, _ := commands.SplitLine(line)
	if !m.router.Has(verb) {
		msg := fmt.Sprintf("Command %q not found.", verb)
		if suggestion := m.router.Suggest(verb); suggestion != "" {
			msg += fmt.Sprintf(" Did you mean %q?", suggestion)
		}
		m.world.Users.SendRaw([]string{sess.Id}, msg)
		return
	}

	if !m.router.Dispatch(ctx, sess, line, commands.InvocationUser) {
		log.GetLogger(ctx).WithField("verb", verb).Info("command did not complete")
	}
}

func (m *PlayerManager) look(ctx context.Context, sess *game.Session) {
	if !sess.IsActive() {
		return
	}
	m.router.Dispatch(ctx, sess, "look", commands.InvocationEmit)
}

// prompt is only shown once the session is playing.
func (m *PlayerManager) prompt(sess *game.Session) {
	if sess.IsActive() && !sess.Quit {
		m.world.Users.Prompt(sess, commandPrompt)
	}
}

func parseYesNo(answer string) (bool, bool) {
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, true
	case "n", "no":
		return false, true
	}
	return false, false
}
