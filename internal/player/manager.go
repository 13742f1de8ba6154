package player

import (
	"bufio"
	"context"
	"io"
	"sync"
	"sync/atomic"

	"github.com/pixil98/go-mudcore/internal/commands"
	"github.com/pixil98/go-mudcore/internal/game"
	"github.com/pixil98/go-mudcore/internal/log"
)

// PlayerManager runs connections through the session state machine.
type PlayerManager struct {
	world  *game.World
	router *commands.Router
	texts  Texts
	names  func() (string, string)

	readers sync.WaitGroup
}

func NewPlayerManager(world *game.World, router *commands.Router, texts Texts) *PlayerManager {
	return &PlayerManager{
		world:  world,
		router: router,
		texts:  texts.withDefaults(),
		names:  visitorName,
	}
}

func (m *PlayerManager) Start(ctx context.Context) error {
	<-ctx.Done()
	log.GetLogger(ctx).Info("player manager stopped")
	return nil
}

// RunSession drives one connection until it closes, the session quits or
// ctx is cancelled. The session is cleaned up before it returns.
func (m *PlayerManager) RunSession(ctx context.Context, conn io.ReadWriter) error {
	sess, err := m.Begin(ctx)
	if err != nil {
		return err
	}

	logger := log.GetLogger(ctx).WithField("session", sess.Id)
	ctx = log.SetLogger(ctx, logger)
	logger.Info("session connected")

	out := &outputWriter{w: conn}
	stop := make(chan struct{})
	flushed := make(chan struct{})
	go func() {
		defer close(flushed)
		out.run(sess.Outbound(), stop)
	}()

	done := make(chan struct{})
	defer func() {
		close(done)
		m.End(ctx, sess)
		close(stop)
		<-flushed
		logger.Info("session disconnected")
	}()

	input := make(chan string)
	inputErr := make(chan error, 1)
	m.readers.Add(1)
	go func() {
		defer m.readers.Done()
		scanner := bufio.NewScanner(conn)
		for scanner.Scan() {
			select {
			case input <- scanner.Text():
			case <-done:
				return
			case <-ctx.Done():
				return
			}
		}
		inputErr <- scanner.Err()
		close(input)
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-sess.Moved():
			m.world.Lock()
			m.look(ctx, sess)
			m.prompt(sess)
			m.world.Unlock()

		case line, ok := <-input:
			if !ok {
				return <-inputErr
			}
			out.prompted.Store(false)

			if m.HandleLine(ctx, sess, line) {
				return nil
			}
		}
	}
}

// outputWriter copies queued output to the connection. Output that follows
// a prompt the user has not answered starts on a fresh line.
type outputWriter struct {
	w        io.Writer
	prompted atomic.Bool
	failed   bool
}

func (o *outputWriter) run(queue <-chan game.Output, stop <-chan struct{}) {
	for {
		select {
		case msg := <-queue:
			o.write(msg)
		case <-stop:
			for {
				select {
				case msg := <-queue:
					o.write(msg)
				default:
					return
				}
			}
		}
	}
}

func (o *outputWriter) write(msg game.Output) {
	// Once a write fails the rest of the queue is discarded.
	if o.failed {
		return
	}

	text := msg.Text
	if msg.Inline {
		o.prompted.Store(true)
	} else {
		if o.prompted.Swap(false) {
			text = "\n" + text
		}
		text += "\n"
	}

	if _, err := io.WriteString(o.w, text); err != nil {
		o.failed = true
	}
}
