package listener

import (
	"context"
	"io"

	"github.com/pixil98/go-mudcore/internal/log"
)

// SessionRunner drives one connection to completion.
type SessionRunner interface {
	RunSession(ctx context.Context, conn io.ReadWriter) error
}

type ConnectionManager struct {
	runner SessionRunner
}

func NewConnectionManager(runner SessionRunner) *ConnectionManager {
	return &ConnectionManager{
		runner: runner,
	}
}

// AcceptConnection runs a session on conn, translating line endings for the
// network.
func (m *ConnectionManager) AcceptConnection(ctx context.Context, conn io.ReadWriter) {
	if err := m.runner.RunSession(ctx, newCRLFReadWriter(conn)); err != nil {
		log.GetLogger(ctx).WithError(err).Warn("player session ended with error")
	}
}
