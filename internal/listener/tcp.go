package listener

import (
	"context"
	"net"

	"github.com/pixil98/go-mudcore/internal/log"
)

// TcpListener accepts raw line-oriented TCP connections.
type TcpListener struct {
	port uint16
	cm   *ConnectionManager
}

func NewTcpListener(port uint16, cm *ConnectionManager) *TcpListener {
	return &TcpListener{
		port: port,
		cm:   cm,
	}
}

func (l *TcpListener) Start(ctx context.Context) error {
	ln, err := listen(l.port)
	if err != nil {
		return err
	}
	log.GetLogger(ctx).WithField("port", l.port).Info("listening for tcp")

	return serve(ctx, ln, func(ctx context.Context, conn net.Conn) {
		// Unblock the session's reader on shutdown.
		stop := context.AfterFunc(ctx, func() { conn.Close() })
		defer stop()

		l.cm.AcceptConnection(ctx, conn)
	})
}
