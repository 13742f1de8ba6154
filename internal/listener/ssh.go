package listener

import (
	"context"
	"net"

	"github.com/pixil98/go-mudcore/internal/log"
	"golang.org/x/crypto/ssh"
)

// SshListener accepts SSH sessions without client authentication. Each
// shell channel becomes a game session.
type SshListener struct {
	port   uint16
	cm     *ConnectionManager
	config *ssh.ServerConfig
}

func NewSshListener(port uint16, cm *ConnectionManager, hostKey ssh.Signer) *SshListener {
	config := &ssh.ServerConfig{
		NoClientAuth: true,
	}
	config.AddHostKey(hostKey)

	return &SshListener{
		port:   port,
		cm:     cm,
		config: config,
	}
}

func (l *SshListener) Start(ctx context.Context) error {
	ln, err := listen(l.port)
	if err != nil {
		return err
	}
	log.GetLogger(ctx).WithField("port", l.port).Info("listening for ssh")

	return serve(ctx, ln, l.handleConnection)
}

func (l *SshListener) handleConnection(ctx context.Context, conn net.Conn) {
	logger := log.GetLogger(ctx)

	sshConn, chans, reqs, err := ssh.NewServerConn(conn, l.config)
	if err != nil {
		logger.WithError(err).Warn("ssh handshake")
		return
	}
	defer sshConn.Close()
	logger.Info("ssh connection established")

	stop := context.AfterFunc(ctx, func() { sshConn.Close() })
	defer stop()

	go ssh.DiscardRequests(reqs)

	for newChan := range chans {
		if newChan.ChannelType() != "session" {
			newChan.Reject(ssh.UnknownChannelType, "unknown channel type")
			continue
		}

		ch, requests, err := newChan.Accept()
		if err != nil {
			logger.WithError(err).Warn("accepting ssh channel")
			continue
		}

		// Clients hold back input until the shell request is answered.
		shellReady := make(chan struct{})
		go func(in <-chan *ssh.Request) {
			started := false
			for req := range in {
				switch {
				case req.Type == "shell" && !started:
					started = true
					req.Reply(true, nil)
					close(shellReady)
				default:
					// Refusing a pty keeps the client's local echo and line editing.
					req.Reply(false, nil)
				}
			}
		}(requests)

		select {
		case <-shellReady:
		case <-ctx.Done():
			ch.Close()
			continue
		}

		l.cm.AcceptConnection(ctx, ch)
		ch.Close()
	}
}
