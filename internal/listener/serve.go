package listener

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/pixil98/go-mudcore/internal/log"
)

// serve accepts connections on ln until ctx is cancelled, running handle for
// each on its own goroutine. Connections share a context that is cancelled
// on shutdown, and serve waits for all of them to finish. Failed accepts are
// retried with a growing delay.
const (
	minAcceptDelay = 5 * time.Millisecond
	maxAcceptDelay = time.Second
)

// nextAcceptDelay doubles the wait after a failed Accept, up to a ceiling.
func nextAcceptDelay(prev time.Duration) time.Duration {
	if prev == 0 {
		return minAcceptDelay
	}
	return min(prev*2, maxAcceptDelay)
}

func serve(ctx context.Context, ln net.Listener, handle func(context.Context, net.Conn)) error {
	logger := log.GetLogger(ctx)
	connCtx, cancelConns := context.WithCancel(log.SetLogger(context.Background(), logger))
	var wg sync.WaitGroup

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	shutdown := func() error {
		cancelConns()
		wg.Wait()
		return nil
	}

	var delay time.Duration
	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return shutdown()
			default:
			}
			delay = nextAcceptDelay(delay)
			logger.WithError(err).WithField("retry", delay).Error("accepting connection")

			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return shutdown()
			case <-timer.C:
			}
			continue
		}
		delay = 0

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer conn.Close()

			cctx := log.SetLogger(connCtx, logger.WithField("remote", conn.RemoteAddr().String()))
			handle(cctx, conn)
		}()
	}
}

func listen(port uint16) (net.Listener, error) {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, fmt.Errorf("listening on port %d: %w", port, err)
	}
	return ln, nil
}
