package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/pixil98/go-mudcore/internal/log"
)

// Server exposes /metrics over HTTP.
type Server struct {
	addr    string
	metrics *Metrics
}

func NewServer(addr string, metrics *Metrics) *Server {
	return &Server{
		addr:    addr,
		metrics: metrics,
	}
}

func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", s.metrics.Handler())

	svr := &http.Server{
		Addr:              s.addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		svr.Shutdown(shutdownCtx)
	}()

	log.GetLogger(ctx).WithField("addr", s.addr).Info("serving metrics")
	err := svr.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving metrics on %s: %w", s.addr, err)
	}
	return nil
}
