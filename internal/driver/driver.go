package driver

import (
	"context"
	"time"

	"github.com/pixil98/go-mudcore/internal/log"
)

const (
	DefaultTickLength = time.Minute
)

// Ticker is background work run once per tick.
type Ticker interface {
	Tick(context.Context) error
}

// MudDriver runs its tickers at a fixed interval until its context ends.
type MudDriver struct {
	tickLength time.Duration
	tickers    map[string]Ticker
}

func NewMudDriver(tickers map[string]Ticker, opts ...MudDriverOpt) *MudDriver {
	d := &MudDriver{
		tickLength: DefaultTickLength,
		tickers:    tickers,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

func (d *MudDriver) Start(ctx context.Context) error {
	ticker := time.NewTicker(d.tickLength)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			d.Tick(ctx)
		}
	}
}

// Tick runs every ticker once. A failing ticker is logged and the rest still
// run; it is tried again next tick.
func (d *MudDriver) Tick(ctx context.Context) {
	for name, t := range d.tickers {
		if err := t.Tick(ctx); err != nil {
			log.GetLogger(ctx).WithError(err).WithField("ticker", name).Warn("tick failed")
		}
	}
}
