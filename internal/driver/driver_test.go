package driver

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pixil98/go-testutil"
)

type countingTicker struct {
	ticks int
	err   error
}

func (c *countingTicker) Tick(context.Context) error {
	c.ticks++
	return c.err
}

func TestMudDriver_Tick(t *testing.T) {
	tests := map[string]struct {
		failFirst bool
	}{
		"all succeed":                  {},
		"failure does not stop others": {failFirst: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			first := &countingTicker{}
			if tt.failFirst {
				first.err = errors.New("boom")
			}
			second := &countingTicker{}

			d := NewMudDriver(map[string]Ticker{"first": first, "second": second})
			d.Tick(context.Background())
			d.Tick(context.Background())

			testutil.AssertEqual(t, "first ticks", first.ticks, 2)
			testutil.AssertEqual(t, "second ticks", second.ticks, 2)
		})
	}
}

func TestMudDriver_StartStops(t *testing.T) {
	d := NewMudDriver(map[string]Ticker{}, WithTickLength(time.Millisecond))
	testutil.AssertEqual(t, "tick length", d.tickLength, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Start(ctx) }()
	cancel()

	select {
	case err := <-done:
		testutil.AssertEqual(t, "error", err, nil)
	case <-time.After(5 * time.Second):
		t.Fatal("driver did not stop")
	}
}
