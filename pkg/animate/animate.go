// Package animate drives frame loops against a Clock. RealClock ticks
// on wall time; ManualClock lets tests advance frames deterministically.
package animate

import (
	"context"
	"errors"
	"time"
)

// Stop is returned by a frame function to end the loop without error.
var Stop = errors.New("animate: stop")

// Clock delivers ticks. Implementations own the channel; Stop releases
// the clock's resources and no further ticks are delivered.
type Clock interface {
	C() <-chan time.Time
	Stop()
}

// RealClock ticks at a fixed wall-time interval.
type RealClock struct {
	ticker *time.Ticker
}

// NewRealClock creates a clock ticking every interval.
func NewRealClock(interval time.Duration) *RealClock {
	return &RealClock{ticker: time.NewTicker(interval)}
}

// C returns the tick channel.
func (c *RealClock) C() <-chan time.Time {
	return c.ticker.C
}

// Stop stops the underlying ticker.
func (c *RealClock) Stop() {
	c.ticker.Stop()
}

// ManualClock delivers ticks only when Tick is called. For tests.
type ManualClock struct {
	ch chan time.Time
}

// NewManualClock creates a manual clock.
func NewManualClock() *ManualClock {
	return &ManualClock{ch: make(chan time.Time)}
}

// C returns the tick channel.
func (c *ManualClock) C() <-chan time.Time {
	return c.ch
}

// Tick delivers one tick. Blocks until the loop consumes it, so a
// returned Tick means the previous frame has started.
func (c *ManualClock) Tick(t time.Time) {
	c.ch <- t
}

// Stop is a no-op; the loop exits via ctx or the frame function.
func (c *ManualClock) Stop() {}

// Loop calls fn once per clock tick with an incrementing frame number
// starting at 0. It returns nil when fn returns Stop or the context is
// canceled with ctx.Err() == context.Canceled semantics preserved:
// cancellation returns ctx.Err(), Stop returns nil, and any other fn
// error is returned as-is. The clock is stopped before Loop returns.
func Loop(ctx context.Context, clock Clock, fn func(frame int) error) error {
	defer clock.Stop()

	frame := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-clock.C():
			if err := fn(frame); err != nil {
				if errors.Is(err, Stop) {
					return nil
				}
				return err
			}
			frame++
		}
	}
}
