package assistant

import (
	"context"
	"math/rand/v2"
	"time"
)

// Pacer delays an assistant turn to simulate typing.
type Pacer interface {
	Pause(ctx context.Context) error
}

// RandomPacer waits a uniformly random duration in [Min, Max].
type RandomPacer struct {
	Min, Max time.Duration
}

// Delay picks the next pause length.
func (p RandomPacer) Delay() time.Duration {
	if p.Max <= p.Min {
		return max(p.Min, 0)
	}
	return p.Min + rand.N(p.Max-p.Min+1)
}

// Pause blocks for Delay or until ctx is done.
func (p RandomPacer) Pause(ctx context.Context) error {
	d := p.Delay()
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// NoDelay never waits.
type NoDelay struct{}

func (NoDelay) Pause(context.Context) error { return nil }
