package fetcher

import (
	"context"
	"math/rand/v2"
	"time"
)

// Pacer sleeps a random duration in [Min, Max] between page requests.
type Pacer struct {
	Min time.Duration
	Max time.Duration
}

// NewPacer creates a pacer over the given bounds in seconds.
func NewPacer(minSeconds, maxSeconds float64) Pacer {
	return Pacer{
		Min: time.Duration(minSeconds * float64(time.Second)),
		Max: time.Duration(maxSeconds * float64(time.Second)),
	}
}

// Delay returns the next randomized delay.
func (p Pacer) Delay() time.Duration {
	if p.Max <= p.Min {
		return p.Min
	}
	return p.Min + rand.N(p.Max-p.Min)
}

// AtLeast raises both bounds to at least d.
func (p Pacer) AtLeast(d time.Duration) Pacer {
	p.Min = max(p.Min, d)
	p.Max = max(p.Max, p.Min)
	return p
}

// Wait sleeps for the next delay or until ctx is done.
func (p Pacer) Wait(ctx context.Context) error {
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

// RandomDelay returns a random delay around the base duration (±25%).
func RandomDelay(base time.Duration) time.Duration {
	jitter := float64(base) * 0.25
	return base + time.Duration(rand.Float64()*2*jitter-jitter)
}
