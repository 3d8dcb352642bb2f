package newsharvest

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// pacer enforces the minimum delay between article fetches. The limiter
// spaces fetch starts; the finish gate holds the next start until delay has
// passed since the last fetch completed, so a slow origin still gets its
// pause.
type pacer struct {
	delay   time.Duration
	limiter *rate.Limiter

	mu       sync.Mutex
	lastDone time.Time
}

func newPacer(delay time.Duration) *pacer {
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}
	return &pacer{
		delay:   delay,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Wait blocks until a fetch may start.
func (p *pacer) Wait(ctx context.Context) error {
	if p.delay <= 0 {
		return nil
	}

	p.mu.Lock()
	ready := p.lastDone.Add(p.delay)
	p.mu.Unlock()

	if wait := time.Until(ready); wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	return p.limiter.Wait(ctx)
}

// Done records that a fetch finished, successful or not.
func (p *pacer) Done() {
	now := time.Now()
	p.mu.Lock()
	if now.After(p.lastDone) {
		p.lastDone = now
	}
	p.mu.Unlock()
}
