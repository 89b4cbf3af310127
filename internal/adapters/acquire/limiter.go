package acquire

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter spaces outbound search fetches. One Limiter is shared by every
// engine of the process so concurrent reports cannot bypass the spacing.
type Limiter struct {
	limiter *rate.Limiter
}

// NewLimiter allows one fetch per delay. A non-positive delay disables spacing.
func NewLimiter(delay time.Duration) *Limiter {
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}
	return &Limiter{limiter: rate.NewLimiter(limit, 1)}
}

// Wait blocks until the next fetch is allowed.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}
