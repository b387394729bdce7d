package timesync

import (
	"time"

	"golang.org/x/time/rate"
)

// ManualLimiter bounds how often manual resyncs may start. It limits
// frequency only; a permitted manual attempt still runs even while an
// automatic one is in flight.
type ManualLimiter struct {
	limiter *rate.Limiter
}

// NewManualLimiter allows one manual resync per minGap. A non-positive gap
// disables limiting.
func NewManualLimiter(minGap time.Duration) *ManualLimiter {
	if minGap <= 0 {
		return nil
	}
	return &ManualLimiter{limiter: rate.NewLimiter(rate.Every(minGap), 1)}
}

// Allow reports whether a manual resync may start now. A nil limiter always
// allows.
func (l *ManualLimiter) Allow() bool {
	if l == nil {
		return true
	}
	return l.limiter.Allow()
}
