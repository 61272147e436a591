package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter gates outbound calls to the upstream API. Wait blocks the caller
// until admission; it delays, never rejects. The only error it can return
// comes from context cancellation or deadline expiry while waiting.
type Limiter struct {
	bucket *rate.Limiter
}

// New builds a limiter admitting requestsPerSecond sustained calls with the
// given burst allowance. Non-positive inputs are clamped to the minimum
// useful values rather than rejected.
func New(requestsPerSecond float64, burst int) *Limiter {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 1
	}
	if burst < 1 {
		burst = 1
	}
	return &Limiter{bucket: rate.NewLimiter(rate.Limit(requestsPerSecond), burst)}
}

func (l *Limiter) Wait(ctx context.Context) error {
	return l.bucket.Wait(ctx)
}
