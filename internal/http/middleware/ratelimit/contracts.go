package ratelimit

import (
	"context"
	"time"
)

// Decision is the outcome of a single Allow call.
// RetryAfter is set when the request is denied.
type Decision struct {
	Allowed    bool
	RetryAfter time.Duration
}

// Limiter is a rate limiter
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}
