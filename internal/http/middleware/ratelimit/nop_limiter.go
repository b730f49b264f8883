package ratelimit

import "context"

// NopLimiter is a no-op limiter
type NopLimiter struct{}

// Allow always allows
func (NopLimiter) Allow(context.Context, string) (Decision, error) {
	return Decision{Allowed: true}, nil
}

// NewNopLimiter returns NopLimiter
func NewNopLimiter() Limiter { return NopLimiter{} }
