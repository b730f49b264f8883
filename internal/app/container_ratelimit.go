package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/dig"

	"service-courier/internal/config"
	"service-courier/internal/http/middleware/ratelimit"
	"service-courier/internal/logx"
)

func newRateLimiter(cfg *config.Config, clock ratelimit.Clock, client *redis.Client) ratelimit.Limiter {
	rl := cfg.RateLimit
	if !rl.Enabled {
		return ratelimit.NopLimiter{}
	}
	lcfg := ratelimit.Config{
		Limit:      rl.Requests,
		Window:     rl.Window,
		TTL:        rl.TTL,
		MaxClients: rl.MaxClients,
	}
	if rl.Backend == config.RateLimitBackendRedis && client != nil {
		return ratelimit.NewRedisLimiter(client, clock, lcfg)
	}
	return ratelimit.NewSlidingWindowLimiter(clock, lcfg)
}

func newRateLimitClock() ratelimit.Clock {
	return ratelimit.RealClock{}
}

type rateLimitIn struct {
	dig.In
	Logger  logx.Logger
	Counter prometheus.Counter `name:"rate_limit_exceeded_total"`
	Limiter ratelimit.Limiter
}

func newRateLimitMiddleware(in rateLimitIn) *ratelimit.Middleware {
	return ratelimit.New(in.Logger, in.Counter, in.Limiter)
}
