package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Config stores limiter settings.
type Config struct {
	Limit      int           // requests allowed per window
	Window     time.Duration // sliding window length
	TTL        time.Duration // delete idle clients (0 disables), memory backend only
	MaxClients int           // maximum number of tracked clients (0 = unlimited), memory backend only
}

func (c Config) normalized() Config {
	if c.Limit <= 0 {
		c.Limit = 1
	}
	if c.Window <= 0 {
		c.Window = time.Minute
	}
	if c.MaxClients < 0 {
		c.MaxClients = 0
	}
	return c
}

// SlidingWindowLimiter is an in-process per-key sliding window log.
type SlidingWindowLimiter struct {
	cfg         Config
	clock       Clock
	mu          sync.RWMutex
	windows     map[string]*window
	lastCleanup time.Time
}

type window struct {
	mu       sync.Mutex
	hits     []time.Time // ascending
	lastSeen time.Time
}

// NewSlidingWindowLimiter creates limiter with explicit config and injected clock.
func NewSlidingWindowLimiter(clock Clock, cfg Config) *SlidingWindowLimiter {
	if clock == nil {
		clock = RealClock{}
	}
	return &SlidingWindowLimiter{
		cfg:     cfg.normalized(),
		clock:   clock,
		windows: make(map[string]*window),
	}
}

// Allow records a hit for key if it still fits into the window.
func (l *SlidingWindowLimiter) Allow(_ context.Context, key string) (Decision, error) {
	now := l.clock.Now()
	l.maybeCleanup(now)

	w := l.getOrCreateWindow(key, now)
	if w == nil {
		// таблица клиентов переполнена
		return Decision{RetryAfter: l.cfg.Window}, nil
	}
	return w.allow(now, l.cfg.Limit, l.cfg.Window), nil
}

func (l *SlidingWindowLimiter) getOrCreateWindow(key string, now time.Time) *window {
	l.mu.RLock()
	w := l.windows[key]
	l.mu.RUnlock()
	if w != nil {
		return w
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if w = l.windows[key]; w != nil {
		return w
	}

	if l.cfg.MaxClients > 0 && len(l.windows) >= l.cfg.MaxClients {
		return nil
	}

	w = &window{lastSeen: now}
	l.windows[key] = w
	return w
}

func (w *window) allow(now time.Time, limit int, length time.Duration) Decision {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.lastSeen = now
	w.evict(now.Add(-length))

	if len(w.hits) < limit {
		w.hits = append(w.hits, now)
		return Decision{Allowed: true}
	}
	return Decision{RetryAfter: w.hits[0].Add(length).Sub(now)}
}

// evict drops hits at or before the cutoff.
func (w *window) evict(cutoff time.Time) {
	i := 0
	for i < len(w.hits) && !w.hits[i].After(cutoff) {
		i++
	}
	if i > 0 {
		w.hits = append(w.hits[:0], w.hits[i:]...)
	}
}

func (l *SlidingWindowLimiter) maybeCleanup(now time.Time) {
	if l.cfg.TTL <= 0 {
		return
	}

	interval := time.Minute
	if half := l.cfg.TTL / 2; half > interval {
		interval = half
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.lastCleanup.IsZero() && now.Sub(l.lastCleanup) < interval {
		return
	}
	l.lastCleanup = now

	ttl := l.cfg.TTL
	for k, w := range l.windows {
		w.mu.Lock()
		seen := w.lastSeen
		w.mu.Unlock()

		if now.Sub(seen) > ttl {
			delete(l.windows, k)
		}
	}
}
