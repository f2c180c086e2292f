// Package ratelimit bounds assistant requests per caller with a sliding
// window of request timestamps.
package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/chatty-orange/server/internal/assistant/model"
	logx "github.com/chatty-orange/server/pkg/logger"
)

const (
	keyPrefix = "ai_requests_"
	// AnonymousIdentity is the shared bucket for callers with neither a user
	// id nor an address.
	AnonymousIdentity = "anonymous"
)

// Identity derives the limiter identity of a caller.
func Identity(c model.CallerInfo) string {
	if c.IsAuthenticated && c.UserID != nil {
		return fmt.Sprintf("user_%d", *c.UserID)
	}
	if ip := strings.TrimSpace(c.IP); ip != "" {
		return "ip_" + ip
	}
	return AnonymousIdentity
}

// Key is the storage key for identity.
func Key(identity string) string {
	return keyPrefix + identity
}

// Decision is the outcome of one CheckAndRecord call.
type Decision struct {
	Allowed bool
	Count   int
	// RetryAfter is how long until the oldest request leaves the window.
	// Zero when allowed.
	RetryAfter time.Duration
}

// Limiter is safe for concurrent use.
type Limiter struct {
	store    model.RateStore
	fallback model.AtomicRateStore
	now      func() time.Time

	// mu serialises read-modify-write for stores without atomic support.
	mu sync.Mutex
}

type Option func(*Limiter)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) { l.now = now }
}

// WithFallback sets the store used while the primary store is failing.
func WithFallback(store model.AtomicRateStore) Option {
	return func(l *Limiter) { l.fallback = store }
}

func New(store model.RateStore, opts ...Option) *Limiter {
	l := &Limiter{store: store, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	if l.fallback == nil {
		l.fallback = NewMemoryStore(WithStoreClock(l.now))
	}
	return l
}

// CheckAndRecord prunes the window of identity and records the request when
// fewer than max requests remain in it. A rejected request is not recorded.
func (l *Limiter) CheckAndRecord(ctx context.Context, identity string, max int, window time.Duration) (Decision, error) {
	if identity == "" {
		identity = AnonymousIdentity
	}
	key := Key(identity)
	now := l.now()

	d, err := l.check(ctx, l.store, key, now, max, window)
	if err == nil {
		return d, nil
	}

	logx.Warn().Err(err).Str("key", key).Msg("rate limit store failed; using in-process window")
	return l.check(ctx, l.fallback, key, now, max, window)
}

func (l *Limiter) check(ctx context.Context, store model.RateStore, key string, now time.Time, max int, window time.Duration) (Decision, error) {
	if atomic, ok := store.(model.AtomicRateStore); ok {
		allowed, count, err := atomic.CheckAndRecord(ctx, key, now, max, window)
		if err != nil {
			return Decision{}, err
		}
		d := Decision{Allowed: allowed, Count: count}
		if !allowed {
			d.RetryAfter = l.retryAfter(ctx, store, key, now, window)
		}
		return d, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	stamps, err := store.Get(ctx, key)
	if err != nil {
		return Decision{}, err
	}
	pruned := Prune(stamps, now, window)

	if len(pruned) >= max {
		return Decision{Allowed: false, Count: len(pruned), RetryAfter: until(pruned, now, window)}, nil
	}

	pruned = append(pruned, now)
	if err := store.Set(ctx, key, pruned, window); err != nil {
		return Decision{}, err
	}
	return Decision{Allowed: true, Count: len(pruned)}, nil
}

func (l *Limiter) retryAfter(ctx context.Context, store model.RateStore, key string, now time.Time, window time.Duration) time.Duration {
	stamps, err := store.Get(ctx, key)
	if err != nil {
		return window
	}
	return until(Prune(stamps, now, window), now, window)
}

// Prune keeps timestamps strictly inside (now-window, now].
func Prune(stamps []time.Time, now time.Time, window time.Duration) []time.Time {
	start := now.Add(-window)
	pruned := make([]time.Time, 0, len(stamps))
	for _, ts := range stamps {
		if ts.After(start) && !ts.After(now) {
			pruned = append(pruned, ts)
		}
	}
	return pruned
}

func until(pruned []time.Time, now time.Time, window time.Duration) time.Duration {
	if len(pruned) == 0 {
		return 0
	}
	wait := pruned[0].Add(window).Sub(now)
	if wait < 0 {
		return 0
	}
	return wait
}
