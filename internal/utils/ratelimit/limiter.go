// Package ratelimit provides per-client throttling for credential endpoints.
// It implements the token bucket algorithm with configurable rates and capacities.
package ratelimit

import (
	"math"
	"sync"
	"time"
)

// Limiter represents a rate limiter for a specific client identity.
// Tokens are added at a fixed rate and each request consumes one.
type Limiter struct {
	// tokens is the current number of tokens in the bucket
	tokens float64

	// lastTime is the last time tokens were added to the bucket
	lastTime time.Time

	// rate is the token refill rate (tokens per second)
	rate float64

	// capacity is the maximum number of tokens the bucket can hold
	capacity float64

	now func() time.Time
	mu  sync.Mutex
}

// Rate controls how many requests per second are allowed
type Rate struct {
	// RequestsPerSecond defines how many tokens are added per second
	RequestsPerSecond float64

	// Burst defines the maximum size of the token bucket
	Burst int
}

// NewLimiter creates a new rate limiter with the specified rate and burst capacity.
func NewLimiter(rate float64, burst int) *Limiter {
	return newLimiterAt(rate, burst, time.Now)
}

func newLimiterAt(rate float64, burst int, now func() time.Time) *Limiter {
	return &Limiter{
		tokens:   float64(burst),
		lastTime: now(),
		rate:     rate,
		capacity: float64(burst),
		now:      now,
	}
}

// refill must be called with mu held.
func (l *Limiter) refill() time.Time {
	now := l.now()
	elapsed := now.Sub(l.lastTime).Seconds()
	l.lastTime = now

	l.tokens += elapsed * l.rate
	if l.tokens > l.capacity {
		l.tokens = l.capacity
	}
	return now
}

// Allow reports whether a request may proceed, consuming a token if so.
func (l *Limiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.refill()

	if l.tokens < 1 {
		return false
	}

	l.tokens--
	return true
}

// RetryAfter returns how long until the next token is available.
// Zero means a request would be allowed now.
func (l *Limiter) RetryAfter() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.refill()

	if l.tokens >= 1 {
		return 0
	}
	if l.rate <= 0 {
		return time.Duration(math.MaxInt64)
	}
	missing := 1 - l.tokens
	return time.Duration(missing / l.rate * float64(time.Second))
}

// Idle reports whether the bucket has been untouched for at least d.
func (l *Limiter) Idle(d time.Duration) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.now().Sub(l.lastTime) >= d
}

