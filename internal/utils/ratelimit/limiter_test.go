package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestNewLimiter(t *testing.T) {
	limiter := NewLimiter(10, 5)

	require.NotNil(t, limiter)
	assert.Equal(t, float64(10), limiter.rate)
	assert.Equal(t, float64(5), limiter.capacity)
	assert.Equal(t, float64(5), limiter.tokens)
	assert.NotZero(t, limiter.lastTime)
}

func TestLimiter_Allow(t *testing.T) {
	t.Run("burst then block", func(t *testing.T) {
		clock := newFakeClock()
		limiter := newLimiterAt(1, 3, clock.Now)

		for i := 0; i < 3; i++ {
			assert.True(t, limiter.Allow(), "request %d should be allowed", i+1)
		}
		assert.False(t, limiter.Allow())
	})

	t.Run("refills over time", func(t *testing.T) {
		clock := newFakeClock()
		limiter := newLimiterAt(2, 1, clock.Now)

		assert.True(t, limiter.Allow())
		assert.False(t, limiter.Allow())

		clock.Advance(500 * time.Millisecond)
		assert.True(t, limiter.Allow())
	})

	t.Run("never exceeds capacity", func(t *testing.T) {
		clock := newFakeClock()
		limiter := newLimiterAt(100, 2, clock.Now)

		clock.Advance(time.Hour)
		assert.True(t, limiter.Allow())
		assert.True(t, limiter.Allow())
		assert.False(t, limiter.Allow())
	})

	t.Run("zero burst blocks everything", func(t *testing.T) {
		limiter := NewLimiter(10, 0)
		assert.False(t, limiter.Allow())
	})

	t.Run("concurrent callers share the bucket", func(t *testing.T) {
		clock := newFakeClock()
		limiter := newLimiterAt(0, 50, clock.Now)

		var wg sync.WaitGroup
		var mu sync.Mutex
		allowed := 0
		for i := 0; i < 200; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if limiter.Allow() {
					mu.Lock()
					allowed++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 50, allowed)
	})
}

func TestLimiter_RetryAfter(t *testing.T) {
	clock := newFakeClock()
	limiter := newLimiterAt(2, 1, clock.Now)

	assert.Zero(t, limiter.RetryAfter())

	require.True(t, limiter.Allow())
	assert.Equal(t, 500*time.Millisecond, limiter.RetryAfter())

	clock.Advance(250 * time.Millisecond)
	assert.Equal(t, 250*time.Millisecond, limiter.RetryAfter())
}

func TestLimiter_Idle(t *testing.T) {
	clock := newFakeClock()
	limiter := newLimiterAt(1, 1, clock.Now)

	assert.False(t, limiter.Idle(time.Minute))
	clock.Advance(2 * time.Minute)
	assert.True(t, limiter.Idle(time.Minute))
}

