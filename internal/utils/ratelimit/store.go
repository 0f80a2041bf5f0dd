package ratelimit

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/inkwell-users/internal/constants"
)

// Store manages rate limiters for multiple clients.
// Limiters are keyed by category and client, so a client throttled on one
// category is unaffected on another.
type Store struct {
	// limiters maps category/client keys to their rate limiters
	limiters map[string]*Limiter

	// rates defines different rate limits for different categories
	rates map[string]Rate

	// maxLimiters caps the map before it is reset wholesale
	maxLimiters int

	now func() time.Time
	mu  sync.RWMutex
}

// NewStore creates a new store whose "default" category uses defaultRate.
func NewStore(defaultRate Rate) *Store {
	return &Store{
		limiters:    make(map[string]*Limiter),
		rates:       map[string]Rate{constants.RateCategoryDefault: defaultRate},
		maxLimiters: constants.MaxTrackedLimiters,
		now:         time.Now,
	}
}

// GetLimiter returns the limiter for a client in a category, creating it on first use.
//
// Parameters:
//   - clientID: The unique identifier for the client (e.g., IP address)
//   - category: The rate category (e.g., "auth"); unknown categories use "default"
//
// Returns:
//   - A rate limiter for the client
func (s *Store) GetLimiter(clientID string, category string) *Limiter {
	key := category + "|" + clientID

	s.mu.RLock()
	limiter, exists := s.limiters[key]
	s.mu.RUnlock()
	if exists {
		return limiter
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Another request may have created it while we waited for the write lock
	if limiter, exists = s.limiters[key]; exists {
		return limiter
	}

	rate, exists := s.rates[category]
	if !exists {
		rate = s.rates[constants.RateCategoryDefault]
	}

	if len(s.limiters) >= s.maxLimiters {
		log.Warn().Int("limiters", len(s.limiters)).Msg("Rate limiter store growing too large, resetting")
		s.limiters = make(map[string]*Limiter)
	}

	limiter = newLimiterAt(rate.RequestsPerSecond, rate.Burst, s.now)
	s.limiters[key] = limiter
	return limiter
}

// Cleanup removes limiters idle for at least maxIdle and returns how many were removed.
// It runs from the server's maintenance ticker.
func (s *Store) Cleanup(maxIdle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, limiter := range s.limiters {
		if limiter.Idle(maxIdle) {
			delete(s.limiters, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked limiters.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.limiters)
}
