package repository

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/yasinhessnawi1/inkwell-users/internal/constants"
	"github.com/yasinhessnawi1/inkwell-users/internal/models"
)

// ResetTokenRepository issues and redeems one-time password reset tokens.
type ResetTokenRepository interface {
	// Issue creates a token for userID and returns the plaintext to send to the user.
	Issue(ctx context.Context, userID int64) (string, error)

	// Consume redeems a token. ok is false when the token is unknown or expired.
	// A token can be consumed at most once.
	Consume(ctx context.Context, token string) (userID int64, ok bool, err error)

	// PurgeExpired deletes expired tokens and returns how many were removed.
	PurgeExpired(ctx context.Context) (int, error)
}

// GenerateToken generates a secure random token and its SHA256 hash.
// It returns the plain token (to be sent to the user) and its hash (to be stored).
func GenerateToken() (string, string, error) {
	tokenBytes := make([]byte, constants.ResetTokenBytes)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", "", fmt.Errorf("failed to generate token bytes: %w", err)
	}
	token := hex.EncodeToString(tokenBytes)
	return token, HashToken(token), nil
}

// HashToken returns the hex SHA256 of a plaintext token.
func HashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

// MemoryResetTokenRepository keeps reset tokens in process memory.
// Tokens do not survive a restart.
type MemoryResetTokenRepository struct {
	tokens map[string]*models.ResetToken
	ttl    time.Duration
	now    func() time.Time
	mu     sync.Mutex
}

// NewMemoryResetTokenRepository creates a registry whose tokens expire after
// ttl. A ttl of zero or less keeps tokens until they are consumed.
func NewMemoryResetTokenRepository(ttl time.Duration) *MemoryResetTokenRepository {
	return &MemoryResetTokenRepository{
		tokens: make(map[string]*models.ResetToken),
		ttl:    ttl,
		now:    time.Now,
	}
}

// TTL returns the configured token lifetime.
func (r *MemoryResetTokenRepository) TTL() time.Duration {
	return r.ttl
}

// Issue creates and stores a new token for userID.
func (r *MemoryResetTokenRepository) Issue(_ context.Context, userID int64) (string, error) {
	token, tokenHash, err := GenerateToken()
	if err != nil {
		return "", err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.tokens[tokenHash] = models.NewResetToken(tokenHash, userID, r.now(), r.ttl)
	return token, nil
}

// Consume looks up and deletes a token in one critical section.
func (r *MemoryResetTokenRepository) Consume(_ context.Context, token string) (int64, bool, error) {
	if token == "" {
		return 0, false, nil
	}
	tokenHash := HashToken(token)

	r.mu.Lock()
	defer r.mu.Unlock()

	entry, found := r.tokens[tokenHash]
	if !found {
		return 0, false, nil
	}
	delete(r.tokens, tokenHash)

	if entry.IsExpired(r.now()) {
		return 0, false, nil
	}
	return entry.UserID, true, nil
}

// PurgeExpired removes expired tokens.
func (r *MemoryResetTokenRepository) PurgeExpired(_ context.Context) (int, error) {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for tokenHash, entry := range r.tokens {
		if entry.IsExpired(now) {
			delete(r.tokens, tokenHash)
			removed++
		}
	}
	return removed, nil
}

// Len returns the number of stored tokens.
func (r *MemoryResetTokenRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tokens)
}
