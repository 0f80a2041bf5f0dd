package models

import (
	"time"
)

// ResetToken is a registry entry for an issued password reset token.
// Only the SHA-256 of the token is kept; the plaintext goes to the user.
type ResetToken struct {
	TokenHash string    `json:"-"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"` // zero means the token never expires
}

// NewResetToken creates an entry that expires ttl after now; ttl <= 0 never expires.
func NewResetToken(tokenHash string, userID int64, now time.Time, ttl time.Duration) *ResetToken {
	token := &ResetToken{
		TokenHash: tokenHash,
		UserID:    userID,
		CreatedAt: now,
	}
	if ttl > 0 {
		token.ExpiresAt = now.Add(ttl)
	}
	return token
}

// IsExpired reports whether the token is past its expiry at now.
func (t *ResetToken) IsExpired(now time.Time) bool {
	return !t.ExpiresAt.IsZero() && !now.Before(t.ExpiresAt)
}

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Email    string `json:"email" form:"email" validate:"notblank,max=255"`
	Password string `json:"password" form:"password" validate:"notblank"`
}

// ForgotPasswordRequest is the body of POST /forgot-password.
type ForgotPasswordRequest struct {
	Email string `json:"email" form:"email" validate:"notblank,max=255"`
}

// ResetPasswordRequest is the body of POST /reset-password.
// Password equality is checked by the reset flow, not the validator.
type ResetPasswordRequest struct {
	Token    string `json:"token" form:"token"`
	Password string `json:"password" form:"password"`
	Confirm  string `json:"confirm" form:"confirm"`
}
