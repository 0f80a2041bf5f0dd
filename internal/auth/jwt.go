package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Session cookie errors
var (
	ErrInvalidSessionToken  = errors.New("invalid session token")
	ErrExpiredSessionToken  = errors.New("session token has expired")
	ErrInvalidSigningMethod = errors.New("invalid signing method")
)

// SessionClaims are the claims carried by the session cookie.
// The JWT ID is the server-side session ID; nothing else about the
// session leaves the server.
type SessionClaims struct {
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies session cookie values as HS256 JWTs.
type TokenCodec struct {
	secret []byte
	issuer string
}

// NewTokenCodec creates a codec using the given HMAC secret and issuer.
func NewTokenCodec(secret, issuer string) *TokenCodec {
	return &TokenCodec{
		secret: []byte(secret),
		issuer: issuer,
	}
}

// Encode signs a cookie value for sessionID that expires at expiresAt.
func (c *TokenCodec) Encode(sessionID string, issuedAt, expiresAt time.Time) (string, error) {
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        sessionID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Decode verifies a cookie value and returns the session ID it carries.
func (c *TokenCodec) Decode(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSigningMethod
		}
		return c.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpiredSessionToken
		}
		return "", fmt.Errorf("%w: %v", ErrInvalidSessionToken, err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return "", ErrInvalidSessionToken
	}
	if !claims.VerifyIssuer(c.issuer, true) {
		return "", fmt.Errorf("%w: unexpected issuer %q", ErrInvalidSessionToken, claims.Issuer)
	}
	if claims.ID == "" {
		return "", fmt.Errorf("%w: missing session id", ErrInvalidSessionToken)
	}

	return claims.ID, nil
}
