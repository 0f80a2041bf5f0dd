// Package auth provides password hashing, login sessions and access guards.
package auth

import (
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/yasinhessnawi1/inkwell-users/internal/constants"
	"github.com/yasinhessnawi1/inkwell-users/internal/models"
)

// ContextKey is a custom type for context keys to prevent collisions.
type ContextKey string

// Context keys for the restored session and subject.
const (
	// SubjectContextKey holds the authenticated *models.User.
	SubjectContextKey ContextKey = constants.SubjectContextKey

	sessionContextKey ContextKey = constants.SessionContextKey
)

// GetSubject returns the authenticated user attached to the request.
func GetSubject(r *http.Request) (*models.User, bool) {
	user, ok := r.Context().Value(SubjectContextKey).(*models.User)
	return user, ok && user != nil
}

// GetUserID returns the authenticated user's ID.
func GetUserID(r *http.Request) (int64, bool) {
	user, ok := GetSubject(r)
	if !ok {
		return 0, false
	}
	return user.ID, true
}

// CurrentUserEmail returns the authenticated user's email, or "" when anonymous.
func CurrentUserEmail(r *http.Request) string {
	if user, ok := GetSubject(r); ok {
		return user.Email
	}
	return ""
}

// IsAuthenticated reports whether a subject is attached to the request.
func IsAuthenticated(r *http.Request) bool {
	_, ok := GetSubject(r)
	return ok
}

// GetRequestID returns the request ID assigned by chi's RequestID middleware.
func GetRequestID(r *http.Request) string {
	return chimiddleware.GetReqID(r.Context())
}
