// Package handlers provides HTTP request handlers for the login, logout,
// password reset and account pages.
//
// Handlers answer with a JSON view model naming the page to render, or with
// a redirect after queuing a flash message in the session.
package handlers

import (
	"context"
	"net/http"

	"github.com/yasinhessnawi1/inkwell-users/internal/models"
)

// AuthServiceInterface defines the methods required from the authentication service.
type AuthServiceInterface interface {
	// Authenticate verifies an email and password pair.
	//
	// Returns:
	//   - The authenticated user
	//   - An *AppError describing why the credentials were rejected
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
}

// PasswordResetServiceInterface defines the methods required from the password reset service.
type PasswordResetServiceInterface interface {
	// RequestReset issues a reset token for the account with the given email
	// and delivers the reset link.
	RequestReset(ctx context.Context, email string) error

	// ResetPassword redeems token and sets password, which must equal confirm.
	ResetPassword(ctx context.Context, token, password, confirm string) error
}

// SessionInterface defines the session operations handlers use.
// It is implemented by *auth.SessionManager.
type SessionInterface interface {
	Login(w http.ResponseWriter, r *http.Request, user *models.User) error
	Logout(w http.ResponseWriter, r *http.Request) error
	TakeRedirect(r *http.Request) (string, error)
	AddFlash(r *http.Request, kind, message string) error
	Flashes(r *http.Request, kind string) ([]string, error)
}
