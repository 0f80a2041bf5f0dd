package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yasinhessnawi1/inkwell-users/internal/constants"
	"github.com/yasinhessnawi1/inkwell-users/internal/utils"
)

func TestPasswordResetHandler_ForgotPasswordPage(t *testing.T) {
	app := newTestApp(nil, nil)

	rec := app.browser(t).get(constants.ForgotPasswordPath)

	assert.Equal(t, http.StatusOK, rec.Code)
	vm := decodeView(t, rec.Body)
	assert.Equal(t, "login/forgot-password", vm.View)
	assert.Equal(t, "Forgotten password?", vm.Title)
}

func TestPasswordResetHandler_ForgotPassword(t *testing.T) {
	tests := []struct {
		name        string
		resetErr    error
		wantStatus  int
		wantMessage []string
		wantError   []string
	}{
		{
			name:        "link sent",
			wantStatus:  http.StatusFound,
			wantMessage: []string{"Please check your email for a link to reset your password"},
		},
		{
			name:       "unknown account",
			resetErr:   utils.NewAccountNotFoundError(),
			wantStatus: http.StatusFound,
			wantError:  []string{"No account found with that email address"},
		},
		{
			name:       "mail failure",
			resetErr:   utils.NewUpstreamError("send reset email", errors.New("timeout")),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotEmail string
			svc := &MockPasswordResetService{
				RequestResetFunc: func(_ context.Context, email string) error {
					gotEmail = email
					return tt.resetErr
				},
			}
			b := newTestApp(nil, svc).browser(t)

			rec := b.postForm(constants.ForgotPasswordPath, url.Values{"email": {"user@example.com"}})

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "user@example.com", gotEmail)
			if tt.wantStatus != http.StatusFound {
				return
			}
			assert.Equal(t, constants.ForgotPasswordPath, rec.Header().Get(constants.HeaderLocation))

			vm := decodeView(t, b.get(constants.ForgotPasswordPath).Body)
			if tt.wantMessage != nil {
				assert.Equal(t, tt.wantMessage, vm.Messages)
			}
			if tt.wantError != nil {
				assert.Equal(t, tt.wantError, vm.Errors)
			}
		})
	}
}

func TestPasswordResetHandler_ResetPasswordPage(t *testing.T) {
	app := newTestApp(nil, nil)

	withToken := decodeView(t, app.browser(t).get("/reset-password/abc123").Body)
	assert.Equal(t, "reset-password", withToken.View)
	assert.Equal(t, "Reset your password", withToken.Title)
	assert.Equal(t, "abc123", withToken.Token)

	withoutToken := decodeView(t, app.browser(t).get(constants.ResetPasswordPath).Body)
	assert.Empty(t, withoutToken.Token)
}

func TestPasswordResetHandler_ResetPassword(t *testing.T) {
	tests := []struct {
		name         string
		resetErr     error
		wantStatus   int
		wantLocation string
		wantMessage  []string
		wantError    []string
	}{
		{
			name:         "success",
			wantStatus:   http.StatusFound,
			wantLocation: "/reset-password",
			wantMessage:  []string{constants.MsgPasswordChanged},
		},
		{
			name:         "mismatch",
			resetErr:     utils.NewValidationMismatchError(),
			wantStatus:   http.StatusFound,
			wantLocation: "/reset-password/tok123",
			wantError:    []string{"Both password fields need to be the same, please try again"},
		},
		{
			name:         "weak password",
			resetErr:     utils.NewValidationError("password", "Password must be at least 8 characters long"),
			wantStatus:   http.StatusFound,
			wantLocation: "/reset-password/tok123",
			wantError:    []string{"Password must be at least 8 characters long"},
		},
		{
			name:         "invalid token",
			resetErr:     utils.NewInvalidTokenError(),
			wantStatus:   http.StatusFound,
			wantLocation: "/reset-password",
			wantError:    []string{"Token not valid"},
		},
		{
			name:       "store failure",
			resetErr:   utils.NewUpstreamError("save password", errors.New("disk full")),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotToken, gotPassword, gotConfirm string
			svc := &MockPasswordResetService{
				ResetPasswordFunc: func(_ context.Context, token, password, confirm string) error {
					gotToken, gotPassword, gotConfirm = token, password, confirm
					return tt.resetErr
				},
			}
			b := newTestApp(nil, svc).browser(t)

			rec := b.postForm(constants.ResetPasswordPath, url.Values{
				"token": {"tok123"}, "password": {"new-pass"}, "confirm": {"new-pass"},
			})

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "tok123", gotToken)
			assert.Equal(t, "new-pass", gotPassword)
			assert.Equal(t, "new-pass", gotConfirm)
			if tt.wantStatus != http.StatusFound {
				assert.Equal(t, constants.CodeUpstreamFailure, decodeError(t, rec.Body))
				return
			}
			assert.Equal(t, tt.wantLocation, rec.Header().Get(constants.HeaderLocation))

			vm := decodeView(t, b.get(tt.wantLocation).Body)
			if tt.wantMessage != nil {
				assert.Equal(t, tt.wantMessage, vm.Messages)
			}
			if tt.wantError != nil {
				assert.Equal(t, tt.wantError, vm.Errors)
			}
		})
	}
}
