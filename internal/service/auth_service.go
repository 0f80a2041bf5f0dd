package service

import (
	"context"
	"errors"
	"strings"

	"github.com/yasinhessnawi1/inkwell-users/internal/constants"
	"github.com/yasinhessnawi1/inkwell-users/internal/models"
	"github.com/yasinhessnawi1/inkwell-users/internal/utils"
)

// AuthService checks login credentials
type AuthService struct {
	credentials Credentials
}

// NewAuthService creates a new AuthService
func NewAuthService(credentials Credentials) *AuthService {
	return &AuthService{
		credentials: credentials,
	}
}

// Authenticate verifies an email and password pair.
//
// Parameters:
//   - ctx: Request context
//   - email: Login email, surrounding whitespace ignored
//   - password: Candidate password, surrounding whitespace ignored
//
// Returns:
//   - The authenticated user
//   - An *AppError wrapping ErrIncorrectEmail, ErrIncorrectPassword,
//     ErrNoPasswordSet or ErrUpstream on failure
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.TrimSpace(email)
	password = strings.TrimSpace(password)

	user, err := s.credentials.FindByEmail(ctx, email)
	if err != nil {
		if utils.IsNotFoundError(err) {
			utils.LogAuth(constants.LogEventLogin, "", utils.MaskEmail(email), false, "unknown email")
			return nil, utils.NewIncorrectEmailError()
		}
		utils.LogAuth(constants.LogEventLogin, "", utils.MaskEmail(email), false, "credential lookup failed")
		return nil, utils.NewUpstreamError("find user by email", err)
	}

	userID := utils.FormatInt64(user.ID)

	match, err := s.credentials.VerifyPassword(user, password)
	if err != nil {
		if errors.Is(err, utils.ErrNoPasswordSet) {
			utils.LogAuth(constants.LogEventLogin, userID, utils.MaskEmail(email), false, "no password set")
			return nil, utils.NewNoPasswordSetError()
		}
		utils.LogAuth(constants.LogEventLogin, userID, utils.MaskEmail(email), false, "password check failed")
		return nil, utils.NewUpstreamError("verify password", err)
	}
	if !match {
		utils.LogAuth(constants.LogEventLogin, userID, utils.MaskEmail(email), false, "incorrect password")
		return nil, utils.NewIncorrectPasswordError()
	}

	utils.LogAuth(constants.LogEventLogin, userID, utils.MaskEmail(email), true, "")
	return user, nil
}
