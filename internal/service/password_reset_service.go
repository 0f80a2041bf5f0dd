package service

import (
	"context"

	"github.com/yasinhessnawi1/inkwell-users/internal/config"
	"github.com/yasinhessnawi1/inkwell-users/internal/constants"
	"github.com/yasinhessnawi1/inkwell-users/internal/repository"
	"github.com/yasinhessnawi1/inkwell-users/internal/utils"
)

// PasswordResetService issues reset links and redeems them.
type PasswordResetService struct {
	credentials Credentials
	tokens      repository.ResetTokenRepository
	notifier    Notifier
	mail        config.MailSettings
	conceal     bool
}

// NewPasswordResetService creates a new PasswordResetService
func NewPasswordResetService(
	credentials Credentials,
	tokens repository.ResetTokenRepository,
	notifier Notifier,
	mailSettings config.MailSettings,
	resetSettings config.ResetSettings,
) *PasswordResetService {
	return &PasswordResetService{
		credentials: credentials,
		tokens:      tokens,
		notifier:    notifier,
		mail:        mailSettings,
		conceal:     resetSettings.ConcealAccounts,
	}
}

// ResetLink returns the URL a user follows to redeem token.
func (s *PasswordResetService) ResetLink(token string) string {
	return s.mail.BaseURL() + constants.ResetPasswordPath + "/" + token
}

// RequestReset issues a token for the account with the given email and
// sends the reset link. An unknown email yields ErrAccountNotFound unless
// accounts are concealed, in which case it succeeds without sending.
func (s *PasswordResetService) RequestReset(ctx context.Context, email string) error {
	user, err := s.credentials.FindByEmail(ctx, email)
	if err != nil {
		if utils.IsNotFoundError(err) {
			utils.LogAuth(constants.LogEventPasswordReset, "", utils.MaskEmail(email), false, "unknown email")
			if s.conceal {
				return nil
			}
			return utils.NewAccountNotFoundError()
		}
		return utils.NewUpstreamError("find user by email", err)
	}

	token, err := s.tokens.Issue(ctx, user.ID)
	if err != nil {
		return utils.NewUpstreamError("issue reset token", err)
	}

	if err := s.notifier.SendPasswordReset(ctx, user.Email, s.ResetLink(token)); err != nil {
		return utils.NewUpstreamError("send reset email", err)
	}

	utils.LogAuth(constants.LogEventPasswordReset, utils.FormatInt64(user.ID), utils.MaskEmail(user.Email), true, "token issued")
	return nil
}

// ResetPassword sets a new password for the holder of token. The password is
// validated before the token is touched, and the token is consumed before the
// password is written, so it can be redeemed only once.
func (s *PasswordResetService) ResetPassword(ctx context.Context, token, password, confirm string) error {
	if password == "" || confirm == "" || password != confirm {
		return utils.NewValidationMismatchError()
	}
	if err := utils.ValidatePassword(password); err != nil {
		return err
	}

	userID, ok, err := s.tokens.Consume(ctx, token)
	if err != nil {
		return utils.NewUpstreamError("consume reset token", err)
	}
	if !ok {
		utils.LogAuth(constants.LogEventPasswordReset, "", "", false, "invalid token")
		return utils.NewInvalidTokenError()
	}

	user, err := s.credentials.FindByID(ctx, userID)
	if err != nil {
		if utils.IsNotFoundError(err) {
			return utils.NewInvalidTokenError()
		}
		return utils.NewUpstreamError("find user by id", err)
	}

	user.SetPassword(password)
	if err := s.credentials.Save(ctx, user); err != nil {
		return utils.NewUpstreamError("save password", err)
	}

	utils.LogAuth(constants.LogEventPasswordReset, utils.FormatInt64(user.ID), utils.MaskEmail(user.Email), true, "password changed")
	return nil
}
