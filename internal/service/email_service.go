package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/yasinhessnawi1/inkwell-users/internal/config"
	"github.com/yasinhessnawi1/inkwell-users/internal/constants"
	"github.com/yasinhessnawi1/inkwell-users/internal/utils"
)

// Notifier delivers password reset links to users.
type Notifier interface {
	SendPasswordReset(ctx context.Context, email, link string) error
}

// MailSender is the part of the SendGrid client used to deliver mail.
type MailSender interface {
	Send(email *mail.SGMailV3) (*rest.Response, error)
}

// NewNotifier returns a SendGrid notifier when an API key is configured,
// otherwise a notifier that only logs the reset link.
func NewNotifier(settings config.MailSettings) Notifier {
	if settings.APIKey == "" {
		log.Warn().Msg("SENDGRID_API_KEY not set, reset links will be logged instead of emailed")
		return NewLogNotifier()
	}
	return NewSendGridNotifier(sendgrid.NewSendClient(settings.APIKey), settings)
}

// SendGridNotifier sends reset emails through SendGrid.
type SendGridNotifier struct {
	client MailSender
	from   *mail.Email
}

// NewSendGridNotifier creates a notifier sending through client.
func NewSendGridNotifier(client MailSender, settings config.MailSettings) *SendGridNotifier {
	fromAddress := settings.FromAddress
	if fromAddress == "" {
		fromAddress = constants.DefaultMailFromAddress
	}
	fromName := settings.FromName
	if fromName == "" {
		fromName = constants.DefaultMailFromName
	}
	return &SendGridNotifier{
		client: client,
		from:   mail.NewEmail(fromName, fromAddress),
	}
}

// SendPasswordReset emails the reset link to the given address.
func (n *SendGridNotifier) SendPasswordReset(_ context.Context, email, link string) error {
	to := mail.NewEmail("", email)
	plainTextContent := fmt.Sprintf(
		"Follow this link to reset your password. If you did not request a password reset, please ignore this email.\n\n%s",
		link,
	)
	htmlContent := fmt.Sprintf(
		`Follow this link to reset your password. If you did not request a password reset, please ignore this email.<br><br><a href="%s">%s</a>`,
		link, link,
	)
	message := mail.NewSingleEmail(n.from, constants.PasswordResetSubject, to, plainTextContent, htmlContent)

	response, err := n.client.Send(message)
	if err != nil {
		log.Error().Err(err).Str("email", utils.MaskEmail(email)).Msg("Failed to send password reset email")
		return fmt.Errorf("failed to send password reset email: %w", err)
	}
	if response.StatusCode >= 300 {
		log.Error().Int("status_code", response.StatusCode).Str("body", response.Body).Msg("Mail provider rejected password reset email")
		return fmt.Errorf("mail provider returned status %d", response.StatusCode)
	}

	log.Info().Int("status_code", response.StatusCode).Str("email", utils.MaskEmail(email)).Msg("Password reset email sent")
	return nil
}

// LogNotifier writes reset links to the log. Used in development.
type LogNotifier struct{}

// NewLogNotifier creates a LogNotifier
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

// SendPasswordReset logs the reset link.
func (n *LogNotifier) SendPasswordReset(_ context.Context, email, link string) error {
	log.Info().
		Str("email", utils.MaskEmail(email)).
		Str("link", link).
		Msg("Password reset requested")
	return nil
}
