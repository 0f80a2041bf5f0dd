package handlers

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/yasinhessnawi1/inkwell-users/internal/constants"
	"github.com/yasinhessnawi1/inkwell-users/internal/models"
	"github.com/yasinhessnawi1/inkwell-users/internal/utils"
)

// PasswordResetHandler handles the forgotten password and reset pages.
type PasswordResetHandler struct {
	resetService PasswordResetServiceInterface
	sessions     SessionInterface
}

// NewPasswordResetHandler creates a new PasswordResetHandler
func NewPasswordResetHandler(resetService PasswordResetServiceInterface, sessions SessionInterface) *PasswordResetHandler {
	return &PasswordResetHandler{
		resetService: resetService,
		sessions:     sessions,
	}
}

// ForgotPasswordPage shows the form requesting a reset link.
func (h *PasswordResetHandler) ForgotPasswordPage(w http.ResponseWriter, r *http.Request) {
	render(w, &ViewModel{
		View:     constants.ViewForgotPassword,
		Title:    constants.TitleForgotPassword,
		Messages: flashes(h.sessions, r, constants.FlashMessage),
		Errors:   flashes(h.sessions, r, constants.FlashError),
	})
}

// ForgotPassword sends a reset link to the posted email address.
func (h *PasswordResetHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ForgotPasswordRequest
	if err := utils.DecodeRequest(r, &req); err != nil {
		redirectWithFlash(w, r, h.sessions, constants.FlashError, constants.MsgNoAccountFound, constants.ForgotPasswordPath)
		return
	}

	if err := h.resetService.RequestReset(r.Context(), req.Email); err != nil {
		appErr := utils.ParseError(err)
		if errors.Is(appErr, utils.ErrAccountNotFound) {
			redirectWithFlash(w, r, h.sessions, constants.FlashError, appErr.Message, constants.ForgotPasswordPath)
			return
		}
		utils.LogError(err, map[string]interface{}{"operation": "forgot_password"})
		utils.ErrorFromAppError(w, appErr)
		return
	}

	redirectWithFlash(w, r, h.sessions, constants.FlashMessage, constants.MsgCheckEmail, constants.ForgotPasswordPath)
}

// ResetPasswordPage shows the new password form. The token, when present
// in the path, is echoed back for the form to submit.
func (h *PasswordResetHandler) ResetPasswordPage(w http.ResponseWriter, r *http.Request) {
	render(w, &ViewModel{
		View:     constants.ViewResetPassword,
		Title:    constants.TitleResetPassword,
		Token:    chi.URLParam(r, constants.ParamToken),
		Errors:   flashes(h.sessions, r, constants.FlashError),
		Messages: flashes(h.sessions, r, constants.FlashMessage),
	})
}

// ResetPassword redeems the posted token and sets the new password.
func (h *PasswordResetHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ResetPasswordRequest
	if err := utils.DecodeRequest(r, &req); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	err := h.resetService.ResetPassword(r.Context(), req.Token, req.Password, req.Confirm)
	if err != nil {
		appErr := utils.ParseError(err)
		switch {
		case errors.Is(appErr, utils.ErrValidationMismatch), errors.Is(appErr, utils.ErrValidation):
			target := constants.ResetPasswordPath + "/" + url.PathEscape(req.Token)
			redirectWithFlash(w, r, h.sessions, constants.FlashError, appErr.Message, target)
		case errors.Is(appErr, utils.ErrInvalidToken):
			redirectWithFlash(w, r, h.sessions, constants.FlashError, appErr.Message, constants.ResetPasswordPath)
		default:
			utils.LogError(err, map[string]interface{}{"operation": "reset_password"})
			utils.ErrorFromAppError(w, appErr)
		}
		return
	}

	redirectWithFlash(w, r, h.sessions, constants.FlashMessage, constants.MsgPasswordChanged, constants.ResetPasswordPath)
}
