package handlers

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/inkwell-users/internal/auth"
	"github.com/yasinhessnawi1/inkwell-users/internal/constants"
	"github.com/yasinhessnawi1/inkwell-users/internal/models"
	"github.com/yasinhessnawi1/inkwell-users/internal/utils"
)

// AuthHandler handles login and logout.
type AuthHandler struct {
	authService AuthServiceInterface
	sessions    SessionInterface
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService AuthServiceInterface, sessions SessionInterface) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		sessions:    sessions,
	}
}

// LoginPage shows the login form with any pending login errors.
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	render(w, &ViewModel{
		View:   constants.ViewLogin,
		Errors: flashes(h.sessions, r, constants.FlashError),
	})
}

// Login authenticates the posted credentials. On success the session is
// bound to the user and the browser is sent to the page that required the
// login, or home. On failure the reason is flashed and the form shown again.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := utils.DecodeRequest(r, &req); err != nil {
		redirectWithFlash(w, r, h.sessions, constants.FlashError, constants.MsgInvalidLogin, constants.LoginPath)
		return
	}

	user, err := h.authService.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		appErr := utils.ParseError(err)
		if errors.Is(appErr, utils.ErrUpstream) || utils.StatusCode(appErr) >= http.StatusInternalServerError {
			utils.LogError(err, map[string]interface{}{"operation": "login"})
			utils.ErrorFromAppError(w, appErr)
			return
		}
		redirectWithFlash(w, r, h.sessions, constants.FlashError, appErr.Message, constants.LoginPath)
		return
	}

	if err := h.sessions.Login(w, r, user); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	target, err := h.sessions.TakeRedirect(r)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to read post-login redirect")
	}

	http.Redirect(w, r, safeRedirect(target), http.StatusFound)
}

// Logout ends the session and returns to the login page.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, authenticated := auth.GetUserID(r)
	email := auth.CurrentUserEmail(r)

	if err := h.sessions.Logout(w, r); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	if authenticated {
		utils.LogAuth(constants.LogEventLogout, utils.FormatInt64(userID), utils.MaskEmail(email), true, "")
	}

	http.Redirect(w, r, constants.LoginPath, http.StatusFound)
}
