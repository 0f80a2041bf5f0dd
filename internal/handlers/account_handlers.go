package handlers

import (
	"net/http"

	"github.com/yasinhessnawi1/inkwell-users/internal/auth"
	"github.com/yasinhessnawi1/inkwell-users/internal/constants"
	"github.com/yasinhessnawi1/inkwell-users/internal/utils"
)

// AccountHandler serves the pages that require a logged-in user.
type AccountHandler struct{}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler() *AccountHandler {
	return &AccountHandler{}
}

// Home shows the signed-in user's home page.
func (h *AccountHandler) Home(w http.ResponseWriter, r *http.Request) {
	h.renderForSubject(w, r, &ViewModel{View: constants.ViewHome, Title: constants.TitleHome})
}

// Admin shows the administration page.
func (h *AccountHandler) Admin(w http.ResponseWriter, r *http.Request) {
	h.renderForSubject(w, r, &ViewModel{View: constants.ViewAdmin, Title: constants.TitleAdmin})
}

// ActivatePage shows the account activation form.
func (h *AccountHandler) ActivatePage(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.GetSubject(r)
	if !ok {
		utils.ErrorFromAppError(w, utils.NewUnauthorizedError(""))
		return
	}

	render(w, &ViewModel{
		View:      constants.ViewActivateAccount,
		Title:     constants.TitleActivateAccount,
		AccountID: utils.FormatInt64(user.ID),
	})
}

// Activate accepts the activation form. Accounts need no activation step
// yet, so this only returns home.
func (h *AccountHandler) Activate(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, constants.HomePath, http.StatusFound)
}

func (h *AccountHandler) renderForSubject(w http.ResponseWriter, r *http.Request, vm *ViewModel) {
	user, ok := auth.GetSubject(r)
	if !ok {
		utils.ErrorFromAppError(w, utils.NewUnauthorizedError(""))
		return
	}
	vm.User = user.Sanitize()
	render(w, vm)
}
