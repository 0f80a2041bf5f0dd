package handlers

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/inkwell-users/internal/constants"
	"github.com/yasinhessnawi1/inkwell-users/internal/models"
	"github.com/yasinhessnawi1/inkwell-users/internal/utils"
)

// ViewModel describes a page for the front end to render.
type ViewModel struct {
	View      string       `json:"view"`
	Title     string       `json:"title,omitempty"`
	Messages  []string     `json:"message"`
	Errors    []string     `json:"error"`
	Token     string       `json:"token,omitempty"`
	AccountID string       `json:"account_id,omitempty"`
	User      *models.User `json:"user,omitempty"`
}

// render writes the view model as a 200 JSON response.
func render(w http.ResponseWriter, vm *ViewModel) {
	if vm.Messages == nil {
		vm.Messages = []string{}
	}
	if vm.Errors == nil {
		vm.Errors = []string{}
	}
	utils.JSON(w, http.StatusOK, vm)
}

// flashes reads and clears the queued messages of kind. Failures are
// logged and yield no messages.
func flashes(sessions SessionInterface, r *http.Request, kind string) []string {
	messages, err := sessions.Flashes(r, kind)
	if err != nil {
		log.Warn().Err(err).Str("kind", kind).Msg("Failed to read flash messages")
		return []string{}
	}
	return messages
}

// redirectWithFlash queues a flash message and redirects to target.
func redirectWithFlash(w http.ResponseWriter, r *http.Request, sessions SessionInterface, kind, message, target string) {
	if err := sessions.AddFlash(r, kind, message); err != nil {
		log.Warn().Err(err).Str("kind", kind).Msg("Failed to queue flash message")
	}
	http.Redirect(w, r, target, http.StatusFound)
}

// safeRedirect returns target when it is a path on this site, otherwise the home page.
func safeRedirect(target string) string {
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return constants.HomePath
	}
	return target
}
