package auth

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/inkwell-users/internal/constants"
	"github.com/yasinhessnawi1/inkwell-users/internal/models"
	"github.com/yasinhessnawi1/inkwell-users/internal/utils"
)

// EnsureAuthenticated lets requests with a subject through. Anonymous
// requests have their URL remembered for after login and are redirected
// to the login page.
func EnsureAuthenticated(sm *SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if IsAuthenticated(r) {
				next.ServeHTTP(w, r)
				return
			}

			if err := sm.SetRedirect(r, r.URL.RequestURI()); err != nil {
				log.Warn().Err(err).Str("path", r.URL.Path).Msg("Failed to remember redirect target")
			}

			http.Redirect(w, r, constants.LoginPath, http.StatusFound)
		})
	}
}

// EnsureRole requires a subject whose role satisfies role; admin satisfies
// every role. Anyone else, anonymous users included, gets 403.
func EnsureRole(sm *SessionManager, role models.Role) func(http.Handler) http.Handler {
	authenticated := EnsureAuthenticated(sm)

	return func(next http.Handler) http.Handler {
		guarded := authenticated(next)

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := GetSubject(r)
			if !ok || !user.Role.Satisfies(role) {
				event := log.Warn().
					Str("required_role", role.String()).
					Str("path", r.URL.Path).
					Str(constants.RequestIDContextKey, GetRequestID(r))
				if ok {
					event = event.Int64(constants.UserIDContextKey, user.ID).Str("role", user.Role.String())
				}
				event.Msg("Access denied")

				utils.ErrorFromAppError(w, utils.NewForbiddenError(""))
				return
			}

			guarded.ServeHTTP(w, r)
		})
	}
}
