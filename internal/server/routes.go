package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/inkwell-users/internal/auth"
	"github.com/yasinhessnawi1/inkwell-users/internal/constants"
	"github.com/yasinhessnawi1/inkwell-users/internal/middleware"
	"github.com/yasinhessnawi1/inkwell-users/internal/models"
	"github.com/yasinhessnawi1/inkwell-users/internal/utils"
)

// SetupRoutes configures the routes for the application.
//
// The configured routes include:
// - Health check and version endpoints (no session)
// - Login, logout and password reset pages (session, rate-limited POSTs)
// - Account pages behind EnsureAuthenticated
// - The admin page behind EnsureRole("admin")
func (s *Server) SetupRoutes() {
	r := chi.NewRouter()

	// Base middleware
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Recovery())
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.SecurityHeaders())
	if s.Config.Logging.RequestLog {
		r.Use(middleware.RequestLogger())
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.NotFound(w, "")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.MethodNotAllowed(w)
	})

	// Operational routes never touch the session store
	r.Group(func(r chi.Router) {
		r.Get(constants.HealthPath, s.handleHealth)
		r.Get(constants.VersionPath, s.handleVersion)
	})

	sessions := s.authProviders.Sessions

	r.Group(func(r chi.Router) {
		r.Use(sessions.Middleware)

		// Login and password reset pages
		r.Group(func(r chi.Router) {
			r.Use(middleware.NoStore())

			r.Get(constants.LoginPath, s.Handlers.AuthHandler.LoginPage)
			r.Get(constants.LogoutPath, s.Handlers.AuthHandler.Logout)
			r.Get(constants.ForgotPasswordPath, s.Handlers.PasswordResetHandler.ForgotPasswordPage)
			r.Get(constants.ResetPasswordPath, s.Handlers.PasswordResetHandler.ResetPasswordPage)
			r.Get(constants.ResetPasswordToken, s.Handlers.PasswordResetHandler.ResetPasswordPage)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RateLimit(s.limiters, constants.RateCategoryAuth))

				r.Post(constants.LoginPath, s.Handlers.AuthHandler.Login)
				r.Post(constants.ForgotPasswordPath, s.Handlers.PasswordResetHandler.ForgotPassword)
				r.Post(constants.ResetPasswordPath, s.Handlers.PasswordResetHandler.ResetPassword)
			})
		})

		// Pages that require a logged-in user
		r.Group(func(r chi.Router) {
			r.Use(auth.EnsureAuthenticated(sessions))

			r.Get(constants.HomePath, s.Handlers.AccountHandler.Home)
			r.Get(constants.ActivatePath, s.Handlers.AccountHandler.ActivatePage)
			r.Post(constants.ActivatePath, s.Handlers.AccountHandler.Activate)
		})

		// Role-gated pages
		r.Group(func(r chi.Router) {
			r.Use(auth.EnsureRole(sessions, models.RoleAdmin))

			r.Get(constants.AdminPath, s.Handlers.AccountHandler.Admin)
		})
	})

	s.router = r
}

// GetRouter returns the configured router.
func (s *Server) GetRouter() chi.Router {
	return s.router
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.Db.HealthCheck(r.Context()); err != nil {
		log.Error().Err(err).Msg("Health check failed")
		utils.Error(w, http.StatusServiceUnavailable, constants.CodeServiceUnavailable, "Service is not healthy", nil)
		return
	}

	utils.JSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": s.Config.App.Version,
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, map[string]string{
		"version":     s.Config.App.Version,
		"environment": s.Config.App.Environment,
	})
}
