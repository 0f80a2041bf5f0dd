// Package server wires the application together and owns the HTTP server
// lifecycle: dependency setup, routing, maintenance tasks and graceful shutdown.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/inkwell-users/internal/auth"
	"github.com/yasinhessnawi1/inkwell-users/internal/config"
	"github.com/yasinhessnawi1/inkwell-users/internal/constants"
	"github.com/yasinhessnawi1/inkwell-users/internal/database"
	"github.com/yasinhessnawi1/inkwell-users/internal/handlers"
	"github.com/yasinhessnawi1/inkwell-users/internal/repository"
	"github.com/yasinhessnawi1/inkwell-users/internal/service"
	"github.com/yasinhessnawi1/inkwell-users/internal/utils"
	"github.com/yasinhessnawi1/inkwell-users/internal/utils/ratelimit"
	"github.com/yasinhessnawi1/inkwell-users/migrations"
	"github.com/yasinhessnawi1/inkwell-users/scripts"
)

// Handlers contains all HTTP handlers for the application.
type Handlers struct {
	// AuthHandler manages login and logout
	AuthHandler *handlers.AuthHandler

	// PasswordResetHandler manages the forgot/reset password pages
	PasswordResetHandler *handlers.PasswordResetHandler

	// AccountHandler manages the pages behind the access guard
	AccountHandler *handlers.AccountHandler
}

// AuthProviders contains the authentication building blocks shared by
// services, handlers and middleware.
type AuthProviders struct {
	// Hasher hashes and verifies passwords
	Hasher auth.Hasher

	// Credentials resolves session subjects and checks passwords
	Credentials *service.CredentialStore

	// Sessions restores, persists and rotates login sessions
	Sessions *auth.SessionManager
}

type repositories struct {
	users       repository.UserRepository
	resetTokens repository.ResetTokenRepository
}

type services struct {
	credentials   *service.CredentialStore
	auth          *service.AuthService
	passwordReset *service.PasswordResetService
}

// Server represents the HTTP server and everything it depends on.
type Server struct {
	// Config contains application configuration
	Config *config.AppConfig

	// Db provides database access
	Db *database.Pool

	// router handles HTTP routing
	router chi.Router

	// Handlers contains all HTTP request handlers
	Handlers *Handlers

	authProviders *AuthProviders
	repositories  repositories
	services      services

	// notifier delivers reset links; replaced in tests
	notifier service.Notifier

	// limiters holds per-client rate limit buckets for the auth routes
	limiters *ratelimit.Store

	httpServer *http.Server
	stopTasks  chan struct{}
}

// NewServer connects to the database and builds a ready-to-start server.
//
// Parameters:
//   - cfg: Application configuration including database, server and session settings
//
// Returns:
//   - A fully initialized Server instance ready to start
//   - An error if initialization of any component fails
func NewServer(cfg *config.AppConfig) (*Server, error) {
	s := &Server{
		Config: cfg,
	}

	if err := s.setupDatabase(); err != nil {
		return nil, fmt.Errorf("failed to set up database: %w", err)
	}

	if err := s.initialize(); err != nil {
		s.Db.Close()
		return nil, err
	}
	return s, nil
}

// newServerWithPool builds a server over an existing pool without running
// migrations or seeds.
func newServerWithPool(cfg *config.AppConfig, db *database.Pool, notifier service.Notifier) (*Server, error) {
	s := &Server{
		Config:   cfg,
		Db:       db,
		notifier: notifier,
	}
	if err := s.initialize(); err != nil {
		return nil, err
	}
	return s, nil
}

// initialize runs the setup steps in dependency order:
// auth providers → repositories → services → handlers → routes.
func (s *Server) initialize() error {
	if err := s.setupRepositories(); err != nil {
		return fmt.Errorf("failed to set up repositories: %w", err)
	}

	if err := s.setupAuthProviders(); err != nil {
		return fmt.Errorf("failed to set up auth providers: %w", err)
	}

	if err := s.setupServices(); err != nil {
		return fmt.Errorf("failed to set up services: %w", err)
	}

	if err := s.setupHandlers(); err != nil {
		return fmt.Errorf("failed to set up handlers: %w", err)
	}

	s.setupRateLimits()
	s.SetupRoutes()

	s.httpServer = &http.Server{
		Addr:         s.Config.Server.ServerAddress(),
		Handler:      s.router,
		ReadTimeout:  s.Config.Server.ReadTimeout,
		WriteTimeout: s.Config.Server.WriteTimeout,
		IdleTimeout:  constants.DefaultIdleTimeout,
	}
	return nil
}

// setupDatabase connects to the database, then migrates and seeds it when configured.
func (s *Server) setupDatabase() error {
	db, err := database.Connect(s.Config)
	if err != nil {
		return err
	}
	s.Db = db

	ctx := context.Background()

	if s.Config.Seed.MigrateOnStartup {
		if err := migrations.NewMigrator(db).RunMigrations(ctx); err != nil {
			db.Close()
			return fmt.Errorf("failed to run database migrations: %w", err)
		}
	}

	if s.Config.Seed.RunOnStartup {
		hasher, err := auth.NewHasher(&s.Config.PasswordHash)
		if err != nil {
			db.Close()
			return err
		}
		if err := scripts.NewSeeder(db, hasher, s.Config).SeedDatabase(ctx); err != nil {
			db.Close()
			return fmt.Errorf("failed to seed database: %w", err)
		}
	}

	return nil
}

// setupRepositories initializes the user table repository and the in-memory
// reset token registry.
func (s *Server) setupRepositories() error {
	if s.Db == nil {
		return fmt.Errorf("database not initialized")
	}

	s.repositories = repositories{
		users:       repository.NewUserRepository(s.Db),
		resetTokens: repository.NewMemoryResetTokenRepository(s.Config.Reset.TokenTTL),
	}
	return nil
}

// setupAuthProviders initializes the password hasher, the credential store
// and the session manager that loads subjects through it.
func (s *Server) setupAuthProviders() error {
	hasher, err := auth.NewHasher(&s.Config.PasswordHash)
	if err != nil {
		return err
	}

	credentials := service.NewCredentialStore(s.repositories.users, hasher)

	sessions := auth.NewSessionManager(
		auth.NewMemorySessionStore(),
		credentials,
		s.Config.Session,
	)

	s.authProviders = &AuthProviders{
		Hasher:      hasher,
		Credentials: credentials,
		Sessions:    sessions,
	}
	return nil
}

// setupServices initializes the credential store, the authenticator and the
// password reset flow.
func (s *Server) setupServices() error {
	if s.authProviders == nil || s.authProviders.Credentials == nil {
		return fmt.Errorf("credential store not initialized")
	}

	if s.notifier == nil {
		s.notifier = service.NewNotifier(s.Config.Mail)
	}

	credentials := s.authProviders.Credentials

	s.services = services{
		credentials: credentials,
		auth:        service.NewAuthService(credentials),
		passwordReset: service.NewPasswordResetService(
			credentials,
			s.repositories.resetTokens,
			s.notifier,
			s.Config.Mail,
			s.Config.Reset,
		),
	}
	return nil
}

// setupHandlers initializes all HTTP request handlers.
func (s *Server) setupHandlers() error {
	if s.services.auth == nil || s.services.passwordReset == nil {
		return fmt.Errorf("services not initialized")
	}

	sessions := s.authProviders.Sessions
	s.Handlers = &Handlers{
		AuthHandler:          handlers.NewAuthHandler(s.services.auth, sessions),
		PasswordResetHandler: handlers.NewPasswordResetHandler(s.services.passwordReset, sessions),
		AccountHandler:       handlers.NewAccountHandler(),
	}
	return nil
}

// setupRateLimits creates the limiter store for the credential endpoints.
func (s *Server) setupRateLimits() {
	s.limiters = ratelimit.NewStore(ratelimit.Rate{
		RequestsPerSecond: s.Config.Security.AuthRatePerSecond,
		Burst:             s.Config.Security.AuthBurst,
	})
}

// Start starts the HTTP server and blocks until it fails or a shutdown
// signal (SIGINT, SIGTERM) arrives, then shuts down gracefully.
func (s *Server) Start() error {
	serverErrors := make(chan error, 1)

	go func() {
		log.Info().
			Str("address", s.Config.Server.ServerAddress()).
			Msg("Starting server")

		serverErrors <- s.httpServer.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	s.SetupMaintenanceTasks()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info().
			Str("signal", sig.String()).
			Msg("Shutdown signal received")

		ctx, cancel := context.WithTimeout(context.Background(), s.Config.Server.ShutdownTimeout)
		defer cancel()

		if err := s.Shutdown(ctx); err != nil {
			if closeErr := s.httpServer.Close(); closeErr != nil {
				log.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	return nil
}

// Shutdown stops maintenance, waits for in-flight requests and closes the database.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.stopTasks != nil {
		close(s.stopTasks)
		s.stopTasks = nil
	}

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	log.Info().Msg("Server stopped gracefully")

	s.Db.Close()
	log.Info().Msg("Database connection closed")

	return nil
}

// SetupMaintenanceTasks starts a background ticker that purges expired
// sessions, expired reset tokens and idle rate limiters.
func (s *Server) SetupMaintenanceTasks() {
	if s.stopTasks != nil {
		return
	}
	stop := make(chan struct{})
	s.stopTasks = stop

	ticker := time.NewTicker(constants.MaintenanceInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				s.runMaintenance()
			}
		}
	}()
}

// runMaintenance performs one maintenance pass under a timeout.
func (s *Server) runMaintenance() {
	ctx, cancel := context.WithTimeout(context.Background(), constants.MaintenanceTimeout)
	defer cancel()

	if count, err := s.authProviders.Sessions.PurgeExpired(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to clean up expired sessions")
	} else if count > 0 {
		log.Info().Msgf("Cleaned up %s", utils.Plural(count, "expired session"))
	}

	if count, err := s.repositories.resetTokens.PurgeExpired(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to clean up expired reset tokens")
	} else if count > 0 {
		log.Info().Msgf("Cleaned up %s", utils.Plural(count, "expired reset token"))
	}

	if count := s.limiters.Cleanup(constants.MaintenanceInterval); count > 0 {
		log.Debug().Msgf("Cleaned up %s", utils.Plural(count, "idle rate limiter"))
	}
}
