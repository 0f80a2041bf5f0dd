// Package scripts provides utility scripts for database and system management.
//
// The seeder creates the accounts an installation needs to be usable: the
// configured administrator and, in development, test accounts. Executed seeds
// are tracked like migrations so each runs once per database.
package scripts

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/inkwell-users/internal/auth"
	"github.com/yasinhessnawi1/inkwell-users/internal/config"
	"github.com/yasinhessnawi1/inkwell-users/internal/constants"
	"github.com/yasinhessnawi1/inkwell-users/internal/database"
	"github.com/yasinhessnawi1/inkwell-users/internal/models"
	"github.com/yasinhessnawi1/inkwell-users/internal/repository"
	"github.com/yasinhessnawi1/inkwell-users/internal/service"
	"github.com/yasinhessnawi1/inkwell-users/internal/utils"
)

// Seed is a named, tracked seeding step.
type Seed struct {
	Name string
	// Enabled reports whether the step applies to this configuration.
	// Disabled steps are skipped without being recorded.
	Enabled bool
	Run     func(ctx context.Context, tx *sqlx.Tx) error
}

// Seeder handles database seeding.
type Seeder struct {
	db     *database.Pool
	hasher auth.Hasher
	app    config.AppSettings
	seed   config.SeedSettings
}

// NewSeeder creates a new seeder.
//
// Parameters:
//   - db: A database connection pool to use for seeding
//   - hasher: The password hasher used for the admin account
//   - cfg: Application configuration supplying the seed settings
//
// Returns:
//   - *Seeder: A configured seeder
func NewSeeder(db *database.Pool, hasher auth.Hasher, cfg *config.AppConfig) *Seeder {
	return &Seeder{
		db:     db,
		hasher: hasher,
		app:    cfg.App,
		seed:   cfg.Seed,
	}
}

// Seeds returns the seeding steps in the order they run.
func (s *Seeder) Seeds() []Seed {
	return []Seed{
		{
			Name:    "admin_account",
			Enabled: s.seed.AdminEmail != "",
			Run:     s.seedAdminAccount,
		},
		{
			Name:    "development_test_accounts",
			Enabled: s.app.IsDevelopment() && len(s.seed.TestAccounts) > 0,
			Run:     s.seedTestAccounts,
		},
	}
}

// SeedDatabase runs every enabled seed that hasn't been executed yet.
//
// Parameters:
//   - ctx: Context for database operations and cancellation
//
// Returns:
//   - error: Any error encountered during seeding, nil if successful
func (s *Seeder) SeedDatabase(ctx context.Context) error {
	log.Info().Msg("Seeding database")
	startTime := time.Now()

	if err := s.createSeedsTable(ctx); err != nil {
		return fmt.Errorf("failed to create seeds table: %w", err)
	}

	executedSeeds, err := s.getExecutedSeeds(ctx)
	if err != nil {
		return fmt.Errorf("failed to get executed seeds: %w", err)
	}

	for _, seed := range s.Seeds() {
		switch {
		case !seed.Enabled:
			log.Debug().Str("seed", seed.Name).Msg("Seed not configured")
		case executedSeeds[seed.Name]:
			log.Debug().Str("seed", seed.Name).Msg("Seed already executed")
		default:
			log.Info().Str("seed", seed.Name).Msg("Running seed")
			if err := s.runSeed(ctx, seed); err != nil {
				return err
			}
		}
	}

	log.Info().
		Dur("duration", time.Since(startTime)).
		Msg("Database seeding completed")

	return nil
}

// createSeedsTable creates the seeds table if it doesn't exist.
func (s *Seeder) createSeedsTable(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS ` + constants.TableSeeds + ` (
			name VARCHAR(255) PRIMARY KEY,
			executed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	_, err := s.db.ExecContext(ctx, query)
	return err
}

// getExecutedSeeds returns the names of executed seeds.
func (s *Seeder) getExecutedSeeds(ctx context.Context) (map[string]bool, error) {
	var names []string
	if err := s.db.SelectContext(ctx, &names, `SELECT name FROM `+constants.TableSeeds); err != nil {
		return nil, err
	}

	seeds := make(map[string]bool, len(names))
	for _, name := range names {
		seeds[name] = true
	}
	return seeds, nil
}

// runSeed runs a seed function and records it within one transaction.
func (s *Seeder) runSeed(ctx context.Context, seed Seed) error {
	return s.db.Transaction(ctx, func(tx *sqlx.Tx) error {
		if err := seed.Run(ctx, tx); err != nil {
			return fmt.Errorf("seed %s failed: %w", seed.Name, err)
		}

		query := tx.Rebind(`INSERT INTO ` + constants.TableSeeds + ` (name) VALUES (?)`)
		if _, err := tx.ExecContext(ctx, query, seed.Name); err != nil {
			return fmt.Errorf("failed to record seed: %w", err)
		}
		return nil
	})
}

// seedAdminAccount creates the configured administrator unless the email is taken.
func (s *Seeder) seedAdminAccount(ctx context.Context, tx *sqlx.Tx) error {
	email := utils.NormalizeEmail(s.seed.AdminEmail)
	if !utils.IsValidEmail(email) {
		return utils.NewValidationError("admin_email", "Invalid admin email address")
	}
	if err := utils.ValidatePassword(s.seed.AdminPassword); err != nil {
		return err
	}

	users := repository.NewUserRepository(tx)

	exists, err := users.ExistsByEmail(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		log.Info().Str("email", utils.MaskEmail(email)).Msg("Admin account already exists")
		return nil
	}

	credentials := service.NewCredentialStore(users, s.hasher)
	admin, err := credentials.Create(ctx, email, s.seed.AdminPassword, models.RoleAdmin)
	if err != nil {
		return err
	}

	log.Info().
		Int64("user_id", admin.ID).
		Str("email", utils.MaskEmail(email)).
		Msg("Admin account created")
	return nil
}

// seedTestAccounts creates development accounts whose stored password is the
// literal escape-hatch value, so they log in with "password" and no hashing.
// Entries are "email" or "email:role"; a missing or unknown role means the default.
func (s *Seeder) seedTestAccounts(ctx context.Context, tx *sqlx.Tx) error {
	users := repository.NewUserRepository(tx)

	created := 0
	for _, raw := range s.seed.TestAccounts {
		email, role := parseTestAccount(raw)
		if !utils.IsValidEmail(email) {
			log.Warn().Str("email", email).Msg("Skipping invalid test account email")
			continue
		}

		exists, err := users.ExistsByEmail(ctx, email)
		if err != nil {
			return err
		}
		if exists {
			continue
		}

		user := models.NewUser(email, role)
		user.SetPasswordHash(constants.EscapeHatchPassword)
		if err := users.Create(ctx, user); err != nil {
			return fmt.Errorf("failed to create test account %s: %w", utils.MaskEmail(email), err)
		}
		created++
	}

	log.Info().
		Int("configured", len(s.seed.TestAccounts)).
		Int("created", created).
		Msg("Development test accounts seeded")
	return nil
}

func parseTestAccount(raw string) (string, models.Role) {
	email, rawRole, _ := strings.Cut(raw, ":")
	role := models.ParseRole(rawRole)
	if !role.Valid() {
		role = models.DefaultRole
	}
	return utils.NormalizeEmail(email), role
}
