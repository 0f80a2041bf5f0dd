// Package repository provides data access for users and password reset tokens.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/inkwell-users/internal/constants"
	"github.com/yasinhessnawi1/inkwell-users/internal/database"
	"github.com/yasinhessnawi1/inkwell-users/internal/models"
	"github.com/yasinhessnawi1/inkwell-users/internal/utils"
)

// UserRepository defines methods for interacting with user data
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// SQLUserRepository implements UserRepository on any sqlx-backed driver.
// Queries are written with "?" placeholders and rebound per driver.
type SQLUserRepository struct {
	db database.Querier
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db database.Querier) UserRepository {
	return &SQLUserRepository{
		db: db,
	}
}

const selectUserColumns = `SELECT user_id, email, password_hash, role, created_at, updated_at FROM users`

// Create adds a new user to the database and sets its ID.
func (r *SQLUserRepository) Create(ctx context.Context, user *models.User) error {
	startTime := time.Now()

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	query := r.db.Rebind(`
        INSERT INTO users (email, password_hash, role, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?)`)
	args := []interface{}{user.Email, user.PasswordHash, string(user.Role), user.CreatedAt, user.UpdatedAt}

	var err error
	if r.db.DriverName() == constants.DriverMySQL {
		var result sql.Result
		result, err = r.db.ExecContext(ctx, query, args...)
		if err == nil {
			user.ID, err = result.LastInsertId()
		}
	} else {
		query += " RETURNING user_id"
		err = r.db.QueryRowxContext(ctx, query, args...).Scan(&user.ID)
	}

	utils.LogDBQuery(query, args, time.Since(startTime), err)

	if err != nil {
		if appErr := utils.ParseError(err); utils.IsDuplicateError(appErr) {
			return utils.NewDuplicateError("User", constants.ColumnEmail, user.Email)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	log.Info().
		Int64("user_id", user.ID).
		Str("email", utils.MaskEmail(user.Email)).
		Str("role", user.Role.String()).
		Msg("User created")

	return nil
}

// GetByID retrieves a user by ID
func (r *SQLUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	startTime := time.Now()

	query := r.db.Rebind(selectUserColumns + ` WHERE user_id = ?`)

	user := &models.User{}
	err := r.db.GetContext(ctx, user, query, id)

	utils.LogDBQuery(query, []interface{}{id}, time.Since(startTime), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.NewNotFoundError("User", id)
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}

	return user, nil
}

// GetByEmail retrieves a user by email, ignoring case
func (r *SQLUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	startTime := time.Now()

	query := r.db.Rebind(selectUserColumns + ` WHERE LOWER(email) = LOWER(?)`)

	user := &models.User{}
	err := r.db.GetContext(ctx, user, query, email)

	utils.LogDBQuery(query, []interface{}{email}, time.Since(startTime), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.NewNotFoundError("User", fmt.Sprintf("email=%s", email))
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

// Update writes the user's email, password hash and role.
func (r *SQLUserRepository) Update(ctx context.Context, user *models.User) error {
	startTime := time.Now()

	user.UpdatedAt = time.Now()

	query := r.db.Rebind(`
        UPDATE users
        SET email = ?, password_hash = ?, role = ?, updated_at = ?
        WHERE user_id = ?`)
	args := []interface{}{user.Email, user.PasswordHash, string(user.Role), user.UpdatedAt, user.ID}

	result, err := r.db.ExecContext(ctx, query, args...)

	utils.LogDBQuery(query, args, time.Since(startTime), err)

	if err != nil {
		if appErr := utils.ParseError(err); utils.IsDuplicateError(appErr) {
			return utils.NewDuplicateError("User", constants.ColumnEmail, user.Email)
		}
		return fmt.Errorf("failed to update user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return utils.NewNotFoundError("User", user.ID)
	}

	log.Info().
		Int64("user_id", user.ID).
		Msg("User updated")

	return nil
}

// ExistsByEmail checks if a user with the given email exists
func (r *SQLUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	startTime := time.Now()

	query := r.db.Rebind(`SELECT COUNT(*) FROM users WHERE LOWER(email) = LOWER(?)`)

	var count int
	err := r.db.GetContext(ctx, &count, query, email)

	utils.LogDBQuery(query, []interface{}{email}, time.Since(startTime), err)

	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}

	return count > 0, nil
}
