// Package service implements the authentication use cases on top of the
// repositories: credential checks, login and the password reset flow.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/yasinhessnawi1/inkwell-users/internal/auth"
	"github.com/yasinhessnawi1/inkwell-users/internal/constants"
	"github.com/yasinhessnawi1/inkwell-users/internal/models"
	"github.com/yasinhessnawi1/inkwell-users/internal/repository"
	"github.com/yasinhessnawi1/inkwell-users/internal/utils"
)

// Credentials is the credential store seen by the authenticator and the reset flow.
type Credentials interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	Save(ctx context.Context, user *models.User) error
	VerifyPassword(user *models.User, candidate string) (bool, error)
}

// CredentialStore also resolves session subjects.
var _ auth.SubjectLoader = (*CredentialStore)(nil)

// CredentialStore looks up users and keeps their password hashes current.
type CredentialStore struct {
	users  repository.UserRepository
	hasher auth.Hasher
}

// NewCredentialStore creates a CredentialStore
func NewCredentialStore(users repository.UserRepository, hasher auth.Hasher) *CredentialStore {
	return &CredentialStore{
		users:  users,
		hasher: hasher,
	}
}

// FindByEmail returns the user with the given email, compared case-insensitively.
func (s *CredentialStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.users.GetByEmail(ctx, utils.NormalizeEmail(email))
}

// FindByID returns the user with the given ID.
func (s *CredentialStore) FindByID(ctx context.Context, id int64) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

// Save persists the user. A password set through SetPassword is hashed
// first; an unmodified hash is written unchanged.
func (s *CredentialStore) Save(ctx context.Context, user *models.User) error {
	if user.PasswordModified() {
		hash, err := s.hasher.Hash(user.PasswordHash)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		user.SetPasswordHash(hash)
	}

	if user.IsNew() {
		return s.users.Create(ctx, user)
	}
	return s.users.Update(ctx, user)
}

// Create registers a new user. An empty password leaves the account
// without a usable password.
func (s *CredentialStore) Create(ctx context.Context, email, password string, role models.Role) (*models.User, error) {
	user := models.NewUser(utils.NormalizeEmail(email), role)
	if password != "" {
		user.SetPassword(password)
	}

	if err := s.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// VerifyPassword checks candidate against the user's stored hash.
// Accounts whose stored value is the literal escape-hatch password accept
// that literal without hashing.
func (s *CredentialStore) VerifyPassword(user *models.User, candidate string) (bool, error) {
	if user.PasswordHash == constants.EscapeHatchPassword && candidate == constants.EscapeHatchPassword {
		return true, nil
	}
	if user.PasswordHash == "" {
		return false, utils.ErrNoPasswordSet
	}

	match, err := s.hasher.Compare(user.PasswordHash, candidate)
	if err != nil {
		if errors.Is(err, auth.ErrMalformedHash) && user.PasswordHash == constants.EscapeHatchPassword {
			return false, nil
		}
		return false, err
	}
	return match, nil
}
