package models

import (
	"time"
)

// User represents an account that can log in.
//
// PasswordHash normally holds an encoded hash. After SetPassword it holds the
// new plaintext until the credential store hashes it on save.
type User struct {
	ID           int64     `json:"id" db:"user_id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         Role      `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`

	passwordModified bool
}

// NewUser creates a new User with the given email and role.
// A role outside the known set falls back to DefaultRole.
func NewUser(email string, role Role) *User {
	if !role.Valid() {
		role = DefaultRole
	}
	now := time.Now()
	return &User{
		Email:     email,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// TableName returns the database table name for the User model.
func (u *User) TableName() string {
	return "users"
}

// SetPassword stores a new plaintext password and marks it for hashing.
func (u *User) SetPassword(plain string) {
	u.PasswordHash = plain
	u.passwordModified = true
}

// PasswordModified reports whether SetPassword was called since the last save.
func (u *User) PasswordModified() bool {
	return u.passwordModified
}

// SetPasswordHash replaces the plaintext with its hash and clears the modified flag.
func (u *User) SetPasswordHash(hash string) {
	u.PasswordHash = hash
	u.passwordModified = false
}

// IsNew reports whether the user has not been persisted yet.
func (u *User) IsNew() bool {
	return u.ID == 0
}

// Sanitize returns a copy without credential material.
func (u *User) Sanitize() *User {
	sanitized := *u
	sanitized.PasswordHash = ""
	sanitized.passwordModified = false
	return &sanitized
}
