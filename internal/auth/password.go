package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"

	"github.com/yasinhessnawi1/inkwell-users/internal/config"
	"github.com/yasinhessnawi1/inkwell-users/internal/constants"
)

// ErrMalformedHash is returned when a stored hash cannot be decoded.
var ErrMalformedHash = errors.New("malformed password hash")

// Hasher turns plaintext passwords into stored hashes and checks candidates against them.
type Hasher interface {
	// Hash returns an encoded, salted hash of plain.
	Hash(plain string) (string, error)

	// Compare reports whether plain matches the encoded hash.
	// A mismatch is (false, nil); an undecodable hash is an error.
	Compare(encoded, plain string) (bool, error)
}

// NewHasher builds the hasher selected by the password_hash configuration.
func NewHasher(cfg *config.HashSettings) (Hasher, error) {
	switch cfg.Algorithm {
	case "", constants.HashAlgorithmBcrypt:
		return NewBcryptHasher(cfg.Cost), nil
	case constants.HashAlgorithmArgon2id:
		return NewArgon2Hasher(ConfigFromHashSettings(cfg)), nil
	default:
		return nil, fmt.Errorf("unsupported password hash algorithm: %s", cfg.Algorithm)
	}
}

// BcryptHasher hashes passwords with bcrypt.
type BcryptHasher struct {
	Cost int
}

// NewBcryptHasher creates a bcrypt hasher; costs outside bcrypt's range use the default.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = constants.DefaultBcryptCost
	}
	return &BcryptHasher{Cost: cost}
}

// Hash implements Hasher.
func (h *BcryptHasher) Hash(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), h.Cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Compare implements Hasher.
func (h *BcryptHasher) Compare(encoded, plain string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(plain))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}
}

// PasswordConfig holds the parameters for the Argon2id password hashing algorithm
type PasswordConfig struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultPasswordConfig returns the default configuration for password hashing
func DefaultPasswordConfig() *PasswordConfig {
	return &PasswordConfig{
		Memory:      constants.DefaultPasswordHashMemory,
		Iterations:  constants.DefaultPasswordHashIterations,
		Parallelism: constants.DefaultPasswordHashParallelism,
		SaltLength:  constants.DefaultPasswordHashSaltLength,
		KeyLength:   constants.DefaultPasswordHashKeyLength,
	}
}

// ConfigFromHashSettings creates a password config from the application config
func ConfigFromHashSettings(cfg *config.HashSettings) *PasswordConfig {
	return &PasswordConfig{
		Memory:      cfg.Memory,
		Iterations:  cfg.Iterations,
		Parallelism: cfg.Parallelism,
		SaltLength:  cfg.SaltLength,
		KeyLength:   cfg.KeyLength,
	}
}

// Argon2Hasher hashes passwords with Argon2id.
//
// Hashes are encoded as $argon2id$v=19$m=<memory>,t=<iterations>,p=<parallelism>$<salt>$<key>
// so parameters can change without invalidating stored hashes.
type Argon2Hasher struct {
	cfg *PasswordConfig
}

// NewArgon2Hasher creates an Argon2id hasher.
func NewArgon2Hasher(cfg *PasswordConfig) *Argon2Hasher {
	if cfg == nil {
		cfg = DefaultPasswordConfig()
	}
	return &Argon2Hasher{cfg: cfg}
}

// Hash implements Hasher.
func (h *Argon2Hasher) Hash(plain string) (string, error) {
	salt, err := GenerateRandomBytes(h.cfg.SaltLength)
	if err != nil {
		return "", err
	}

	key := argon2.IDKey([]byte(plain), salt, h.cfg.Iterations, h.cfg.Memory, h.cfg.Parallelism, h.cfg.KeyLength)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, h.cfg.Memory, h.cfg.Iterations, h.cfg.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Compare implements Hasher.
func (h *Argon2Hasher) Compare(encoded, plain string) (bool, error) {
	params, salt, key, err := decodeArgon2Hash(encoded)
	if err != nil {
		return false, err
	}

	candidate := argon2.IDKey([]byte(plain), salt, params.Iterations, params.Memory, params.Parallelism, uint32(len(key)))

	// Constant-time comparison
	return subtle.ConstantTimeCompare(key, candidate) == 1, nil
}

func decodeArgon2Hash(encoded string) (*PasswordConfig, []byte, []byte, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return nil, nil, nil, ErrMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return nil, nil, nil, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}
	if version != argon2.Version {
		return nil, nil, nil, fmt.Errorf("%w: unsupported argon2 version %d", ErrMalformedHash, version)
	}

	params := &PasswordConfig{}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &params.Memory, &params.Iterations, &params.Parallelism); err != nil {
		return nil, nil, nil, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: failed to decode salt: %v", ErrMalformedHash, err)
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: failed to decode hash: %v", ErrMalformedHash, err)
	}
	params.SaltLength = uint32(len(salt))
	params.KeyLength = uint32(len(key))

	return params, salt, key, nil
}

// GenerateRandomBytes generates cryptographically secure random bytes
func GenerateRandomBytes(length uint32) ([]byte, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return b, nil
}
