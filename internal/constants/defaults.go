// Package constants provides shared constant values used throughout the application.
//
// The defaults.go file defines default values and limits used throughout the application.
// These constants provide sensible defaults for configuration settings and establish
// boundaries for resource usage. Changes to these values may significantly impact
// application behavior and security.
package constants

// Default Configuration Values define fallback settings when not specified in configuration.
const (
	// DefaultServerPort is the default HTTP server port.
	DefaultServerPort = 5000

	// DefaultAppName is the application name reported in logs and on /version.
	DefaultAppName = "inkwell-users"

	// DefaultDBDriver is the database/sql driver used when none is configured.
	DefaultDBDriver = DriverPostgres

	// DefaultDBMaxConnections is the default maximum number of database connections.
	DefaultDBMaxConnections = 20

	// DefaultDBMinConnections is the default number of idle database connections kept open.
	DefaultDBMinConnections = 5

	// DefaultLogLevel is the default logging verbosity level.
	DefaultLogLevel = "info"

	// DefaultLogFormat is the default logging output format.
	DefaultLogFormat = "json"
)

// Environment Types define the recognized application running environments.
const (
	// EnvDevelopment identifies a development environment with debugging features enabled.
	EnvDevelopment = "development"

	// EnvTesting identifies a testing environment for automated tests.
	EnvTesting = "testing"

	// EnvProduction identifies a production environment with optimized settings.
	EnvProduction = "production"
)

// Request Limits protect handlers from oversized payloads.
const (
	// MaxRequestBodySize is the maximum size in bytes for HTTP request bodies.
	MaxRequestBodySize = 1048576 // 1MB in bytes
)

// Default Password Hash Settings define the parameters for password hashing.
const (
	// HashAlgorithmBcrypt selects bcrypt password hashing.
	HashAlgorithmBcrypt = "bcrypt"

	// HashAlgorithmArgon2id selects Argon2id password hashing.
	HashAlgorithmArgon2id = "argon2id"

	// DefaultHashAlgorithm is used when password_hash.algorithm is empty.
	DefaultHashAlgorithm = HashAlgorithmBcrypt

	// DefaultBcryptCost mirrors the salt work factor of 10 used for stored accounts.
	DefaultBcryptCost = 10

	// DefaultPasswordHashMemory is the memory cost parameter for Argon2id hashing.
	DefaultPasswordHashMemory = 64 * 1024

	// DefaultPasswordHashIterations is the number of iterations for Argon2id hashing.
	DefaultPasswordHashIterations = 3

	// DefaultPasswordHashParallelism is the parallelism parameter for Argon2id hashing.
	DefaultPasswordHashParallelism = 2

	// DefaultPasswordHashSaltLength is the length in bytes of the random salt.
	DefaultPasswordHashSaltLength = 16

	// DefaultPasswordHashKeyLength is the length in bytes of the generated hash.
	DefaultPasswordHashKeyLength = 32

	// DevPasswordHashMemory is a reduced memory setting for development environments.
	DevPasswordHashMemory = 16 * 1024

	// DevPasswordHashIterations is a reduced iteration count for development environments.
	DevPasswordHashIterations = 1
)

// Mail Defaults define how password-reset links and sender details are built.
const (
	// DefaultProductionHost is the base URL used for links when running in production.
	DefaultProductionHost = "http://www.myhost.com"

	// DefaultDevelopmentHost is the base URL used for links outside production.
	DefaultDevelopmentHost = "http://localhost:5000"

	// DefaultMailFromAddress is the sender address for outgoing mail.
	DefaultMailFromAddress = "no-reply@myhost.com"

	// DefaultMailFromName is the sender display name for outgoing mail.
	DefaultMailFromName = "Inkwell"

	// PasswordResetSubject is the subject line of the reset email.
	PasswordResetSubject = "Password reset"
)

// Rate Limit Defaults apply to credential-handling endpoints.
const (
	// DefaultAuthRatePerSecond is the steady-state request rate per client IP.
	DefaultAuthRatePerSecond = 1.0

	// DefaultAuthBurst is the number of requests a client may make in a burst.
	DefaultAuthBurst = 10

	// MaxTrackedLimiters caps the number of rate limiters held before a reset.
	MaxTrackedLimiters = 10000
)

// Token Generation Constants define the reset token format.
const (
	// ResetTokenBytes is the number of random bytes in a password reset token.
	ResetTokenBytes = 32

	// SessionSecretPlaceholder is the development secret that production refuses to run with.
	SessionSecretPlaceholder = "changeme"
)
