package constants

// Context Key Names
const (
	SubjectContextKey   = "subject"
	SessionContextKey   = "session"
	UserIDContextKey    = "user_id"
	EmailContextKey     = "email"
	RequestIDContextKey = "request_id"
)

// Password Validation
const (
	MinPasswordLength = 8
	// MaxPasswordLength is the longest password bcrypt accepts, in bytes.
	MaxPasswordLength = 72
	MaxEmailLength    = 255

	// EscapeHatchPassword is the literal stored for seeded test accounts.
	EscapeHatchPassword = "password"
)

// Flash kinds
const (
	FlashError   = "error"
	FlashMessage = "message"
)

// Cookie and session
const (
	DefaultSessionCookie = "inkwell_session"
	SessionTokenIssuer   = "inkwell-users"
)

// Rate limit categories
const (
	RateCategoryDefault = "default"
	RateCategoryAuth    = "auth"
)
