// Package constants provides shared constant values used throughout the application.
//
// The errorcodes.go file defines constants related to error handling and messaging.
// User-facing messages match what the login and reset forms display.
package constants

// Error Types define the categories of errors that can occur in the application.
const (
	ErrorNotFound           = "resource not found"
	ErrorUnauthorized       = "unauthorized access"
	ErrorForbidden          = "forbidden access"
	ErrorBadRequest         = "invalid request"
	ErrorInternalServer     = "internal server error"
	ErrorValidation         = "validation error"
	ErrorDuplicate          = "duplicate resource"
	ErrorIncorrectEmail     = "incorrect email"
	ErrorIncorrectPassword  = "incorrect password"
	ErrorNoPasswordSet      = "no password set"
	ErrorInvalidToken       = "invalid token"
	ErrorValidationMismatch = "validation mismatch"
	ErrorUpstream           = "upstream failure"
	ErrorAccountNotFound    = "account not found"
)

// User-Facing Error Messages define standardized messages that can be safely presented to users.
const (
	// MsgAuthRequired indicates that the user must authenticate to access the resource.
	MsgAuthRequired = "Authentication required"

	// MsgIncorrectEmail is flashed when no account matches the login email.
	MsgIncorrectEmail = "Incorrect email"

	// MsgIncorrectPassword is flashed when the password does not match.
	MsgIncorrectPassword = "Incorrect password"

	// MsgInvalidLogin is the fallback login failure message.
	MsgInvalidLogin = "Invalid login"

	// MsgNoPasswordSet is returned when an account has no stored password hash.
	MsgNoPasswordSet = "No password set for this user"

	// MsgAccessDenied indicates that the user lacks permission for the requested action.
	MsgAccessDenied = "You don't have permission to access this resource"

	// MsgInternalServerError provides a generic server error message.
	MsgInternalServerError = "An internal server error occurred"

	// MsgUpstreamFailure is shown when a store, hasher or mail call fails.
	MsgUpstreamFailure = "A required service failed while processing your request"

	// MsgInvalidToken is flashed when a reset token does not resolve.
	MsgInvalidToken = "Token not valid"

	// MsgPasswordsMustMatch is flashed when password and confirmation differ.
	MsgPasswordsMustMatch = "Both password fields need to be the same, please try again"

	// MsgNoAccountFound is flashed when a reset is requested for an unknown email.
	MsgNoAccountFound = "No account found with that email address"

	// MsgCheckEmail is flashed after a reset email has been sent.
	MsgCheckEmail = "Please check your email for a link to reset your password"

	// MsgPasswordChanged is flashed after a successful reset.
	MsgPasswordChanged = `Password successfully changed - <a href="/login">click here to login</a>`

	// MsgRequestBodyTooLarge indicates that the request payload exceeds size limits.
	MsgRequestBodyTooLarge = "Request body too large"

	// MsgEmptyRequestBody indicates that a request body was expected but not provided.
	MsgEmptyRequestBody = "Request body must not be empty"

	// MsgMalformedJSON indicates that the request body contains invalid JSON.
	MsgMalformedJSON = "Request body contains malformed JSON"

	// MsgResourceNotFound indicates that the requested resource does not exist.
	MsgResourceNotFound = "The requested resource could not be found"

	// MsgResourceAlreadyExists indicates a duplicate resource conflict.
	MsgResourceAlreadyExists = "A resource with the same unique identifier already exists"

	// MsgTooManyRequests is returned by the rate limiter.
	MsgTooManyRequests = "Rate limit exceeded. Please try again later."
)

// Logger Constants define values used for structured logging.
const (
	// LogCategoryAuth is the log category for authentication-related events.
	LogCategoryAuth = "auth"

	// LogEventLogin is the log event type for user login.
	LogEventLogin = "login"

	// LogEventLogout is the log event type for user logout.
	LogEventLogout = "logout"

	// LogEventPasswordReset is the log event type for reset requests and completions.
	LogEventPasswordReset = "password_reset"

	// MaxLoggedUserAgentLength caps the user agent written to request logs.
	MaxLoggedUserAgentLength = 256

	// LogRedactedValue is used to replace sensitive values in logs.
	LogRedactedValue = "[REDACTED]"
)
