// Package constants provides shared constant values used throughout the application.
//
// The httpcodes.go file defines response codes, headers and content types used
// by the JSON envelope and the security middleware.
package constants

// API Response Codes are the machine-readable codes placed in error envelopes.
const (
	// CodeBadRequest indicates a malformed request.
	CodeBadRequest = "bad_request"

	// CodeUnauthorized indicates the request is missing a valid session.
	CodeUnauthorized = "unauthorized"

	// CodeForbidden indicates the subject lacks the required role.
	CodeForbidden = "forbidden"

	// CodeNotFound indicates the requested resource does not exist.
	CodeNotFound = "not_found"

	// CodeMethodNotAllowed indicates the HTTP method is not allowed for the endpoint.
	CodeMethodNotAllowed = "method_not_allowed"

	// CodeConflict indicates a duplicate entry.
	CodeConflict = "conflict"

	// CodeInternalError indicates an unexpected server error.
	CodeInternalError = "internal_error"

	// CodeValidationError indicates request validation failed.
	CodeValidationError = "validation_error"

	// CodeInvalidCredentials indicates the email or password was wrong.
	CodeInvalidCredentials = "invalid_credentials"

	// CodeNoPasswordSet indicates the account cannot log in with a password.
	CodeNoPasswordSet = "no_password_set"

	// CodeTokenInvalid indicates a reset token or session cookie did not resolve.
	CodeTokenInvalid = "token_invalid"

	// CodeValidationMismatch indicates the password confirmation differed.
	CodeValidationMismatch = "validation_mismatch"

	// CodeAccountNotFound indicates no account matched a reset request.
	CodeAccountNotFound = "account_not_found"

	// CodeUpstreamFailure indicates a store, hasher or mail failure.
	CodeUpstreamFailure = "upstream_failure"

	// CodeRateLimited indicates the client exceeded its request budget.
	CodeRateLimited = "rate_limited"

	// CodeServiceUnavailable indicates a dependency such as the database is down.
	CodeServiceUnavailable = "service_unavailable"
)

// HTTP Header Names define common HTTP headers used in requests and responses.
const (
	HeaderContentType           = "Content-Type"
	HeaderCacheControl          = "Cache-Control"
	HeaderPragma                = "Pragma"
	HeaderExpires               = "Expires"
	HeaderLocation              = "Location"
	HeaderXContentTypeOptions   = "X-Content-Type-Options"
	HeaderXFrameOptions         = "X-Frame-Options"
	HeaderXXSSProtection        = "X-XSS-Protection"
	HeaderReferrerPolicy        = "Referrer-Policy"
	HeaderContentSecurityPolicy = "Content-Security-Policy"
	HeaderRetryAfter            = "Retry-After"
)

// HTTP Content Types define media types used in the Content-Type header.
const (
	ContentTypeJSON = "application/json"
	ContentTypeForm = "application/x-www-form-urlencoded"
)

// Security Header Values implement the headers set on every response.
const (
	FrameOptionsDeny           = "DENY"
	XSSProtectionModeBlock     = "1; mode=block"
	ContentTypeOptionsNoSniff  = "nosniff"
	ReferrerPolicyStrictOrigin = "strict-origin-when-cross-origin"
	CSPDefaultSrc              = "default-src 'self'"
	CacheControlNoStore        = "no-cache, no-store, must-revalidate"
	PragmaNoCache              = "no-cache"
	ExpiresZero                = "0"
)
