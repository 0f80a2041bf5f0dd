package utils

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"github.com/yasinhessnawi1/inkwell-users/internal/constants"
)

// Custom error types for the application
var (
	ErrNotFound           = errors.New(constants.ErrorNotFound)
	ErrUnauthorized       = errors.New(constants.ErrorUnauthorized)
	ErrForbidden          = errors.New(constants.ErrorForbidden)
	ErrBadRequest         = errors.New(constants.ErrorBadRequest)
	ErrInternalServer     = errors.New(constants.ErrorInternalServer)
	ErrValidation         = errors.New(constants.ErrorValidation)
	ErrDuplicate          = errors.New(constants.ErrorDuplicate)
	ErrIncorrectEmail     = errors.New(constants.ErrorIncorrectEmail)
	ErrIncorrectPassword  = errors.New(constants.ErrorIncorrectPassword)
	ErrNoPasswordSet      = errors.New(constants.ErrorNoPasswordSet)
	ErrInvalidToken       = errors.New(constants.ErrorInvalidToken)
	ErrValidationMismatch = errors.New(constants.ErrorValidationMismatch)
	ErrUpstream           = errors.New(constants.ErrorUpstream)
	ErrAccountNotFound    = errors.New(constants.ErrorAccountNotFound)
)

// AppError represents an application error with additional context
type AppError struct {
	Err        error  // The underlying error
	StatusCode int    // HTTP status code
	Message    string // User-friendly error message
	DevInfo    string // Additional information for developers
	Field      string // Field related to the error (for validation errors)
	Details    map[string]any
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with the given error and status code
func New(err error, statusCode int, message string) *AppError {
	return &AppError{
		Err:        err,
		StatusCode: statusCode,
		Message:    message,
	}
}

// NewValidationError creates a new validation error for a specific field
func NewValidationError(field, message string) *AppError {
	return &AppError{
		Err:        ErrValidation,
		StatusCode: http.StatusBadRequest,
		Message:    message,
		Field:      field,
	}
}

// NewBadRequestError creates a new bad request error
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Err:        ErrBadRequest,
		StatusCode: http.StatusBadRequest,
		Message:    message,
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resourceType string, identifier interface{}) *AppError {
	return &AppError{
		Err:        ErrNotFound,
		StatusCode: http.StatusNotFound,
		Message:    fmt.Sprintf("%s with identifier '%v' not found", resourceType, identifier),
	}
}

// NewUnauthorizedError creates a new unauthorized error
func NewUnauthorizedError(message string) *AppError {
	if message == "" {
		message = constants.MsgAuthRequired
	}
	return &AppError{
		Err:        ErrUnauthorized,
		StatusCode: http.StatusUnauthorized,
		Message:    message,
	}
}

// NewForbiddenError creates a new forbidden error
func NewForbiddenError(message string) *AppError {
	if message == "" {
		message = constants.MsgAccessDenied
	}
	return &AppError{
		Err:        ErrForbidden,
		StatusCode: http.StatusForbidden,
		Message:    message,
	}
}

// NewInternalServerError creates a new internal server error
func NewInternalServerError(err error) *AppError {
	devInfo := ""
	if err != nil {
		devInfo = err.Error()
	}
	return &AppError{
		Err:        ErrInternalServer,
		StatusCode: http.StatusInternalServerError,
		Message:    constants.MsgInternalServerError,
		DevInfo:    devInfo,
	}
}

// NewDuplicateError creates a new duplicate resource error
func NewDuplicateError(resourceType, field string, value interface{}) *AppError {
	return &AppError{
		Err:        ErrDuplicate,
		StatusCode: http.StatusConflict,
		Message:    fmt.Sprintf("%s with %s '%v' already exists", resourceType, field, value),
		Field:      field,
	}
}

// NewIncorrectEmailError is returned when no account matches a login email.
func NewIncorrectEmailError() *AppError {
	return &AppError{
		Err:        ErrIncorrectEmail,
		StatusCode: http.StatusUnauthorized,
		Message:    constants.MsgIncorrectEmail,
		Field:      "email",
	}
}

// NewIncorrectPasswordError is returned when a password does not match.
func NewIncorrectPasswordError() *AppError {
	return &AppError{
		Err:        ErrIncorrectPassword,
		StatusCode: http.StatusUnauthorized,
		Message:    constants.MsgIncorrectPassword,
		Field:      "password",
	}
}

// NewNoPasswordSetError is returned for accounts without a stored hash.
func NewNoPasswordSetError() *AppError {
	return &AppError{
		Err:        ErrNoPasswordSet,
		StatusCode: http.StatusUnauthorized,
		Message:    constants.MsgNoPasswordSet,
	}
}

// NewInvalidTokenError is returned when a reset token does not resolve.
func NewInvalidTokenError() *AppError {
	return &AppError{
		Err:        ErrInvalidToken,
		StatusCode: http.StatusBadRequest,
		Message:    constants.MsgInvalidToken,
	}
}

// NewValidationMismatchError is returned when a password and its confirmation differ.
func NewValidationMismatchError() *AppError {
	return &AppError{
		Err:        ErrValidationMismatch,
		StatusCode: http.StatusBadRequest,
		Message:    constants.MsgPasswordsMustMatch,
		Field:      "confirm",
	}
}

// NewAccountNotFoundError is returned when a reset is requested for an unknown email.
func NewAccountNotFoundError() *AppError {
	return &AppError{
		Err:        ErrAccountNotFound,
		StatusCode: http.StatusNotFound,
		Message:    constants.MsgNoAccountFound,
		Field:      "email",
	}
}

// NewUpstreamError wraps a failure from the store, hasher or mail provider.
func NewUpstreamError(operation string, err error) *AppError {
	devInfo := operation
	if err != nil {
		devInfo = fmt.Sprintf("%s: %v", operation, err)
	}
	return &AppError{
		Err:        fmt.Errorf("%w: %s", ErrUpstream, devInfo),
		StatusCode: http.StatusInternalServerError,
		Message:    constants.MsgUpstreamFailure,
		DevInfo:    devInfo,
	}
}

// ParseError attempts to parse various types of errors into an AppError
func ParseError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return NewNotFoundError("Resource", "")
	case errors.Is(err, ErrUnauthorized):
		return NewUnauthorizedError("")
	case errors.Is(err, ErrForbidden):
		return NewForbiddenError("")
	case errors.Is(err, ErrBadRequest):
		return NewBadRequestError(err.Error())
	case errors.Is(err, ErrValidation):
		return NewValidationError("", err.Error())
	case errors.Is(err, ErrDuplicate):
		return NewDuplicateError("Resource", "", "")
	case errors.Is(err, ErrIncorrectEmail):
		return NewIncorrectEmailError()
	case errors.Is(err, ErrIncorrectPassword):
		return NewIncorrectPasswordError()
	case errors.Is(err, ErrNoPasswordSet):
		return NewNoPasswordSetError()
	case errors.Is(err, ErrInvalidToken):
		return NewInvalidTokenError()
	case errors.Is(err, ErrValidationMismatch):
		return NewValidationMismatchError()
	case errors.Is(err, ErrAccountNotFound):
		return NewAccountNotFoundError()
	case errors.Is(err, ErrUpstream):
		return NewUpstreamError("", err)
	}

	if dup := duplicateFromDriver(err); dup != nil {
		return dup
	}

	errMsg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errMsg, "duplicate key") || strings.Contains(errMsg, "unique constraint"):
		return &AppError{
			Err:        ErrDuplicate,
			StatusCode: http.StatusConflict,
			Message:    constants.MsgResourceAlreadyExists,
			DevInfo:    err.Error(),
		}
	case strings.Contains(errMsg, "no rows"):
		return &AppError{
			Err:        ErrNotFound,
			StatusCode: http.StatusNotFound,
			Message:    constants.MsgResourceNotFound,
			DevInfo:    err.Error(),
		}
	}

	return NewInternalServerError(err)
}

// duplicateFromDriver recognises unique violations from lib/pq, pgx and the MySQL driver.
func duplicateFromDriver(err error) *AppError {
	constraint := ""
	devInfo := ""

	var pqErr *pq.Error
	var pgErr *pgconn.PgError
	var myErr *mysql.MySQLError
	switch {
	case errors.As(err, &pqErr) && string(pqErr.Code) == constants.PGErrorDuplicateConstraint:
		constraint, devInfo = pqErr.Constraint, pqErr.Error()
	case errors.As(err, &pgErr) && pgErr.Code == constants.PGErrorDuplicateConstraint:
		constraint, devInfo = pgErr.ConstraintName, pgErr.Error()
	case errors.As(err, &myErr) && myErr.Number == constants.MySQLErrorDuplicateEntry:
		devInfo = myErr.Error()
	default:
		return nil
	}

	field := ""
	if strings.Contains(constraint, "idx_") {
		parts := strings.Split(constraint, "idx_")
		if len(parts) > 1 {
			field = parts[1]
		}
	}
	return &AppError{
		Err:        ErrDuplicate,
		StatusCode: http.StatusConflict,
		Message:    constants.MsgResourceAlreadyExists,
		DevInfo:    devInfo,
		Field:      field,
	}
}

// IsNotFoundError checks if an error is a not found error
func IsNotFoundError(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode == http.StatusNotFound
	}
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if an error is a duplicate resource error
func IsDuplicateError(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode == http.StatusConflict
	}
	return errors.Is(err, ErrDuplicate)
}

// StatusCode returns the HTTP status code for an error
func StatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}
