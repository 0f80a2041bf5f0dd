// Package utils provides utility functions and helpers for the application.
// This file implements the JSON envelope every endpoint responds with.
//
// Successful responses carry the view model in Data; failures carry an
// ErrorInfo with a machine-readable code. Handlers never write JSON directly.
package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/inkwell-users/internal/constants"
)

// Response represents a standardized API response.
type Response struct {
	Success bool        `json:"success"`         // Whether the request was successful
	Data    interface{} `json:"data,omitempty"`  // The response data (omitted for error responses)
	Error   *ErrorInfo  `json:"error,omitempty"` // Error information (omitted for successful responses)
}

// ErrorInfo represents error information in the response.
type ErrorInfo struct {
	Code    string            `json:"code"`              // A machine-readable error code
	Message string            `json:"message"`           // A human-readable error message
	Details map[string]string `json:"details,omitempty"` // Additional details, keyed by field
}

// JSON sends a JSON response with the given status code and data.
// The success flag is derived from the status code.
func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	response := Response{
		Success: statusCode >= 200 && statusCode < 300,
		Data:    data,
	}

	SendJSON(w, statusCode, response)
}

// Error sends an error response with the given status code and error information.
//
// Parameters:
//   - w: The HTTP response writer
//   - statusCode: The HTTP status code
//   - code: A machine-readable error code
//   - message: A human-readable error message
//   - details: Additional details about the error (e.g., validation errors)
func Error(w http.ResponseWriter, statusCode int, code, message string, details map[string]string) {
	response := Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
			Details: details,
		},
	}

	SendJSON(w, statusCode, response)
}

// ErrorFromAppError sends an error response based on an AppError.
//
// The error code is derived from the sentinel the AppError wraps; a field,
// when present, is echoed in the details map.
func ErrorFromAppError(w http.ResponseWriter, err *AppError) {
	var details map[string]string
	if err.Field != "" {
		details = map[string]string{
			err.Field: err.Message,
		}
	}

	Error(w, err.StatusCode, ErrorCode(err), err.Message, details)
}

// ErrorCode maps an error to the machine-readable code used in responses.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return constants.CodeNotFound
	case errors.Is(err, ErrBadRequest):
		return constants.CodeBadRequest
	case errors.Is(err, ErrUnauthorized):
		return constants.CodeUnauthorized
	case errors.Is(err, ErrForbidden):
		return constants.CodeForbidden
	case errors.Is(err, ErrValidation):
		return constants.CodeValidationError
	case errors.Is(err, ErrDuplicate):
		return constants.CodeConflict
	case errors.Is(err, ErrIncorrectEmail), errors.Is(err, ErrIncorrectPassword):
		return constants.CodeInvalidCredentials
	case errors.Is(err, ErrNoPasswordSet):
		return constants.CodeNoPasswordSet
	case errors.Is(err, ErrInvalidToken):
		return constants.CodeTokenInvalid
	case errors.Is(err, ErrValidationMismatch):
		return constants.CodeValidationMismatch
	case errors.Is(err, ErrAccountNotFound):
		return constants.CodeAccountNotFound
	case errors.Is(err, ErrUpstream):
		return constants.CodeUpstreamFailure
	}
	return constants.CodeInternalError
}

// SendJSON is a helper function to send JSON data with proper headers.
// This handles JSON marshaling and error handling for all response types.
func SendJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal JSON response")
		w.Header().Set(constants.HeaderContentType, constants.ContentTypeJSON)
		w.WriteHeader(http.StatusInternalServerError)
		if _, err := w.Write([]byte(`{"success":false,"error":{"code":"internal_error","message":"Failed to generate response"}}`)); err != nil {
			log.Error().Err(err).Msg("Failed to write error response")
		}
		return
	}

	w.Header().Set(constants.HeaderContentType, constants.ContentTypeJSON)
	w.WriteHeader(statusCode)

	if _, err := w.Write(jsonData); err != nil {
		log.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// NotFound sends a 404 Not Found response with the given message.
func NotFound(w http.ResponseWriter, message string) {
	if message == "" {
		message = constants.MsgResourceNotFound
	}
	Error(w, http.StatusNotFound, constants.CodeNotFound, message, nil)
}

// MethodNotAllowed sends a 405 Method Not Allowed response.
func MethodNotAllowed(w http.ResponseWriter) {
	Error(w, http.StatusMethodNotAllowed, constants.CodeMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed), nil)
}

// TooManyRequests sends a 429 response with a Retry-After hint in seconds.
func TooManyRequests(w http.ResponseWriter, retryAfterSeconds int) {
	if retryAfterSeconds > 0 {
		w.Header().Set(constants.HeaderRetryAfter, strconv.Itoa(retryAfterSeconds))
	}
	Error(w, http.StatusTooManyRequests, constants.CodeRateLimited, constants.MsgTooManyRequests, nil)
}

