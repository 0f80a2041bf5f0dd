// Package utils provides utility functions and helpers for common operations
// used throughout the application: error types, the JSON envelope, request
// validation, logging helpers and a few string utilities.
package utils

import (
	"strconv"
	"strings"
)

// NormalizeEmail trims surrounding whitespace and lowercases an email address.
// Lookups and uniqueness checks compare normalized addresses.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// FormatInt64 formats an int64 as a string.
func FormatInt64(i int64) string {
	return strconv.FormatInt(i, 10)
}

// Plural returns a string with the number and the plural form of the word if necessary.
//
// Parameters:
//   - count: the count to determine if singular or plural form is needed
//   - word: the base word in singular form
//
// Returns:
//   - a formatted string with the count and appropriate word form
func Plural(count int, word string) string {
	if count == 1 {
		return strconv.Itoa(count) + " " + word
	}
	return strconv.Itoa(count) + " " + word + "s"
}

// MaskEmail masks the user part of an email address, showing only the first and last character.
//
// For example: "user@example.com" becomes "u**r@example.com"
func MaskEmail(email string) string {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return email
	}

	user := parts[0]
	domain := parts[1]

	if len(user) <= 2 {
		return email
	}

	return string(user[0]) + strings.Repeat("*", len(user)-2) + string(user[len(user)-1]) + "@" + domain
}

// TruncateString truncates a string to the given maximum length and adds ellipsis if necessary.
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
