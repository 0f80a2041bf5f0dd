package utils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yasinhessnawi1/inkwell-users/internal/utils"
)

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ann@example.com", "ann@example.com"},
		{"  Ann@Example.COM \n", "ann@example.com"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, utils.NormalizeEmail(tt.in))
		})
	}
}

func TestFormatInt64(t *testing.T) {
	assert.Equal(t, "0", utils.FormatInt64(0))
	assert.Equal(t, "-12", utils.FormatInt64(-12))
	assert.Equal(t, "9223372036854775807", utils.FormatInt64(9223372036854775807))
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "1 session", utils.Plural(1, "session"))
	assert.Equal(t, "0 sessions", utils.Plural(0, "session"))
	assert.Equal(t, "3 tokens", utils.Plural(3, "token"))
}

func TestMaskEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  string
	}{
		{"regular", "user@example.com", "u**r@example.com"},
		{"short user part", "ab@example.com", "ab@example.com"},
		{"not an email", "nobody", "nobody"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, utils.MaskEmail(tt.email))
		})
	}
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", utils.TruncateString("short", 10))
	assert.Equal(t, "Mozilla...", utils.TruncateString("Mozilla/5.0 (X11; Linux)", 10))
	assert.Equal(t, "ab", utils.TruncateString("abcdef", 2))
}
