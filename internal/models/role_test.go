package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yasinhessnawi1/inkwell-users/internal/models"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in   string
		want models.Role
	}{
		{"admin", models.RoleAdmin},
		{" Editor ", models.RoleEditor},
		{"author", models.RoleAuthor},
		{"viewer", models.RoleViewer},
		{"user", models.RoleUser},
		{"superuser", models.RoleNone},
		{"", models.RoleNone},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, models.ParseRole(tt.in))
		})
	}
}

func TestRole_Satisfies(t *testing.T) {
	tests := []struct {
		name     string
		role     models.Role
		required models.Role
		want     bool
	}{
		{"admin satisfies admin", models.RoleAdmin, models.RoleAdmin, true},
		{"admin satisfies editor", models.RoleAdmin, models.RoleEditor, true},
		{"editor satisfies editor", models.RoleEditor, models.RoleEditor, true},
		{"editor does not satisfy admin", models.RoleEditor, models.RoleAdmin, false},
		{"viewer does not satisfy author", models.RoleViewer, models.RoleAuthor, false},
		{"none satisfies nothing", models.RoleNone, models.RoleUser, false},
		{"unknown satisfies nothing", models.Role("root"), models.Role("root"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.role.Satisfies(tt.required))
		})
	}
}
