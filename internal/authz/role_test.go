package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRole_Satisfies(t *testing.T) {
	cases := []struct {
		name     string
		role     Role
		required Role
		want     bool
	}{
		{"user satisfies user", RoleUser, RoleUser, true},
		{"user does not satisfy admin", RoleUser, RoleAdmin, false},
		{"user does not satisfy master", RoleUser, RoleMasterAdmin, false},
		{"admin satisfies user", RoleAdmin, RoleUser, true},
		{"admin satisfies admin", RoleAdmin, RoleAdmin, true},
		{"admin does not satisfy master", RoleAdmin, RoleMasterAdmin, false},
		{"master satisfies user", RoleMasterAdmin, RoleUser, true},
		{"master satisfies admin", RoleMasterAdmin, RoleAdmin, true},
		{"master satisfies master", RoleMasterAdmin, RoleMasterAdmin, true},
		{"unknown role satisfies nothing", Role("MANAGER"), RoleUser, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.role.Satisfies(tc.required))
		})
	}
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole("MASTER_ADMIN")
	assert.NoError(t, err)
	assert.Equal(t, RoleMasterAdmin, r)

	_, err = ParseRole("SUPERUSER")
	assert.Error(t, err)
}

func TestRole_IsAdminClass(t *testing.T) {
	assert.False(t, RoleUser.IsAdminClass())
	assert.True(t, RoleAdmin.IsAdminClass())
	assert.True(t, RoleMasterAdmin.IsAdminClass())
}
