package authz

import (
	"net/http"

	"go-faceattend/internal/shared/apperror"
)

// Role is a closed set. Capability checks go through Satisfies so an identity
// can never carry a contradictory combination of privilege flags.
type Role string

const (
	RoleUser        Role = "USER"
	RoleAdmin       Role = "ADMIN"
	RoleMasterAdmin Role = "MASTER_ADMIN"
)

var roleRank = map[Role]int{
	RoleUser:        1,
	RoleAdmin:       2,
	RoleMasterAdmin: 3,
}

func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", apperror.New(apperror.CodeInvalidInput, "Unknown role: "+s, http.StatusBadRequest)
	}
	return r, nil
}

func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// Satisfies reports whether r carries at least the capabilities of required.
// A master admin satisfies every admin-gated check.
func (r Role) Satisfies(required Role) bool {
	return roleRank[r] >= roleRank[required] && roleRank[r] > 0 && roleRank[required] > 0
}

// IsAdminClass reports whether the role carries a password credential.
func (r Role) IsAdminClass() bool {
	return r == RoleAdmin || r == RoleMasterAdmin
}
