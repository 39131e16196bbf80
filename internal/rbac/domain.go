package rbac

import "strings"

// Role is the coarse authorization category assigned at login.
type Role string

// Known roles. The zero value means no authenticated role.
const (
	RoleUser       Role = "USER"
	RoleFitter     Role = "FITTER"
	RoleSupplier   Role = "SUPPLIER"
	RoleAdmin      Role = "ADMIN"
	RoleSupervisor Role = "SUPERVISOR"
)

var allRoles = []Role{RoleUser, RoleFitter, RoleSupplier, RoleAdmin, RoleSupervisor}

// AllRoles returns every known role in ascending privilege order.
func AllRoles() []Role {
	out := make([]Role, len(allRoles))
	copy(out, allRoles)
	return out
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	for _, known := range allRoles {
		if r == known {
			return true
		}
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// ParseRole normalises s into a known Role.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", false
	}
	return r, true
}

// AuthenticatedUser describes the caller as supplied by the auth layer.
type AuthenticatedUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// Can evaluates a permission key for the user. A nil user is denied.
func (u *AuthenticatedUser) Can(key PermissionKey) bool {
	if u == nil {
		return false
	}
	return HasPermission(u.Role, key)
}
