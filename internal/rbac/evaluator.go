package rbac

import "slices"

// HasPermission reports whether role may use the screen or action named by
// key. SUPERVISOR additionally receives every key granted to ADMIN.
// Unknown keys, unknown roles and the empty role are denied.
func HasPermission(role Role, key PermissionKey) bool {
	if role == "" {
		return false
	}
	allowed, ok := permissionTable[key]
	if !ok {
		return false
	}
	if slices.Contains(allowed, role) {
		return true
	}
	return role == RoleSupervisor && slices.Contains(allowed, RoleAdmin)
}

// HasRole checks current against a single required role, expanding the
// hierarchy: SUPERVISOR satisfies ADMIN, ADMIN and SUPERVISOR satisfy
// FITTER and SUPPLIER, and every authenticated role satisfies USER.
func HasRole(current Role, required Role) bool {
	if current == "" || !current.Valid() {
		return false
	}
	if current == required {
		return true
	}
	switch required {
	case RoleAdmin:
		return current == RoleSupervisor
	case RoleFitter, RoleSupplier:
		return current == RoleAdmin || current == RoleSupervisor
	case RoleUser:
		return true
	}
	return false
}

// HasAnyRole checks literal membership of current in required. Unlike
// HasRole it applies no hierarchy: HasAnyRole(ADMIN, {USER, FITTER}) is
// false while HasRole(ADMIN, FITTER) is true.
func HasAnyRole(current Role, required []Role) bool {
	if current == "" {
		return false
	}
	return slices.Contains(required, current)
}

// Screens evaluates every permission key for role.
func Screens(role Role) map[PermissionKey]bool {
	out := make(map[PermissionKey]bool, len(permissionTable))
	for key := range permissionTable {
		out[key] = HasPermission(role, key)
	}
	return out
}
