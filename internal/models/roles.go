package models

// Role is the privilege tier assigned to an account.
type Role string

const (
	RoleAnonymous     Role = "ANONYMOUS"
	RoleAuthenticated Role = "AUTHENTICATED"
	RoleManager       Role = "MANAGER"
	RoleAdmin         Role = "ADMIN"
)

// IsValidRole checks a role against the fixed enumeration
func IsValidRole(r Role) bool {
	switch r {
	case RoleAnonymous, RoleAuthenticated, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// Permission identifies an operation category gated by role
type Permission string

const (
	PermManageAllUsers   Permission = "users.manage_all" // list, read any account
	PermModifyUsers      Permission = "users.modify_all" // update any account, assign roles
	PermDeleteUsers      Permission = "users.delete"
	PermUnlockAccounts   Permission = "users.unlock"
	PermViewAnalytics    Permission = "analytics.view"
	PermManageOwnProfile Permission = "users.manage_own"
)

// rolePermissions is the static capability table. Every authorization
// decision in the system goes through this table; anything not listed
// here is denied.
var rolePermissions = map[Role]map[Permission]bool{
	RoleAnonymous: {},
	RoleAuthenticated: {
		PermManageOwnProfile: true,
	},
	RoleManager: {
		PermManageOwnProfile: true,
		PermManageAllUsers:   true,
		PermViewAnalytics:    true,
	},
	RoleAdmin: {
		PermManageOwnProfile: true,
		PermManageAllUsers:   true,
		PermModifyUsers:      true,
		PermViewAnalytics:    true,
		PermDeleteUsers:      true,
		PermUnlockAccounts:   true,
	},
}

// selfEquivalent maps a cross-account permission to the self-scoped
// permission that substitutes for it when the caller owns the resource.
// Deletion and unlock have no self-scoped equivalent.
var selfEquivalent = map[Permission]Permission{
	PermManageAllUsers: PermManageOwnProfile,
	PermModifyUsers:    PermManageOwnProfile,
}

// Can reports whether a role's capability set covers a permission.
func Can(role Role, perm Permission) bool {
	perms, ok := rolePermissions[role]
	if !ok {
		return false
	}
	return perms[perm]
}

// CanAccess evaluates (caller role, permission, caller id, resource owner id).
// Access is granted when the role's capability set covers the permission, or
// when the caller owns the resource and holds the self-scoped equivalent.
// Unknown roles and unknown permissions deny.
func CanAccess(role Role, perm Permission, callerID, ownerID string) bool {
	if Can(role, perm) {
		return true
	}
	if callerID == "" || callerID != ownerID {
		return false
	}
	self, ok := selfEquivalent[perm]
	if !ok {
		return false
	}
	return Can(role, self)
}
