package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidRole(t *testing.T) {
	assert.True(t, IsValidRole(RoleAnonymous))
	assert.True(t, IsValidRole(RoleAuthenticated))
	assert.True(t, IsValidRole(RoleManager))
	assert.True(t, IsValidRole(RoleAdmin))
	assert.False(t, IsValidRole(Role("SUPERUSER")))
	assert.False(t, IsValidRole(Role("")))
}

func TestCan(t *testing.T) {
	assert.True(t, Can(RoleAdmin, PermDeleteUsers))
	assert.True(t, Can(RoleAdmin, PermUnlockAccounts))
	assert.True(t, Can(RoleAdmin, PermModifyUsers))
	assert.True(t, Can(RoleManager, PermManageAllUsers))
	assert.True(t, Can(RoleManager, PermViewAnalytics))
	assert.False(t, Can(RoleManager, PermModifyUsers))
	assert.False(t, Can(RoleManager, PermDeleteUsers))
	assert.False(t, Can(RoleAuthenticated, PermManageAllUsers))
	assert.True(t, Can(RoleAuthenticated, PermManageOwnProfile))
	assert.False(t, Can(RoleAnonymous, PermManageOwnProfile))
}

func TestCan_FailClosed(t *testing.T) {
	// Unknown roles and unknown permissions always deny
	assert.False(t, Can(Role("SUPERUSER"), PermManageAllUsers))
	assert.False(t, Can(RoleAdmin, Permission("users.reboot")))
}

func TestCanAccess_SelfScope(t *testing.T) {
	// An authenticated user may manage their own profile but nobody else's
	assert.True(t, CanAccess(RoleAuthenticated, PermManageAllUsers, "u1", "u1"))
	assert.False(t, CanAccess(RoleAuthenticated, PermManageAllUsers, "u1", "u2"))

	// Managers and admins pass on the capability bit alone
	assert.True(t, CanAccess(RoleManager, PermManageAllUsers, "m1", "u2"))
	assert.True(t, CanAccess(RoleAdmin, PermManageAllUsers, "a1", "u2"))
}

func TestCanAccess_ModifyRequiresAdminCrossAccount(t *testing.T) {
	// Managers may read any account but only write their own
	assert.True(t, CanAccess(RoleManager, PermModifyUsers, "m1", "m1"))
	assert.False(t, CanAccess(RoleManager, PermModifyUsers, "m1", "u2"))
	assert.True(t, CanAccess(RoleAdmin, PermModifyUsers, "a1", "u2"))
}

func TestCanAccess_DeleteNotSelfScoped(t *testing.T) {
	// Deletion has no self-scoped equivalent: owning the account is not enough
	assert.False(t, CanAccess(RoleAuthenticated, PermDeleteUsers, "u1", "u1"))
	assert.False(t, CanAccess(RoleManager, PermDeleteUsers, "m1", "m1"))
	assert.True(t, CanAccess(RoleAdmin, PermDeleteUsers, "a1", "u2"))
}

func TestCanAccess_EmptyCallerDenied(t *testing.T) {
	assert.False(t, CanAccess(RoleAuthenticated, PermManageAllUsers, "", ""))
}
