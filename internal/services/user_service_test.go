package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaswanthKSnjit/IS601-final/internal/models"
	pkglogger "github.com/JaswanthKSnjit/IS601-final/pkg/logger"
)

func newTestUserService(repo UserRepository) *UserService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewUserService(repo, logger, pkglogger.NewAuditLogger(logger))
}

func claimsFor(userID string, role models.Role) *models.TokenClaims {
	return &models.TokenClaims{
		Type:   models.TokenTypeAccess,
		UserID: userID,
		Email:  userID + "@example.com",
		Role:   role,
	}
}

func TestUserService_GetUser_Access(t *testing.T) {
	target := NewTestUser("user_2", "bob@example.com", models.RoleAuthenticated)
	repo := &MockUserRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.User, error) {
			if id == target.ID {
				return target, nil
			}
			return nil, models.ErrNotFound
		},
	}
	svc := newTestUserService(repo)

	tests := []struct {
		name    string
		caller  *models.TokenClaims
		wantErr error
	}{
		{"self access", claimsFor("user_2", models.RoleAuthenticated), nil},
		{"other authenticated user", claimsFor("user_1", models.RoleAuthenticated), models.ErrForbidden},
		{"manager", claimsFor("user_9", models.RoleManager), nil},
		{"admin", claimsFor("user_9", models.RoleAdmin), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := svc.GetUser(context.Background(), tt.caller, target.ID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, target.ID, user.ID)
		})
	}
}

func TestUserService_ListUsers_Access(t *testing.T) {
	repo := &MockUserRepository{
		ListFunc: func(ctx context.Context, limit, offset int) ([]*models.User, error) {
			return []*models.User{NewTestUser("user_1", "a@example.com", models.RoleAuthenticated)}, nil
		},
	}
	svc := newTestUserService(repo)

	_, err := svc.ListUsers(context.Background(), claimsFor("user_1", models.RoleAuthenticated), 10, 0)
	assert.ErrorIs(t, err, models.ErrForbidden)

	users, err := svc.ListUsers(context.Background(), claimsFor("user_9", models.RoleManager), 10, 0)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	_, err = svc.ListUsers(context.Background(), claimsFor("user_9", models.RoleAdmin), 10, 0)
	assert.NoError(t, err)
}

func TestUserService_ListUsers_ClampsLimit(t *testing.T) {
	var gotLimit int
	repo := &MockUserRepository{
		ListFunc: func(ctx context.Context, limit, offset int) ([]*models.User, error) {
			gotLimit = limit
			return nil, nil
		},
	}
	svc := newTestUserService(repo)

	_, err := svc.ListUsers(context.Background(), claimsFor("user_9", models.RoleAdmin), 10000, 0)
	require.NoError(t, err)
	assert.Equal(t, 50, gotLimit)
}

func TestUserService_UpdateUser_EmailChangeUnverifies(t *testing.T) {
	target := NewTestUser("user_2", "bob@example.com", models.RoleAuthenticated)

	repo := &MockUserRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.User, error) {
			return target, nil
		},
		UpdateFunc: func(ctx context.Context, id string, user *models.User) (*models.User, error) {
			return user, nil
		},
	}
	svc := newTestUserService(repo)

	newEmail := "bob-new@example.com"
	updated, err := svc.UpdateUser(context.Background(), claimsFor("user_2", models.RoleAuthenticated),
		target.ID, &ProfileUpdate{Email: &newEmail})

	require.NoError(t, err)
	assert.Equal(t, newEmail, updated.Email)
	assert.False(t, updated.EmailVerified)
}

func TestUserService_UpdateUser_SelfElevationIgnored(t *testing.T) {
	target := NewTestUser("user_2", "bob@example.com", models.RoleAuthenticated)

	repo := &MockUserRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.User, error) {
			return target, nil
		},
		UpdateFunc: func(ctx context.Context, id string, user *models.User) (*models.User, error) {
			return user, nil
		},
	}
	svc := newTestUserService(repo)

	admin := models.RoleAdmin
	updated, err := svc.UpdateUser(context.Background(), claimsFor("user_2", models.RoleAuthenticated),
		target.ID, &ProfileUpdate{Role: &admin})

	require.NoError(t, err)
	assert.Equal(t, models.RoleAuthenticated, updated.Role)
}

func TestUserService_UpdateUser_ManagerCannotWriteOtherAccounts(t *testing.T) {
	target := NewTestUser("user_2", "bob@example.com", models.RoleAuthenticated)

	repo := &MockUserRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.User, error) {
			return target, nil
		},
		UpdateFunc: func(ctx context.Context, id string, user *models.User) (*models.User, error) {
			t.Fatal("update must not be attempted for a forbidden caller")
			return nil, nil
		},
	}
	svc := newTestUserService(repo)

	bio := "edited by a manager"
	_, err := svc.UpdateUser(context.Background(), claimsFor("mgr_1", models.RoleManager),
		target.ID, &ProfileUpdate{Bio: &bio})

	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestUserService_UpdateUser_ManagerSelfElevationIgnored(t *testing.T) {
	target := NewTestUser("mgr_1", "mgr@example.com", models.RoleManager)

	repo := &MockUserRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.User, error) {
			return target, nil
		},
		UpdateFunc: func(ctx context.Context, id string, user *models.User) (*models.User, error) {
			return user, nil
		},
	}
	svc := newTestUserService(repo)

	admin := models.RoleAdmin
	updated, err := svc.UpdateUser(context.Background(), claimsFor("mgr_1", models.RoleManager),
		target.ID, &ProfileUpdate{Role: &admin})

	require.NoError(t, err)
	assert.Equal(t, models.RoleManager, updated.Role)
}

func TestUserService_UpdateUser_AdminRoleChange(t *testing.T) {
	target := NewTestUser("user_2", "bob@example.com", models.RoleAuthenticated)

	repo := &MockUserRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.User, error) {
			return target, nil
		},
		UpdateFunc: func(ctx context.Context, id string, user *models.User) (*models.User, error) {
			return user, nil
		},
	}
	svc := newTestUserService(repo)

	manager := models.RoleManager
	updated, err := svc.UpdateUser(context.Background(), claimsFor("user_9", models.RoleAdmin),
		target.ID, &ProfileUpdate{Role: &manager})

	require.NoError(t, err)
	assert.Equal(t, models.RoleManager, updated.Role)

	bogus := models.Role("SUPERUSER")
	_, err = svc.UpdateUser(context.Background(), claimsFor("user_9", models.RoleAdmin),
		target.ID, &ProfileUpdate{Role: &bogus})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestUserService_DeleteUser_AdminOnly(t *testing.T) {
	deleted := false
	repo := &MockUserRepository{
		DeleteFunc: func(ctx context.Context, id string) error {
			deleted = true
			return nil
		},
	}
	svc := newTestUserService(repo)

	// Delete is never self-scoped: even the account owner needs the
	// admin capability
	err := svc.DeleteUser(context.Background(), claimsFor("user_2", models.RoleAuthenticated), "user_2")
	assert.ErrorIs(t, err, models.ErrForbidden)

	err = svc.DeleteUser(context.Background(), claimsFor("user_9", models.RoleManager), "user_2")
	assert.ErrorIs(t, err, models.ErrForbidden)
	assert.False(t, deleted)

	err = svc.DeleteUser(context.Background(), claimsFor("user_9", models.RoleAdmin), "user_2")
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestUserService_UnlockUser(t *testing.T) {
	unlocked := false
	repo := &MockUserRepository{
		UnlockFunc: func(ctx context.Context, id string) error {
			unlocked = true
			return nil
		},
	}
	svc := newTestUserService(repo)

	err := svc.UnlockUser(context.Background(), claimsFor("user_9", models.RoleManager), "user_2")
	assert.ErrorIs(t, err, models.ErrForbidden)
	assert.False(t, unlocked)

	err = svc.UnlockUser(context.Background(), claimsFor("user_9", models.RoleAdmin), "user_2")
	require.NoError(t, err)
	assert.True(t, unlocked)
}
