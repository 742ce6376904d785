package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/JaswanthKSnjit/IS601-final/internal/models"
	pkglogger "github.com/JaswanthKSnjit/IS601-final/pkg/logger"
)

// UserService handles account CRUD behind the authorization gate. Every
// operation takes the caller's claims and evaluates the capability table
// exactly once before touching the store.
type UserService struct {
	repo        UserRepository
	logger      *slog.Logger
	auditLogger *pkglogger.AuditLogger
}

// NewUserService creates a new UserService
func NewUserService(repo UserRepository, logger *slog.Logger, auditLogger *pkglogger.AuditLogger) *UserService {
	return &UserService{
		repo:        repo,
		logger:      logger,
		auditLogger: auditLogger,
	}
}

// ProfileUpdate carries the mutable profile fields. Nil pointers mean
// "leave unchanged".
type ProfileUpdate struct {
	Email              *string
	Nickname           *string
	FirstName          *string
	LastName           *string
	Bio                *string
	GithubProfileURL   *string
	LinkedinProfileURL *string
	Role               *models.Role // admin-only; ignored for other callers
}

// GetUser retrieves an account. Managers and admins may read any account;
// other callers only their own.
func (s *UserService) GetUser(ctx context.Context, caller *models.TokenClaims, id string) (*models.User, error) {
	if !models.CanAccess(caller.Role, models.PermManageAllUsers, caller.UserID, id) {
		return nil, models.ErrForbidden
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get user", slog.String("user_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	return user, nil
}

// ListUsers retrieves a page of accounts, newest first
func (s *UserService) ListUsers(ctx context.Context, caller *models.TokenClaims, limit, offset int) ([]*models.User, error) {
	if !models.Can(caller.Role, models.PermManageAllUsers) {
		return nil, models.ErrForbidden
	}

	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	users, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		s.logger.Error("failed to list users", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	return users, nil
}

// UpdateUser applies a profile update. Cross-account writes require the
// admin-only modify capability; managers keep read and list access but
// may only edit their own profile. Role changes are silently discarded
// for callers without the modify capability: self-elevation must never
// succeed.
func (s *UserService) UpdateUser(ctx context.Context, caller *models.TokenClaims, id string, update *ProfileUpdate) (*models.User, error) {
	if !models.CanAccess(caller.Role, models.PermModifyUsers, caller.UserID, id) {
		return nil, models.ErrForbidden
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get user", slog.String("user_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if update.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*update.Email))
		if email != "" && email != user.Email {
			user.Email = email
			// A changed address needs verifying again
			user.EmailVerified = false
		}
	}
	if update.Nickname != nil && *update.Nickname != "" {
		user.Nickname = *update.Nickname
	}
	if update.FirstName != nil {
		user.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		user.LastName = *update.LastName
	}
	if update.Bio != nil {
		user.Bio = *update.Bio
	}
	if update.GithubProfileURL != nil {
		user.GithubProfileURL = *update.GithubProfileURL
	}
	if update.LinkedinProfileURL != nil {
		user.LinkedinProfileURL = *update.LinkedinProfileURL
	}
	if update.Role != nil && models.Can(caller.Role, models.PermModifyUsers) {
		if !models.IsValidRole(*update.Role) {
			return nil, models.ErrValidation
		}
		user.Role = *update.Role
	}

	updatedUser, err := s.repo.Update(ctx, id, user)
	if err != nil {
		if errors.Is(err, models.ErrDuplicateEmail) {
			return nil, models.ErrDuplicateEmail
		}
		s.logger.Error("failed to update user", slog.String("user_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("user updated", slog.String("user_id", id))
	return updatedUser, nil
}

// DeleteUser removes an account (admin only)
func (s *UserService) DeleteUser(ctx context.Context, caller *models.TokenClaims, id string) error {
	if !models.Can(caller.Role, models.PermDeleteUsers) {
		return models.ErrForbidden
	}

	err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrNotFound
		}
		s.logger.Error("failed to delete user", slog.String("user_id", id), slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.logger.Info("user deleted", slog.String("user_id", id))
	s.auditLogger.LogAccountAction("user_deleted", id, map[string]string{
		"deleted_by": caller.UserID,
	})
	return nil
}

// UnlockUser resets the failed-login counter and returns a locked account
// to active (admin only)
func (s *UserService) UnlockUser(ctx context.Context, caller *models.TokenClaims, id string) error {
	if !models.Can(caller.Role, models.PermUnlockAccounts) {
		return models.ErrForbidden
	}

	err := s.repo.Unlock(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrNotFound
		}
		s.logger.Error("failed to unlock user", slog.String("user_id", id), slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.logger.Info("user unlocked", slog.String("user_id", id))
	s.auditLogger.LogAccountAction("account_unlocked", id, map[string]string{
		"unlocked_by": caller.UserID,
	})
	return nil
}
