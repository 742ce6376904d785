package services

import (
	"context"
	"time"

	"github.com/JaswanthKSnjit/IS601-final/internal/models"
)

// MockUserRepository implements UserRepository and PopulationCounter for testing
type MockUserRepository struct {
	GetByIDFunc                func(ctx context.Context, id string) (*models.User, error)
	GetByEmailFunc             func(ctx context.Context, email string) (*models.User, error)
	GetByVerificationTokenFunc func(ctx context.Context, token string) (*models.User, error)
	ListFunc                   func(ctx context.Context, limit, offset int) ([]*models.User, error)
	CreateFunc                 func(ctx context.Context, user *models.User) (*models.User, error)
	UpdateFunc                 func(ctx context.Context, id string, user *models.User) (*models.User, error)
	UpdatePasswordHashFunc     func(ctx context.Context, id, passwordHash string) error
	DeleteFunc                 func(ctx context.Context, id string) error
	RecordFailedLoginFunc      func(ctx context.Context, id string, maxFailed int) (int, bool, error)
	RecordSuccessfulLoginFunc  func(ctx context.Context, id string, at time.Time) error
	UnlockFunc                 func(ctx context.Context, id string) error
	CountByRolesFunc           func(ctx context.Context, roles []models.Role) (int, error)
	CountInactiveSinceFunc     func(ctx context.Context, cutoff time.Time) (int, error)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) GetByVerificationToken(ctx context.Context, token string) (*models.User, error) {
	if m.GetByVerificationTokenFunc != nil {
		return m.GetByVerificationTokenFunc(ctx, token)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	return []*models.User{}, nil
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil, models.ErrInternalServer
}

func (m *MockUserRepository) Update(ctx context.Context, id string, user *models.User) (*models.User, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, user)
	}
	return nil, models.ErrInternalServer
}

func (m *MockUserRepository) UpdatePasswordHash(ctx context.Context, id, passwordHash string) error {
	if m.UpdatePasswordHashFunc != nil {
		return m.UpdatePasswordHashFunc(ctx, id, passwordHash)
	}
	return nil
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockUserRepository) RecordFailedLogin(ctx context.Context, id string, maxFailed int) (int, bool, error) {
	if m.RecordFailedLoginFunc != nil {
		return m.RecordFailedLoginFunc(ctx, id, maxFailed)
	}
	return 1, false, nil
}

func (m *MockUserRepository) RecordSuccessfulLogin(ctx context.Context, id string, at time.Time) error {
	if m.RecordSuccessfulLoginFunc != nil {
		return m.RecordSuccessfulLoginFunc(ctx, id, at)
	}
	return nil
}

func (m *MockUserRepository) Unlock(ctx context.Context, id string) error {
	if m.UnlockFunc != nil {
		return m.UnlockFunc(ctx, id)
	}
	return nil
}

func (m *MockUserRepository) CountByRoles(ctx context.Context, roles []models.Role) (int, error) {
	if m.CountByRolesFunc != nil {
		return m.CountByRolesFunc(ctx, roles)
	}
	return 0, nil
}

func (m *MockUserRepository) CountInactiveSince(ctx context.Context, cutoff time.Time) (int, error) {
	if m.CountInactiveSinceFunc != nil {
		return m.CountInactiveSinceFunc(ctx, cutoff)
	}
	return 0, nil
}

// MockRetentionRepository implements RetentionRepository for testing
type MockRetentionRepository struct {
	CreateFunc func(ctx context.Context, snapshot *models.RetentionSnapshot) (*models.RetentionSnapshot, error)
	ListFunc   func(ctx context.Context, limit, offset int) ([]*models.RetentionSnapshot, error)
}

func (m *MockRetentionRepository) Create(ctx context.Context, snapshot *models.RetentionSnapshot) (*models.RetentionSnapshot, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, snapshot)
	}
	snapshot.ID = "snapshot_1"
	return snapshot, nil
}

func (m *MockRetentionRepository) List(ctx context.Context, limit, offset int) ([]*models.RetentionSnapshot, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	return []*models.RetentionSnapshot{}, nil
}

// MockEmailSender implements EmailSender for testing
type MockEmailSender struct {
	SendVerificationEmailFunc  func(ctx context.Context, email, token string) error
	SendPasswordResetEmailFunc func(ctx context.Context, email, token string) error
}

func (m *MockEmailSender) SendVerificationEmail(ctx context.Context, email, token string) error {
	if m.SendVerificationEmailFunc != nil {
		return m.SendVerificationEmailFunc(ctx, email, token)
	}
	return nil
}

func (m *MockEmailSender) SendPasswordResetEmail(ctx context.Context, email, token string) error {
	if m.SendPasswordResetEmailFunc != nil {
		return m.SendPasswordResetEmailFunc(ctx, email, token)
	}
	return nil
}

// NewTestUser builds a verified, unlocked account for test cases
func NewTestUser(id, email string, role models.Role) *models.User {
	now := time.Now()
	return &models.User{
		ID:            id,
		Email:         email,
		Nickname:      "quiet_otter_7",
		PasswordHash:  "$2a$12$invalidhashinvalidhashinvalidhashinvalidhashinvalid0", // never matches
		Role:          role,
		EmailVerified: true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}
