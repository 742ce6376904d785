package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/JaswanthKSnjit/IS601-final/internal/auth"
	"github.com/JaswanthKSnjit/IS601-final/internal/models"
	pkgauth "github.com/JaswanthKSnjit/IS601-final/pkg/auth"
	pkglogger "github.com/JaswanthKSnjit/IS601-final/pkg/logger"
	"github.com/JaswanthKSnjit/IS601-final/pkg/nickname"
	"github.com/google/uuid"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByVerificationToken(ctx context.Context, token string) (*models.User, error)
	List(ctx context.Context, limit, offset int) ([]*models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
	Update(ctx context.Context, id string, user *models.User) (*models.User, error)
	UpdatePasswordHash(ctx context.Context, id, passwordHash string) error
	Delete(ctx context.Context, id string) error
	RecordFailedLogin(ctx context.Context, id string, maxFailed int) (int, bool, error)
	RecordSuccessfulLogin(ctx context.Context, id string, at time.Time) error
	Unlock(ctx context.Context, id string) error
}

// EmailSender delivers account notification emails. Delivery is
// fire-and-forget from this service's perspective.
type EmailSender interface {
	SendVerificationEmail(ctx context.Context, email, token string) error
	SendPasswordResetEmail(ctx context.Context, email, token string) error
}

// RetryableChecker reports whether a store error is transient contention
type RetryableChecker func(error) bool

// AuthService handles registration and the login state machine
type AuthService struct {
	repo        UserRepository
	tm          *auth.TokenManager
	mailer      EmailSender
	logger      *slog.Logger
	auditLogger *pkglogger.AuditLogger
	maxFailed   int
	isRetryable RetryableChecker
}

// NewAuthService creates a new AuthService. maxFailed is the consecutive
// failed-login count at which an account locks.
func NewAuthService(repo UserRepository, tm *auth.TokenManager, mailer EmailSender, logger *slog.Logger, auditLogger *pkglogger.AuditLogger, maxFailed int, isRetryable RetryableChecker) *AuthService {
	if isRetryable == nil {
		isRetryable = func(error) bool { return false }
	}
	return &AuthService{
		repo:        repo,
		tm:          tm,
		mailer:      mailer,
		logger:      logger,
		auditLogger: auditLogger,
		maxFailed:   maxFailed,
		isRetryable: isRetryable,
	}
}

// UserResponse represents a user in the HTTP response
type UserResponse struct {
	ID                 string `json:"id"`
	Email              string `json:"email"`
	Nickname           string `json:"nickname"`
	Role               string `json:"role"`
	EmailVerified      bool   `json:"email_verified"`
	IsLocked           bool   `json:"is_locked"`
	LastLoginAt        string `json:"last_login_at,omitempty"`
	FirstName          string `json:"first_name,omitempty"`
	LastName           string `json:"last_name,omitempty"`
	Bio                string `json:"bio,omitempty"`
	GithubProfileURL   string `json:"github_profile_url,omitempty"`
	LinkedinProfileURL string `json:"linkedin_profile_url,omitempty"`
	CreatedAt          string `json:"created_at"`
	UpdatedAt          string `json:"updated_at"`
}

// AuthResponse represents the response from a successful login
type AuthResponse struct {
	AccessToken string        `json:"access_token"`
	TokenType   string        `json:"token_type"`
	User        *UserResponse `json:"user"`
}

// Login authenticates a user and returns an access token.
//
// The check order is fixed: existence, verification, lock status, password,
// success handling. A locked account is rejected before the password is
// examined so it never produces a mismatch response, and an unknown email
// never produces a "locked" response.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, models.ErrInvalidCredentials
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
				EventType:     "login_failed",
				FailureReason: "unknown_email",
				Success:       false,
			})
			return nil, models.ErrInvalidCredentials
		}
		s.logger.Error("failed to get user by email", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if !user.EmailVerified {
		s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
			EventType:     "login_failed",
			UserID:        user.ID,
			FailureReason: "email_not_verified",
			Success:       false,
		})
		return nil, models.ErrAccountUnverified
	}

	if user.IsLocked {
		// Counter stays untouched while locked; unlocking is an explicit
		// administrative action.
		s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
			EventType:     "login_failed",
			UserID:        user.ID,
			FailureReason: "account_locked",
			Success:       false,
		})
		return nil, models.ErrAccountLocked
	}

	if err := pkgauth.ComparePassword(user.PasswordHash, password); err != nil {
		attempts, locked, recErr := s.recordFailedLogin(ctx, user.ID)
		if recErr != nil {
			s.logger.Error("failed to record failed login",
				slog.String("user_id", user.ID), slog.Any("error", recErr))
		}
		s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
			EventType:     "login_failed",
			UserID:        user.ID,
			FailureReason: "invalid_credentials",
			Success:       false,
		})
		if locked {
			s.logger.Warn("account locked after repeated failed logins",
				slog.String("user_id", user.ID), slog.Int("failed_attempts", attempts))
			s.auditLogger.LogAccountAction("account_locked", user.ID, nil)
		}
		return nil, models.ErrInvalidCredentials
	}

	now := time.Now()
	if err := s.repo.RecordSuccessfulLogin(ctx, user.ID, now); err != nil {
		s.logger.Error("failed to record successful login",
			slog.String("user_id", user.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	user.FailedLoginAttempts = 0
	user.LastLoginAt = &now

	accessToken, err := s.tm.GenerateAccessToken(user)
	if err != nil {
		s.logger.Error("failed to generate access token",
			slog.String("user_id", user.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("user logged in", slog.String("user_id", user.ID))
	s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
		EventType: "login_success",
		UserID:    user.ID,
		Success:   true,
	})

	return &AuthResponse{
		AccessToken: accessToken,
		TokenType:   "bearer",
		User:        UserModelToResponse(user),
	}, nil
}

// recordFailedLogin applies the counter increment, retrying once on
// transient store contention
func (s *AuthService) recordFailedLogin(ctx context.Context, userID string) (int, bool, error) {
	attempts, locked, err := s.repo.RecordFailedLogin(ctx, userID, s.maxFailed)
	if err != nil && s.isRetryable(err) {
		attempts, locked, err = s.repo.RecordFailedLogin(ctx, userID, s.maxFailed)
	}
	return attempts, locked, err
}

// Register creates a new account. Any caller-supplied role is ignored: new
// accounts always start as AUTHENTICATED.
func (s *AuthService) Register(ctx context.Context, email, password, firstName, lastName string) (*UserResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, models.ErrValidation
	}

	if err := pkgauth.ValidatePassword(password); err != nil {
		s.logger.Info("registration rejected: weak password")
		return nil, models.ErrWeakPassword
	}

	_, err := s.repo.GetByEmail(ctx, email)
	if err == nil {
		s.logger.Info("registration failed: email already registered")
		return nil, models.ErrDuplicateEmail
	}
	if !errors.Is(err, models.ErrNotFound) {
		s.logger.Error("failed to check for existing user", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	hashedPassword, err := pkgauth.HashPassword(password)
	if err != nil {
		s.logger.Error("failed to hash password", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	user := &models.User{
		Email:             email,
		Nickname:          nickname.Generate(),
		PasswordHash:      hashedPassword,
		Role:              models.RoleAuthenticated,
		VerificationToken: uuid.New().String(),
		FirstName:         strings.TrimSpace(firstName),
		LastName:          strings.TrimSpace(lastName),
	}

	createdUser, err := s.createWithNicknameRetry(ctx, user)
	if err != nil {
		if errors.Is(err, models.ErrDuplicateEmail) {
			return nil, models.ErrDuplicateEmail
		}
		s.logger.Error("failed to create user", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if s.mailer != nil {
		s.sendAsync(createdUser.Email, createdUser.VerificationToken, s.mailer.SendVerificationEmail)
	}

	s.logger.Info("user registered", slog.String("user_id", createdUser.ID))
	s.auditLogger.LogAccountAction("user_registered", createdUser.ID, nil)

	return UserModelToResponse(createdUser), nil
}

// createWithNicknameRetry retries insertion with a fresh generated nickname
// when the unique constraint trips on the nickname rather than the email
func (s *AuthService) createWithNicknameRetry(ctx context.Context, user *models.User) (*models.User, error) {
	for attempt := 0; ; attempt++ {
		created, err := s.repo.Create(ctx, user)
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, models.ErrDuplicateEmail) || attempt >= 2 {
			return nil, err
		}
		// The email was checked just above, so a conflict here is almost
		// certainly the generated nickname colliding
		if _, lookupErr := s.repo.GetByEmail(ctx, user.Email); lookupErr == nil {
			return nil, models.ErrDuplicateEmail
		}
		user.Nickname = nickname.Generate()
	}
}

// VerifyEmail marks the account bound to a verification token as verified
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	if token = strings.TrimSpace(token); token == "" {
		return models.ErrTokenInvalid
	}

	user, err := s.repo.GetByVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrTokenInvalid
		}
		s.logger.Error("failed to look up verification token", slog.Any("error", err))
		return models.ErrInternalServer
	}

	user.EmailVerified = true
	user.VerificationToken = ""

	if _, err := s.repo.Update(ctx, user.ID, user); err != nil {
		s.logger.Error("failed to mark email verified",
			slog.String("user_id", user.ID), slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.logger.Info("email verified", slog.String("user_id", user.ID))
	s.auditLogger.LogAccountAction("email_verified", user.ID, nil)
	return nil
}

// RequestPasswordReset emails a reset token to the account
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrNotFound
		}
		s.logger.Error("failed to get user for password reset", slog.Any("error", err))
		return models.ErrInternalServer
	}

	resetToken, err := s.tm.GeneratePasswordResetToken(user)
	if err != nil {
		s.logger.Error("failed to generate reset token",
			slog.String("user_id", user.ID), slog.Any("error", err))
		return models.ErrInternalServer
	}

	if s.mailer != nil {
		s.sendAsync(user.Email, resetToken, s.mailer.SendPasswordResetEmail)
	}

	s.logger.Info("password reset requested", slog.String("user_id", user.ID))
	return nil
}

// ConfirmPasswordReset sets a new password from a valid reset token
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	claims, err := s.tm.ValidateToken(token)
	if err != nil {
		return err
	}
	if claims.Type != models.TokenTypePasswordReset {
		return models.ErrTokenInvalid
	}

	if err := pkgauth.ValidatePassword(newPassword); err != nil {
		return models.ErrWeakPassword
	}

	hashedPassword, err := pkgauth.HashPassword(newPassword)
	if err != nil {
		s.logger.Error("failed to hash password", slog.Any("error", err))
		return models.ErrInternalServer
	}

	if err := s.repo.UpdatePasswordHash(ctx, claims.UserID, hashedPassword); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrTokenInvalid
		}
		s.logger.Error("failed to update password",
			slog.String("user_id", claims.UserID), slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.logger.Info("password reset completed", slog.String("user_id", claims.UserID))
	s.auditLogger.LogAccountAction("password_reset", claims.UserID, nil)
	return nil
}

// ChangePassword sets a new password for the calling account after
// verifying the current one
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrNotFound
		}
		s.logger.Error("failed to get user for password change",
			slog.String("user_id", userID), slog.Any("error", err))
		return models.ErrInternalServer
	}

	if err := pkgauth.ComparePassword(user.PasswordHash, currentPassword); err != nil {
		return models.ErrInvalidCredentials
	}

	if err := pkgauth.ValidatePassword(newPassword); err != nil {
		return models.ErrWeakPassword
	}

	hashedPassword, err := pkgauth.HashPassword(newPassword)
	if err != nil {
		s.logger.Error("failed to hash password", slog.Any("error", err))
		return models.ErrInternalServer
	}

	if err := s.repo.UpdatePasswordHash(ctx, userID, hashedPassword); err != nil {
		s.logger.Error("failed to update password",
			slog.String("user_id", userID), slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.logger.Info("password changed", slog.String("user_id", userID))
	s.auditLogger.LogAccountAction("password_changed", userID, nil)
	return nil
}

// sendAsync dispatches an email off the request path. A delivery failure
// is logged but never fails the calling operation.
func (s *AuthService) sendAsync(email, token string, send func(context.Context, string, string) error) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := send(ctx, email, token); err != nil {
			s.logger.Error("failed to send email",
				slog.String("email", pkglogger.SanitizedEmail(email)),
				slog.Any("error", err))
		}
	}()
}

// UserModelToResponse converts a user model to a response DTO
func UserModelToResponse(user *models.User) *UserResponse {
	resp := &UserResponse{
		ID:                 user.ID,
		Email:              user.Email,
		Nickname:           user.Nickname,
		Role:               string(user.Role),
		EmailVerified:      user.EmailVerified,
		IsLocked:           user.IsLocked,
		FirstName:          user.FirstName,
		LastName:           user.LastName,
		Bio:                user.Bio,
		GithubProfileURL:   user.GithubProfileURL,
		LinkedinProfileURL: user.LinkedinProfileURL,
		CreatedAt:          user.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          user.UpdatedAt.Format(time.RFC3339),
	}
	if user.LastLoginAt != nil {
		resp.LastLoginAt = user.LastLoginAt.Format(time.RFC3339)
	}
	return resp
}
