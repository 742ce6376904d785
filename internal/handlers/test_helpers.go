package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/JaswanthKSnjit/IS601-final/internal/auth"
	"github.com/JaswanthKSnjit/IS601-final/internal/models"
	"github.com/JaswanthKSnjit/IS601-final/internal/services"
	pkghttp "github.com/JaswanthKSnjit/IS601-final/pkg/http"
)

// NewTestRequest creates an HTTP request with JSON body for testing
func NewTestRequest(t *testing.T, method, url string, body interface{}) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// WithAuthContext adds user claims to request context for testing
// authenticated endpoints
func WithAuthContext(req *http.Request, userID string, role models.Role) *http.Request {
	claims := &models.TokenClaims{
		Type:   models.TokenTypeAccess,
		UserID: userID,
		Email:  userID + "@example.com",
		Role:   role,
	}
	ctx := context.WithValue(req.Context(), auth.UserContextKey, claims)
	return req.WithContext(ctx)
}

// WithURLParam adds a chi route parameter to the request context
func WithURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

// AssertJSONResponse checks that response has correct status and decodes JSON body
func AssertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, target interface{}) {
	t.Helper()
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	if target != nil {
		err := json.Unmarshal(w.Body.Bytes(), target)
		assert.NoError(t, err, "Failed to decode response JSON")
	}
}

// AssertErrorResponse checks that response is a valid error response
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedError string) {
	t.Helper()
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	var resp pkghttp.ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err, "Failed to decode error response")
	assert.Equal(t, expectedError, resp.Error, "Error code mismatch")
	assert.NotEmpty(t, resp.Message, "Error message should not be empty")
}

// MockAuthService implements AuthServiceInterface for testing
type MockAuthService struct {
	LoginFunc                func(ctx context.Context, email, password string) (*services.AuthResponse, error)
	RegisterFunc             func(ctx context.Context, email, password, firstName, lastName string) (*services.UserResponse, error)
	VerifyEmailFunc          func(ctx context.Context, token string) error
	RequestPasswordResetFunc func(ctx context.Context, email string) error
	ConfirmPasswordResetFunc func(ctx context.Context, token, newPassword string) error
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*services.AuthResponse, error) {
	if m.LoginFunc == nil {
		return nil, models.ErrInvalidCredentials
	}
	return m.LoginFunc(ctx, email, password)
}

func (m *MockAuthService) Register(ctx context.Context, email, password, firstName, lastName string) (*services.UserResponse, error) {
	if m.RegisterFunc == nil {
		return nil, models.ErrInternalServer
	}
	return m.RegisterFunc(ctx, email, password, firstName, lastName)
}

func (m *MockAuthService) VerifyEmail(ctx context.Context, token string) error {
	if m.VerifyEmailFunc == nil {
		return models.ErrTokenInvalid
	}
	return m.VerifyEmailFunc(ctx, token)
}

func (m *MockAuthService) RequestPasswordReset(ctx context.Context, email string) error {
	if m.RequestPasswordResetFunc == nil {
		return nil
	}
	return m.RequestPasswordResetFunc(ctx, email)
}

func (m *MockAuthService) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	if m.ConfirmPasswordResetFunc == nil {
		return models.ErrTokenInvalid
	}
	return m.ConfirmPasswordResetFunc(ctx, token, newPassword)
}

// MockUserService implements UserServiceInterface and PasswordChanger for testing
type MockUserService struct {
	GetUserFunc        func(ctx context.Context, caller *models.TokenClaims, id string) (*models.User, error)
	ListUsersFunc      func(ctx context.Context, caller *models.TokenClaims, limit, offset int) ([]*models.User, error)
	UpdateUserFunc     func(ctx context.Context, caller *models.TokenClaims, id string, update *services.ProfileUpdate) (*models.User, error)
	DeleteUserFunc     func(ctx context.Context, caller *models.TokenClaims, id string) error
	UnlockUserFunc     func(ctx context.Context, caller *models.TokenClaims, id string) error
	ChangePasswordFunc func(ctx context.Context, userID, currentPassword, newPassword string) error
}

func (m *MockUserService) GetUser(ctx context.Context, caller *models.TokenClaims, id string) (*models.User, error) {
	if m.GetUserFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.GetUserFunc(ctx, caller, id)
}

func (m *MockUserService) ListUsers(ctx context.Context, caller *models.TokenClaims, limit, offset int) ([]*models.User, error) {
	if m.ListUsersFunc == nil {
		return nil, models.ErrForbidden
	}
	return m.ListUsersFunc(ctx, caller, limit, offset)
}

func (m *MockUserService) UpdateUser(ctx context.Context, caller *models.TokenClaims, id string, update *services.ProfileUpdate) (*models.User, error) {
	if m.UpdateUserFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.UpdateUserFunc(ctx, caller, id, update)
}

func (m *MockUserService) DeleteUser(ctx context.Context, caller *models.TokenClaims, id string) error {
	if m.DeleteUserFunc == nil {
		return models.ErrForbidden
	}
	return m.DeleteUserFunc(ctx, caller, id)
}

func (m *MockUserService) UnlockUser(ctx context.Context, caller *models.TokenClaims, id string) error {
	if m.UnlockUserFunc == nil {
		return models.ErrForbidden
	}
	return m.UnlockUserFunc(ctx, caller, id)
}

func (m *MockUserService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if m.ChangePasswordFunc == nil {
		return models.ErrInvalidCredentials
	}
	return m.ChangePasswordFunc(ctx, userID, currentPassword, newPassword)
}

// MockAnalyticsService implements AnalyticsServiceInterface for testing
type MockAnalyticsService struct {
	GetRetentionDataFunc func(ctx context.Context, caller *models.TokenClaims, limit, offset int) ([]*models.RetentionSnapshot, error)
}

func (m *MockAnalyticsService) GetRetentionData(ctx context.Context, caller *models.TokenClaims, limit, offset int) ([]*models.RetentionSnapshot, error) {
	if m.GetRetentionDataFunc == nil {
		return nil, models.ErrForbidden
	}
	return m.GetRetentionDataFunc(ctx, caller, limit, offset)
}
