package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/JaswanthKSnjit/IS601-final/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler(hit *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*hit = true
		w.WriteHeader(http.StatusOK)
	})
}

func TestMiddleware_ValidToken(t *testing.T) {
	tm := NewTokenManager(testSecret, 30*time.Minute)
	tokenString, err := tm.GenerateAccessToken(testUser())
	require.NoError(t, err)

	var hit bool
	var gotClaims *models.TokenClaims
	handler := Middleware(tm)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hit = true
		gotClaims = GetUserFromContext(r)
	}))

	req := httptest.NewRequest("GET", "/users/abc", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.True(t, hit)
	require.NotNil(t, gotClaims)
	assert.Equal(t, models.RoleAuthenticated, gotClaims.Role)
}

func TestMiddleware_MissingHeader(t *testing.T) {
	tm := NewTokenManager(testSecret, 30*time.Minute)

	var hit bool
	handler := Middleware(tm)(okHandler(&hit))

	req := httptest.NewRequest("GET", "/users/abc", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.False(t, hit)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMiddleware_MalformedHeader(t *testing.T) {
	tm := NewTokenManager(testSecret, 30*time.Minute)

	var hit bool
	handler := Middleware(tm)(okHandler(&hit))

	req := httptest.NewRequest("GET", "/users/abc", nil)
	req.Header.Set("Authorization", "Token abc123")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.False(t, hit)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMiddleware_ExpiredToken(t *testing.T) {
	expired := NewTokenManager(testSecret, -1*time.Minute)
	tokenString, err := expired.GenerateAccessToken(testUser())
	require.NoError(t, err)

	var hit bool
	handler := Middleware(NewTokenManager(testSecret, 30*time.Minute))(okHandler(&hit))

	req := httptest.NewRequest("GET", "/users/abc", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.False(t, hit)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequirePermission(t *testing.T) {
	tests := []struct {
		name       string
		role       models.Role
		perm       models.Permission
		wantStatus int
	}{
		{"admin can list users", models.RoleAdmin, models.PermManageAllUsers, http.StatusOK},
		{"manager can list users", models.RoleManager, models.PermManageAllUsers, http.StatusOK},
		{"authenticated cannot list users", models.RoleAuthenticated, models.PermManageAllUsers, http.StatusForbidden},
		{"manager cannot delete users", models.RoleManager, models.PermDeleteUsers, http.StatusForbidden},
		{"admin can view analytics", models.RoleAdmin, models.PermViewAnalytics, http.StatusOK},
		{"authenticated cannot view analytics", models.RoleAuthenticated, models.PermViewAnalytics, http.StatusForbidden},
	}

	tm := NewTokenManager(testSecret, 30*time.Minute)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := testUser()
			user.Role = tt.role
			tokenString, err := tm.GenerateAccessToken(user)
			require.NoError(t, err)

			var hit bool
			handler := Middleware(tm)(RequirePermission(tt.perm)(okHandler(&hit)))

			req := httptest.NewRequest("GET", "/users", nil)
			req.Header.Set("Authorization", "Bearer "+tokenString)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantStatus == http.StatusOK, hit)
		})
	}
}

func TestRequirePermission_NoClaims(t *testing.T) {
	var hit bool
	handler := RequirePermission(models.PermManageAllUsers)(okHandler(&hit))

	req := httptest.NewRequest("GET", "/users", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.False(t, hit)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
