package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/JaswanthKSnjit/IS601-final/internal/auth"
	"github.com/JaswanthKSnjit/IS601-final/internal/models"
	"github.com/JaswanthKSnjit/IS601-final/internal/services"
	pkghttp "github.com/JaswanthKSnjit/IS601-final/pkg/http"
)

// UserServiceInterface defines the interface for user business logic
type UserServiceInterface interface {
	GetUser(ctx context.Context, caller *models.TokenClaims, id string) (*models.User, error)
	ListUsers(ctx context.Context, caller *models.TokenClaims, limit, offset int) ([]*models.User, error)
	UpdateUser(ctx context.Context, caller *models.TokenClaims, id string, update *services.ProfileUpdate) (*models.User, error)
	DeleteUser(ctx context.Context, caller *models.TokenClaims, id string) error
	UnlockUser(ctx context.Context, caller *models.TokenClaims, id string) error
}

// PasswordChanger changes the calling account's password
type PasswordChanger interface {
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
}

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	service   UserServiceInterface
	passwords PasswordChanger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(service UserServiceInterface, passwords PasswordChanger) *UserHandler {
	return &UserHandler{
		service:   service,
		passwords: passwords,
	}
}

// Request/Response DTOs

// UpdateUserRequest represents the request body for updating a user.
// Absent fields are left unchanged.
type UpdateUserRequest struct {
	Email              *string `json:"email" validate:"omitempty,email"`
	Nickname           *string `json:"nickname" validate:"omitempty,min=3,max=50"`
	FirstName          *string `json:"first_name" validate:"omitempty,max=100"`
	LastName           *string `json:"last_name" validate:"omitempty,max=100"`
	Bio                *string `json:"bio" validate:"omitempty,max=500"`
	GithubProfileURL   *string `json:"github_profile_url" validate:"omitempty,url"`
	LinkedinProfileURL *string `json:"linkedin_profile_url" validate:"omitempty,url"`
	Role               *string `json:"role" validate:"omitempty,oneof=ANONYMOUS AUTHENTICATED MANAGER ADMIN"`
}

// ChangePasswordRequest represents the request body for a password change
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
}

// ListUsersResponse represents a page of users
type ListUsersResponse struct {
	Users []*services.UserResponse `json:"users"`
	Total int                      `json:"total"`
}

// GetUser retrieves a user by ID
// @Summary Get user by ID
// @Param id path string true "User ID"
// @Produce json
// @Success 200 {object} services.UserResponse
// @Failure 403 {object} pkghttp.ErrorResponse
// @Failure 404 {object} pkghttp.ErrorResponse
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "unauthorized")
		return
	}

	userID := chi.URLParam(r, "id")
	if userID == "" {
		pkghttp.WriteBadRequest(w, "User ID is required")
		return
	}

	user, err := h.service.GetUser(r.Context(), claims, userID)
	if err != nil {
		writeUserError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, services.UserModelToResponse(user))
}

// ListUsers retrieves a page of users
// @Summary List users
// @Param limit query int false "Limit (default 50)"
// @Param offset query int false "Offset (default 0)"
// @Produce json
// @Success 200 {object} ListUsersResponse
// @Failure 403 {object} pkghttp.ErrorResponse
// @Router /users [get]
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "unauthorized")
		return
	}

	limit, err := queryInt(r, "limit", 50)
	if err != nil {
		pkghttp.WriteBadRequest(w, "Invalid limit parameter")
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		pkghttp.WriteBadRequest(w, "Invalid offset parameter")
		return
	}

	users, err := h.service.ListUsers(r.Context(), claims, limit, offset)
	if err != nil {
		writeUserError(w, err)
		return
	}

	resp := &ListUsersResponse{
		Users: make([]*services.UserResponse, len(users)),
		Total: len(users),
	}
	for i, user := range users {
		resp.Users[i] = services.UserModelToResponse(user)
	}

	pkghttp.WriteJSON(w, http.StatusOK, resp)
}

// UpdateUser updates a user's profile
// @Summary Update a user
// @Param id path string true "User ID"
// @Accept json
// @Param request body UpdateUserRequest true "Update user request"
// @Produce json
// @Success 200 {object} services.UserResponse
// @Failure 400 {object} pkghttp.ErrorResponse
// @Failure 403 {object} pkghttp.ErrorResponse
// @Failure 404 {object} pkghttp.ErrorResponse
// @Failure 409 {object} pkghttp.ErrorResponse
// @Router /users/{id} [put]
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "unauthorized")
		return
	}

	userID := chi.URLParam(r, "id")
	if userID == "" {
		pkghttp.WriteBadRequest(w, "User ID is required")
		return
	}

	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	update := &services.ProfileUpdate{
		Email:              req.Email,
		Nickname:           req.Nickname,
		FirstName:          req.FirstName,
		LastName:           req.LastName,
		Bio:                req.Bio,
		GithubProfileURL:   req.GithubProfileURL,
		LinkedinProfileURL: req.LinkedinProfileURL,
	}
	if req.Role != nil {
		role := models.Role(*req.Role)
		update.Role = &role
	}

	user, err := h.service.UpdateUser(r.Context(), claims, userID, update)
	if err != nil {
		writeUserError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, services.UserModelToResponse(user))
}

// DeleteUser deletes a user
// @Summary Delete a user
// @Param id path string true "User ID"
// @Success 204
// @Failure 403 {object} pkghttp.ErrorResponse
// @Failure 404 {object} pkghttp.ErrorResponse
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "unauthorized")
		return
	}

	userID := chi.URLParam(r, "id")
	if userID == "" {
		pkghttp.WriteBadRequest(w, "User ID is required")
		return
	}

	if err := h.service.DeleteUser(r.Context(), claims, userID); err != nil {
		writeUserError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UnlockUser returns a locked account to active
// @Summary Unlock a locked account
// @Param id path string true "User ID"
// @Success 200
// @Failure 403 {object} pkghttp.ErrorResponse
// @Failure 404 {object} pkghttp.ErrorResponse
// @Router /users/{id}/unlock [post]
func (h *UserHandler) UnlockUser(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "unauthorized")
		return
	}

	userID := chi.URLParam(r, "id")
	if userID == "" {
		pkghttp.WriteBadRequest(w, "User ID is required")
		return
	}

	if err := h.service.UnlockUser(r.Context(), claims, userID); err != nil {
		writeUserError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Account unlocked",
	})
}

// ChangePassword changes the calling account's password
// @Summary Change own password
// @Accept json
// @Param request body ChangePasswordRequest true "Change password request"
// @Success 200
// @Failure 400 {object} pkghttp.ErrorResponse
// @Failure 401 {object} pkghttp.ErrorResponse
// @Router /users/change-password [post]
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "unauthorized")
		return
	}

	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	if err := h.passwords.ChangePassword(r.Context(), claims.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidCredentials):
			pkghttp.WriteUnauthorized(w, "Current password is incorrect")
		case errors.Is(err, models.ErrWeakPassword):
			pkghttp.WriteBadRequest(w, "Password does not meet complexity requirements")
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, "User not found")
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Password changed",
	})
}

// writeUserError maps service errors common to the user endpoints
func writeUserError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrForbidden):
		pkghttp.WriteForbidden(w, "Forbidden: you cannot access this resource")
	case errors.Is(err, models.ErrNotFound):
		pkghttp.WriteNotFound(w, "User not found")
	case errors.Is(err, models.ErrDuplicateEmail):
		pkghttp.WriteConflict(w, "Email already exists")
	case errors.Is(err, models.ErrValidation):
		pkghttp.WriteBadRequest(w, "Invalid request data")
	default:
		pkghttp.WriteInternalError(w, "Internal server error")
	}
}

// queryInt parses a non-negative integer query parameter
func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errors.New("invalid integer parameter")
	}
	return n, nil
}
