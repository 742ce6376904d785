package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/JaswanthKSnjit/IS601-final/internal/auth"
	"github.com/JaswanthKSnjit/IS601-final/internal/models"
	pkghttp "github.com/JaswanthKSnjit/IS601-final/pkg/http"
)

// AnalyticsServiceInterface defines the interface for retention reporting
type AnalyticsServiceInterface interface {
	GetRetentionData(ctx context.Context, caller *models.TokenClaims, limit, offset int) ([]*models.RetentionSnapshot, error)
}

// AnalyticsHandler handles retention-analytics HTTP requests
type AnalyticsHandler struct {
	service AnalyticsServiceInterface
}

// NewAnalyticsHandler creates a new AnalyticsHandler
func NewAnalyticsHandler(service AnalyticsServiceInterface) *AnalyticsHandler {
	return &AnalyticsHandler{
		service: service,
	}
}

// RetentionResponse represents a page of retention snapshots
type RetentionResponse struct {
	Snapshots []*models.RetentionSnapshot `json:"snapshots"`
	Total     int                         `json:"total"`
}

// GetRetention returns retention snapshots, newest first
// @Summary Get retention analytics
// @Param limit query int false "Limit (default 100)"
// @Param offset query int false "Offset (default 0)"
// @Produce json
// @Success 200 {object} RetentionResponse
// @Failure 403 {object} pkghttp.ErrorResponse
// @Router /analytics/retention [get]
func (h *AnalyticsHandler) GetRetention(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "unauthorized")
		return
	}

	limit, err := queryInt(r, "limit", 100)
	if err != nil {
		pkghttp.WriteBadRequest(w, "Invalid limit parameter")
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		pkghttp.WriteBadRequest(w, "Invalid offset parameter")
		return
	}

	snapshots, err := h.service.GetRetentionData(r.Context(), claims, limit, offset)
	if err != nil {
		if errors.Is(err, models.ErrForbidden) {
			pkghttp.WriteForbidden(w, "Forbidden: you cannot access this resource")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, &RetentionResponse{
		Snapshots: snapshots,
		Total:     len(snapshots),
	})
}
