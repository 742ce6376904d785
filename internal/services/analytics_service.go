package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/JaswanthKSnjit/IS601-final/internal/models"
)

// PopulationCounter exposes the account population queries the aggregator
// reads from
type PopulationCounter interface {
	CountByRoles(ctx context.Context, roles []models.Role) (int, error)
	CountInactiveSince(ctx context.Context, cutoff time.Time) (int, error)
}

// RetentionRepository defines the interface for the snapshot log
type RetentionRepository interface {
	Create(ctx context.Context, snapshot *models.RetentionSnapshot) (*models.RetentionSnapshot, error)
	List(ctx context.Context, limit, offset int) ([]*models.RetentionSnapshot, error)
}

// AnalyticsService computes retention metrics over the account population
// and appends them to the snapshot log
type AnalyticsService struct {
	users     PopulationCounter
	snapshots RetentionRepository
	logger    *slog.Logger
	now       func() time.Time
}

// NewAnalyticsService creates a new AnalyticsService
func NewAnalyticsService(users PopulationCounter, snapshots RetentionRepository, logger *slog.Logger) *AnalyticsService {
	return &AnalyticsService{
		users:     users,
		snapshots: snapshots,
		logger:    logger,
		now:       time.Now,
	}
}

// CalculateRetentionMetrics runs one aggregation pass and persists the
// resulting snapshot. The four metric fields land in one INSERT; a failed
// run leaves no partial row behind.
func (s *AnalyticsService) CalculateRetentionMetrics(ctx context.Context) (*models.RetentionSnapshot, error) {
	now := s.now()

	anonymous, err := s.users.CountByRoles(ctx, []models.Role{models.RoleAnonymous})
	if err != nil {
		s.logger.Error("failed to count anonymous users", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	authenticated, err := s.users.CountByRoles(ctx, []models.Role{
		models.RoleAuthenticated, models.RoleManager, models.RoleAdmin,
	})
	if err != nil {
		s.logger.Error("failed to count authenticated users", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	// Accounts that never logged in count as inactive alongside those idle
	// for more than 24 hours
	inactive, err := s.users.CountInactiveSince(ctx, now.Add(-24*time.Hour))
	if err != nil {
		s.logger.Error("failed to count inactive users", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	snapshot := &models.RetentionSnapshot{
		Timestamp:               now,
		TotalAnonymousUsers:     anonymous,
		TotalAuthenticatedUsers: authenticated,
		ConversionRate:          FormatConversionRate(anonymous, authenticated),
		InactiveUsers24hr:       inactive,
	}

	created, err := s.snapshots.Create(ctx, snapshot)
	if err != nil {
		s.logger.Error("failed to persist retention snapshot", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("retention snapshot recorded",
		slog.Int("anonymous", anonymous),
		slog.Int("authenticated", authenticated),
		slog.String("conversion_rate", created.ConversionRate),
		slog.Int("inactive_24hr", inactive),
	)

	return created, nil
}

// GetRetentionData returns snapshots newest-first for reporting
func (s *AnalyticsService) GetRetentionData(ctx context.Context, caller *models.TokenClaims, limit, offset int) ([]*models.RetentionSnapshot, error) {
	if !models.Can(caller.Role, models.PermViewAnalytics) {
		return nil, models.ErrForbidden
	}

	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	snapshots, err := s.snapshots.List(ctx, limit, offset)
	if err != nil {
		s.logger.Error("failed to list retention snapshots", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	return snapshots, nil
}

// FormatConversionRate renders authenticated/(anonymous+authenticated) as a
// percentage with two decimals, or the literal "0%" when there are no
// accounts to divide by.
func FormatConversionRate(anonymous, authenticated int) string {
	total := anonymous + authenticated
	if total == 0 {
		return "0%"
	}
	return fmt.Sprintf("%.2f%%", float64(authenticated)/float64(total)*100)
}
