package repositories

import (
	"context"
	"fmt"

	"github.com/JaswanthKSnjit/IS601-final/internal/database"
	"github.com/JaswanthKSnjit/IS601-final/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RetentionRepository handles the append-only retention snapshot log
type RetentionRepository struct {
	pool *pgxpool.Pool
}

func NewRetentionRepository(db *database.DB) *RetentionRepository {
	return &RetentionRepository{pool: db.Pool}
}

// Create appends one snapshot row. All four metric fields land in a single
// INSERT, so a failed run never leaves a partial snapshot behind.
func (r *RetentionRepository) Create(ctx context.Context, snapshot *models.RetentionSnapshot) (*models.RetentionSnapshot, error) {
	snapshot.ID = uuid.New().String()

	query := `
		INSERT INTO retention_snapshots
			(id, timestamp, total_anonymous_users, total_authenticated_users, conversion_rate, inactive_users_24hr)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		snapshot.ID, snapshot.Timestamp,
		snapshot.TotalAnonymousUsers, snapshot.TotalAuthenticatedUsers,
		snapshot.ConversionRate, snapshot.InactiveUsers24hr,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return snapshot, nil
}

// List returns snapshots newest-first
func (r *RetentionRepository) List(ctx context.Context, limit, offset int) ([]*models.RetentionSnapshot, error) {
	query := `
		SELECT id, timestamp, total_anonymous_users, total_authenticated_users, conversion_rate, inactive_users_24hr
		FROM retention_snapshots
		ORDER BY timestamp DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query retention snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := make([]*models.RetentionSnapshot, 0)
	for rows.Next() {
		var s models.RetentionSnapshot
		if err := rows.Scan(
			&s.ID, &s.Timestamp,
			&s.TotalAnonymousUsers, &s.TotalAuthenticatedUsers,
			&s.ConversionRate, &s.InactiveUsers24hr,
		); err != nil {
			return nil, fmt.Errorf("failed to scan retention snapshot: %w", err)
		}
		snapshots = append(snapshots, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return snapshots, nil
}
