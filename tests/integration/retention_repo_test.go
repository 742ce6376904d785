package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaswanthKSnjit/IS601-final/internal/models"
)

func TestRetentionRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	testDB, err := SetupTestDatabase(ctx)
	require.NoError(t, err)
	defer testDB.Teardown(ctx)

	_, retentionRepo := InitializeRepositories(testDB.DB)

	t.Run("snapshots list newest first", func(t *testing.T) {
		defer testDB.CleanupTables(ctx)

		base := time.Now().Add(-time.Hour).Truncate(time.Millisecond)
		for i := 0; i < 3; i++ {
			_, err := retentionRepo.Create(ctx, &models.RetentionSnapshot{
				Timestamp:               base.Add(time.Duration(i) * time.Minute),
				TotalAnonymousUsers:     i,
				TotalAuthenticatedUsers: 1,
				ConversionRate:          "50.00%",
				InactiveUsers24hr:       0,
			})
			require.NoError(t, err)
		}

		snapshots, err := retentionRepo.List(ctx, 10, 0)
		require.NoError(t, err)
		require.Len(t, snapshots, 3)
		assert.Equal(t, 2, snapshots[0].TotalAnonymousUsers)
		assert.True(t, snapshots[0].Timestamp.After(snapshots[1].Timestamp))
		assert.True(t, snapshots[1].Timestamp.After(snapshots[2].Timestamp))
	})

	t.Run("pagination", func(t *testing.T) {
		defer testDB.CleanupTables(ctx)

		base := time.Now().Add(-time.Hour)
		for i := 0; i < 5; i++ {
			_, err := retentionRepo.Create(ctx, &models.RetentionSnapshot{
				Timestamp:      base.Add(time.Duration(i) * time.Minute),
				ConversionRate: "0%",
			})
			require.NoError(t, err)
		}

		page, err := retentionRepo.List(ctx, 2, 2)
		require.NoError(t, err)
		assert.Len(t, page, 2)
	})
}
