package repository

import (
	"context"
	"fmt"
	"testing"

	"settler/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettlementHistoryRepository(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewSettlementHistoryRepository(testDB.DB)
	ctx := context.Background()

	t.Run("Record assigns id and timestamp", func(t *testing.T) {
		record := testutil.CreateTestSettlementRecord("alice.testnet", "mines-42")
		err := repo.Record(ctx, record)
		require.NoError(t, err)

		assert.NotZero(t, record.ID)
		assert.False(t, record.CreatedAt.IsZero())
	})

	t.Run("GetByAccount returns newest first", func(t *testing.T) {
		for i := 0; i < 5; i++ {
			record := testutil.CreateTestSettlementRecord("bob.testnet", fmt.Sprintf("crash-%d", i))
			require.NoError(t, repo.Record(ctx, record))
		}

		records, err := repo.GetByAccount(ctx, "bob.testnet", 3)
		require.NoError(t, err)
		require.Len(t, records, 3)

		assert.Equal(t, "crash-4", records[0].GameID)
		assert.Equal(t, "crash-3", records[1].GameID)
		assert.Equal(t, "crash-2", records[2].GameID)
	})

	t.Run("empty for unknown account", func(t *testing.T) {
		records, err := repo.GetByAccount(ctx, "nobody.testnet", 10)
		require.NoError(t, err)
		assert.Empty(t, records)
	})
}
