package db_test

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promofeed/amd"
	"promofeed/db"
)

func openStore(t *testing.T) *db.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, db.Migrate(path))

	store, err := db.NewDB(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordAndListSnapshots(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	first := time.Date(2025, 11, 17, 10, 0, 0, 0, time.UTC)
	second := time.Date(2025, 11, 17, 11, 0, 0, 0, time.UTC)

	promotions := []*amd.Promotion{
		{ID: "promo-1", Title: "Space Game", Slug: "space-game", KeysAvailable: 120, Status: "active"},
		{ID: "promo-2", Title: "Quiet Game", Slug: "quiet-game", KeysAvailable: 3, Status: "active"},
	}

	require.NoError(t, store.RecordPromotions(ctx, first, promotions))

	// Recording the same observation again is a no-op
	require.NoError(t, store.RecordPromotions(ctx, first, promotions))

	promotions[0].KeysAvailable = 80
	require.NoError(t, store.RecordPromotions(ctx, second, promotions[:1]))

	snapshots, err := store.ListSnapshots(ctx)
	require.NoError(t, err)
	require.Len(t, snapshots, 3)

	assert.True(t, snapshots[0].RecordedAt.Equal(first))
	assert.Equal(t, "promo-1", snapshots[0].PromotionID)
	assert.Equal(t, 120, snapshots[0].KeysAvailable)
	assert.Equal(t, "promo-2", snapshots[1].PromotionID)
	assert.True(t, snapshots[2].RecordedAt.Equal(second))
	assert.Equal(t, 80, snapshots[2].KeysAvailable)
}

func TestRecordNoPromotions(t *testing.T) {
	store := openStore(t)
	require.NoError(t, store.RecordPromotions(context.Background(), time.Now(), nil))

	snapshots, err := store.ListSnapshots(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snapshots)
}

func TestExportCSV(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	recordedAt := time.Date(2025, 11, 17, 10, 0, 0, 0, time.UTC)
	promotions := []*amd.Promotion{
		{ID: "promo-1", Title: "Space Game", Slug: "space-game", KeysAvailable: 120, Status: "active"},
	}
	require.NoError(t, store.RecordPromotions(ctx, recordedAt, promotions))

	path := filepath.Join(t.TempDir(), "series.csv")
	require.NoError(t, store.ExportCSV(ctx, path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, []string{"timestamp", "promotion_id", "title", "slug", "keys_available", "status"}, rows[0])
	assert.Equal(t, []string{"2025-11-17T10:00:00Z", "promo-1", "Space Game", "space-game", "120", "active"}, rows[1])
}
