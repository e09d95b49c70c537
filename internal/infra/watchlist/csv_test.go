package watchlist

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estate-watch/internal/domain/entity"
)

var seed = []entity.WatchlistEntry{
	{Region: "춘천", District: "퇴계동", AssetName: "e편한세상춘천한숲시티"},
	{Region: "춘천", District: "온의동", AssetName: "춘천센트럴타워푸르지오"},
}

func newStore(t *testing.T) (*CSVStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "watchlist.csv")
	return NewCSVStore(path, "춘천", seed), path
}

func TestCSVStore_Load_SeedsMissingFile(t *testing.T) {
	store, path := newStore(t)

	entries, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, seed, entries)

	data, err := os.ReadFile(path)
	require.NoError(t, err, "seeding persists the file")
	assert.Contains(t, string(data), "region,district,asset_name")
	assert.Contains(t, string(data), "퇴계동")
}

func TestCSVStore_SaveThenLoad_RoundTrips(t *testing.T) {
	store, _ := newStore(t)

	entries := []entity.WatchlistEntry{
		{Region: "춘천", District: "석사동", AssetName: "현진에버빌"},
	}
	require.NoError(t, store.Save(context.Background(), entries))

	got, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, entries, got)
}

func TestCSVStore_Load_TwoColumnRowsGetDefaultRegion(t *testing.T) {
	store, path := newStore(t)
	require.NoError(t, os.WriteFile(path, []byte("district,asset_name\n퇴계동,한숲시티\n"), 0o644))

	entries, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entity.WatchlistEntry{Region: "춘천", District: "퇴계동", AssetName: "한숲시티"}, entries[0])
}

func TestCSVStore_Load_SkipsMalformedRows(t *testing.T) {
	store, path := newStore(t)
	content := "region,district,asset_name\n춘천,퇴계동,한숲시티\n온의동\n춘천,,\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	entries, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "한숲시티", entries[0].AssetName)
}

func TestCSVStore_Load_CorruptFileDegradesToEmpty(t *testing.T) {
	store, path := newStore(t)
	require.NoError(t, os.WriteFile(path, []byte("\"unterminated\n"), 0o644))

	entries, err := store.Load(context.Background())
	require.NoError(t, err, "a corrupt file never blocks the merged view")
	assert.Empty(t, entries)
}

func TestCSVStore_Load_HeaderlessFileStillParses(t *testing.T) {
	store, path := newStore(t)
	require.NoError(t, os.WriteFile(path, []byte("춘천,퇴계동,한숲시티\n"), 0o644))

	entries, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "퇴계동", entries[0].District)
}
