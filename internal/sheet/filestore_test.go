package sheet

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFileStore(t *testing.T, contents string) *FileStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tracker.csv")
	if contents != "" {
		require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	}
	return NewFileStore(path)
}

func TestFileStoreEmptyFile(t *testing.T) {
	store := newTestFileStore(t, "")
	ctx := context.Background()

	header, err := store.Header(ctx)
	require.NoError(t, err)
	assert.Empty(t, header)

	cells, err := store.Column(ctx, "A")
	require.NoError(t, err)
	assert.Empty(t, cells)
}

func TestFileStoreReads(t *testing.T) {
	store := newTestFileStore(t, "Date,Steps,Notes\n2026-08-30,8000,rest\n2026-08-31,100,\n")
	ctx := context.Background()

	header, err := store.Header(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Date", "Steps", "Notes"}, header)

	cells, err := store.Column(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-08-30", "2026-08-31"}, cells)

	row, err := store.Row(ctx, 3, "C")
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-08-31", "100", ""}, row)
}

func TestFileStoreUpsertRoundTrip(t *testing.T) {
	store := newTestFileStore(t, "Date,Steps,Notes\n")
	ctx := context.Background()

	res, err := Upsert(ctx, store, map[string]any{"Date": "2026-08-31", "Steps": 100}, false, "2026-08-31")
	require.NoError(t, err)
	assert.Equal(t, "append", res.Action)

	res, err = Upsert(ctx, store, map[string]any{"Date": "2026-08-31", "Notes": "ok"}, false, "2026-08-31")
	require.NoError(t, err)
	assert.Equal(t, "update", res.Action)
	assert.Equal(t, []string{"2026-08-31", "100", "ok"}, res.Written, "steps survive the second merge")

	res, err = Upsert(ctx, store, map[string]any{"Date": "2026-09-01", "Steps": 50}, true, "2026-09-01")
	require.NoError(t, err)
	assert.Equal(t, "prepend", res.Action)

	cells, err := store.Column(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-09-01", "2026-08-31"}, cells)
}
