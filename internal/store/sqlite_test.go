package store

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	require.NoError(t, s.Init(context.Background()))
	return s
}

func TestInitIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// A second run must not fail or duplicate anything.
	require.NoError(t, s.Init(ctx))

	// Concurrent first-callers must not corrupt the schema either.
	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = s.Init(ctx)
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		assert.NoError(t, err)
	}

	var tables []string
	err := s.db.Select(&tables,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name IN ('users', 'sity') ORDER BY name`)
	require.NoError(t, err)
	assert.Equal(t, []string{"sity", "users"}, tables)
}

func TestWALJournalMode(t *testing.T) {
	s := newTestStore(t)

	var mode string
	require.NoError(t, s.db.Get(&mode, `PRAGMA journal_mode`))
	assert.Equal(t, "wal", mode)
}

func TestIncrementCityCounter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// No row pre-exists for a city that was never queried.
	count, err := s.CityCount(ctx, "Moscow")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	require.NoError(t, s.IncrementCityCounter(ctx, "Moscow"))
	count, err = s.CityCount(ctx, "Moscow")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, s.IncrementCityCounter(ctx, "Moscow"))
	require.NoError(t, s.IncrementCityCounter(ctx, "Moscow"))
	count, err = s.CityCount(ctx, "Moscow")
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestCityNamesAreOpaque(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.IncrementCityCounter(ctx, "Paris"))
	require.NoError(t, s.IncrementCityCounter(ctx, "paris"))

	count, err := s.CityCount(ctx, "Paris")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = s.CityCount(ctx, "paris")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRecordUserCityOverwrites(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.RecordUserCity(ctx, "user123", "Moscow"))
	require.NoError(t, s.RecordUserCity(ctx, "user123", "Berlin"))

	h, err := s.GetUserHistory(ctx, "user123")
	require.NoError(t, err)
	assert.Equal(t, "Berlin", h.City)

	// History stays single-valued: one row per user, not an append log.
	var rows int
	require.NoError(t, s.db.Get(&rows, `SELECT COUNT(*) FROM users WHERE id = ?`, "user123"))
	assert.Equal(t, 1, rows)
}

func TestGetUserHistoryNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetUserHistory(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}
