package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"giftledger/internal/slot"
)

func setupRepo(t *testing.T) (*SQLiteRepository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "giftledger.db")
	repo, err := NewSQLiteRepository(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo, path
}

func TestSQLiteRepository_GetMissing(t *testing.T) {
	repo, _ := setupRepo(t)

	v, found, err := repo.Get(context.Background(), "todos")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, v)
}

func TestSQLiteRepository_PutOverwrites(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, "todos", []byte(`[{"id":1}]`)))
	require.NoError(t, repo.Put(ctx, "todos", []byte(`[]`)))

	v, found, err := repo.Get(ctx, "todos")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[]`, string(v))

	var rows int
	require.NoError(t, repo.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM slots`).Scan(&rows))
	assert.Equal(t, 1, rows)
}

func TestSQLiteRepository_PersistsAcrossReopen(t *testing.T) {
	repo, path := setupRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Put(ctx, "todos", []byte(`[{"id":7}]`)))
	require.NoError(t, repo.Close())

	// migrations must be idempotent on an existing database
	reopened, err := NewSQLiteRepository(path)
	require.NoError(t, err)
	defer reopened.Close()

	v, found, err := reopened.Get(ctx, "todos")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[{"id":7}]`, string(v))
}

func TestSQLiteRepository_EmptyKey(t *testing.T) {
	repo, _ := setupRepo(t)
	err := repo.Put(context.Background(), "", []byte("x"))
	assert.True(t, errors.Is(err, slot.ErrEmptyKey))
}
