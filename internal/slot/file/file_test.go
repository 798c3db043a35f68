package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s, err := New(filepath.Join(dir, "nested"))
	require.NoError(t, err)
	ctx := context.Background()

	_, found, err := s.Get(ctx, "todos")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Put(ctx, "todos", []byte(`[{"id":1}]`)))
	got, found, err := s.Get(ctx, "todos")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[{"id":1}]`, string(got))

	require.NoError(t, s.Put(ctx, "todos", []byte(`[]`)))
	got, _, err = s.Get(ctx, "todos")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))

	_, err = os.Stat(filepath.Join(dir, "nested", "todos.json.tmp"))
	assert.True(t, os.IsNotExist(err), "temp file should be renamed away")
}

func TestFileStoreRejectsBadKeys(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	for _, key := range []string{"", "..", "../escape", "a/b"} {
		assert.Error(t, s.Put(ctx, key, []byte("x")), "key %q", key)
		_, _, err := s.Get(ctx, key)
		assert.Error(t, err, "key %q", key)
	}
}
