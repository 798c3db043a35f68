package backend

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"giftledger/internal/config"
)

func TestFromAppConfig(t *testing.T) {
	_, err := FromAppConfig(nil)
	require.Error(t, err)

	_, err = FromAppConfig(&config.Config{DataBackend: "sheets"})
	require.Error(t, err)

	cfg, err := FromAppConfig(&config.Config{
		DataBackend:  "file",
		DataDir:      "/tmp/gl",
		SQLiteDBPath: "/tmp/gl.db",
		AMQPURL:      "amqp://localhost/",
		AMQPExchange: "giftledger",
		AMQPQueue:    "entry_changes",
	})
	require.NoError(t, err)
	assert.Equal(t, FileBackend, cfg.Type)
	assert.Equal(t, "/tmp/gl", cfg.DataDirectory)
	assert.Equal(t, "entry_changes", cfg.AMQPQueue)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"memory", Config{Type: MemoryBackend}, false},
		{"sqlite", Config{Type: SQLiteBackend, SQLiteDBPath: "x.db"}, false},
		{"sqlite without path", Config{Type: SQLiteBackend}, true},
		{"file without dir", Config{Type: FileBackend}, true},
		{"unknown", Config{Type: "sheets"}, true},
		{"amqp without queue", Config{Type: MemoryBackend, AMQPURL: "amqp://x/", AMQPExchange: "e"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGetBackendTypeStrings(t *testing.T) {
	assert.Equal(t, []string{"sqlite", "file", "memory"}, GetBackendTypeStrings())
}

func TestFactory_CreateBackend(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	f := NewFactory(nil)

	tests := []struct {
		name        string
		cfg         Config
		wantCleanup bool
	}{
		{"memory", Config{Type: MemoryBackend}, false},
		{"file", Config{Type: FileBackend, DataDirectory: filepath.Join(dir, "slots")}, false},
		{"sqlite", Config{Type: SQLiteBackend, SQLiteDBPath: filepath.Join(dir, "db", "giftledger.db")}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := f.CreateBackend(ctx, tt.cfg)
			require.NoError(t, err)
			require.NotNil(t, res.Store)
			assert.Nil(t, res.Notifier)
			assert.Equal(t, tt.wantCleanup, res.Cleanup != nil)
			if res.Cleanup != nil {
				defer res.Cleanup()
			}

			require.NoError(t, res.Store.Put(ctx, "todos", []byte(`[]`)))
			got, ok, err := res.Store.Get(ctx, "todos")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, `[]`, string(got))
		})
	}

	_, err := os.Stat(filepath.Join(dir, "slots", "todos.json"))
	assert.NoError(t, err)
}

func TestFactory_CreateBackendRejectsInvalid(t *testing.T) {
	_, err := NewFactory(nil).CreateBackend(context.Background(), Config{Type: SQLiteBackend})
	assert.Error(t, err)
}
