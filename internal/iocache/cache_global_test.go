package iocache

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/huangsam/analyzer/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetManager(t *testing.T) {
	t.Helper()
	initOnce = sync.Once{}
	closeOnce = sync.Once{}
	Manager = &CacheStoreManager{}
}

func TestInitStores(t *testing.T) {
	dir := t.TempDir()
	cachePath := filepath.Join(dir, "cache.db")
	analysisPath := filepath.Join(dir, "analysis.db")

	t.Run("both stores", func(t *testing.T) {
		resetManager(t)
		require.NoError(t, InitStores(schema.SQLiteBackend, cachePath, schema.SQLiteBackend, analysisPath))
		assert.NotNil(t, Manager.GetSnapshotStore())
		assert.NotNil(t, Manager.GetAnalysisStore())

		// Repeated initialization is a no-op
		assert.NoError(t, InitStores(schema.DatabaseBackend("bogus"), "", "", ""))
		CloseCaching()
		CloseCaching()

		_, err := os.Stat(cachePath)
		assert.NoError(t, err)
	})

	t.Run("cache only", func(t *testing.T) {
		resetManager(t)
		require.NoError(t, InitStores(schema.SQLiteBackend, cachePath, "", ""))
		assert.NotNil(t, Manager.GetSnapshotStore())
		assert.Nil(t, Manager.GetAnalysisStore())
		CloseCaching()
	})

	t.Run("bad backend", func(t *testing.T) {
		resetManager(t)
		assert.Error(t, InitStores(schema.DatabaseBackend("bogus"), "", "", ""))
	})
}

func TestClearCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	store, err := NewCacheStore(snapshotTable, schema.SQLiteBackend, path)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	require.NoError(t, ClearCache(schema.SQLiteBackend, path, ""))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, ClearCache(schema.SQLiteBackend, path, ""), "missing file is fine")
	assert.Error(t, ClearCache(schema.SQLiteBackend, "", ""))
	assert.NoError(t, ClearAnalysis(schema.NoneBackend, "", ""))
	assert.Error(t, ClearAnalysis(schema.DatabaseBackend("bogus"), "", ""))
}
