// Package iocache stores ranking snapshots and ranking history in SQL backends.
package iocache

import (
	"sync"

	"github.com/huangsam/analyzer/internal/contract"
)

// CacheStoreManager owns the snapshot and history stores for the process.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	snapshot     contract.CacheStore
	analysis     contract.AnalysisStore
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// GetSnapshotStore returns the store holding the last ranking of each project.
func (mgr *CacheStoreManager) GetSnapshotStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.snapshot
}

// GetAnalysisStore returns the ranking history store.
func (mgr *CacheStoreManager) GetAnalysisStore() contract.AnalysisStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.analysis
}
