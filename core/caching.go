package core

import (
	"encoding/json"
	"time"

	"github.com/huangsam/analyzer/internal/contract"
	"github.com/huangsam/analyzer/schema"
)

// currentSnapshotVersion is bumped whenever RankingSnapshot changes shape.
const currentSnapshotVersion = 1

// loadSnapshot returns the last cached ranking for key, or nil on a miss.
func loadSnapshot(store contract.CacheStore, key string) *schema.RankingSnapshot {
	if store == nil {
		return nil
	}
	data, version, _, err := store.Get(key)
	if err != nil || version != currentSnapshotVersion {
		return nil
	}
	var snap schema.RankingSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil
	}
	return &snap
}

// storeSnapshot replaces the cached ranking for key. Failures only warn.
func storeSnapshot(store contract.CacheStore, key string, snap schema.RankingSnapshot) {
	if store == nil {
		return
	}
	data, err := json.Marshal(snap)
	if err != nil {
		contract.LogWarn("Failed to encode ranking snapshot", err)
		return
	}
	if err := store.Set(key, data, currentSnapshotVersion, time.Now().Unix()); err != nil {
		contract.LogWarn("Failed to cache ranking snapshot", err)
	}
}
