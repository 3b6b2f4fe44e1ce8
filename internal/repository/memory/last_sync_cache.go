package memory

import (
	"time"

	"github.com/byeager-uptime/docmost/internal/entity"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// LastSyncCache keeps the most recent sync result per workspace in memory so
// status lookups and incremental change detection skip a settings-row read.
type LastSyncCache struct {
	cache *cache.Cache
}

func NewLastSyncCache() *LastSyncCache {
	// Entries expire after 1 hour; expired items are purged every 10 minutes.
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &LastSyncCache{
		cache: c,
	}
}

func (r *LastSyncCache) Save(workspaceId uuid.UUID, result *entity.SyncResult) {
	r.cache.Set(workspaceId.String(), result, cache.DefaultExpiration)
}

func (r *LastSyncCache) Get(workspaceId uuid.UUID) (*entity.SyncResult, bool) {
	if x, found := r.cache.Get(workspaceId.String()); found {
		return x.(*entity.SyncResult), true
	}
	return nil, false
}
