package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"StratScan/internal/domain/models"
	pcache "StratScan/pkg/cache"
)

// StateStore keeps timeframe states keyed by "<marketID>:<timeframe>".
// Load returns expired entries too; the caller decides whether to refresh.
type StateStore interface {
	Load(ctx context.Context, key string) (models.CacheEntry, bool, error)
	Save(ctx context.Context, key string, entry models.CacheEntry) error
}

// StateKey builds the cache key of one market/timeframe pair.
func StateKey(marketID int, tf models.Timeframe) string {
	return fmt.Sprintf("%d:%s", marketID, tf)
}

// SharedStateStore persists entries in a pkg/cache Service (Redis or layered) so
// several instances share refresh work. Backend keys outlive the logical expiry
// by retention so a lagging reader still sees the entry as expired rather than missing.
type SharedStateStore struct {
	svc       pcache.Service
	retention time.Duration
	now       func() time.Time
}

func NewSharedStateStore(svc pcache.Service, retention time.Duration) *SharedStateStore {
	return &SharedStateStore{svc: svc, retention: retention, now: time.Now}
}

func (s *SharedStateStore) Load(ctx context.Context, key string) (models.CacheEntry, bool, error) {
	var e models.CacheEntry
	if err := s.svc.Get(ctx, pcache.GenerateKey("ftc", key), &e); err != nil {
		if errors.Is(err, pcache.ErrCacheMiss) {
			return models.CacheEntry{}, false, nil
		}
		return models.CacheEntry{}, false, fmt.Errorf("load state %s: %w", key, err)
	}
	return e, true, nil
}

func (s *SharedStateStore) Save(ctx context.Context, key string, entry models.CacheEntry) error {
	ttl := time.UnixMilli(entry.Expiry).Sub(s.now()) + s.retention
	if ttl <= 0 {
		return nil
	}
	if err := s.svc.Set(ctx, pcache.GenerateKey("ftc", key), entry, ttl); err != nil {
		return fmt.Errorf("save state %s: %w", key, err)
	}
	return nil
}
