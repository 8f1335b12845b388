package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/jobdropo/messages-service/internal/domain"
)

// ThreadCache keeps the aggregated thread lists in redis for a few
// seconds. Threads stay a pure read-time projection; the cache is
// invalidated for both parties on every write, never updated in place.
type ThreadCache struct {
	C   *redis.Client
	TTL time.Duration
}

func NewThreadCache(addr string, ttl time.Duration) *ThreadCache {
	return &ThreadCache{C: redis.NewClient(&redis.Options{Addr: addr}), TTL: ttl}
}

func (tc *ThreadCache) Ping(ctx context.Context) error { return tc.C.Ping(ctx).Err() }
func (tc *ThreadCache) Close() error                   { return tc.C.Close() }

func threadKey(viewer string, view domain.View) string {
	return fmt.Sprintf("threads:%s:%s", viewer, view)
}

func (tc *ThreadCache) Get(ctx context.Context, viewer string, view domain.View) ([]domain.ThreadSummary, bool) {
	if tc == nil || tc.TTL <= 0 {
		return nil, false
	}
	raw, err := tc.C.Get(ctx, threadKey(viewer, view)).Bytes()
	if err != nil {
		return nil, false
	}
	var out []domain.ThreadSummary
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, false
	}
	return out, true
}

func (tc *ThreadCache) Set(ctx context.Context, viewer string, view domain.View, rows []domain.ThreadSummary) {
	if tc == nil || tc.TTL <= 0 {
		return
	}
	raw, err := json.Marshal(rows)
	if err != nil {
		return
	}
	// cache errors are never surfaced; the store remains the source of truth
	_ = tc.C.Set(ctx, threadKey(viewer, view), raw, tc.TTL).Err()
}

// InvalidateAll drops every cached thread list. Last resort when the
// affected parties cannot be determined.
func (tc *ThreadCache) InvalidateAll(ctx context.Context) {
	if tc == nil || tc.TTL <= 0 {
		return
	}
	iter := tc.C.Scan(ctx, 0, "threads:*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if len(keys) > 0 {
		_ = tc.C.Del(ctx, keys...).Err()
	}
}

// Invalidate drops all three views for each affected party.
func (tc *ThreadCache) Invalidate(ctx context.Context, parties ...string) {
	if tc == nil || tc.TTL <= 0 {
		return
	}
	keys := make([]string, 0, len(parties)*3)
	for _, p := range parties {
		if p == "" || p == domain.PartySystem {
			continue
		}
		for _, v := range []domain.View{domain.ViewActive, domain.ViewArchived, domain.ViewTrashed} {
			keys = append(keys, threadKey(p, v))
		}
	}
	if len(keys) > 0 {
		_ = tc.C.Del(ctx, keys...).Err()
	}
}
