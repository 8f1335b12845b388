package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/jobdropo/messages-service/internal/domain"
	"github.com/jobdropo/messages-service/internal/repo"
)

func newCacheEnv(t *testing.T) (context.Context, *repo.ThreadCache, func()) {
	t.Helper()
	ctx := context.Background()

	rc, err := tcredis.RunContainer(ctx, testcontainers.WithImage("redis:7"))
	if err != nil {
		t.Fatalf("redis container: %v", err)
	}
	addr, err := rc.Endpoint(ctx, "")
	if err != nil {
		t.Fatalf("redis endpoint: %v", err)
	}

	tc := repo.NewThreadCache(addr, time.Minute)
	if err := tc.Ping(ctx); err != nil {
		t.Fatalf("redis ping: %v", err)
	}
	return ctx, tc, func() {
		_ = tc.Close()
		_ = rc.Terminate(ctx)
	}
}

func sampleRows() []domain.ThreadSummary {
	return []domain.ThreadSummary{{
		AuftragID:   "job-42",
		LastMessage: "Hallo",
		LastAt:      time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
		KundeName:   "Anna",
	}}
}

func Test_ThreadCache_SetGetInvalidate(t *testing.T) {
	ctx, tc, done := newCacheEnv(t)
	defer done()

	tc.Set(ctx, ag, domain.ViewActive, sampleRows())
	rows, ok := tc.Get(ctx, ag, domain.ViewActive)
	if !ok || len(rows) != 1 || rows[0].AuftragID != "job-42" {
		t.Fatalf("cache miss after set: ok=%v rows=%+v", ok, rows)
	}

	// invalidating one party drops all three of their views, nobody else's
	tc.Set(ctx, dl, domain.ViewArchived, sampleRows())
	tc.Invalidate(ctx, ag)
	if _, ok := tc.Get(ctx, ag, domain.ViewActive); ok {
		t.Fatal("party views must be gone after invalidate")
	}
	if _, ok := tc.Get(ctx, dl, domain.ViewArchived); !ok {
		t.Fatal("other party's views must survive")
	}
}

func Test_ThreadCache_InvalidateAll(t *testing.T) {
	ctx, tc, done := newCacheEnv(t)
	defer done()

	tc.Set(ctx, ag, domain.ViewActive, sampleRows())
	tc.Set(ctx, dl, domain.ViewTrashed, sampleRows())

	tc.InvalidateAll(ctx)

	if _, ok := tc.Get(ctx, ag, domain.ViewActive); ok {
		t.Fatal("active view survived a full invalidation")
	}
	if _, ok := tc.Get(ctx, dl, domain.ViewTrashed); ok {
		t.Fatal("trashed view survived a full invalidation")
	}
}

func Test_ThreadCache_NilReceiverIsNoop(t *testing.T) {
	var tc *repo.ThreadCache
	ctx := context.Background()

	tc.Set(ctx, ag, domain.ViewActive, sampleRows())
	tc.Invalidate(ctx, ag)
	tc.InvalidateAll(ctx)
	if _, ok := tc.Get(ctx, ag, domain.ViewActive); ok {
		t.Fatal("nil cache must never report a hit")
	}
}
