package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jobdropo/messages-service/internal/repo"
)

type testEnv struct {
	Ctx   context.Context
	Mongo *mongodb.MongoDBContainer
	Store *repo.Store
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	mc, err := mongodb.RunContainer(ctx, testcontainers.WithImage("mongo:6"))
	if err != nil {
		t.Fatalf("mongo container: %v", err)
	}

	uri, err := mc.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("mongo uri: %v", err)
	}

	store, err := repo.NewStore(ctx, uri, "nachrichten_test")
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("indexes: %v", err)
	}

	return &testEnv{Ctx: ctx, Mongo: mc, Store: store}
}

// backdate rewrites deleted_at directly; tests cannot wait 30 days.
func backdate(t *testing.T, env *testEnv, id primitive.ObjectID, deletedAt time.Time) {
	t.Helper()
	_, err := env.Store.DB.Collection("nachrichten").UpdateOne(env.Ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"deleted_at": deletedAt}},
	)
	if err != nil {
		t.Fatalf("backdate: %v", err)
	}
}

func (e *testEnv) Close() {
	if e.Store != nil {
		_ = e.Store.Close(e.Ctx)
	}
	if e.Mongo != nil {
		_ = e.Mongo.Terminate(e.Ctx)
	}
}
