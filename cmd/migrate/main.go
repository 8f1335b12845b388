// One-time migration of the nachrichten collection to the canonical
// schema. Older app versions wrote the grouping key, timestamps and
// parties under a dozen different spellings; after this run the read
// path can rely on exact field names.
//
//	go run ./cmd/migrate -dry-run
//	go run ./cmd/migrate
package main

import (
	"context"
	"flag"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/jobdropo/messages-service/internal/config"
	"github.com/jobdropo/messages-service/internal/log"
	"github.com/jobdropo/messages-service/internal/migrate"
	"github.com/jobdropo/messages-service/internal/repo"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "report changes without writing")
	flag.Parse()

	cfg := config.Load()
	logger, err := log.Init(false)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	store, err := repo.NewStore(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Fatal("mongo connect", zap.Error(err))
	}
	defer store.Close(context.Background())

	col := store.DB.Collection("nachrichten")
	cur, err := col.Find(ctx, bson.M{})
	if err != nil {
		logger.Fatal("find", zap.Error(err))
	}
	defer cur.Close(ctx)

	var migrated, skipped, orphaned int
	for cur.Next(ctx) {
		var doc bson.M
		if err := cur.Decode(&doc); err != nil {
			logger.Fatal("decode", zap.Error(err))
		}

		set, unset, ok := migrate.Normalize(doc)
		if !ok {
			orphaned++
			logger.Warn("document has no grouping key", zap.Any("_id", doc["_id"]))
			continue
		}
		if len(set) == 0 && len(unset) == 0 {
			skipped++
			continue
		}

		if *dryRun {
			migrated++
			continue
		}

		update := bson.M{}
		if len(set) > 0 {
			update["$set"] = set
		}
		if len(unset) > 0 {
			update["$unset"] = unset
		}
		if _, err := col.UpdateOne(ctx, bson.M{"_id": doc["_id"]}, update); err != nil {
			logger.Fatal("update", zap.Any("_id", doc["_id"]), zap.Error(err))
		}
		migrated++
	}
	if err := cur.Err(); err != nil {
		logger.Fatal("cursor", zap.Error(err))
	}

	logger.Info("migration finished",
		zap.Bool("dry_run", *dryRun),
		zap.Int("migrated", migrated),
		zap.Int("already_canonical", skipped),
		zap.Int("orphaned", orphaned))
}
