package repo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// LifecycleResult carries the matched/modified counters the UI shows
// after an archive/trash/restore call.
type LifecycleResult struct {
	Matched  int64 `json:"matched"`
	Modified int64 `json:"modified"`
}

// All lifecycle operations match on the one canonical grouping key, so a
// thread can never be orphaned under a different field spelling. Zero
// matches is a valid no-op: every operation is idempotent and safe to
// retry after a partial failure.

func (s *Store) CountDeleted(ctx context.Context, auftragID string) (int64, error) {
	return s.colNachrichten.CountDocuments(ctx, bson.M{"auftrag_id": auftragID, "deleted": true})
}

// SetArchived toggles the archive flag on every message of the thread.
// Archiving also clears any trash state; un-archiving returns the thread
// to active.
func (s *Store) SetArchived(ctx context.Context, auftragID string, archived bool) (LifecycleResult, error) {
	var update bson.M
	if archived {
		update = bson.M{
			"$set":   bson.M{"archived": true, "deleted": false},
			"$unset": bson.M{"deleted_at": ""},
		}
	} else {
		update = bson.M{"$set": bson.M{"archived": false}}
	}
	res, err := s.colNachrichten.UpdateMany(ctx, bson.M{"auftrag_id": auftragID}, update)
	if err != nil {
		return LifecycleResult{}, err
	}
	return LifecycleResult{Matched: res.MatchedCount, Modified: res.ModifiedCount}, nil
}

// Trash marks every message of the thread deleted and forces the archive
// flag off, so archived+deleted can never coexist. deleted_at starts the
// 30-day expiry clock.
func (s *Store) Trash(ctx context.Context, auftragID string) (LifecycleResult, error) {
	now := time.Now().UTC()
	res, err := s.colNachrichten.UpdateMany(ctx,
		bson.M{"auftrag_id": auftragID},
		bson.M{"$set": bson.M{"deleted": true, "deleted_at": now, "archived": false}},
	)
	if err != nil {
		return LifecycleResult{}, err
	}
	return LifecycleResult{Matched: res.MatchedCount, Modified: res.ModifiedCount}, nil
}

// Restore brings a trashed thread back to active (not to archived).
func (s *Store) Restore(ctx context.Context, auftragID string) (LifecycleResult, error) {
	res, err := s.colNachrichten.UpdateMany(ctx,
		bson.M{"auftrag_id": auftragID},
		bson.M{
			"$set":   bson.M{"deleted": false, "archived": false},
			"$unset": bson.M{"deleted_at": ""},
		},
	)
	if err != nil {
		return LifecycleResult{}, err
	}
	return LifecycleResult{Matched: res.MatchedCount, Modified: res.ModifiedCount}, nil
}

// Purge permanently deletes the thread, distinct from the automatic
// 30-day expiry. Invoked by the user from the trash view.
func (s *Store) Purge(ctx context.Context, auftragID string) (int64, error) {
	res, err := s.colNachrichten.DeleteMany(ctx, bson.M{"auftrag_id": auftragID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// SweepExpired removes messages whose deleted_at is older than the
// retention window. Mongo's TTL monitor does the same; this is for
// deployments that run with TTL monitoring off, and for tests.
func (s *Store) SweepExpired(ctx context.Context, olderThan time.Time) (int64, error) {
	res, err := s.colNachrichten.DeleteMany(ctx, bson.M{"deleted_at": bson.M{"$lte": olderThan}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
