package repo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jobdropo/messages-service/internal/domain"
)

// threadLimit caps the aggregation result to bound response time.
const threadLimit = 200

func (s *Store) InsertNachricht(ctx context.Context, n *domain.Nachricht) error {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	if n.Kind == "" {
		n.Kind = domain.KindNormal
	}
	res, err := s.colNachrichten.InsertOne(ctx, n)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		n.ID = oid
	}
	return nil
}

// ListNachrichten returns the full history of one thread, oldest first.
// _id breaks created_at ties so the order is stable.
func (s *Store) ListNachrichten(ctx context.Context, auftragID string, limit, skip int) ([]domain.Nachricht, error) {
	if limit <= 0 || limit > 500 {
		limit = 200
	}
	if skip < 0 {
		skip = 0
	}
	cur, err := s.colNachrichten.Find(ctx,
		bson.M{"auftrag_id": auftragID},
		options.Find().SetLimit(int64(limit)).SetSkip(int64(skip)).
			SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []domain.Nachricht
	for cur.Next(ctx) {
		var n domain.Nachricht
		if err := cur.Decode(&n); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, cur.Err()
}

func viewFilter(v domain.View) bson.M {
	switch v {
	case domain.ViewArchived:
		return bson.M{"archived": true, "deleted": false}
	case domain.ViewTrashed:
		return bson.M{"deleted": true}
	default:
		return bson.M{"archived": false, "deleted": false}
	}
}

// ThreadRows groups the viewer's messages by auftrag_id, newest activity
// first: one row per thread with the latest message as preview and an
// unread count relative to the viewer's watermark.
func (s *Store) ThreadRows(ctx context.Context, viewer string, view domain.View, since time.Time) ([]domain.ThreadSummary, error) {
	match := viewFilter(view)
	match["$or"] = []bson.M{{"von": viewer}, {"an": viewer}}

	pipeline := []bson.M{
		{"$match": match},
		{"$sort": bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}},
		{"$group": bson.M{
			"_id":         "$auftrag_id",
			"lastMessage": bson.M{"$first": "$text"},
			"lastAt":      bson.M{"$first": "$created_at"},
			"kundeName":   bson.M{"$first": "$kunde_name"},
			"partner": bson.M{"$first": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$von", viewer}}, "$an", "$von",
			}}},
			"archived":    bson.M{"$first": "$archived"},
			"deleted":     bson.M{"$first": "$deleted"},
			"unreadCount": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$and": bson.A{
					bson.M{"$gt": bson.A{"$created_at", since}},
					bson.M{"$ne": bson.A{"$von", viewer}},
				}},
				1, 0,
			}}},
		}},
		{"$sort": bson.D{{Key: "lastAt", Value: -1}, {Key: "_id", Value: -1}}},
		{"$limit": threadLimit},
	}

	cur, err := s.colNachrichten.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []domain.ThreadSummary
	for cur.Next(ctx) {
		var row struct {
			AuftragID   string    `bson:"_id"`
			LastMessage string    `bson:"lastMessage"`
			LastAt      time.Time `bson:"lastAt"`
			KundeName   string    `bson:"kundeName"`
			Partner     string    `bson:"partner"`
			Archived    bool      `bson:"archived"`
			Deleted     bool      `bson:"deleted"`
			UnreadCount int       `bson:"unreadCount"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		out = append(out, domain.ThreadSummary{
			AuftragID:   row.AuftragID,
			LastMessage: row.LastMessage,
			LastAt:      row.LastAt,
			UnreadCount: row.UnreadCount,
			KundeName:   row.KundeName,
			Partner:     row.Partner,
			Archived:    row.Archived,
			Deleted:     row.Deleted,
		})
	}
	return out, cur.Err()
}

// CountUnread counts inbound messages newer than since, excluding the
// owner's own and anything already in the trash. A zero since counts all
// inbound messages.
func (s *Store) CountUnread(ctx context.Context, owner string, since time.Time) (int64, error) {
	filter := bson.M{
		"an":      owner,
		"von":     bson.M{"$ne": owner},
		"deleted": false,
	}
	if !since.IsZero() {
		filter["created_at"] = bson.M{"$gt": since}
	}
	return s.colNachrichten.CountDocuments(ctx, filter)
}
