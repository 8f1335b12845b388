package repo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TrashRetention is how long a trashed message survives before the TTL
// index (or the sweep job) removes it for good.
const TrashRetention = 30 * 24 * time.Hour

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate")
)

type Store struct {
	Client         *mongo.Client
	DB             *mongo.Database
	colNachrichten *mongo.Collection
	colAuftraege   *mongo.Collection
	colAngebote    *mongo.Collection
}

func NewStore(ctx context.Context, uri, dbname string) (*Store, error) {
	cli, err := mongo.Connect(ctx, options.Client().
		ApplyURI(uri).
		SetRetryWrites(true).
		SetMaxPoolSize(50),
	)
	if err != nil {
		return nil, err
	}
	if err := cli.Ping(ctx, nil); err != nil {
		return nil, err
	}
	db := cli.Database(dbname)
	return &Store{
		Client:         cli,
		DB:             db,
		colNachrichten: db.Collection("nachrichten"),
		colAuftraege:   db.Collection("auftraege"),
		colAngebote:    db.Collection("angebote"),
	}, nil
}

func (s *Store) Close(ctx context.Context) error { return s.Client.Disconnect(ctx) }

// EnsureIndexes creates the query indexes and the TTL index that expires
// trashed messages 30 days after deleted_at is set. Documents without
// deleted_at are never touched by the TTL monitor.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.colNachrichten.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "auftrag_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("auftrag_created_desc"),
		},
		{
			Keys:    bson.D{{Key: "an", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("an_created_desc"),
		},
		{
			Keys:    bson.D{{Key: "von", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("von_created_desc"),
		},
		{
			Keys: bson.D{{Key: "deleted_at", Value: 1}},
			Options: options.Index().
				SetExpireAfterSeconds(int32(TrashRetention / time.Second)).
				SetName("ttl_deleted_at_30d"),
		},
	})
	if err != nil {
		return err
	}

	_, err = s.colAuftraege.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "erstellt_von", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("erstellt_von_created_desc"),
		},
	})
	if err != nil {
		return err
	}

	_, err = s.colAngebote.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "auftrag_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("auftrag_created_desc"),
		},
		{
			Keys:    bson.D{{Key: "auftrag_id", Value: 1}, {Key: "dienstleister_email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_angebot_je_dienstleister"),
		},
	})
	return err
}

func IsDup(err error) bool {
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 {
				return true
			}
		}
	}
	var ce *mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	return false
}
