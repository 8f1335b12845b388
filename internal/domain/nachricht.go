package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	KindNormal = "normal"
	KindSystem = "system"
)

// PartySystem is the sender value for auto-generated notifications
// (offer submitted, status changed).
const PartySystem = "system"

type Nachricht struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AuftragID  string             `bson:"auftrag_id" json:"auftrag_id"` // canonical grouping key
	AngebotID  string             `bson:"angebot_id,omitempty" json:"angebot_id,omitempty"`
	Von        string             `bson:"von" json:"von"`
	An         string             `bson:"an" json:"an"`
	Text       string             `bson:"text" json:"text"`
	Kind       string             `bson:"kind" json:"kind"` // "normal" | "system"
	KundeName  string             `bson:"kunde_name,omitempty" json:"kunde_name,omitempty"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
	Archived   bool               `bson:"archived" json:"archived"`
	Deleted    bool               `bson:"deleted" json:"deleted"`
	DeletedAt  *time.Time         `bson:"deleted_at,omitempty" json:"deleted_at,omitempty"`
}

// ThreadSummary is derived at read time, one row per Auftrag.
// It has no identity of its own: it exists as long as at least one
// non-deleted message carries its grouping key.
type ThreadSummary struct {
	AuftragID   string    `json:"auftrag_id"`
	LastMessage string    `json:"last_message"`
	LastAt      time.Time `json:"last_at"`
	UnreadCount int       `json:"unread_count"`
	KundeName   string    `json:"kunde_name"`
	Partner     string    `json:"partner,omitempty"` // counterparty email, viewer-relative
	Archived    bool      `json:"archived"`
	Deleted     bool      `json:"deleted"`
}

// View partitions messages into the three mailbox tabs.
type View string

const (
	ViewActive   View = "active"
	ViewArchived View = "archived"
	ViewTrashed  View = "trashed"
)

func ParseView(s string) (View, bool) {
	switch View(s) {
	case ViewActive, ViewArchived, ViewTrashed:
		return View(s), true
	case "":
		return ViewActive, true
	}
	return "", false
}

// Contains reports whether a message with the given flags belongs to the view.
// Every (archived, deleted) combination lands in exactly one view.
func (v View) Contains(archived, deleted bool) bool {
	switch v {
	case ViewActive:
		return !archived && !deleted
	case ViewArchived:
		return archived && !deleted
	case ViewTrashed:
		return deleted
	}
	return false
}
