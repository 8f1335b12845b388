package queue

import "time"

// Routing keys on the nachrichten.events topic exchange.
const (
	KeyNachrichtCreated = "nachricht.created"
	KeyThreadArchived   = "thread.archived"
	KeyThreadTrashed    = "thread.trashed"
	KeyThreadRestored   = "thread.restored"
	KeyThreadPurged     = "thread.purged"
	KeyAngebotCreated   = "angebot.created"
)

type NachrichtCreated struct {
	NachrichtID string    `json:"nachricht_id"`
	AuftragID   string    `json:"auftrag_id"`
	Von         string    `json:"von"`
	An          string    `json:"an"`
	Kind        string    `json:"kind"`
	CreatedAt   time.Time `json:"created_at"`
}

type ThreadLifecycle struct {
	AuftragID string `json:"auftrag_id"`
	Matched   int64  `json:"matched"`
	Modified  int64  `json:"modified"`
}

type AngebotCreated struct {
	AngebotID string  `json:"angebot_id"`
	AuftragID string  `json:"auftrag_id"`
	Von       string  `json:"von"`
	Preis     float64 `json:"preis"`
}
