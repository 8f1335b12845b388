package repo_test

import (
	"testing"
	"time"

	"github.com/jobdropo/messages-service/internal/domain"
)

const (
	ag = "anna@example.com" // Auftraggeber
	dl = "max@example.com"  // Dienstleister
)

func seedMessage(t *testing.T, env *testEnv, auftragID, von, an, text string, at time.Time) *domain.Nachricht {
	t.Helper()
	n := &domain.Nachricht{
		AuftragID: auftragID,
		Von:       von,
		An:        an,
		Text:      text,
		Kind:      domain.KindNormal,
		CreatedAt: at,
	}
	if err := env.Store.InsertNachricht(env.Ctx, n); err != nil {
		t.Fatalf("insert: %v", err)
	}
	return n
}

func Test_ThreadRows_GroupsByAuftrag(t *testing.T) {
	env := newTestEnv(t)
	defer env.Close()

	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	seedMessage(t, env, "job-42", ag, dl, "Hallo", base)
	seedMessage(t, env, "job-42", dl, ag, "Guten Tag", base.Add(1*time.Minute))
	seedMessage(t, env, "job-42", ag, dl, "Passt Montag?", base.Add(2*time.Minute))
	seedMessage(t, env, "job-7", dl, ag, "Angebot folgt", base.Add(5*time.Minute))

	rows, err := env.Store.ThreadRows(env.Ctx, ag, domain.ViewActive, time.Time{})
	if err != nil {
		t.Fatalf("threads: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("want 2 threads, got %d: %+v", len(rows), rows)
	}

	// newest activity first
	if rows[0].AuftragID != "job-7" || rows[1].AuftragID != "job-42" {
		t.Fatalf("unexpected order: %+v", rows)
	}
	if rows[1].LastMessage != "Passt Montag?" {
		t.Fatalf("preview should be the latest message, got %q", rows[1].LastMessage)
	}
	if !rows[1].LastAt.Equal(base.Add(2 * time.Minute)) {
		t.Fatalf("lastAt mismatch: %v", rows[1].LastAt)
	}
}

func Test_ThreadRows_CarriesCounterpartyEmail(t *testing.T) {
	env := newTestEnv(t)
	defer env.Close()

	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	seedMessage(t, env, "job-42", ag, dl, "Hallo", base)
	seedMessage(t, env, "job-42", dl, ag, "Guten Tag", base.Add(time.Minute))

	rows, err := env.Store.ThreadRows(env.Ctx, ag, domain.ViewActive, time.Time{})
	if err != nil {
		t.Fatalf("threads: %v", err)
	}
	if len(rows) != 1 || rows[0].Partner != dl {
		t.Fatalf("viewer %s must see partner %s, got %+v", ag, dl, rows)
	}

	rows, err = env.Store.ThreadRows(env.Ctx, dl, domain.ViewActive, time.Time{})
	if err != nil {
		t.Fatalf("threads: %v", err)
	}
	if len(rows) != 1 || rows[0].Partner != ag {
		t.Fatalf("viewer %s must see partner %s, got %+v", dl, ag, rows)
	}
}

func Test_ThreadRows_UnreadRelativeToWatermark(t *testing.T) {
	env := newTestEnv(t)
	defer env.Close()

	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	seedMessage(t, env, "job-42", dl, ag, "eins", base)
	seedMessage(t, env, "job-42", dl, ag, "zwei", base.Add(2*time.Minute))
	seedMessage(t, env, "job-42", ag, dl, "eigene", base.Add(3*time.Minute)) // own message never counts

	rows, err := env.Store.ThreadRows(env.Ctx, ag, domain.ViewActive, base.Add(1*time.Minute))
	if err != nil {
		t.Fatalf("threads: %v", err)
	}
	if len(rows) != 1 || rows[0].UnreadCount != 1 {
		t.Fatalf("want unread=1, got %+v", rows)
	}

	// earlier watermark can only see more
	rows2, err := env.Store.ThreadRows(env.Ctx, ag, domain.ViewActive, base.Add(-1*time.Hour))
	if err != nil {
		t.Fatalf("threads: %v", err)
	}
	if rows2[0].UnreadCount < rows[0].UnreadCount {
		t.Fatalf("unread must be monotone in the watermark: %d < %d",
			rows2[0].UnreadCount, rows[0].UnreadCount)
	}
	if rows2[0].UnreadCount != 2 {
		t.Fatalf("want unread=2 for early watermark, got %d", rows2[0].UnreadCount)
	}
}

func Test_ListNachrichten_OrderedOldestFirst(t *testing.T) {
	env := newTestEnv(t)
	defer env.Close()

	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	seedMessage(t, env, "job-42", ag, dl, "erste", base)
	seedMessage(t, env, "job-42", dl, ag, "zweite", base.Add(time.Minute))
	// same timestamp as the second: _id must break the tie stably
	seedMessage(t, env, "job-42", ag, dl, "dritte", base.Add(time.Minute))

	items, err := env.Store.ListNachrichten(env.Ctx, "job-42", 0, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("want 3 messages, got %d", len(items))
	}
	if items[0].Text != "erste" {
		t.Fatalf("oldest first, got %q", items[0].Text)
	}
	if items[1].Text != "zweite" || items[2].Text != "dritte" {
		t.Fatalf("insertion order must win on equal timestamps: %q, %q", items[1].Text, items[2].Text)
	}
}

func Test_CountUnread(t *testing.T) {
	env := newTestEnv(t)
	defer env.Close()

	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	seedMessage(t, env, "job-42", dl, ag, "eins", base)
	seedMessage(t, env, "job-42", dl, ag, "zwei", base.Add(time.Minute))
	seedMessage(t, env, "job-42", ag, dl, "eigene", base.Add(2*time.Minute))

	n, err := env.Store.CountUnread(env.Ctx, ag, base.Add(30*time.Second))
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("want 1, got %d", n)
	}

	// zero since counts all inbound
	n, err = env.Store.CountUnread(env.Ctx, ag, time.Time{})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Fatalf("want 2, got %d", n)
	}
}
