package client

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

type fakeAPI struct {
	mu       sync.Mutex
	items    []Message
	received []string
	failPost bool
	delay    time.Duration
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/nachrichten", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			f.mu.Lock()
			items := make([]Message, len(f.items))
			copy(items, f.items)
			f.mu.Unlock()
			_ = json.NewEncoder(w).Encode(map[string]any{"items": items})
		case http.MethodPost:
			if f.delay > 0 {
				time.Sleep(f.delay)
			}
			var in struct {
				AuftragID string `json:"auftragId"`
				Von       string `json:"von"`
				An        string `json:"an"`
				Text      string `json:"text"`
			}
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			f.mu.Lock()
			if f.failPost {
				f.mu.Unlock()
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			f.received = append(f.received, in.Text)
			m := Message{
				ID:        fmt.Sprintf("srv-%d", len(f.items)+1),
				AuftragID: in.AuftragID,
				Von:       in.Von,
				An:        in.An,
				Text:      in.Text,
				Kind:      "normal",
				CreatedAt: time.Now().UTC(),
			}
			f.items = append(f.items, m)
			f.mu.Unlock()
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(map[string]any{"item": m})
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
	return mux
}

func (f *fakeAPI) texts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.received))
	copy(out, f.received)
	return out
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func newTestPoller(srvURL string) *Poller {
	p := NewPoller(srvURL, "job-77", "anna@example.com", "max@example.com")
	p.Interval = 20 * time.Millisecond
	return p
}

func Test_Send_OptimisticEntryIsPending(t *testing.T) {
	api := &fakeAPI{}
	srv := httptest.NewServer(api.handler())
	defer srv.Close()

	// loop not started: the queued job stays put and the local entry
	// keeps its pending marker
	p := newTestPoller(srv.URL)
	if err := p.Send("hallo"); err != nil {
		t.Fatalf("send: %v", err)
	}

	msgs := p.Snapshot()
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}
	if !msgs[0].Pending {
		t.Fatal("optimistic entry not marked pending")
	}
	if msgs[0].Text != "hallo" || msgs[0].Von != "anna@example.com" {
		t.Fatalf("optimistic entry = %+v", msgs[0])
	}
}

func Test_Send_AcknowledgedEntryReplacesPending(t *testing.T) {
	api := &fakeAPI{}
	srv := httptest.NewServer(api.handler())
	defer srv.Close()

	p := newTestPoller(srv.URL)
	p.Start()
	defer p.Close()

	if err := p.Send("hallo"); err != nil {
		t.Fatalf("send: %v", err)
	}

	waitFor(t, func() bool {
		msgs := p.Snapshot()
		return len(msgs) == 1 && !msgs[0].Pending
	})
	msgs := p.Snapshot()
	if msgs[0].ID != "srv-1" {
		t.Fatalf("id = %q, want server-assigned srv-1", msgs[0].ID)
	}
	if msgs[0].CreatedAt.IsZero() {
		t.Fatal("server timestamp missing")
	}
}

func Test_Send_FailureRollsBackAndReportsDraft(t *testing.T) {
	api := &fakeAPI{failPost: true}
	srv := httptest.NewServer(api.handler())
	defer srv.Close()

	var mu sync.Mutex
	var failedDraft string
	p := newTestPoller(srv.URL)
	p.OnSendFailed = func(draft string, err error) {
		mu.Lock()
		failedDraft = draft
		mu.Unlock()
	}
	p.Start()
	defer p.Close()

	if err := p.Send("geht nicht"); err != nil {
		t.Fatalf("send: %v", err)
	}

	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return failedDraft == "geht nicht"
	})
	waitFor(t, func() bool { return len(p.Snapshot()) == 0 })
}

func Test_Send_SerializedInOrder(t *testing.T) {
	api := &fakeAPI{delay: 15 * time.Millisecond}
	srv := httptest.NewServer(api.handler())
	defer srv.Close()

	p := newTestPoller(srv.URL)
	for i := 1; i <= 3; i++ {
		if err := p.Send(fmt.Sprintf("nachricht %d", i)); err != nil {
			t.Fatalf("send %d: %v", i, err)
		}
	}
	p.Start()
	defer p.Close()

	waitFor(t, func() bool { return len(api.texts()) == 3 })
	got := api.texts()
	for i, want := range []string{"nachricht 1", "nachricht 2", "nachricht 3"} {
		if got[i] != want {
			t.Fatalf("send order = %v", got)
		}
	}
}

func Test_Refresh_PicksUpRemoteMessages(t *testing.T) {
	api := &fakeAPI{}
	srv := httptest.NewServer(api.handler())
	defer srv.Close()

	p := newTestPoller(srv.URL)
	p.Start()
	defer p.Close()

	api.mu.Lock()
	api.items = append(api.items, Message{
		ID: "srv-9", AuftragID: "job-77",
		Von: "max@example.com", An: "anna@example.com",
		Text: "bin da", Kind: "normal", CreatedAt: time.Now().UTC(),
	})
	api.mu.Unlock()

	waitFor(t, func() bool {
		msgs := p.Snapshot()
		return len(msgs) == 1 && msgs[0].ID == "srv-9"
	})
}

func Test_Send_QueueFullRollsBack(t *testing.T) {
	api := &fakeAPI{}
	srv := httptest.NewServer(api.handler())
	defer srv.Close()

	p := newTestPoller(srv.URL)
	for i := 0; i < 64; i++ {
		if err := p.Send("x"); err != nil {
			t.Fatalf("send %d: %v", i, err)
		}
	}
	if err := p.Send("überlauf"); err == nil {
		t.Fatal("expected queue-full error")
	}
	if n := len(p.Snapshot()); n != 64 {
		t.Fatalf("got %d local entries, want 64", n)
	}
}
