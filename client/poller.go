// Package client is the polling chat client used by UI shells and
// integration tooling. There is no push channel; a repeating timer
// refetches the thread and replaces the local list, and sends are
// optimistic with rollback on failure.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
)

const DefaultInterval = 5 * time.Second

// Message mirrors the API wire shape. Pending marks an optimistic local
// entry that the server has not acknowledged yet.
type Message struct {
	ID        string    `json:"id"`
	AuftragID string    `json:"auftrag_id"`
	Von       string    `json:"von"`
	An        string    `json:"an"`
	Text      string    `json:"text"`
	Kind      string    `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
	Pending   bool      `json:"-"`
}

// Poller polls one thread and serializes sends: at most one send is in
// flight, later sends wait in FIFO order. The server keeps no
// per-client dedup state, so ordering is the client's job.
type Poller struct {
	BaseURL   string
	AuftragID string
	Von       string
	An        string
	Interval  time.Duration
	HTTP      *http.Client

	// OnUpdate receives a copy of the message list after every change.
	OnUpdate func([]Message)
	// OnSendFailed receives the rolled-back draft so the UI can restore it.
	OnSendFailed func(draft string, err error)

	mu       sync.Mutex
	messages []Message

	sendq  chan sendJob
	done   chan struct{}
	closed sync.Once
}

type sendJob struct {
	localID string
	text    string
}

func NewPoller(baseURL, auftragID, von, an string) *Poller {
	return &Poller{
		BaseURL:   baseURL,
		AuftragID: auftragID,
		Von:       von,
		An:        an,
		Interval:  DefaultInterval,
		HTTP:      &http.Client{Timeout: 10 * time.Second},
		sendq:     make(chan sendJob, 64),
		done:      make(chan struct{}),
	}
}

// Start launches the poll loop: an immediate refresh, then one tick per
// interval. Close stops the loop; an in-flight request is not cancelled,
// only its result discarded.
func (p *Poller) Start() {
	go p.loop()
}

func (p *Poller) Close() {
	p.closed.Do(func() { close(p.done) })
}

func (p *Poller) loop() {
	p.refresh()
	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-p.done:
			return
		case job := <-p.sendq:
			// the timer is effectively suspended while a send runs:
			// this goroutine owns both
			p.doSend(job)
			ticker.Reset(p.Interval)
		case <-ticker.C:
			p.refresh()
		}
	}
}

// Send appends an optimistic pending entry and queues the network call.
// Returns an error only when the local queue is full.
func (p *Poller) Send(text string) error {
	job := sendJob{localID: "local-" + uuid.NewString(), text: text}

	p.mu.Lock()
	p.messages = append(p.messages, Message{
		ID:        job.localID,
		AuftragID: p.AuftragID,
		Von:       p.Von,
		An:        p.An,
		Text:      text,
		Kind:      "normal",
		CreatedAt: time.Now().UTC(),
		Pending:   true,
	})
	p.mu.Unlock()
	p.notify()

	select {
	case p.sendq <- job:
		return nil
	default:
		p.rollback(job.localID)
		return fmt.Errorf("send queue full")
	}
}

// Snapshot returns a copy of the current message list.
func (p *Poller) Snapshot() []Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Message, len(p.messages))
	copy(out, p.messages)
	return out
}

func (p *Poller) notify() {
	if p.OnUpdate != nil {
		p.OnUpdate(p.Snapshot())
	}
}

func (p *Poller) rollback(localID string) {
	p.mu.Lock()
	kept := p.messages[:0]
	for _, m := range p.messages {
		if m.ID != localID {
			kept = append(kept, m)
		}
	}
	p.messages = kept
	p.mu.Unlock()
	p.notify()
}

func (p *Poller) doSend(job sendJob) {
	body, _ := json.Marshal(map[string]string{
		"auftragId": p.AuftragID,
		"von":       p.Von,
		"an":        p.An,
		"text":      job.text,
		"kind":      "normal",
	})
	resp, err := p.HTTP.Post(p.BaseURL+"/api/nachrichten", "application/json", bytes.NewReader(body))
	if err == nil {
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusCreated {
			err = fmt.Errorf("send failed: status %d", resp.StatusCode)
		}
	}
	if err != nil {
		p.rollback(job.localID)
		if p.OnSendFailed != nil {
			p.OnSendFailed(job.text, err)
		}
		return
	}
	// drop the optimistic entry, then a full reload brings in the
	// server copy with its assigned id and timestamp
	p.rollback(job.localID)
	p.refresh()
}

func (p *Poller) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	u := p.BaseURL + "/api/nachrichten?auftragId=" + url.QueryEscape(p.AuftragID)
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	resp, err := p.HTTP.Do(req)
	if err != nil {
		return // keep the last known list; next tick retries
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return
	}

	var payload struct {
		Items []Message `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return
	}

	p.mu.Lock()
	// server state replaces everything except still-pending entries
	var pending []Message
	for _, m := range p.messages {
		if m.Pending {
			pending = append(pending, m)
		}
	}
	p.messages = append(payload.Items, pending...)
	p.mu.Unlock()
	p.notify()
}
