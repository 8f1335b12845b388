package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jobdropo/messages-service/internal/domain"
	"github.com/jobdropo/messages-service/internal/queue"
)

var ErrValidation = errors.New("validation failed")

type SendInput struct {
	AuftragID string
	AngebotID string
	Von       string
	An        string
	Text      string
	Kind      string
}

// Send persists a message and notifies the event exchange. The thread
// cache of both parties is invalidated so the next list fetch sees the
// new preview.
func (s *Service) Send(ctx context.Context, in SendInput, reqID string) (*domain.Nachricht, error) {
	in.Text = strings.TrimSpace(in.Text)
	if in.AuftragID == "" || in.Text == "" || in.Von == "" || in.An == "" {
		return nil, fmt.Errorf("%w: auftragId, von, an and text are required", ErrValidation)
	}
	switch in.Kind {
	case "":
		in.Kind = domain.KindNormal
	case domain.KindNormal, domain.KindSystem:
	default:
		return nil, fmt.Errorf("%w: kind must be normal or system", ErrValidation)
	}

	n := &domain.Nachricht{
		AuftragID: in.AuftragID,
		AngebotID: in.AngebotID,
		Von:       in.Von,
		An:        in.An,
		Text:      in.Text,
		Kind:      in.Kind,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Store.InsertNachricht(ctx, n); err != nil {
		return nil, err
	}

	s.Cache.Invalidate(ctx, in.Von, in.An)
	_ = s.Pub.Publish(ctx, queue.KeyNachrichtCreated, queue.NachrichtCreated{
		NachrichtID: n.ID.Hex(),
		AuftragID:   n.AuftragID,
		Von:         n.Von,
		An:          n.An,
		Kind:        n.Kind,
		CreatedAt:   n.CreatedAt,
	}, reqID)
	return n, nil
}

// History returns a thread's messages oldest first.
func (s *Service) History(ctx context.Context, auftragID string, limit, skip int) ([]domain.Nachricht, error) {
	if auftragID == "" {
		return nil, fmt.Errorf("%w: auftragId required", ErrValidation)
	}
	return s.Store.ListNachrichten(ctx, auftragID, limit, skip)
}

// UnreadCount counts inbound messages newer than the caller-held
// watermark. The watermark is advisory client state; clearing it on
// the client resets the count.
func (s *Service) UnreadCount(ctx context.Context, owner string, since time.Time) (int64, error) {
	if owner == "" {
		return 0, fmt.Errorf("%w: ownerIdentity required", ErrValidation)
	}
	return s.Store.CountUnread(ctx, owner, since)
}

// SubmitAngebot records an offer and drops a system message into the
// job's thread so the requester sees it in the conversation.
func (s *Service) SubmitAngebot(ctx context.Context, g *domain.Angebot, reqID string) error {
	if g.AuftragID == "" || g.DienstleisterEmail == "" || g.Preis <= 0 {
		return fmt.Errorf("%w: auftragId, dienstleisterEmail and preis are required", ErrValidation)
	}
	a, err := s.Store.FindAuftrag(ctx, g.AuftragID)
	if err != nil {
		return err
	}
	if err := s.Store.CreateAngebot(ctx, g); err != nil {
		return err
	}

	text := fmt.Sprintf("Neues Angebot über %.2f € von %s", g.Preis, g.DienstleisterEmail)
	if _, err := s.Send(ctx, SendInput{
		AuftragID: g.AuftragID,
		AngebotID: g.ID.Hex(),
		Von:       domain.PartySystem,
		An:        a.ErstelltVon,
		Text:      text,
		Kind:      domain.KindSystem,
	}, reqID); err != nil {
		// the offer is saved; the notification message is best-effort
		return nil
	}

	_ = s.Pub.Publish(ctx, queue.KeyAngebotCreated, queue.AngebotCreated{
		AngebotID: g.ID.Hex(),
		AuftragID: g.AuftragID,
		Von:       g.DienstleisterEmail,
		Preis:     g.Preis,
	}, reqID)
	return nil
}
