package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jobdropo/messages-service/internal/domain"
	"github.com/jobdropo/messages-service/internal/log"
)

var auftragStatuses = map[string]bool{
	"offen":         true,
	"vergeben":      true,
	"abgeschlossen": true,
}

// ChangeAuftragStatus updates the job status and drops a system message
// into the thread of every dienstleister who submitted an offer, so the
// change shows up in the conversation. Setting the current status again
// is a no-op.
func (s *Service) ChangeAuftragStatus(ctx context.Context, id, status, reqID string) error {
	if !auftragStatuses[status] {
		return fmt.Errorf("%w: status must be offen, vergeben or abgeschlossen", ErrValidation)
	}
	a, err := s.Store.FindAuftrag(ctx, id)
	if err != nil {
		return err
	}
	if a.Status == status {
		return nil
	}
	if _, err := s.Store.UpdateAuftragStatus(ctx, id, status); err != nil {
		return err
	}

	angebote, err := s.Store.ListAngeboteByAuftrag(ctx, id, 0)
	if err != nil {
		log.L().Warn("angebot lookup failed, status change not announced",
			zap.String("auftrag_id", id), zap.Error(err))
		return nil
	}
	text := fmt.Sprintf("Auftrag %q ist jetzt %s", a.Titel, status)
	for _, g := range angebote {
		if _, err := s.Send(ctx, SendInput{
			AuftragID: id,
			Von:       domain.PartySystem,
			An:        g.DienstleisterEmail,
			Text:      text,
			Kind:      domain.KindSystem,
		}, reqID); err != nil {
			log.L().Warn("status message not delivered",
				zap.String("an", g.DienstleisterEmail), zap.Error(err))
		}
	}
	return nil
}
