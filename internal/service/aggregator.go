package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/jobdropo/messages-service/internal/domain"
	"github.com/jobdropo/messages-service/internal/log"
)

// Threads returns the viewer's conversation list for one view, newest
// activity first, each row annotated with a best-effort counterparty
// name and an unread count relative to the supplied watermark.
//
// Name resolution never fails the call: a broken job lookup degrades to
// the email-derived name, then to the generic fallback. Only a store
// error on the aggregation itself is surfaced.
func (s *Service) Threads(ctx context.Context, viewer string, view domain.View, since time.Time) ([]domain.ThreadSummary, error) {
	// the cache only serves the watermark-free shape; unread counts are
	// viewer-time data and always recomputed
	cached := since.IsZero()
	if cached {
		if rows, ok := s.Cache.Get(ctx, viewer, view); ok {
			return rows, nil
		}
	}

	rows, err := s.Store.ThreadRows(ctx, viewer, view, since)
	if err != nil {
		return nil, err
	}

	for i := range rows {
		rows[i].KundeName = s.resolveKundeName(ctx, viewer, &rows[i])
	}

	if cached {
		s.Cache.Set(ctx, viewer, view, rows)
	}
	return rows, nil
}

func (s *Service) resolveKundeName(ctx context.Context, viewer string, row *domain.ThreadSummary) string {
	if row.KundeName != "" {
		return row.KundeName
	}

	counterparty := row.Partner
	if counterparty == domain.PartySystem || counterparty == viewer {
		counterparty = ""
	}

	a, err := s.Store.FindAuftrag(ctx, row.AuftragID)
	if err == nil && a != nil {
		if a.AuftraggeberName != "" && a.ErstelltVon != viewer {
			return a.AuftraggeberName
		}
		if counterparty == "" && a.ErstelltVon != viewer {
			counterparty = a.ErstelltVon
		}
	} else if err != nil {
		log.L().Debug("auftrag lookup failed during aggregation",
			zap.String("auftrag_id", row.AuftragID), zap.Error(err))
	}

	if name := DeriveNameFromEmail(counterparty); name != "" {
		return name
	}
	return FallbackName(row.AuftragID)
}
