package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/jobdropo/messages-service/internal/domain"
	"github.com/jobdropo/messages-service/internal/log"
	"github.com/jobdropo/messages-service/internal/queue"
	"github.com/jobdropo/messages-service/internal/repo"
)

// ErrThreadTrashed is returned when a trashed thread is archived without
// restoring it first.
var ErrThreadTrashed = errors.New("thread is in trash; restore before archiving")

// parties collects the cache-invalidation targets for a thread: both
// conversation sides, taken from the most recent messages.
func (s *Service) parties(ctx context.Context, auftragID string) ([]string, error) {
	msgs, err := s.Store.ListNachrichten(ctx, auftragID, 20, 0)
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	var out []string
	for _, m := range msgs {
		for _, p := range []string{m.Von, m.An} {
			if p != "" && p != domain.PartySystem && !seen[p] {
				seen[p] = true
				out = append(out, p)
			}
		}
	}
	return out, nil
}

// invalidate drops the thread lists of the given parties. When the
// party lookup failed the whole cache goes instead, so nobody is left
// reading a stale list for the full TTL.
func (s *Service) invalidate(ctx context.Context, parties []string, lookupErr error) {
	if lookupErr != nil {
		log.L().Warn("party lookup failed, dropping all cached thread lists", zap.Error(lookupErr))
		s.Cache.InvalidateAll(ctx)
		return
	}
	s.Cache.Invalidate(ctx, parties...)
}

// Archive toggles the archive flag on every message of the thread.
// Archiving a trashed thread is rejected; restore must come first.
// Zero matched messages is a successful no-op.
func (s *Service) Archive(ctx context.Context, auftragID string, toArchived bool, reqID string) (repo.LifecycleResult, error) {
	if toArchived {
		deleted, err := s.Store.CountDeleted(ctx, auftragID)
		if err != nil {
			return repo.LifecycleResult{}, err
		}
		if deleted > 0 {
			return repo.LifecycleResult{}, ErrThreadTrashed
		}
	}

	parties, perr := s.parties(ctx, auftragID)
	res, err := s.Store.SetArchived(ctx, auftragID, toArchived)
	if err != nil {
		return repo.LifecycleResult{}, err
	}
	s.invalidate(ctx, parties, perr)
	_ = s.Pub.Publish(ctx, queue.KeyThreadArchived,
		queue.ThreadLifecycle{AuftragID: auftragID, Matched: res.Matched, Modified: res.Modified}, reqID)
	return res, nil
}

// Trash moves the thread to the trash: deleted=true, deleted_at=now,
// archived forced off. Calling it twice yields the same end state.
func (s *Service) Trash(ctx context.Context, auftragID, reqID string) (repo.LifecycleResult, error) {
	parties, perr := s.parties(ctx, auftragID)
	res, err := s.Store.Trash(ctx, auftragID)
	if err != nil {
		return repo.LifecycleResult{}, err
	}
	s.invalidate(ctx, parties, perr)
	_ = s.Pub.Publish(ctx, queue.KeyThreadTrashed,
		queue.ThreadLifecycle{AuftragID: auftragID, Matched: res.Matched, Modified: res.Modified}, reqID)
	return res, nil
}

// Restore brings a trashed thread back to the active view.
func (s *Service) Restore(ctx context.Context, auftragID, reqID string) (repo.LifecycleResult, error) {
	parties, perr := s.parties(ctx, auftragID)
	res, err := s.Store.Restore(ctx, auftragID)
	if err != nil {
		return repo.LifecycleResult{}, err
	}
	s.invalidate(ctx, parties, perr)
	_ = s.Pub.Publish(ctx, queue.KeyThreadRestored,
		queue.ThreadLifecycle{AuftragID: auftragID, Matched: res.Matched, Modified: res.Modified}, reqID)
	return res, nil
}

// Purge permanently deletes the thread from the trash view.
func (s *Service) Purge(ctx context.Context, auftragID, reqID string) (int64, error) {
	parties, perr := s.parties(ctx, auftragID)
	n, err := s.Store.Purge(ctx, auftragID)
	if err != nil {
		return 0, err
	}
	s.invalidate(ctx, parties, perr)
	_ = s.Pub.Publish(ctx, queue.KeyThreadPurged,
		queue.ThreadLifecycle{AuftragID: auftragID, Matched: n, Modified: n}, reqID)
	return n, nil
}
