// Package sweep removes trashed messages whose retention window has
// elapsed. Mongo's TTL index performs the same deletion on its own; the
// sweep exists for deployments that disable TTL monitoring and to make
// the expiry boundary observable and testable.
package sweep

import (
	"context"
	"fmt"
	"time"

	"github.com/adhocore/gronx"
	"go.uber.org/zap"

	"github.com/jobdropo/messages-service/internal/log"
	"github.com/jobdropo/messages-service/internal/metrics"
	"github.com/jobdropo/messages-service/internal/repo"
)

type Sweeper struct {
	Store     *repo.Store
	Retention time.Duration
}

func New(store *repo.Store) *Sweeper {
	return &Sweeper{Store: store, Retention: repo.TrashRetention}
}

// RunOnce deletes everything trashed before now minus the retention
// window and returns the number of removed messages.
func (s *Sweeper) RunOnce(ctx context.Context) (int64, error) {
	cutoff := time.Now().UTC().Add(-s.Retention)
	n, err := s.Store.SweepExpired(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		metrics.ThreadsSwept.Add(float64(n))
		log.L().Info("expiry sweep removed messages", zap.Int64("count", n))
	}
	return n, nil
}

// Start schedules RunOnce on the given cron expression until the context
// is cancelled. Returns a cancel func for shutdown.
func (s *Sweeper) Start(ctx context.Context, cronExpr string) (context.CancelFunc, error) {
	if cronExpr == "" {
		cronExpr = "0 3 * * *"
	}
	if !gronx.IsValid(cronExpr) {
		return nil, fmt.Errorf("invalid sweep cron expression: %s", cronExpr)
	}

	ctx2, cancel := context.WithCancel(ctx)
	go s.run(ctx2, cronExpr)
	log.L().Info("expiry sweep scheduled", zap.String("cron", cronExpr))
	return cancel, nil
}

func (s *Sweeper) run(ctx context.Context, cronExpr string) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		next, err := gronx.NextTickAfter(cronExpr, time.Now().UTC(), false)
		if err != nil {
			log.L().Error("sweep next tick failed", zap.Error(err))
			select {
			case <-time.After(30 * time.Second):
			case <-ctx.Done():
				return
			}
			continue
		}

		select {
		case <-time.After(time.Until(next)):
			if _, err := s.RunOnce(ctx); err != nil {
				log.L().Error("expiry sweep failed", zap.Error(err))
			}
		case <-ctx.Done():
			return
		}
	}
}
