package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/jobdropo/messages-service/internal/config"
	"github.com/jobdropo/messages-service/internal/domain"
	"github.com/jobdropo/messages-service/internal/log"
	"github.com/jobdropo/messages-service/internal/queue"
)

// The notifier consumes message events off the topic exchange and fans
// them out to whatever channel ops wires in (mail, push). Lifecycle
// changes carry no notification; only sends do.
func main() {
	cfg := config.Load()

	logger, err := log.Init(cfg.Prod)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cons, err := queue.NewConsumer(cfg.RabbitURL, cfg.EventExchange, "notify.nachrichten", "nachricht.#")
	if err != nil {
		logger.Fatal("rabbit consumer init", zap.Error(err))
	}
	defer cons.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("notifier up",
		zap.String("exchange", cfg.EventExchange),
		zap.String("queue", "notify.nachrichten"))

	if err := cons.Consume(ctx, 4, func(key string, body []byte) error {
		var ev queue.NachrichtCreated
		if err := json.Unmarshal(body, &ev); err != nil {
			// malformed event; ack and move on, requeueing cannot fix it
			logger.Warn("bad event payload", zap.String("key", key), zap.Error(err))
			return nil
		}
		if ev.Kind == domain.KindSystem || ev.An == "" {
			return nil
		}
		return deliver(ev)
	}); err != nil {
		logger.Fatal("consumer stopped", zap.Error(err))
	}
}

// deliver is the delivery seam. The default build logs the notification;
// deployments replace this with their mail/push sender.
func deliver(ev queue.NachrichtCreated) error {
	log.L().Info("notify",
		zap.String("an", ev.An),
		zap.String("auftrag_id", ev.AuftragID),
		zap.String("nachricht_id", ev.NachrichtID))
	return nil
}
