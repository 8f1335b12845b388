package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	docs "github.com/jobdropo/messages-service/docs"
	"github.com/jobdropo/messages-service/internal/config"
	httpapi "github.com/jobdropo/messages-service/internal/http"
	"github.com/jobdropo/messages-service/internal/log"
	"github.com/jobdropo/messages-service/internal/metrics"
	"github.com/jobdropo/messages-service/internal/queue"
	"github.com/jobdropo/messages-service/internal/repo"
	"github.com/jobdropo/messages-service/internal/security"
	"github.com/jobdropo/messages-service/internal/service"
	"github.com/jobdropo/messages-service/internal/sweep"
)

// @title JobDropo Messages API
// @version 0.1.0
// @description Message threads between Auftraggeber and Dienstleister.
// @schemes http https
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()

	logger, err := log.Init(cfg.Prod)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, err := repo.NewStore(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Fatal("mongo connect", zap.Error(err))
	}
	defer store.Close(context.Background())

	if err := store.EnsureIndexes(ctx); err != nil {
		logger.Fatal("ensure indexes", zap.Error(err))
	}

	var cache *repo.ThreadCache
	if cfg.ThreadCacheTTL > 0 {
		cache = repo.NewThreadCache(cfg.RedisAddr, time.Duration(cfg.ThreadCacheTTL)*time.Second)
		if err := cache.Ping(ctx); err != nil {
			logger.Warn("redis unavailable, thread cache disabled", zap.Error(err))
			cache = nil
		} else {
			defer cache.Close()
		}
	}

	pub, err := queue.NewRabbit(cfg.RabbitURL, cfg.EventExchange)
	if err != nil {
		logger.Warn("rabbit unavailable, events disabled", zap.Error(err))
		pub = queue.NewNoop()
	}
	defer pub.Close()

	metrics.MustRegister()

	var jwks *security.Fetcher
	if cfg.AuthJWKSURL != "" {
		jwks = security.NewFetcher(cfg.AuthJWKSURL, time.Duration(cfg.JWKSCacheSeconds)*time.Second)
	} else {
		logger.Warn("AUTH_JWKS_URL empty, requests are not authenticated")
	}

	svc := service.New(store, cache, pub)

	sw := sweep.New(store)
	if cfg.SweepEnabled {
		stopSweep, err := sw.Start(context.Background(), cfg.SweepCron)
		if err != nil {
			logger.Fatal("sweep start", zap.Error(err))
		}
		defer stopSweep()
	}

	docs.SwaggerInfo.BasePath = "/"

	h := httpapi.NewHandler(svc)
	r := httpapi.NewRouter(h, jwks, cfg.RateLimitPerMin)

	srvErr := make(chan error, 1)
	go func() { srvErr <- r.Run(":" + cfg.Port) }()

	logger.Info("messages-service listening", zap.String("port", cfg.Port))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		logger.Info("signal received, shutting down", zap.String("signal", s.String()))
	case err := <-srvErr:
		logger.Error("server error", zap.Error(err))
	}
}
