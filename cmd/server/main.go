package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/WalesndWebs/project-prodigyloan/internal/config"
	api "github.com/WalesndWebs/project-prodigyloan/internal/http"
	"github.com/WalesndWebs/project-prodigyloan/internal/identity"
	"github.com/WalesndWebs/project-prodigyloan/internal/log"
	"github.com/WalesndWebs/project-prodigyloan/internal/metrics"
	"github.com/WalesndWebs/project-prodigyloan/internal/queue"
	"github.com/WalesndWebs/project-prodigyloan/internal/repo"
	"github.com/WalesndWebs/project-prodigyloan/internal/session"
)

func main() {
	cfg := config.Load()

	logger, err := log.Init(cfg.Prod)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	metrics.MustRegister()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	store, err := repo.NewStore(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Fatal("mongo connect", zap.Error(err))
	}
	defer store.Close(context.Background())

	if err := store.EnsureIndexes(ctx); err != nil {
		logger.Fatal("ensure indexes", zap.Error(err))
	}

	var rds *repo.Redis
	if cfg.RedisAddr != "" {
		rds = repo.NewRedis(cfg.RedisAddr)
		defer rds.Close()
		if err := rds.Ping(ctx); err != nil {
			logger.Warn("redis unreachable, rate limiting disabled", zap.Error(err))
			rds = nil
		}
	}

	pub := queue.NewNoop()
	if cfg.RabbitURL != "" {
		p, err := queue.NewRabbit(cfg.RabbitURL, cfg.EventsExchange)
		if err != nil {
			logger.Warn("rabbit unreachable, events disabled", zap.Error(err))
		} else {
			pub = p
			defer p.Close()
		}
	}

	provider := identity.NewLocalProvider(store, cfg.JWTSecret,
		time.Duration(cfg.AccessTTLMin)*time.Minute,
		time.Duration(cfg.RefreshTTLDays)*24*time.Hour)

	// watch the provider's auth-state feed and log session transitions
	resolver := session.NewResolver(provider, store)
	resolver.Start(context.Background())
	defer resolver.Close()
	go func() {
		for st := range resolver.Updates() {
			switch st.Readiness {
			case session.Authenticated:
				uid := ""
				if st.Identity != nil {
					uid = st.Identity.ID
				}
				logger.Info("session authenticated",
					zap.String("uid", uid), zap.Bool("profile", st.Profile != nil))
			case session.Anonymous:
				logger.Info("session cleared")
			}
		}
	}()

	h := api.NewHandler(store, provider, rds, cfg.RateLimitPerMin, pub, cfg.EventsExchange)
	r := api.NewRouter(h)

	srvErr := make(chan error, 1)
	go func() { srvErr <- r.Run(":" + cfg.Port) }()

	logger.Info("portal listening", zap.String("port", cfg.Port))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		logger.Info("shutting down", zap.String("signal", s.String()))
	case err := <-srvErr:
		logger.Error("server error", zap.Error(err))
	}
}
