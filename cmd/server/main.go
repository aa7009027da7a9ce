package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/george-michael9/Abrar-system/internal/cache"
	"github.com/george-michael9/Abrar-system/internal/config"
	"github.com/george-michael9/Abrar-system/internal/db"
	internalhttp "github.com/george-michael9/Abrar-system/internal/http"
	"github.com/george-michael9/Abrar-system/internal/jobs"
	"github.com/george-michael9/Abrar-system/internal/logging"
	"github.com/george-michael9/Abrar-system/internal/observability"
	"github.com/george-michael9/Abrar-system/internal/repository"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logs, err := logging.Init(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer logs.Closer()
	logger := logs.Sugar

	flushSentry, err := observability.InitSentry(cfg.SentryDSN, cfg.Env, "")
	if err != nil {
		logger.Warnw("sentry init failed", "err", err)
	} else {
		defer flushSentry()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := db.Migrate(cfg.DatabaseURL); err != nil {
		logger.Fatalw("migrations failed", "err", err)
	}

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatalw("db connection failed", "err", err)
	}
	defer pool.Close()
	store := repository.NewStore(pool)

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			cancel()
			logger.Fatalw("redis ping failed", "err", err)
		}
		cancel()
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warnw("redis close error", "err", err)
			}
		}()
	}
	snapshots := cache.NewLeaderboard(redisClient, 2*cfg.LeaderboardRefreshInterval)

	runner := jobs.New(ctx)
	runner.Every(cfg.LeaderboardRefreshInterval, "leaderboard_refresh", jobs.LeaderboardRefresh(store, snapshots, logger))
	runner.Every(cfg.EventStatusInterval, "event_status_roll", jobs.EventStatusRoll(store, logger))

	server := internalhttp.NewServer(cfg, store, snapshots, logger)
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Infow("http listening", "addr", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalw("http server error", "err", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warnw("shutdown error", "err", err)
	}
}
