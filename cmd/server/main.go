package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/recipe-social/config"
	"github.com/d60-Lab/recipe-social/internal/api/handler"
	"github.com/d60-Lab/recipe-social/internal/api/middleware"
	"github.com/d60-Lab/recipe-social/internal/api/router"
	"github.com/d60-Lab/recipe-social/internal/cache"
	"github.com/d60-Lab/recipe-social/internal/repository"
	"github.com/d60-Lab/recipe-social/internal/service"
	"github.com/d60-Lab/recipe-social/pkg/database"
	"github.com/d60-Lab/recipe-social/pkg/logger"
	"github.com/d60-Lab/recipe-social/pkg/tracing"
)

// @title Recipe Social API
// @version 1.0
// @description Social graph, discovery, notifications and activity feed.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format, cfg.Server.Mode == gin.DebugMode); err != nil {
		return err
	}
	defer logger.Sync()
	gin.SetMode(cfg.Server.Mode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			logger.Warn("tracing shutdown", zap.Error(err))
		}
	}()

	sentryOn := cfg.Sentry.DSN != ""
	if sentryOn {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.Sentry.DSN, Environment: cfg.Sentry.Environment}); err != nil {
			return fmt.Errorf("init sentry: %w", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()
	store := repository.NewStore(db)

	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unavailable, summary cache disabled", zap.Error(err))
			_ = rdb.Close()
			rdb = nil
		} else {
			defer rdb.Close()
		}
	}
	summaries := cache.NewSummaryCache(store.Users, rdb, cfg.Redis.TTL)

	dispatcher := service.NewNotificationDispatcher(store, cfg.Dispatcher.QueueSize)
	stopDispatcher := dispatcher.Start(cfg.Dispatcher.Workers)

	h := handler.NewHandler(
		service.NewSocialGraphService(store, dispatcher),
		service.NewDiscoveryService(store, summaries),
		service.NewNotificationService(store),
		service.NewFeedService(store),
		service.NewActivityService(store, dispatcher),
	)

	opts := router.Options{
		ServiceName: cfg.Tracing.ServiceName,
		Sentry:      sentryOn,
		Health:      sqlDB.PingContext,
	}
	limiterStop := make(chan struct{})
	if cfg.RateLimit.Enabled {
		opts.Limiter = middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		go opts.Limiter.Run(10*time.Minute, limiterStop)
	}
	engine := router.Setup(h, middleware.NewAuthenticator(cfg.JWT.Secret, cfg.JWT.Issuer), opts)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Server.Port), zap.String("mode", cfg.Server.Mode))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	close(limiterStop)
	if err := stopDispatcher(sctx); err != nil {
		logger.Warn("dispatcher shutdown", zap.Error(err))
	}
	hits, misses := summaries.Stats()
	logger.Info("server stopped", zap.Int64("summary_cache_hits", hits), zap.Int64("summary_cache_misses", misses))
	return nil
}
