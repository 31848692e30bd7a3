package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"storepos/backend/internal/config"
	"storepos/backend/internal/httpapi"
	"storepos/backend/internal/logging"
	"storepos/backend/internal/reporting"
	"storepos/backend/internal/service"
	"storepos/backend/internal/store"
	"storepos/backend/internal/store/memory"
	pgstore "storepos/backend/internal/store/postgres"
	"storepos/backend/internal/xid"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.New(logging.Options{Level: cfg.LogLevel, Mode: cfg.LogMode, File: cfg.LogFile})
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := validateSecurityConfig(cfg); err != nil {
		logger.Fatal("invalid security configuration", zap.Error(err))
	}
	if cfg.AuthSecret == "" {
		logger.Warn("AUTH_SECRET is not set; user and settings endpoints are open")
	}

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped with error", zap.Error(err))
	}
	logger.Info("server stopped")
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	startCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var repo store.Repository
	closers := make([]func() error, 0, 2)
	defer func() {
		for _, closeFn := range closers {
			if err := closeFn(); err != nil {
				logger.Warn("close error", zap.Error(err))
			}
		}
	}()

	if cfg.DatabaseURL != "" {
		pg, err := pgstore.New(startCtx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("postgres unavailable and DATABASE_URL is set; refusing to start with in-memory fallback: %w", err)
		}
		repo = pg
		closers = append(closers, pg.Close)
		logger.Info("repository: postgres")
	} else {
		repo = memory.New()
		logger.Info("repository: in-memory")
	}

	var seq xid.Sequence = xid.NewCounter()
	if cfg.RedisAddr != "" {
		redisSeq := xid.NewRedisSequence(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := redisSeq.Ping(startCtx); err != nil {
			logger.Warn("redis unavailable, using local id counter", zap.Error(err))
			_ = redisSeq.Close()
		} else {
			seq = redisSeq
			closers = append(closers, redisSeq.Close)
			logger.Info("id sequence: redis")
		}
	}

	svc := service.New(repo, seq, logger)
	if err := svc.EnsureDefaults(startCtx); err != nil {
		return fmt.Errorf("seed defaults: %w", err)
	}
	if err := svc.SyncSequences(startCtx); err != nil {
		return fmt.Errorf("sync id sequences: %w", err)
	}

	gin.SetMode(gin.ReleaseMode)
	auth := httpapi.NewAuthManager(cfg.AuthSecret, time.Duration(cfg.AccessTokenTTLMinutes)*time.Minute)
	api := httpapi.New(svc, auth, cfg.AllowedOrigin, logger)

	server := &http.Server{
		Addr:              cfg.Address(),
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("POS backend listening", zap.String("addr", cfg.Address()))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 8*time.Second)
		defer shutdownCancel()
		return server.Shutdown(shutdownCtx)
	})
	if cfg.RollupSchedule != "" {
		rollup := reporting.NewRollup(svc, logger)
		g.Go(func() error {
			return rollup.Run(gctx, cfg.RollupSchedule)
		})
	}

	return g.Wait()
}

// validateSecurityConfig allows an empty secret (auth off) but rejects one
// too short to sign tokens safely.
func validateSecurityConfig(cfg config.Config) error {
	if cfg.AuthSecret != "" && len(cfg.AuthSecret) < 32 {
		return fmt.Errorf("AUTH_SECRET must be at least 32 characters when set")
	}
	if cfg.AccessTokenTTLMinutes < 0 {
		return fmt.Errorf("ACCESS_TOKEN_TTL_MINUTES must not be negative")
	}
	return nil
}
