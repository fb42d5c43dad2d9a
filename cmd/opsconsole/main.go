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

	"go.uber.org/zap"

	"github.com/kailas-cloud/opsconsole/internal/config"
	dbRedis "github.com/kailas-cloud/opsconsole/internal/db/redis"
	logpkg "github.com/kailas-cloud/opsconsole/internal/logger"
	"github.com/kailas-cloud/opsconsole/internal/metrics"
	"github.com/kailas-cloud/opsconsole/internal/repository/orgselection"
	"github.com/kailas-cloud/opsconsole/internal/repository/workspacecache"
	chiTransport "github.com/kailas-cloud/opsconsole/internal/transport/chi"
	"github.com/kailas-cloud/opsconsole/internal/transport/platform"
	budgetuc "github.com/kailas-cloud/opsconsole/internal/usecase/budget"
	healthuc "github.com/kailas-cloud/opsconsole/internal/usecase/health"
	scopeuc "github.com/kailas-cloud/opsconsole/internal/usecase/scope"
	sessionuc "github.com/kailas-cloud/opsconsole/internal/usecase/session"
	"github.com/kailas-cloud/opsconsole/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting opsconsole",
		zap.String("version", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.String("platform", cfg.Platform.BaseURL),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		DB:       cfg.Database.DB,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register console metrics explicitly (no init())
	metrics.RegisterConsoleMetrics()

	platformClient := platform.New(&platform.Config{
		BaseURL: cfg.Platform.BaseURL,
		Timeout: time.Duration(cfg.Platform.TimeoutSec) * time.Second,
		Logger:  logger,
	})

	// Repositories
	lister := workspacecache.New(
		platformClient, store, cfg.Storage.KeyPrefix, cfg.WorkspaceCacheTTL(),
		metrics.WorkspaceCacheTotal, logger,
	)
	selection := orgselection.New(store, cfg.Storage.KeyPrefix)

	// Use cases
	scopeSvc := scopeuc.New(lister, scopeuc.Routes{
		Onboarding: cfg.Routes.OnboardingPath,
		Dashboard:  cfg.Routes.DashboardPath,
	}, cfg.PendingAfter(), metrics.ScopeResolutionsTotal, logger)
	sessionSvc := sessionuc.New(
		lister, lister, selection, cfg.Routes.OnboardingPath,
		metrics.OrgReconciliationsTotal, logger,
	)
	budgetSvc := budgetuc.New(platformClient)
	healthSvc := healthuc.New(store, platformClient)

	server := chiTransport.NewServer(
		scopeSvc, sessionSvc, budgetSvc, healthSvc, chiTransport.NewAppShell(cfg.UI.Dir), logger,
	)
	handler := chiTransport.NewRouter(
		server, chiTransport.NewAuthenticator(cfg.Auth.JWTSecret, cfg.Auth.Issuer), logger,
	)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}
