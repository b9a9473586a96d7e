package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SatrioUtomo13/joint-stash-scan/internal/config"
	"github.com/SatrioUtomo13/joint-stash-scan/internal/domain"
	"github.com/SatrioUtomo13/joint-stash-scan/internal/handler"
	"github.com/SatrioUtomo13/joint-stash-scan/internal/infra/api"
	"github.com/SatrioUtomo13/joint-stash-scan/internal/infra/cache"
	"github.com/SatrioUtomo13/joint-stash-scan/internal/infra/observability"
	"github.com/SatrioUtomo13/joint-stash-scan/internal/infra/resilience"
	"github.com/SatrioUtomo13/joint-stash-scan/internal/ocr"
	"github.com/SatrioUtomo13/joint-stash-scan/internal/service"
	"github.com/SatrioUtomo13/joint-stash-scan/internal/session"
	"github.com/SatrioUtomo13/joint-stash-scan/internal/ui"

	"go.uber.org/zap"
)

func main() {
	// --- Load .env file (for local development) ---
	_ = config.LoadDotEnv(".env")

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.String("api_base_url", cfg.APIBaseURL),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Duration("member_cache_ttl", cfg.MemberCacheTTL),
		zap.Duration("scan_delay", cfg.ScanDelay),
		zap.String("frontend_origin", cfg.FrontendOrigin),
	)

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "joint-stash-scan")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Session & remote API client ---
	store := session.NewStore()
	cb := resilience.NewCircuitBreaker("dompet-api")
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	onSessionExpired := func() {
		metrics.IncrSessionEvent("expired")
		logger.Warn("session expired, token cleared")
	}
	apiClient := api.NewClient(httpClient, cfg.APIBaseURL, store, onSessionExpired, cb, logger)

	// --- Services ---
	goalSvc := service.NewGoalService(apiClient, metrics, logger)
	authSvc := service.NewAuthService(apiClient, store, metrics, logger)

	// --- Caches & scanner ---
	memberCache := cache.New[[]domain.Member](cfg.MemberCacheTTL)
	defer memberCache.Stop()

	scanner := ocr.NewMockScanner(cfg.ScanDelay, logger)

	// --- Page containers ---
	dashboard := ui.NewDashboard(goalSvc, memberCache, scanner, metrics, logger)
	manage := ui.NewManage(goalSvc, memberCache, metrics, logger)

	// --- Router ---
	router := handler.NewRouter(dashboard, manage, authSvc, store, metrics, logger, cfg.FrontendOrigin)

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
