package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"finance-tracker/internal/config"
	"finance-tracker/internal/database"
	"finance-tracker/internal/events"
	"finance-tracker/internal/middleware"
	"finance-tracker/internal/repositories"
	"finance-tracker/internal/services"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env file", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Server)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func newLogger(cfg config.ServerConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if strings.EqualFold(cfg.LogFormat, "text") {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Initialize(cfg)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer db.Close()

	metrics := services.NewPrometheusMetrics(prometheus.DefaultRegisterer)
	auditLogger := services.NewAuditLogger(logger)

	broker := newEventPublisher(cfg.AMQP, logger)
	publisher := services.NewGuardedPublisher(
		broker,
		services.NewCircuitBreaker(services.DefaultCircuitBreakerConfig()),
		metrics,
		auditLogger,
	)
	defer publisher.Close()

	userRepo := repositories.NewUserRepository(db.DB)
	oauthRepo := repositories.NewOAuthAccountRepository(db.DB)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db.DB)
	blacklistRepo := repositories.NewBlacklistedTokenRepository(db.DB)
	auditRepo := repositories.NewAuditLogRepository(db.DB)
	categoryRepo := repositories.NewCategoryRepository(db.DB)
	expenseRepo := repositories.NewExpenseRepository(db.DB)
	subscriptionRepo := repositories.NewSubscriptionRepository(db.DB)

	tokenService := services.NewTokenService(&cfg.JWT)
	passwordService := services.NewPasswordService(userRepo, cfg.Security)
	auditService := services.NewAuditService(auditRepo)
	authService := services.NewAuthService(
		userRepo, oauthRepo, refreshTokenRepo, blacklistRepo,
		passwordService, tokenService, auditService, metrics,
		cfg.Security, logger,
	)

	rateLimiter := middleware.NewRateLimiter(cfg.Security.RateLimitPerSecond, cfg.Security.RateLimitBurst)
	go rateLimiter.Run(ctx)

	e := newRouter(cfg, dependencies{
		db:            db.DB,
		auth:          authService,
		tokens:        tokenService,
		blacklist:     blacklistRepo,
		users:         services.NewUserService(userRepo, passwordService, auditService, logger),
		categories:    services.NewCategoryService(categoryRepo, publisher, auditLogger, metrics),
		expenses:      services.NewExpenseService(expenseRepo, categoryRepo, services.NewExpenseGenerator(uint64(time.Now().UnixNano())), publisher, auditLogger, metrics),
		subscriptions: services.NewSubscriptionService(subscriptionRepo, categoryRepo, publisher, auditLogger, metrics),
		dashboard:     services.NewDashboardService(expenseRepo, subscriptionRepo, categoryRepo, auditLogger, metrics, cfg.Dashboard.TopCategories),
		export:        services.NewExportService(expenseRepo, subscriptionRepo, auditLogger, metrics),
		rateLimiter:   rateLimiter,
	})

	go runMaintenance(ctx, cfg, authService, auditService, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           e,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting finance-tracker API",
			"port", cfg.Server.Port,
			"environment", cfg.Server.Environment,
			"events", cfg.AMQP.URL != "",
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("server stopped gracefully")
	return nil
}

// newEventPublisher dials the broker when one is configured. A broker that
// cannot be reached at startup falls back to dropping events.
func newEventPublisher(cfg config.AMQPConfig, logger *slog.Logger) events.Publisher {
	if cfg.URL == "" {
		logger.Info("event publishing disabled")
		return events.NoopPublisher{}
	}

	publisher, err := events.NewAMQPPublisher(cfg.URL, cfg.Exchange)
	if err != nil {
		logger.Warn("event broker unavailable, events will be dropped", "error", err)
		return events.NoopPublisher{}
	}

	logger.Info("event publishing enabled", "exchange", cfg.Exchange)
	return publisher
}

func runMaintenance(
	ctx context.Context,
	cfg *config.Config,
	authService services.AuthServiceInterface,
	auditService services.AuditServiceInterface,
	logger *slog.Logger,
) {
	ticker := time.NewTicker(cfg.Database.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed, err := authService.CleanupExpiredTokens(ctx); err != nil {
				logger.ErrorContext(ctx, "token cleanup failed", "error", err)
			} else if removed > 0 {
				logger.InfoContext(ctx, "expired tokens removed", "count", removed)
			}

			if purged, err := auditService.PurgeOlderThan(ctx, cfg.Security.AuditRetention); err != nil {
				logger.ErrorContext(ctx, "audit log purge failed", "error", err)
			} else if purged > 0 {
				logger.InfoContext(ctx, "audit logs purged", "count", purged)
			}
		}
	}
}
