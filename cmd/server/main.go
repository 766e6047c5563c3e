package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/iho/kinko-ledger/internal/adapter/http"
	"github.com/iho/kinko-ledger/internal/adapter/http/handler"
	postgresRepo "github.com/iho/kinko-ledger/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/kinko-ledger/internal/adapter/repository/redis"
	"github.com/iho/kinko-ledger/internal/infrastructure/config"
	"github.com/iho/kinko-ledger/internal/infrastructure/logger"
	"github.com/iho/kinko-ledger/internal/infrastructure/metrics"
	"github.com/iho/kinko-ledger/internal/infrastructure/postgres"
	"github.com/iho/kinko-ledger/internal/infrastructure/redis"
	"github.com/iho/kinko-ledger/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	appLogger := logger.New(logger.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: "kinko-ledger",
	})
	log.Logger = appLogger

	ctx := context.Background()

	// Run migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, appLogger); err != nil {
		appLogger.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns, cfg.DatabaseTimeout)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	appLogger.Info().Msg("connected to postgres")

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	appLogger.Info().Msg("connected to redis")

	// Initialize metrics
	m := metrics.New(prometheus.DefaultRegisterer)

	// Initialize stores
	txManager := postgresRepo.NewTxManager(pool)
	accountStore := postgresRepo.NewAccountStore(pool)
	webhookEventStore := postgresRepo.NewWebhookEventStore(pool)
	ledgerStore := postgresRepo.NewLedgerStore(pool)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier(appLogger)

	// Initialize use cases
	accountUC := usecase.NewAccountUseCase(accountStore, idGen)
	transferUC := usecase.NewTransferUseCase(txManager, accountStore, retrier, idGen)
	depositUC := usecase.NewDepositUseCase(txManager, accountStore, retrier, idGen, cfg.ClearingAccountID)
	webhookUC := usecase.NewWebhookUseCase(webhookEventStore, depositUC, appLogger)
	ledgerUC := usecase.NewLedgerUseCase(ledgerStore)

	// Initialize handlers
	accountHandler := handler.NewAccountHandler(accountUC, m)
	transferHandler := handler.NewTransferHandler(transferUC, m)
	depositHandler := handler.NewDepositHandler(depositUC, m)
	webhookHandler := handler.NewWebhookHandler(webhookUC, cfg.WebhookSecret, m)
	ledgerHandler := handler.NewLedgerHandler(ledgerUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:   accountHandler,
		TransferHandler:  transferHandler,
		DepositHandler:   depositHandler,
		WebhookHandler:   webhookHandler,
		LedgerHandler:    ledgerHandler,
		HealthHandler:    healthHandler,
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		Logger:           appLogger,
		RateLimit:        cfg.RateLimit,
		RateBurst:        cfg.RateBurst,
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		appLogger.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	appLogger.Info().Msg("server stopped")
}
