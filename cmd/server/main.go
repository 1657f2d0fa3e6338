package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	httpAdapter "github.com/frank113/FinDash/internal/adapter/http"
	"github.com/frank113/FinDash/internal/adapter/http/handler"
	postgresRepo "github.com/frank113/FinDash/internal/adapter/repository/postgres"
	redisRepo "github.com/frank113/FinDash/internal/adapter/repository/redis"
	sqliteRepo "github.com/frank113/FinDash/internal/adapter/repository/sqlite"
	"github.com/frank113/FinDash/internal/infrastructure/config"
	"github.com/frank113/FinDash/internal/infrastructure/logger"
	"github.com/frank113/FinDash/internal/infrastructure/metrics"
	"github.com/frank113/FinDash/internal/infrastructure/postgres"
	"github.com/frank113/FinDash/internal/infrastructure/redis"
	"github.com/frank113/FinDash/internal/infrastructure/sqlite"
	"github.com/frank113/FinDash/internal/usecase"
)

func main() {
	// A .env next to the binary is a convenience for local runs; the
	// environment always wins.
	_ = godotenv.Load()

	log := logger.New(logger.Config{Level: "info", Format: "console"})

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	log = logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx := context.Background()

	// Register Prometheus metrics
	m := metrics.New()

	// Open storage. SQLite is the zero-setup default; Postgres serves
	// installs that already run one.
	var (
		ledgerStore   usecase.LedgerStore
		accountStore  usecase.AccountStore
		categoryStore usecase.CategoryStore
		ruleStore     usecase.RuleStore

		healthChecks []handler.HealthCheck
	)

	switch cfg.StorageDriver {
	case config.DriverPostgres:
		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
			log.Fatal().Err(err).Msg("failed to migrate postgres")
		}

		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to postgres")
		}
		defer pool.Close()
		log.Info().Msg("connected to postgres")

		ledgerStore = postgresRepo.NewLedgerStore(pool)
		accountStore = postgresRepo.NewAccountStore(pool)
		categoryStore = postgresRepo.NewCategoryStore(pool)
		ruleStore = postgresRepo.NewRuleStore(pool)

		healthChecks = append(healthChecks, handler.HealthCheck{
			Name:  "postgres",
			Check: pool.Ping,
		})

	case config.DriverSQLite:
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open sqlite database")
		}
		defer db.Close()

		if err := sqlite.RunMigrations(cfg.SQLitePath); err != nil {
			log.Fatal().Err(err).Msg("failed to migrate sqlite")
		}
		log.Info().Str("path", cfg.SQLitePath).Msg("opened sqlite database")

		ledgerStore = sqliteRepo.NewLedgerStore(db)
		accountStore = sqliteRepo.NewAccountStore(db)
		categoryStore = sqliteRepo.NewCategoryStore(db)
		ruleStore = sqliteRepo.NewRuleStore(db)

		healthChecks = append(healthChecks, handler.HealthCheck{
			Name:  "sqlite",
			Check: db.PingContext,
		})
	}

	// Connect to Redis when configured. Without it the app still works;
	// reports are rebuilt on every request and imports are not replayed.
	var (
		reportCache      usecase.ReportCache
		idempotencyStore usecase.IdempotencyStore
	)
	if cfg.CacheEnabled() {
		redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisClient.Close()
		log.Info().Msg("connected to redis")

		reportCache = redisRepo.NewReportCache(redisClient)
		idempotencyStore = redisRepo.NewIdempotencyStore(redisClient)

		healthChecks = append(healthChecks, handler.HealthCheck{
			Name: "redis",
			Check: func(ctx context.Context) error {
				return redisClient.Ping(ctx).Err()
			},
		})
	}

	idGen := postgresRepo.NewULIDGenerator()

	// Initialize use cases
	accountUC := usecase.NewAccountUseCase(accountStore, idGen)
	categoryUC := usecase.NewCategoryUseCase(categoryStore, ruleStore, ledgerStore, idGen, reportCache)
	ruleUC := usecase.NewRuleUseCase(ruleStore, categoryStore, idGen)
	importUC := usecase.NewImportUseCase(ledgerStore, accountStore, ruleStore, idGen, reportCache)
	transactionUC := usecase.NewTransactionUseCase(ledgerStore, categoryStore, reportCache)
	splitUC := usecase.NewSplitUseCase(ledgerStore, categoryStore, idGen, reportCache)
	reportUC := usecase.NewReportUseCase(ledgerStore, categoryStore, reportCache)

	// Initialize handlers
	accountHandler := handler.NewAccountHandler(accountUC, m)
	importHandler := handler.NewImportHandler(importUC, cfg.StrictImports, m)
	transactionHandler := handler.NewTransactionHandler(transactionUC, splitUC, m)
	categoryHandler := handler.NewCategoryHandler(categoryUC, m)
	ruleHandler := handler.NewRuleHandler(ruleUC, m)
	reportHandler := handler.NewReportHandler(reportUC, m)
	healthHandler := handler.NewHealthHandler(healthChecks...)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:     accountHandler,
		ImportHandler:      importHandler,
		TransactionHandler: transactionHandler,
		CategoryHandler:    categoryHandler,
		RuleHandler:        ruleHandler,
		ReportHandler:      reportHandler,
		HealthHandler:      healthHandler,
		Logger:             log,
		Metrics:            m,
		IdempotencyStore:   idempotencyStore,
		IdempotencyTTL:     cfg.IdempotencyTTL,
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
		log.Info().Str("port", cfg.HTTPPort).Str("driver", cfg.StorageDriver).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
