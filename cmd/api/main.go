package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wallet-ledger/config"
	httpHandler "wallet-ledger/internal/adapter/http/handler"
	kafkaMessaging "wallet-ledger/internal/adapter/messaging/kafka"
	"wallet-ledger/internal/adapter/processor/paystack"
	memStorage "wallet-ledger/internal/adapter/storage/memory"
	pgStorage "wallet-ledger/internal/adapter/storage/postgres"
	redisStorage "wallet-ledger/internal/adapter/storage/redis"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/internal/service"
	"wallet-ledger/pkg/logger"

	"github.com/rs/zerolog"
)

// storage is the set of ports one storage driver provides.
type storage struct {
	entries    ports.LedgerEntryRepository
	wallets    ports.WalletRepository
	balances   ports.WalletBalanceRepository
	events     ports.ProcessorEventRepository
	transactor ports.DBTransactor
	health     ports.HealthChecker
	close      func()
}

func openStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*storage, error) {
	switch cfg.Storage.Driver {
	case "memory":
		log.Warn().Msg("Using in-memory storage; balances are lost on restart")
		store := memStorage.NewStore(cfg.Engine.LockTimeout)
		return &storage{
			entries:    memStorage.NewLedgerEntryRepo(store),
			wallets:    memStorage.NewWalletRepo(store),
			balances:   memStorage.NewWalletBalanceRepo(store),
			events:     memStorage.NewProcessorEventRepo(store),
			transactor: memStorage.NewTransactor(store),
			health:     memStorage.HealthCheck{},
			close:      func() {},
		}, nil
	case "postgres", "":
		pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
		if err != nil {
			return nil, err
		}
		log.Info().Msg("PostgreSQL connected")
		return &storage{
			entries:    pgStorage.NewLedgerEntryRepo(pool),
			wallets:    pgStorage.NewWalletRepo(pool),
			balances:   pgStorage.NewWalletBalanceRepo(pool),
			events:     pgStorage.NewProcessorEventRepo(pool),
			transactor: pgStorage.NewTransactor(pool, cfg.Engine.LockTimeout),
			health:     pgStorage.NewHealthCheck(pool),
			close:      pool.Close,
		}, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Str("storage", cfg.Storage.Driver).
		Int("port", cfg.Server.Port).
		Msg("Starting wallet ledger")

	if cfg.Paystack.SecretKey == "" {
		log.Warn().Msg("paystack.secret_key is empty; every webhook will fail signature verification")
	}

	ctx := context.Background()

	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open storage")
	}
	defer store.close()

	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Effects go to Kafka when brokers are configured, otherwise to the log.
	var dispatcher ports.EffectDispatcher
	if len(cfg.Kafka.Brokers) > 0 {
		publisher := kafkaMessaging.NewPublisher(
			kafkaMessaging.NewWriter(cfg.Kafka, log),
			logger.Component(log, "kafka"),
		)
		defer publisher.Close()
		dispatcher = publisher
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("Kafka effect publisher ready")
	} else {
		dispatcher = kafkaMessaging.NewLogDispatcher(logger.Component(log, "effects"))
	}

	sigSvc := service.NewHMACSignatureService()
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Issuer)
	processor := paystack.NewClient(cfg.Paystack, nil, logger.Component(log, "paystack"))

	engine := service.NewBalanceEngine(
		store.entries,
		store.wallets,
		store.balances,
		store.transactor,
		logger.Component(log, "engine"),
	)
	gateway := service.NewReconciliationGateway(
		engine,
		store.entries,
		store.wallets,
		store.events,
		redisStorage.NewDedupeStore(rdb),
		dispatcher,
		processor,
		sigSvc,
		service.GatewayConfig{
			Provider:    "paystack",
			Secret:      cfg.Paystack.SecretKey,
			DedupeTTL:   cfg.Reconciliation.DedupeTTL,
			CallbackURL: cfg.Paystack.CallbackURL,
		},
		logger.Component(log, "reconciliation"),
	)
	querySvc := service.NewWalletQueryService(store.entries, store.wallets, store.balances, logger.Component(log, "query"))

	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		Gateway:  gateway,
		QuerySvc: querySvc,
		TokenSvc: tokenSvc,
		WebhookRetry: httpHandler.WebhookRetryConfig{
			MaxAttempts: cfg.Reconciliation.MaxAttempts,
			Backoff:     cfg.Reconciliation.Backoff,
		},
		RateLimitStore: redisStorage.NewRateLimitStore(rdb),
		HealthCheckers: []ports.HealthChecker{store.health, redisStorage.NewHealthCheck(rdb)},
		Mode:           cfg.Server.Mode,
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
