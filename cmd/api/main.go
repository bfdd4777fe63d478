package main

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/collinsceleb/idempotent-wallet/internal/config"
	"github.com/collinsceleb/idempotent-wallet/internal/gateway"
	"github.com/collinsceleb/idempotent-wallet/internal/infra/http/handler"
	"github.com/collinsceleb/idempotent-wallet/internal/infra/postgres"
	"github.com/collinsceleb/idempotent-wallet/internal/infra/rabbitmq"
	redisInfra "github.com/collinsceleb/idempotent-wallet/internal/infra/redis"
	"github.com/collinsceleb/idempotent-wallet/internal/logging"
	"github.com/collinsceleb/idempotent-wallet/internal/money"
	"github.com/collinsceleb/idempotent-wallet/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Configure(cfg.Env)

	// Must happen exactly once, before any monetary calculation.
	money.Configure()

	ctx := context.Background()

	dbPool, err := postgres.NewPool(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer dbPool.Close()
	log.Info().Msg("connected to postgres")

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.Cache.Addr(), Password: cfg.Cache.Password, DB: cfg.Cache.DB})
	var transferCache gateway.TransferCache
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Msg("redis unavailable, idempotency cache disabled")
	} else {
		transferCache = redisInfra.NewTransferCache(redisClient)
		log.Info().Msg("connected to redis")
	}

	var eventPublisher gateway.EventPublisher
	rabbitConn, err := amqp.DialConfig(cfg.Broker.URL(), amqp.Config{Properties: amqp.Table{"connection_name": "wallet-api"}})
	if err != nil {
		log.Warn().Err(err).Msg("rabbitmq unavailable, outcome events will not be published")
	} else {
		defer rabbitConn.Close()
		ch, err := rabbitConn.Channel()
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open rabbitmq channel")
		}
		defer ch.Close()

		if err := rabbitmq.DeclareLedgerExchange(ch); err != nil {
			log.Fatal().Err(err).Msg("failed to declare ledger_events exchange")
		}
		eventPublisher = rabbitmq.NewPublisher(ch, log.Logger)
		log.Info().Msg("connected to rabbitmq")
	}

	walletRepo := postgres.NewWalletRepository(dbPool)
	transactionLogRepo := postgres.NewTransactionLogRepository(dbPool)
	ledgerRepo := postgres.NewLedgerRepository(dbPool)
	accountRepo := postgres.NewAccountRepository(dbPool)
	interestLogRepo := postgres.NewInterestLogRepository(dbPool)
	uow := postgres.NewUow(dbPool)

	transferEngine := usecase.NewTransferEngine(
		walletRepo, transactionLogRepo, ledgerRepo, uow, eventPublisher,
		usecase.WithLogger(log.Logger),
		usecase.WithTransferCache(transferCache),
	)
	interestEngine := usecase.NewInterestEngine(
		accountRepo, interestLogRepo, uow,
		usecase.WithInterestLogger(log.Logger),
		usecase.WithInterestPublisher(eventPublisher),
	)
	createWalletUC := usecase.NewCreateWallet(walletRepo)
	getWalletUC := usecase.NewGetWallet(walletRepo)
	listTransactionsUC := usecase.NewListTransactions(transactionLogRepo)
	listLedgerUC := usecase.NewListLedger(ledgerRepo)
	createAccountUC := usecase.NewCreateAccount(accountRepo)
	getAccountUC := usecase.NewGetAccount(accountRepo)
	listInterestHistoryUC := usecase.NewListInterestHistory(interestLogRepo)

	walletHandler := handler.NewWalletHandler(createWalletUC, getWalletUC, listTransactionsUC, listLedgerUC)
	transferHandler := handler.NewTransferHandler(transferEngine)
	accountHandler := handler.NewAccountHandler(createAccountUC, getAccountUC)
	interestHandler := handler.NewInterestHandler(interestEngine, listInterestHistoryUC)

	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(cfg.HTTP.Timeout))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			log.Error().Err(err).Msg("failed to write health check response")
		}
	})

	router.Post("/wallets", walletHandler.Create)
	router.Get("/wallets/{id}", walletHandler.Get)
	router.Get("/wallets/{id}/transactions", walletHandler.ListTransactions)
	router.Get("/wallets/{id}/ledger", walletHandler.ListLedger)
	router.Post("/transfers", transferHandler.Create)

	router.Post("/accounts", accountHandler.Create)
	router.Get("/accounts/{id}", accountHandler.Get)
	router.Post("/accounts/{id}/interest", interestHandler.CalculateDaily)
	router.Get("/accounts/{id}/interest", interestHandler.ListHistory)

	log.Info().Str("port", cfg.HTTP.Port).Msg("starting server")
	if err := http.ListenAndServe(":"+cfg.HTTP.Port, router); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
