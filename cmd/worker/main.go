package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/collinsceleb/idempotent-wallet/internal/config"
	"github.com/collinsceleb/idempotent-wallet/internal/infra/mongodb"
	"github.com/collinsceleb/idempotent-wallet/internal/logging"
)

// transferOutcomeEvent mirrors the payload TransferEngine.publishOutcome
// marshals onto the ledger_events exchange.
type transferOutcomeEvent struct {
	TransactionID  string `json:"transaction_id"`
	IdempotencyKey string `json:"idempotency_key"`
	FromWallet     string `json:"from_wallet"`
	ToWallet       string `json:"to_wallet"`
	Amount         string `json:"amount"`
	Status         string `json:"status"`
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger := logging.Configure(cfg.Env)

	ctx := context.Background()

	mongoClient, err := mongo.Connect(options.Client().ApplyURI(cfg.Audit.URI))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create mongo client")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			logger.Error().Err(err).Msg("failed to disconnect mongo client")
		}
	}()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		logger.Fatal().Err(err).Msg("failed to ping mongo")
	}
	logger.Info().Msg("connected to mongo")

	auditRepo := mongodb.NewAuditRepository(mongoClient, cfg.Audit.Database)
	indexCtx, cancelIndex := context.WithTimeout(ctx, 5*time.Second)
	defer cancelIndex()
	if err := auditRepo.EnsureIndexes(indexCtx); err != nil {
		logger.Fatal().Err(err).Msg("failed to ensure audit_logs indexes")
	}

	conn, err := amqp.DialConfig(cfg.Broker.URL(), amqp.Config{Properties: amqp.Table{"connection_name": "wallet-audit-worker"}})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to rabbitmq")
	}
	defer func() {
		if err := conn.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close rabbitmq connection")
		}
	}()

	ch, err := conn.Channel()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open rabbitmq channel")
	}
	defer func() {
		if err := ch.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close rabbitmq channel")
		}
	}()

	if err := ch.Qos(1, 0, false); err != nil {
		logger.Fatal().Err(err).Msg("failed to configure QoS")
	}

	if err := ch.ExchangeDeclare("ledger_events", "topic", true, false, false, false, nil); err != nil {
		logger.Fatal().Err(err).Msg("failed to declare ledger_events exchange")
	}

	q, err := ch.QueueDeclare("audit_queue", true, false, false, false, nil)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to declare audit_queue")
	}

	// interest.applied events also land on ledger_events but the audit
	// trail only covers transfer outcomes; unbound routing keys are
	// simply not delivered anywhere, which is fine for a topic exchange.
	if err := ch.QueueBind(q.Name, "transaction.#", "ledger_events", false, nil); err != nil {
		logger.Fatal().Err(err).Msg("failed to bind audit_queue")
	}

	msgs, err := ch.Consume(q.Name, "audit_worker", false, false, false, false, nil)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to register consumer")
	}

	notifyClose := make(chan *amqp.Error)
	ch.NotifyClose(notifyClose)

	logger.Info().Str("queue", q.Name).Msg("worker started, waiting for messages")

	go func() {
		for {
			select {
			case closeErr, ok := <-notifyClose:
				if ok && closeErr != nil {
					logger.Error().Err(closeErr).Msg("rabbitmq channel closed")
				}
				os.Exit(1)
			case d, ok := <-msgs:
				if !ok {
					logger.Error().Msg("message channel closed")
					os.Exit(1)
				}

				var event transferOutcomeEvent
				if err := json.Unmarshal(d.Body, &event); err != nil {
					logger.Error().Err(err).Msg("failed to decode transfer outcome event")
					if err := d.Nack(false, false); err != nil {
						logger.Error().Err(err).Msg("failed to nack malformed delivery")
					}
					continue
				}

				auditLog := mongodb.AuditLog{
					TransactionID:  event.TransactionID,
					IdempotencyKey: event.IdempotencyKey,
					FromWalletID:   event.FromWallet,
					ToWalletID:     event.ToWallet,
					Amount:         event.Amount,
					Status:         event.Status,
				}

				saveCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				err := auditRepo.Save(saveCtx, auditLog)
				cancel()
				if err != nil {
					logger.Error().Err(err).Str("transaction_id", event.TransactionID).Msg("failed to save audit log")
					if err := d.Nack(false, true); err != nil {
						logger.Error().Err(err).Msg("failed to nack delivery after mongo error")
					}
					continue
				}

				if err := d.Ack(false); err != nil {
					logger.Error().Err(err).Msg("failed to ack delivery")
				}
			}
		}
	}()

	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, os.Interrupt, syscall.SIGTERM)
	<-stopChan

	logger.Info().Msg("shutting down worker")
}
