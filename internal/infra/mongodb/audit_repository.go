package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// AuditLog is the worker's durable record of one transfer outcome
// event consumed off the ledger_events exchange. It mirrors
// TransactionLog's caller-visible fields, not its full row, since the
// audit trail exists to answer "what did we tell downstream systems",
// not to duplicate the system of record.
type AuditLog struct {
	ID             string    `bson:"_id,omitempty"`
	TransactionID  string    `bson:"transaction_id"`
	IdempotencyKey string    `bson:"idempotency_key"`
	FromWalletID   string    `bson:"from_wallet_id"`
	ToWalletID     string    `bson:"to_wallet_id"`
	Amount         string    `bson:"amount"`
	Status         string    `bson:"status"`
	ProcessedAt    time.Time `bson:"processed_at"`
}

// AuditRepository persists AuditLog documents for cmd/worker.
type AuditRepository struct {
	collection *mongo.Collection
}

func NewAuditRepository(client *mongo.Client, dbName string) *AuditRepository {
	return &AuditRepository{collection: client.Database(dbName).Collection("audit_logs")}
}

// Save inserts one audit document, stamping ProcessedAt at call time. A
// redelivery of an already-audited transaction_id hits the unique index
// and is treated as success, not an error: the audit trail is already
// complete for that transaction.
func (r *AuditRepository) Save(ctx context.Context, log AuditLog) error {
	log.ProcessedAt = time.Now().UTC()
	if _, err := r.collection.InsertOne(ctx, log); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil
		}
		return fmt.Errorf("insert audit log for transaction %s: %w", log.TransactionID, err)
	}
	return nil
}

// EnsureIndexes creates the lookup index the worker's idempotent
// consumption relies on: a duplicate delivery of the same
// transaction_id must not produce two documents.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "transaction_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create audit_logs index: %w", err)
	}
	return nil
}
