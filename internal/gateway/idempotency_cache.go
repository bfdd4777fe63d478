package gateway

import (
	"context"
	"time"
)

// CachedTransferResponse is what TransferCache stores: a summary of a
// TransferResult (status and success flag) plus the log id it was
// computed from. It does not carry the wallet ids, amount or timestamps,
// so it cannot stand in for the database record on a full replay. A
// cache entry is versioned by log id — if the id in
// the database record ever moved on (it never does for a terminal log,
// but this guards against a schema change reusing keys), the database
// always wins.
type CachedTransferResponse struct {
	LogID          string
	Status         string
	Success        bool
	ErrorCode      string
	IdempotencyKey string
}

// TransferCache is the optional, read-through idempotency cache. It is a
// latency optimization only: correctness rests entirely on the unique
// constraint on transaction_logs.idempotency_key and the replay logic in
// the transfer engine. Cache loss or staleness must never produce a
// duplicate transfer.
type TransferCache interface {
	Get(ctx context.Context, idempotencyKey string) (*CachedTransferResponse, error)
	Set(ctx context.Context, idempotencyKey string, resp CachedTransferResponse, ttl time.Duration) error
}
