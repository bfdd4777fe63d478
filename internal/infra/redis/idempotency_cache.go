package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/collinsceleb/idempotent-wallet/internal/gateway"
)

// TransferCache implements gateway.TransferCache. It is a pure
// latency optimization — a miss or a stale hit here never changes
// correctness, since the transfer engine always trusts the database's
// unique constraint and replay logic over this cache.
type TransferCache struct {
	client *redis.Client
}

func NewTransferCache(client *redis.Client) *TransferCache {
	return &TransferCache{client: client}
}

func (c *TransferCache) Get(ctx context.Context, idempotencyKey string) (*gateway.CachedTransferResponse, error) {
	val, err := c.client.Get(ctx, cacheKey(idempotencyKey)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, gateway.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get idempotency cache entry: %w", err)
	}

	var resp gateway.CachedTransferResponse
	if err := json.Unmarshal([]byte(val), &resp); err != nil {
		return nil, fmt.Errorf("unmarshal cached transfer response: %w", err)
	}
	return &resp, nil
}

func (c *TransferCache) Set(ctx context.Context, idempotencyKey string, resp gateway.CachedTransferResponse, ttl time.Duration) error {
	body, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("marshal cached transfer response: %w", err)
	}
	return c.client.Set(ctx, cacheKey(idempotencyKey), body, ttl).Err()
}

func cacheKey(idempotencyKey string) string {
	return "idempotency:" + idempotencyKey
}
