package services

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// IdempotencyClaimer takes short-lived, cross-instance claims on submission
// idempotency keys. Claims are best effort; the unique index on payments is
// the authoritative guard.
type IdempotencyClaimer interface {
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// RedisClaimer claims keys with SET NX EX in Redis
type RedisClaimer struct {
	client *redis.Client
}

// NewRedisClaimer creates a Redis-backed idempotency claimer
func NewRedisClaimer(client *redis.Client) *RedisClaimer {
	return &RedisClaimer{client: client}
}

// Claim attempts to take the key. Returns false when another request
// already holds it.
func (c *RedisClaimer) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, key, "1", ttl).Result()
}

// Release frees a claim so the submission can be retried before the TTL
// lapses
func (c *RedisClaimer) Release(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}
