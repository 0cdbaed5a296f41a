package revocation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const DefaultPrefix = "tasks:revoked:"

// Redis keeps the revocation list in Redis so every replica sees a logout.
// Keys expire with the token, so no sweeping is needed.
type Redis struct {
	client *redis.Client
	prefix string
}

func NewRedis(client *redis.Client, prefix string) *Redis {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) Revoke(ctx context.Context, jti string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil // already expired, nothing to remember
	}
	if err := r.client.Set(ctx, r.prefix+jti, 1, ttl).Err(); err != nil {
		return fmt.Errorf("revocation set: %w", err)
	}
	return nil
}

func (r *Redis) IsRevoked(ctx context.Context, jti string) (bool, error) {
	err := r.client.Get(ctx, r.prefix+jti).Err()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, redis.Nil):
		return false, nil
	}
	return false, fmt.Errorf("revocation get: %w", err)
}

// Ping reports whether Redis is reachable, for readiness checks.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
