// AngelaMos | 2026
// redis.go

package core

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/templates/crm-backend/internal/config"
)

type Redis struct {
	Client *redis.Client
}

func NewRedis(ctx context.Context, cfg config.RedisConfig) (*Redis, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns
	opts.PoolTimeout = 30 * time.Second
	opts.ConnMaxIdleTime = 5 * time.Minute

	r := &Redis{Client: redis.NewClient(opts)}

	if err := r.Ping(ctx); err != nil {
		_ = r.Close() //nolint:errcheck // cleanup on connection failure
		return nil, err
	}

	return r, nil
}

func (r *Redis) Close() error {
	if r.Client != nil {
		return r.Client.Close()
	}
	return nil
}

func (r *Redis) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := r.Client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}

	return nil
}

func (r *Redis) PoolStats() *redis.PoolStats {
	return r.Client.PoolStats()
}

const denylistPrefix = "crm:denylist:access:"

// TokenDenylist records access token ids that were revoked before their
// natural expiry. Entries expire together with the token they block.
type TokenDenylist struct {
	client redis.UniversalClient
}

func NewTokenDenylist(client redis.UniversalClient) *TokenDenylist {
	return &TokenDenylist{client: client}
}

func (d *TokenDenylist) Deny(
	ctx context.Context,
	tokenID string,
	expiresAt time.Time,
) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 || tokenID == "" {
		return nil
	}

	if err := d.client.Set(ctx, denylistPrefix+tokenID, "1", ttl).Err(); err != nil {
		return fmt.Errorf("deny access token: %w", err)
	}

	return nil
}

func (d *TokenDenylist) IsDenied(
	ctx context.Context,
	tokenID string,
) (bool, error) {
	if tokenID == "" {
		return false, nil
	}

	n, err := d.client.Exists(ctx, denylistPrefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("check access token denylist: %w", err)
	}

	return n > 0, nil
}
