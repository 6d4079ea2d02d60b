package realtime

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Presence tracks user connectivity across nodes. The in-process Registry
// answers IsUserConnected for its own node; a Presence implementation makes
// the answer cluster-wide.
type Presence interface {
	Connected(ctx context.Context, userID, connID string) error
	Disconnected(ctx context.Context, userID, connID string) error
	IsOnline(ctx context.Context, userID string) (bool, error)
}

// RedisPresence keeps one set of connection ids per user in Redis. The TTL
// guards against entries orphaned by crashed nodes; it is refreshed on every
// connect.
type RedisPresence struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// RedisPresenceOption configures a RedisPresence.
type RedisPresenceOption func(*RedisPresence)

// WithKeyPrefix overrides the default "presence:" key prefix.
func WithKeyPrefix(prefix string) RedisPresenceOption {
	return func(p *RedisPresence) {
		if prefix != "" {
			p.prefix = prefix
		}
	}
}

// WithTTL overrides the default 2h entry lifetime.
func WithTTL(ttl time.Duration) RedisPresenceOption {
	return func(p *RedisPresence) {
		if ttl > 0 {
			p.ttl = ttl
		}
	}
}

// NewRedisPresence creates a Redis-backed presence store.
func NewRedisPresence(client redis.UniversalClient, opts ...RedisPresenceOption) *RedisPresence {
	p := &RedisPresence{
		client: client,
		prefix: "presence:",
		ttl:    2 * time.Hour,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *RedisPresence) key(userID string) string {
	return p.prefix + userID
}

func (p *RedisPresence) Connected(ctx context.Context, userID, connID string) error {
	pipe := p.client.TxPipeline()
	pipe.SAdd(ctx, p.key(userID), connID)
	pipe.Expire(ctx, p.key(userID), p.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (p *RedisPresence) Disconnected(ctx context.Context, userID, connID string) error {
	if err := p.client.SRem(ctx, p.key(userID), connID).Err(); err != nil {
		return err
	}
	// Drop the key once the last connection is gone so IsOnline stays exact.
	remaining, err := p.client.SCard(ctx, p.key(userID)).Result()
	if err != nil {
		return err
	}
	if remaining == 0 {
		return p.client.Del(ctx, p.key(userID)).Err()
	}
	return nil
}

func (p *RedisPresence) IsOnline(ctx context.Context, userID string) (bool, error) {
	n, err := p.client.Exists(ctx, p.key(userID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
