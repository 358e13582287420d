package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"ft-go/internal/config"
	"ft-go/internal/ft"
)

const redisPingTimeout = 2 * time.Second

// redisClient is the subset of redis.Cmdable the store uses.
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Close() error
}

// RedisStore keeps snapshots as plain string values under prefix+key, with no
// expiry. A missing key (redis.Nil) is reported as absent.
type RedisStore struct {
	client redisClient
	prefix string
}

var _ ft.SnapshotStore = (*RedisStore)(nil)

// NewRedisStore connects to the server in cfg and pings it once.
func NewRedisStore(ctx context.Context, cfg config.SnapshotConfig) (*RedisStore, error) {
	if cfg.RedisAddr == "" {
		return nil, errors.New("redis snapshot store requires redis_addr to be set")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis unavailable at %s: %w", cfg.RedisAddr, err)
	}
	return newRedisStore(client, cfg.RedisPrefix), nil
}

func newRedisStore(client redisClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "ft:"
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}
	if data == nil {
		data = []byte{}
	}
	return data, nil
}

// Put relies on SET replacing the value atomically.
func (s *RedisStore) Put(ctx context.Context, key string, data []byte) error {
	if err := s.client.Set(ctx, s.prefix+key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to store snapshot: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
