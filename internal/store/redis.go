package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const connectTimeout = 5 * time.Second

// RedisBlob stores blobs in Redis so state survives process restarts.
type RedisBlob struct {
	client *redis.Client
	logger *zap.SugaredLogger
}

// NewRedisBlob connects to the Redis server at addr and verifies the
// connection with a ping before returning.
func NewRedisBlob(addr, password string, db int, logger *zap.SugaredLogger) (*RedisBlob, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}

	logger.Infow("connected to redis", "addr", addr, "db", db)
	return &RedisBlob{client: client, logger: logger}, nil
}

// Get returns the value stored under key, or (nil, nil) when the key does
// not exist.
func (s *RedisBlob) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %q: %w", key, err)
	}
	return value, nil
}

// Set stores value under key with no expiry.
func (s *RedisBlob) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}

// Close releases the underlying client connections.
func (s *RedisBlob) Close() error {
	return s.client.Close()
}
