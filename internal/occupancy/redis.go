package occupancy

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-redis/redis/v8"

	"github.com/oshokin/crowd-alarm/internal/config"
)

// Redis reads the count stored under a key.
type Redis struct {
	// client is the Redis connection.
	client *redis.Client
	// key holds the decimal count.
	key string
}

// NewRedis wraps an existing client.
func NewRedis(client *redis.Client, key string) *Redis {
	return &Redis{
		client: client,
		key:    key,
	}
}

// OpenRedis connects to Redis and checks it answers.
func OpenRedis(ctx context.Context, cfg *config.RedisSource) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()

		return nil, fmt.Errorf("ping redis %s: %w", cfg.Addr, err)
	}

	return NewRedis(client, cfg.Key), nil
}

// Count reads the key.
func (r *Redis) Count(ctx context.Context) (int, error) {
	raw, err := r.client.Get(ctx, r.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, fmt.Errorf("%w: key %q is not set", ErrNoReading, r.key)
		}

		return 0, fmt.Errorf("get %q: %w", r.key, err)
	}

	value, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: key %q: %w", ErrMalformedCount, r.key, err)
	}

	return checkCount(value)
}

// Close closes the client.
func (r *Redis) Close() error {
	return r.client.Close()
}
