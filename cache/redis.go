package cache

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "terminal-detox:upstream:"

// Redis implements the Cache interface against a Redis server,
// so that several API replicas share upstream responses
type Redis struct {
	options *redis.Options
	client  *redis.Client
}

// NewRedis parses the connection URL and creates the provider
// (doesn't open a connection)
func NewRedis(redisURL string) (*Redis, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		opt = &redis.Options{Addr: redisURL}
	}

	return &Redis{options: opt}, nil
}

// Connect opens the client and pings the server
func (r *Redis) Connect(ctx context.Context) error {
	r.client = redis.NewClient(r.options)

	err := r.client.Ping(ctx).Err()
	if err != nil {
		return errors.Wrap(err, "could not ping redis")
	}

	return nil
}

// Disconnect closes the client
func (r *Redis) Disconnect(ctx context.Context) error {
	if r.client == nil {
		return nil
	}

	return r.client.Close()
}

// Get gets a cached value
func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := r.client.Get(ctx, keyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "could not read cache key '%s'", key)
	}

	return value, true, nil
}

// Set stores a value with an expiry; a non-positive ttl skips the write
func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	err := r.client.Set(ctx, keyPrefix+key, value, ttl).Err()
	if err != nil {
		return errors.Wrapf(err, "could not write cache key '%s'", key)
	}

	return nil
}
