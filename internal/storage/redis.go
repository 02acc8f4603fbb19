package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisConfig locates the redis server
type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

// RedisKV stores progress snapshots in redis
type RedisKV struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisKV connects to redis. A ttl > 0 expires snapshots that are saved
// without their own expiry.
func NewRedisKV(cfg RedisConfig, ttl time.Duration) *RedisKV {
	return &RedisKV{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Address,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
		ttl: ttl,
	}
}

// Client exposes the underlying connection, e.g. for publishing.
func (r *RedisKV) Client() *redis.Client {
	return r.client
}

func (r *RedisKV) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisKV) Get(key string) ([]byte, error) {
	val, err := r.client.Get(context.Background(), key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return val, nil
}

func (r *RedisKV) Set(key string, val []byte, exp time.Duration) error {
	if exp <= 0 {
		exp = r.ttl
	}
	return r.client.Set(context.Background(), key, val, exp).Err()
}

func (r *RedisKV) Delete(key string) error {
	return r.client.Del(context.Background(), key).Err()
}

func (r *RedisKV) Close() error {
	return r.client.Close()
}
