package dbclient

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "emailbuilder:"

// RedisKV stores each key as a plain string under redisKeyPrefix.
type RedisKV struct {
	db redis.UniversalClient
}

// NewRedisKV wraps an existing client.
func NewRedisKV(client redis.UniversalClient) *RedisKV {
	return &RedisKV{db: client}
}

func openRedis(ctx context.Context, url string) (Store, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewRedisKV(client), nil
}

// Get returns "" for missing keys (redis.Nil becomes nil).
func (r *RedisKV) Get(key string) (string, error) {
	ctx, cancel := opContext()
	defer cancel()

	val, err := r.db.Get(ctx, redisKeyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("redis get %s: %w", key, err)
	}
	return val, nil
}

// Set stores value without expiration.
func (r *RedisKV) Set(key, value string) error {
	ctx, cancel := opContext()
	defer cancel()

	if err := r.db.Set(ctx, redisKeyPrefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (r *RedisKV) Delete(key string) error {
	ctx, cancel := opContext()
	defer cancel()

	if err := r.db.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("redis delete %s: %w", key, err)
	}
	return nil
}

func (r *RedisKV) Close() error {
	return r.db.Close()
}
