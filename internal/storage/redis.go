package storage

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisKV backs the tenant and menu caches; the TTL is chosen per entry by
// the caller. A missing key reads as an empty value.
type RedisKV struct {
	Client *redis.Client
}

func NewRedisKV(client *redis.Client) *RedisKV {
	return &RedisKV{Client: client}
}

func (kv *RedisKV) Get(ctx context.Context, key string) (string, error) {
	val, err := kv.Client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	return val, err
}

func (kv *RedisKV) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return kv.Client.Set(ctx, key, value, ttl).Err()
}

// CartKV is the durable persistence surface for session carts. Carts keep a
// long fixed retention rather than a per-entry TTL; zero means no expiry.
type CartKV struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewCartKV(client *redis.Client, ttl time.Duration) *CartKV {
	return &CartKV{Client: client, TTL: ttl}
}

func (kv *CartKV) Get(ctx context.Context, key string) (string, error) {
	val, err := kv.Client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	return val, err
}

func (kv *CartKV) Set(ctx context.Context, key, value string) error {
	return kv.Client.Set(ctx, key, value, kv.TTL).Err()
}
