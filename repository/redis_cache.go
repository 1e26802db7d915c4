package repository

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const redisOpTimeout = 500 * time.Millisecond

// RedisCache shares generator replies between service replicas. Insertion
// order is tracked in a Redis list so the cache stays bounded: once the list
// grows past capacity the oldest keys are removed.
type RedisCache struct {
	client   *redis.Client
	prefix   string
	capacity int
}

func NewRedisCache(addr string, capacity int) *RedisCache {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return NewRedisCacheWithClient(rdb, "genai:", capacity)
}

func NewRedisCacheWithClient(client *redis.Client, prefix string, capacity int) *RedisCache {
	if capacity < 1 {
		capacity = 1
	}
	return &RedisCache{
		client:   client,
		prefix:   prefix,
		capacity: capacity,
	}
}

func (r *RedisCache) indexKey() string {
	return r.prefix + "index"
}

func (r *RedisCache) Get(key string) (string, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	val, err := r.client.Get(ctx, r.prefix+key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

func (r *RedisCache) Set(key string, value string) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	created, err := r.client.SetNX(ctx, r.prefix+key, value, 0).Result()
	if err != nil {
		return errors.Wrap(err, "redis set")
	}
	if !created {
		return errors.Wrap(r.client.Set(ctx, r.prefix+key, value, 0).Err(), "redis overwrite")
	}

	size, err := r.client.RPush(ctx, r.indexKey(), key).Result()
	if err != nil {
		return errors.Wrap(err, "redis index push")
	}

	for ; size > int64(r.capacity); size-- {
		oldest, err := r.client.LPop(ctx, r.indexKey()).Result()
		if err != nil {
			return errors.Wrap(err, "redis evict")
		}
		if err := r.client.Del(ctx, r.prefix+oldest).Err(); err != nil {
			return errors.Wrap(err, "redis evict")
		}
	}
	return nil
}

func (r *RedisCache) Len() int {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	n, err := r.client.LLen(ctx, r.indexKey()).Result()
	if err != nil {
		return 0
	}
	return int(n)
}

func (r *RedisCache) Capacity() int {
	return r.capacity
}

// Ping reports whether the Redis server answers.
func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}
