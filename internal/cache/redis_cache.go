package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "trendcast:"

// RedisCache is a BytesCache shared between processes.
type RedisCache struct {
	cli *redis.Client
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func NewRedisCache(cfg RedisConfig) *RedisCache {
	rdb := redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB})
	return &RedisCache{cli: rdb}
}

func (r *RedisCache) GetBytes(key string) ([]byte, bool, error) {
	b, err := r.cli.Get(context.Background(), keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	return b, true, nil
}

func (r *RedisCache) SetBytes(key string, value []byte, ttl time.Duration) error {
	if err := r.cli.Set(context.Background(), keyPrefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (r *RedisCache) Close() error {
	return r.cli.Close()
}
