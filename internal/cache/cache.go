package cache

import (
	"time"

	"github.com/rs/zerolog/log"
)

// BytesCache stores raw bytes with a TTL.
type BytesCache interface {
	GetBytes(key string) (b []byte, ok bool, err error)
	SetBytes(key string, value []byte, ttl time.Duration) error
	Close() error
}

// New returns a RedisCache when redisAddr is set, otherwise an in-memory TTLCache.
func New(redisAddr, password string, db int) BytesCache {
	if redisAddr == "" {
		return NewTTLCache()
	}
	log.Info().Str("addr", redisAddr).Msg("using redis cache")
	return NewRedisCache(RedisConfig{Addr: redisAddr, Password: password, DB: db})
}
