package session

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCommander is the subset of redis.Cmdable the storage uses.
type RedisCommander interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisStorage stores the token under prefix + Key.
type RedisStorage struct {
	rdb RedisCommander
	key string
	ttl time.Duration
}

// NewRedisStorage builds a storage; ttl 0 keeps the token until logout.
func NewRedisStorage(rdb RedisCommander, prefix string, ttl time.Duration) *RedisStorage {
	return &RedisStorage{rdb: rdb, key: prefix + Key, ttl: ttl}
}

func (s *RedisStorage) Load(ctx context.Context) (string, error) {
	token, err := s.rdb.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return token, err
}

func (s *RedisStorage) Save(ctx context.Context, token string) error {
	return s.rdb.Set(ctx, s.key, token, s.ttl).Err()
}

func (s *RedisStorage) Remove(ctx context.Context) error {
	return s.rdb.Del(ctx, s.key).Err()
}
