// Package cache provides the Redis-backed query cache and the typed
// invalidation graph that keeps derived views consistent after mutations.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"fieldservice_backend/platform/logger"

	"github.com/redis/go-redis/v9"
)

// Store is a thin JSON cache over Redis. A nil Store is valid and behaves
// as an always-miss cache, so callers never need to branch on whether
// caching is configured.
type Store struct {
	client *redis.Client
	log    *logger.Logger
}

// NewStore creates a cache store over the given Redis client.
func NewStore(client *redis.Client, log *logger.Logger) *Store {
	return &Store{client: client, log: log}
}

// NewStoreFromURL connects to Redis and returns a store, or nil when the URL
// is empty (caching disabled).
func NewStoreFromURL(redisURL string, log *logger.Logger) (*Store, error) {
	if redisURL == "" {
		return nil, nil
	}
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return NewStore(redis.NewClient(opt), log), nil
}

// Close releases the underlying Redis connection.
func (s *Store) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}

// GetJSON reads a cached value into dest. Returns false on miss.
// Redis failures are logged and reported as misses: the cache is an
// optimization, never a correctness dependency.
func (s *Store) GetJSON(ctx context.Context, key string, dest interface{}) bool {
	if s == nil || s.client == nil {
		return false
	}

	raw, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.CacheError("get "+key, err)
		}
		return false
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		s.log.CacheError("decode "+key, err)
		return false
	}

	return true
}

// SetJSON writes a value under key with the given TTL. Failures are logged
// and otherwise ignored.
func (s *Store) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if s == nil || s.client == nil {
		return
	}

	raw, err := json.Marshal(value)
	if err != nil {
		s.log.CacheError("encode "+key, err)
		return
	}

	if err := s.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		s.log.CacheError("set "+key, err)
	}
}

// DeletePrefix removes every key under the given prefix.
func (s *Store) DeletePrefix(ctx context.Context, prefix string) {
	if s == nil || s.client == nil {
		return
	}

	iter := s.client.Scan(ctx, 0, prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			s.log.CacheError("del "+iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		s.log.CacheError("scan "+prefix, err)
	}
}

// Delete removes a single key.
func (s *Store) Delete(ctx context.Context, key string) {
	if s == nil || s.client == nil {
		return
	}
	if err := s.client.Del(ctx, key).Err(); err != nil {
		s.log.CacheError("del "+key, err)
	}
}
