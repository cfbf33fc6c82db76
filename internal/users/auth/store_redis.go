// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisSessionCache implements SessionCache using Redis strings with expiry.
type RedisSessionCache struct {
	client redis.Cmdable
}

// NewSessionCache creates a new Redis-backed SessionCache.
func NewSessionCache(client redis.Cmdable) *RedisSessionCache {
	return &RedisSessionCache{client: client}
}

/*
Get retrieves the value stored under key.

Parameters:
  - ctx: context.Context
  - key: string

Returns:
  - []byte: Stored value
  - error: ErrCacheMiss if absent or expired, connectivity errors otherwise
*/
func (cache *RedisSessionCache) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := cache.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("redis_session_get_failed: %w", err)
	}
	return value, nil
}

/*
Set stores value under key for ttl, replacing any previous value.

Parameters:
  - ctx: context.Context
  - key: string
  - value: []byte
  - ttl: time.Duration

Returns:
  - error: Execution errors
*/
func (cache *RedisSessionCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := cache.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis_session_set_failed: %w", err)
	}
	return nil
}

// Delete removes key. A missing key is not an error.
func (cache *RedisSessionCache) Delete(ctx context.Context, key string) error {
	if err := cache.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis_session_delete_failed: %w", err)
	}
	return nil
}
