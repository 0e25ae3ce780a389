// Copyright (c) 2026 Courtdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/courtdesk/internal/platform/constants"
	"github.com/taibuivan/courtdesk/internal/platform/sec"
)

// RedisStorage implements [Storage] for one browser session of the console.
//
// Keys are namespaced by the hash of the session cookie, so the raw cookie value
// never appears in Redis.
type RedisStorage struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStorage scopes storage to the browser session identified by sessionID.
// Every write refreshes the TTL.
func NewRedisStorage(client *redis.Client, sessionID string, ttl time.Duration) *RedisStorage {
	return &RedisStorage{
		client: client,
		prefix: constants.RedisPrefixSession + sec.HashToken(sessionID) + ":",
		ttl:    ttl,
	}
}

/*
Get retrieves a session value.

Parameters:
  - context: context.Context
  - key: string

Returns:
  - string: Stored value
  - bool: false when the key is absent or expired
  - error: Connectivity errors
*/
func (storage *RedisStorage) Get(context context.Context, key string) (string, bool, error) {
	value, err := storage.client.Get(context, storage.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("redis_session_get_failed: %w", err)
	}
	return value, true, nil
}

// Set stores a session value with the session TTL.
func (storage *RedisStorage) Set(context context.Context, key, value string) error {
	if err := storage.client.Set(context, storage.prefix+key, value, storage.ttl).Err(); err != nil {
		return fmt.Errorf("redis_session_set_failed: %w", err)
	}
	return nil
}

// Delete removes a session value.
func (storage *RedisStorage) Delete(context context.Context, key string) error {
	if err := storage.client.Del(context, storage.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis_session_delete_failed: %w", err)
	}
	return nil
}
