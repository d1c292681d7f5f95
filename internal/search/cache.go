// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package search

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/blake2b"

	"github.com/taibuivan/gigposter/internal/platform/constants"
)

// Cache stores finished resolutions keyed by [CacheKey].
type Cache interface {
	// Get returns ok=false on a miss; a miss is never an error.
	Get(context context.Context, key string) (resolution *Resolution, ok bool, err error)
	Set(context context.Context, key string, resolution *Resolution) error
}

/*
CacheKey derives the cache key for a cleaned query and threshold.

Description: Letter case is kept: an all-caps query such as "REM" is read as
an abbreviation and resolves differently from "rem". The digest keeps keys
short and free of user text.
*/
func CacheKey(cleaned string, threshold float64) string {
	material := cleaned + "|" + strconv.FormatFloat(threshold, 'f', 4, 64)
	sum := blake2b.Sum256([]byte(material))
	return constants.RedisPrefixSearchResult + hex.EncodeToString(sum[:])
}

// RedisCache implements [Cache] using Redis.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a Redis-backed result cache with the given entry lifetime.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

/*
Get loads a cached resolution.

Parameters:
  - context: context.Context
  - key: string (From [CacheKey])

Returns:
  - *Resolution: The cached value on a hit
  - bool: false on a miss or expired entry
  - error: Connectivity or decoding failures
*/
func (cache *RedisCache) Get(context context.Context, key string) (*Resolution, bool, error) {
	data, err := cache.client.Get(context, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis_search_result_get_failed: %w", err)
	}

	var resolution Resolution
	if err := json.Unmarshal(data, &resolution); err != nil {
		return nil, false, fmt.Errorf("redis_search_result_decode_failed: %w", err)
	}
	if resolution.PosterIDs == nil {
		resolution.PosterIDs = []string{}
	}

	return &resolution, true, nil
}

// Set stores resolution under key for the configured TTL.
func (cache *RedisCache) Set(context context.Context, key string, resolution *Resolution) error {
	data, err := json.Marshal(resolution)
	if err != nil {
		return fmt.Errorf("redis_search_result_encode_failed: %w", err)
	}

	if err := cache.client.Set(context, key, data, cache.ttl).Err(); err != nil {
		return fmt.Errorf("redis_search_result_set_failed: %w", err)
	}
	return nil
}
