// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package cache

import (
	"context"
	"errors"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// scanBatch is the COUNT hint for SCAN and the UNLINK batch size.
const scanBatch = 500

// RedisConfig holds the Redis connection configuration.
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// NewRedisClient opens a client for cfg. The connection is lazy.
func NewRedisClient(cfg RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// RedisCache stores one cache type in a shared Redis database. Every key
// lives under "<prefix><type>:" and Clear only removes that namespace.
type RedisCache struct {
	client    redis.UniversalClient
	namespace string
}

// NewRedisCache creates a Redis-backed cache for one cache type.
func NewRedisCache(client redis.UniversalClient, keyPrefix, typeID string) *RedisCache {
	return &RedisCache{
		client:    client,
		namespace: keyPrefix + typeID + ":",
	}
}

// Namespace returns the key prefix owned by this cache.
func (r *RedisCache) Namespace() string {
	return r.namespace
}

func (r *RedisCache) key(k string) string {
	return r.namespace + k
}

// Get retrieves a value from Redis.
func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

// Set stores a value in Redis. A non-positive ttl never expires.
func (r *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	return r.client.Set(ctx, r.key(key), value, ttl).Err()
}

// Delete removes a value from Redis.
func (r *RedisCache) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.key(key)).Err()
}

// Clear unlinks every key in the namespace. FLUSHDB is never used so
// other tenants of the database are left alone. The SCAN pass completes
// before anything is unlinked; deleting mid-iteration lets servers that
// use offset cursors skip keys.
func (r *RedisCache) Clear(ctx context.Context) error {
	keys, err := r.keys(ctx)
	if err != nil {
		return err
	}
	for start := 0; start < len(keys); start += scanBatch {
		end := min(start+scanBatch, len(keys))
		if err := r.client.Unlink(ctx, keys[start:end]...).Err(); err != nil {
			return err
		}
	}
	return nil
}

// Len counts the keys in the namespace.
func (r *RedisCache) Len(ctx context.Context) (int, error) {
	keys, err := r.keys(ctx)
	return len(keys), err
}

// keys walks the namespace with SCAN. A key may be reported twice by
// SCAN, so results are deduplicated.
func (r *RedisCache) keys(ctx context.Context) ([]string, error) {
	pattern := escapeGlob(r.namespace) + "*"
	seen := make(map[string]struct{})
	var out []string
	var cursor uint64
	for {
		batch, next, err := r.client.Scan(ctx, cursor, pattern, scanBatch).Result()
		if err != nil {
			return nil, err
		}
		for _, k := range batch {
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, k)
		}
		if next == 0 {
			return out, nil
		}
		cursor = next
	}
}

var globEscaper = strings.NewReplacer(
	`\`, `\\`,
	`*`, `\*`,
	`?`, `\?`,
	`[`, `\[`,
	`]`, `\]`,
)

func escapeGlob(s string) string {
	return globEscaper.Replace(s)
}
