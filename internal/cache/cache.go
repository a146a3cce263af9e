// Package cache wraps a locale.Fetcher with a Redis read-through cache.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/princeprakhar/eyewear-backend/internal/locale"
	"github.com/princeprakhar/eyewear-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "content:"

// NewClient parses a redis:// URL and verifies the connection.
func NewClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// ReadThrough serves FetchByID from Redis and falls through to next on a
// miss. Redis failures are logged and never fail the read.
type ReadThrough[T locale.Entity] struct {
	client   *redis.Client
	next     locale.Fetcher[T]
	resource string
	ttl      time.Duration
}

func NewReadThrough[T locale.Entity](client *redis.Client, resource string, ttl time.Duration, next locale.Fetcher[T]) *ReadThrough[T] {
	return &ReadThrough[T]{
		client:   client,
		next:     next,
		resource: resource,
		ttl:      ttl,
	}
}

func (c *ReadThrough[T]) key(id uint) string {
	return fmt.Sprintf("%s%s:%d", keyPrefix, c.resource, id)
}

func (c *ReadThrough[T]) FetchByID(ctx context.Context, id uint) (T, error) {
	key := c.key(id)

	data, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var cached T
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
		logger.WithFields(logger.Fields{"key": key}).Warn("discarding undecodable cache entry")
	} else if !errors.Is(err, redis.Nil) {
		logger.WithFields(logger.Fields{"key": key}).Warn("cache read failed: ", err)
	}

	rec, err := c.next.FetchByID(ctx, id)
	if err != nil {
		return rec, err
	}

	if data, err := json.Marshal(rec); err == nil {
		if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
			logger.WithFields(logger.Fields{"key": key}).Warn("cache write failed: ", err)
		}
	}
	return rec, nil
}

// Invalidate drops the cached copy of the record with id.
func (c *ReadThrough[T]) Invalidate(ctx context.Context, ids ...uint) error {
	if len(ids) == 0 {
		return nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = c.key(id)
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", c.resource, err)
	}
	return nil
}
