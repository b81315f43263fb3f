package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
)

// Invalidation groups. Mutations invalidate groups; reads key into them.
const (
	GroupDocuments  = "documents"
	GroupStats      = "stats"
	GroupCategories = "categories"
	GroupSearch     = "search"
)

// QueryCache maps request signatures to cached JSON payloads. Invalidation is
// an explicit call tied to mutation success, not ambient state.
type QueryCache struct {
	client   *redisv9.Client
	queryTTL time.Duration
	statsTTL time.Duration
}

func NewQueryCache(client *redisv9.Client, queryTTL, statsTTL time.Duration) *QueryCache {
	if queryTTL <= 0 {
		queryTTL = 60 * time.Second
	}
	if statsTTL <= 0 {
		statsTTL = 5 * time.Minute
	}
	return &QueryCache{
		client:   client,
		queryTTL: queryTTL,
		statsTTL: statsTTL,
	}
}

// Get unmarshals the cached payload for key into dest. The second return is
// false on a miss.
func (c *QueryCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	raw, err := c.client.Get(ctx, key).Result()
	if err == redisv9.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get query cache failed: %w", err)
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, fmt.Errorf("unmarshal cached payload failed: %w", err)
	}
	return true, nil
}

func (c *QueryCache) Set(ctx context.Context, key string, value interface{}) error {
	return c.set(ctx, key, value, c.queryTTL)
}

// SetStats uses the longer stats TTL.
func (c *QueryCache) SetStats(ctx context.Context, key string, value interface{}) error {
	return c.set(ctx, key, value, c.statsTTL)
}

func (c *QueryCache) set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache payload failed: %w", err)
	}
	if err := c.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis set query cache failed: %w", err)
	}
	return nil
}

// Invalidate removes every key in the given groups.
func (c *QueryCache) Invalidate(ctx context.Context, groups ...string) error {
	for _, group := range groups {
		pattern := "cache:" + group + ":*"
		iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
		for iter.Next(ctx) {
			if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
				return fmt.Errorf("redis delete cache key failed: %w", err)
			}
		}
		if err := iter.Err(); err != nil {
			return fmt.Errorf("redis scan cache group failed: %w", err)
		}
	}
	return nil
}

// Key builders. Every cached read derives its key from the full request
// signature so distinct requests never collide.

func DocumentsKey(userID uint) string {
	return fmt.Sprintf("cache:%s:user:%d", GroupDocuments, userID)
}

func SearchKey(userID uint, query, searchType string) string {
	return fmt.Sprintf("cache:%s:%d:%s:%s", GroupSearch, userID, searchType, query)
}

func StatsKey() string {
	return fmt.Sprintf("cache:%s:global", GroupStats)
}

func CategoryStatsKey() string {
	return fmt.Sprintf("cache:%s:per-category", GroupCategories)
}
