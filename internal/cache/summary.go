// Package cache holds the Redis read-through cache for user summaries used
// when hydrating discovery results.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/recipe-social/internal/model"
	"github.com/d60-Lab/recipe-social/pkg/logger"
)

// Source loads summaries from the primary store.
type Source interface {
	Summaries(ctx context.Context, ids []string) ([]model.UserSummary, error)
}

// SummaryCache reads user summaries through Redis. A nil client disables
// caching and every call goes to the source.
type SummaryCache struct {
	source Source
	client *redis.Client
	ttl    time.Duration

	hits   atomic.Int64
	misses atomic.Int64
}

func NewSummaryCache(source Source, client *redis.Client, ttl time.Duration) *SummaryCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &SummaryCache{source: source, client: client, ttl: ttl}
}

func summaryKey(id string) string { return fmt.Sprintf("user:summary:%s", id) }

// Summaries returns summaries in the order of ids; unknown ids are skipped.
// Redis errors degrade to a source read.
func (c *SummaryCache) Summaries(ctx context.Context, ids []string) ([]model.UserSummary, error) {
	if len(ids) == 0 {
		return []model.UserSummary{}, nil
	}
	if c.client == nil {
		return c.source.Summaries(ctx, ids)
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = summaryKey(id)
	}

	cached := make(map[string]model.UserSummary, len(ids))
	vals, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		logger.Warn("summary cache mget failed", zap.Error(err))
	}
	for i, v := range vals {
		str, ok := v.(string)
		if !ok {
			continue
		}
		var s model.UserSummary
		if uErr := json.Unmarshal([]byte(str), &s); uErr == nil {
			cached[ids[i]] = s
		}
	}

	missing := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := cached[id]; !ok {
			missing = append(missing, id)
		}
	}
	c.hits.Add(int64(len(ids) - len(missing)))
	c.misses.Add(int64(len(missing)))

	if len(missing) > 0 {
		loaded, err := c.source.Summaries(ctx, missing)
		if err != nil {
			return nil, err
		}
		pipe := c.client.Pipeline()
		for _, s := range loaded {
			cached[s.ID] = s
			if payload, err := json.Marshal(s); err == nil {
				pipe.Set(ctx, summaryKey(s.ID), payload, c.ttl)
			}
		}
		if _, err := pipe.Exec(ctx); err != nil {
			logger.Warn("summary cache write failed", zap.Error(err))
		}
	}

	result := make([]model.UserSummary, 0, len(ids))
	for _, id := range ids {
		if s, ok := cached[id]; ok {
			result = append(result, s)
		}
	}
	return result, nil
}

// Stats reports cache hits and misses since start.
func (c *SummaryCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}
