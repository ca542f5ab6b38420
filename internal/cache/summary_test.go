package cache

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/recipe-social/internal/model"
)

type fakeSource struct {
	users map[string]model.UserSummary
	calls atomic.Int64
}

func (f *fakeSource) Summaries(_ context.Context, ids []string) ([]model.UserSummary, error) {
	f.calls.Add(1)
	res := make([]model.UserSummary, 0, len(ids))
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			res = append(res, u)
		}
	}
	return res, nil
}

func newSource() *fakeSource {
	return &fakeSource{users: map[string]model.UserSummary{
		"u1": {ID: "u1", Name: "Ann"},
		"u2": {ID: "u2", Name: "Ben"},
		"u3": {ID: "u3", Name: "Cal"},
	}}
}

func TestSummaryCacheReadThrough(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	src := newSource()
	c := NewSummaryCache(src, client, time.Minute)
	ctx := context.Background()

	res, err := c.Summaries(ctx, []string{"u2", "u1", "ghost"})
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, "u2", res[0].ID)
	assert.Equal(t, "u1", res[1].ID)
	assert.EqualValues(t, 1, src.calls.Load())
	assert.True(t, mr.Exists("user:summary:u1"))

	// 第二次全部命中缓存
	res, err = c.Summaries(ctx, []string{"u1", "u2"})
	require.NoError(t, err)
	assert.Len(t, res, 2)
	assert.EqualValues(t, 1, src.calls.Load())

	hits, misses := c.Stats()
	assert.EqualValues(t, 2, hits)
	assert.EqualValues(t, 3, misses)

	mr.FastForward(2 * time.Minute)
	_, err = c.Summaries(ctx, []string{"u1"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, src.calls.Load())
}

func TestSummaryCacheWithoutRedis(t *testing.T) {
	src := newSource()
	c := NewSummaryCache(src, nil, 0)

	res, err := c.Summaries(context.Background(), []string{"u1"})
	require.NoError(t, err)
	assert.Len(t, res, 1)
	assert.EqualValues(t, 1, src.calls.Load())
}

func TestSummaryCacheRedisDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	mr.Close()

	src := newSource()
	c := NewSummaryCache(src, client, time.Minute)
	res, err := c.Summaries(context.Background(), []string{"u1", "u2"})
	require.NoError(t, err)
	assert.Len(t, res, 2)
}
