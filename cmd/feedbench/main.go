package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/d60-Lab/recipe-social/config"
	"github.com/d60-Lab/recipe-social/internal/model"
	"github.com/d60-Lab/recipe-social/internal/repository"
	"github.com/d60-Lab/recipe-social/internal/service"
	"github.com/d60-Lab/recipe-social/pkg/database"
	"github.com/d60-Lab/recipe-social/pkg/logger"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func envInt(key string, def int) int {
	if s := os.Getenv(key); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			return v
		}
	}
	return def
}

func pct(vs []time.Duration, p float64) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	xs := append([]time.Duration(nil), vs...)
	sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
	k := int(math.Ceil(p*float64(len(xs)))) - 1
	if k < 0 {
		k = 0
	}
	if k >= len(xs) {
		k = len(xs) - 1
	}
	return xs[k]
}

func avg(vs []time.Duration) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	var sum time.Duration
	for _, d := range vs {
		sum += d
	}
	return sum / time.Duration(len(vs))
}

// 读时合并动态流的压测：READERS 个读者各关注 AUTHORS 个作者，每个作者发 POSTS 篇菜谱
func main() {
	cfg := must(config.Load())
	must(0, logger.Init("warn", "console", false))
	db := must(database.InitDB(cfg))
	store := repository.NewStore(db)
	ctx := context.Background()

	readers := envInt("READERS", 2000)
	authors := envInt("AUTHORS", 50)
	posts := envInt("POSTS", 20)
	reads := envInt("READS", 500)
	limit := envInt("LIMIT", 50)

	// 清空表，保证结果可复现（仅本地压测）
	for _, table := range []string{"notifications", "favorites", "ratings", "recipes", "follows", "follow_requests", "mutes", "blocks", "feed_preferences", "users"} {
		_ = db.Exec("DELETE FROM " + table).Error
	}

	seed := func(prefix string, n int) []model.User {
		users := make([]model.User, n)
		for i := range users {
			id := uuid.New().String()
			users[i] = model.User{ID: id, Email: fmt.Sprintf("%s-%s@example.com", prefix, id[:8]), Name: prefix + id[:8]}
		}
		if err := db.CreateInBatches(&users, 1000).Error; err != nil {
			panic(err)
		}
		return users
	}
	authorUsers := seed("author", authors)
	readerUsers := seed("reader", readers)

	follows := make([]model.Follow, 0, readers*authors)
	for _, r := range readerUsers {
		for _, a := range authorUsers {
			follows = append(follows, model.Follow{ID: uuid.New().String(), FollowerID: r.ID, FollowingID: a.ID})
		}
	}
	if err := db.CreateInBatches(&follows, 1000).Error; err != nil {
		panic(err)
	}

	dispatcher := service.NewNotificationDispatcher(store, 100000)
	stop := dispatcher.Start(cfg.Dispatcher.Workers)
	activity := service.NewActivityService(store, dispatcher)
	feed := service.NewFeedService(store)

	// 发布：同步写菜谱，粉丝通知由 dispatcher 异步扇出
	pubDurations := make([]time.Duration, 0, authors*posts)
	for p := 0; p < posts; p++ {
		for _, a := range authorUsers {
			st := time.Now()
			_, err := activity.PublishRecipe(ctx, a.ID, service.RecipeInput{Title: fmt.Sprintf("recipe %d", p), IsPublished: true})
			if err != nil {
				panic(err)
			}
			pubDurations = append(pubDurations, time.Since(st))
		}
	}

	land := make([]time.Duration, 0, len(pubDurations))
	timeout := time.After(2 * time.Minute)
collect:
	for len(land) < len(pubDurations) {
		select {
		case d := <-dispatcher.Metrics():
			land = append(land, d)
		case <-timeout:
			fmt.Printf("timeout while waiting for announce metrics: got=%d want=%d\n", len(land), len(pubDurations))
			break collect
		}
	}
	if err := stop(ctx); err != nil {
		logger.Warn("dispatcher stop", zap.Error(err))
	}

	readDurations := make([]time.Duration, 0, reads)
	items := 0
	for i := 0; i < reads; i++ {
		r := readerUsers[i%len(readerUsers)]
		st := time.Now()
		res, err := feed.GetFeed(ctx, r.ID, model.FeedOrderChronological, limit)
		if err != nil {
			panic(err)
		}
		readDurations = append(readDurations, time.Since(st))
		items += len(res)
	}

	fmt.Printf("READERS=%d AUTHORS=%d POSTS=%d READS=%d LIMIT=%d\n", readers, authors, posts, reads, limit)
	fmt.Printf("Publish latency: avg=%v p95=%v p99=%v\n", avg(pubDurations), pct(pubDurations, 0.95), pct(pubDurations, 0.99))
	fmt.Printf("Announce landing (enqueue->done): samples=%d avg=%v p95=%v p99=%v\n", len(land), avg(land), pct(land, 0.95), pct(land, 0.99))
	fmt.Printf("Feed read: avg=%v p95=%v p99=%v items/read=%.1f\n", avg(readDurations), pct(readDurations, 0.95), pct(readDurations, 0.99), float64(items)/float64(reads))
}
