package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

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

// 关系链写入压测：N 个用户并发关注一个公开大 V 和一个私密账号，再测审批、拉黑与分页查询
func main() {
	cfg := must(config.Load())
	must(0, logger.Init("warn", "console", false))
	db := must(database.InitDB(cfg))
	store := repository.NewStore(db)
	ctx := context.Background()

	n := envInt("N", 10000)
	conc := envInt("CONC", 8)
	page := envInt("PAGE", 50)

	celeb := model.User{ID: uuid.New().String(), Email: "celeb-" + uuid.NewString()[:8] + "@example.com", Name: "celeb"}
	private := model.User{ID: uuid.New().String(), Email: "private-" + uuid.NewString()[:8] + "@example.com", Name: "private", IsPrivate: true}
	must(0, db.Create(&[]model.User{celeb, private}).Error)
	users := make([]model.User, n)
	for i := range users {
		id := uuid.New().String()
		users[i] = model.User{ID: id, Email: "u" + id[:8] + "-" + strconv.Itoa(i) + "@example.com", Name: "u" + id[:8]}
	}
	must(0, db.CreateInBatches(&users, 1000).Error)

	dispatcher := service.NewNotificationDispatcher(store, 100000)
	stop := dispatcher.Start(cfg.Dispatcher.Workers)
	social := service.NewSocialGraphService(store, dispatcher)

	landing := make([]time.Duration, 0, 2*n)
	doneLanding := make(chan struct{})
	var landingMu sync.Mutex
	go func() {
		for {
			select {
			case d := <-dispatcher.Metrics():
				landingMu.Lock()
				landing = append(landing, d)
				landingMu.Unlock()
			case <-doneLanding:
				return
			}
		}
	}()

	var maxQ atomic.Int64
	quitSample := make(chan struct{})
	go func() {
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if q := int64(dispatcher.QueueLen()); q > maxQ.Load() {
					maxQ.Store(q)
				}
			case <-quitSample:
				return
			}
		}
	}()

	run := func(target string) ([]time.Duration, []string, time.Duration) {
		jobs := make(chan int, n)
		for i := 0; i < n; i++ {
			jobs <- i
		}
		close(jobs)
		var (
			mu       sync.Mutex
			lat      = make([]time.Duration, 0, n)
			requests = make([]string, 0, n)
			wg       sync.WaitGroup
		)
		t0 := time.Now()
		for w := 0; w < conc; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range jobs {
					st := time.Now()
					res, err := social.Follow(ctx, users[i].ID, target)
					d := time.Since(st)
					mu.Lock()
					lat = append(lat, d)
					if err == nil && res.Request != nil {
						requests = append(requests, res.Request.ID)
					}
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		return lat, requests, time.Since(t0)
	}

	publicLat, _, publicDur := run(celeb.ID)
	privateLat, requests, privateDur := run(private.ID)

	acceptLat := make([]time.Duration, 0, len(requests))
	for _, id := range requests {
		st := time.Now()
		if _, err := social.AcceptRequest(ctx, private.ID, id); err != nil {
			panic(err)
		}
		acceptLat = append(acceptLat, time.Since(st))
	}

	q0 := time.Now()
	_ = must(social.ListFollowers(ctx, celeb.ID, 1, page))
	followersDur := time.Since(q0)
	q1 := time.Now()
	_ = must(social.ListFollowing(ctx, users[0].ID, 1, page))
	followingDur := time.Since(q1)

	blockLat := make([]time.Duration, 0, 100)
	for i := 0; i < 100 && i < n; i++ {
		st := time.Now()
		if _, err := social.Block(ctx, celeb.ID, users[i].ID); err != nil {
			panic(err)
		}
		blockLat = append(blockLat, time.Since(st))
	}

	close(quitSample)
	drainStart := time.Now()
	_ = stop(ctx)
	drainDur := time.Since(drainStart)
	close(doneLanding)

	fmt.Printf("N=%d CONC=%d PAGE=%d\n", n, conc, page)
	fmt.Printf("Follow public: total=%v per op=%v p50=%v p95=%v p99=%v\n",
		publicDur, publicDur/time.Duration(n), pct(publicLat, 0.50), pct(publicLat, 0.95), pct(publicLat, 0.99))
	fmt.Printf("Follow private (request): total=%v p50=%v p95=%v p99=%v\n",
		privateDur, pct(privateLat, 0.50), pct(privateLat, 0.95), pct(privateLat, 0.99))
	fmt.Printf("Accept request: samples=%d p50=%v p95=%v\n", len(acceptLat), pct(acceptLat, 0.50), pct(acceptLat, 0.95))
	fmt.Printf("Block cascade: samples=%d p50=%v p95=%v\n", len(blockLat), pct(blockLat, 0.50), pct(blockLat, 0.95))
	fmt.Printf("Query followers(%d): %v, following(%d): %v\n", page, followersDur, page, followingDur)
	landingMu.Lock()
	fmt.Printf("Notification landing: samples=%d p50=%v p95=%v p99=%v maxQueue=%d drain=%v\n",
		len(landing), pct(landing, 0.50), pct(landing, 0.95), pct(landing, 0.99), maxQ.Load(), drainDur)
	landingMu.Unlock()
}
