package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/recipe-social/internal/model"
	"github.com/d60-Lab/recipe-social/internal/repository"
	"github.com/d60-Lab/recipe-social/pkg/logger"
)

const notifyTimeout = 5 * time.Second

type dispatchKind int

const (
	kindSingle dispatchKind = iota + 1
	kindAnnounce
)

type dispatchJob struct {
	kind     dispatchKind
	in       NotificationInput
	authorID string
	recipeID string
	enqAt    time.Time
}

// NotificationDispatcher 本地异步通知投递器：有界队列 + 固定 worker，队列满时丢弃并告警
type NotificationDispatcher struct {
	store     *repository.Store
	batchSize int
	ch        chan dispatchJob
	metricsCh chan time.Duration
	wg        sync.WaitGroup
	stopOnce  sync.Once
	stopped   atomic.Bool
}

func NewNotificationDispatcher(store *repository.Store, queueSize int) *NotificationDispatcher {
	if queueSize <= 0 {
		queueSize = 10000
	}
	return &NotificationDispatcher{
		store:     store,
		batchSize: 500,
		ch:        make(chan dispatchJob, queueSize),
		metricsCh: make(chan time.Duration, 65536),
	}
}

// Start 启动 workers 个消费者，返回停止函数；停止时先排空队列再退出，重复调用无副作用
func (d *NotificationDispatcher) Start(workers int) func(context.Context) error {
	if workers <= 0 {
		workers = 4
	}
	stopCh := make(chan struct{})
	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			for {
				select {
				case job := <-d.ch:
					d.handle(job)
				case <-stopCh:
					for {
						select {
						case job := <-d.ch:
							d.handle(job)
						default:
							return
						}
					}
				}
			}
		}()
	}
	return func(ctx context.Context) error {
		d.stopOnce.Do(func() {
			d.stopped.Store(true)
			close(stopCh)
		})
		done := make(chan struct{})
		go func() {
			d.wg.Wait()
			close(done)
		}()
		timeout := time.NewTimer(2 * time.Second)
		defer timeout.Stop()
		select {
		case <-done:
			return nil
		case <-timeout.C:
			logger.Warn("dispatcher stop timeout", zap.Int("pending", len(d.ch)))
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (d *NotificationDispatcher) handle(job dispatchJob) {
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	switch job.kind {
	case kindSingle:
		deliver(ctx, d.store, job.in)
	case kindAnnounce:
		announce(ctx, d.store, job.authorID, job.recipeID, d.batchSize)
	}
	cancel()
	if !job.enqAt.IsZero() {
		select {
		case d.metricsCh <- time.Since(job.enqAt):
		default:
		}
	}
}

func (d *NotificationDispatcher) Notify(in NotificationInput) {
	if d.stopped.Load() {
		logger.Warn("dispatcher stopped, drop notification",
			zap.String("recipient", in.RecipientID), zap.String("verb", string(in.Verb)))
		return
	}
	select {
	case d.ch <- dispatchJob{kind: kindSingle, in: in, enqAt: time.Now()}:
	default:
		logger.Warn("dispatcher queue full, drop notification",
			zap.String("recipient", in.RecipientID), zap.String("verb", string(in.Verb)))
	}
}

func (d *NotificationDispatcher) Announce(authorID, recipeID string) {
	if d.stopped.Load() {
		logger.Warn("dispatcher stopped, drop announce",
			zap.String("author", authorID), zap.String("recipe", recipeID))
		return
	}
	select {
	case d.ch <- dispatchJob{kind: kindAnnounce, authorID: authorID, recipeID: recipeID, enqAt: time.Now()}:
	default:
		logger.Warn("dispatcher queue full, drop announce",
			zap.String("author", authorID), zap.String("recipe", recipeID))
	}
}

// Metrics 返回投递耗时的只读通道（每处理一个任务发送一次 duration）
func (d *NotificationDispatcher) Metrics() <-chan time.Duration { return d.metricsCh }

// QueueLen 返回当前队列长度（采样值）
func (d *NotificationDispatcher) QueueLen() int { return len(d.ch) }

func deliver(ctx context.Context, store *repository.Store, in NotificationInput) {
	if err := store.Notifications.Create(ctx, in.toModel()); err != nil {
		logger.Error("create notification failed",
			zap.String("recipient", in.RecipientID), zap.String("verb", string(in.Verb)), zap.Error(err))
	}
}

// announce 分页拉取粉丝，按批写入 posted_recipe 通知
func announce(ctx context.Context, store *repository.Store, authorID, recipeID string, batchSize int) {
	for offset := 0; ; offset += batchSize {
		ids, err := store.Follows.FollowerIDs(ctx, authorID, offset, batchSize)
		if err != nil {
			logger.Error("list followers failed", zap.String("author", authorID), zap.Error(err))
			return
		}
		if len(ids) == 0 {
			return
		}
		batch := make([]*model.Notification, 0, len(ids))
		for _, id := range ids {
			batch = append(batch, NotificationInput{
				RecipientID: id,
				Verb:        model.VerbPostedRecipe,
				ActorID:     authorID,
				TargetType:  model.TargetTypeRecipe,
				TargetID:    recipeID,
			}.toModel())
		}
		if err := store.Notifications.CreateBatch(ctx, batch, batchSize); err != nil {
			logger.Error("announce batch failed", zap.String("author", authorID), zap.Error(err))
			return
		}
		if len(ids) < batchSize {
			return
		}
	}
}
