package service

import (
	"context"
	"sort"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/d60-Lab/recipe-social/internal/model"
	"github.com/d60-Lab/recipe-social/internal/repository"
)

var tracer = otel.Tracer("github.com/d60-Lab/recipe-social/internal/service")

const DefaultFeedLimit = 50

type FeedItemType string

const (
	FeedItemRecipe   FeedItemType = "recipe"
	FeedItemRating   FeedItemType = "rating"
	FeedItemFavorite FeedItemType = "favorite"
)

// FeedItem 动态流中的一条；Score 只在 rating 类型上有值
type FeedItem struct {
	Type      FeedItemType      `json:"type"`
	Actor     model.UserSummary `json:"actor"`
	Recipe    *model.Recipe     `json:"recipe"`
	Score     *int              `json:"score,omitempty"`
	Review    string            `json:"review,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// PreferencePatch 部分更新，nil 字段保持不变
type PreferencePatch struct {
	ShowRecipes   *bool            `json:"show_recipes"`
	ShowRatings   *bool            `json:"show_ratings"`
	ShowComments  *bool            `json:"show_comments"`
	ShowFavorites *bool            `json:"show_favorites"`
	FeedOrder     *model.FeedOrder `json:"feed_order" binding:"omitempty,feedorder"`
}

// FeedService 读时合并的个人动态流，不做预计算也不缓存结果
type FeedService interface {
	GetFeed(ctx context.Context, userID string, order model.FeedOrder, limit int) ([]FeedItem, error)
	GetPreferences(ctx context.Context, userID string) (*model.FeedPreference, error)
	UpdatePreferences(ctx context.Context, userID string, patch PreferencePatch) (*model.FeedPreference, error)
}

type feedService struct {
	store *repository.Store
}

func NewFeedService(store *repository.Store) FeedService {
	return &feedService{store: store}
}

func (s *feedService) GetFeed(ctx context.Context, userID string, order model.FeedOrder, limit int) ([]FeedItem, error) {
	ctx, span := tracer.Start(ctx, "FeedService.GetFeed",
		trace.WithAttributes(attribute.String("feed.order", string(order))))
	defer span.End()

	if userID == "" {
		return nil, ErrAuthRequired
	}
	if order == "" {
		order = model.FeedOrderChronological
	}
	limit = clampLimit(limit, DefaultFeedLimit)

	active, err := s.activeFollowing(ctx, userID)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("feed.sources.users", len(active)))
	if len(active) == 0 {
		return []FeedItem{}, nil
	}
	prefs, err := s.GetPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}

	// 每个数据源写自己的槽位，拼接顺序固定为 菜谱、评分、收藏
	var slots [3][]FeedItem
	g, gctx := errgroup.WithContext(ctx)
	if prefs.ShowRecipes {
		g.Go(func() error {
			rows, err := s.store.Activities.RecentRecipes(gctx, active, limit)
			if err != nil {
				return err
			}
			items := make([]FeedItem, 0, len(rows))
			for _, r := range rows {
				items = append(items, FeedItem{
					Type:      FeedItemRecipe,
					Actor:     summaryOf(r.Author, r.AuthorID),
					Recipe:    r,
					CreatedAt: r.CreatedAt,
				})
			}
			slots[0] = items
			return nil
		})
	}
	if prefs.ShowRatings {
		g.Go(func() error {
			rows, err := s.store.Activities.RecentRatings(gctx, active, limit)
			if err != nil {
				return err
			}
			items := make([]FeedItem, 0, len(rows))
			for _, r := range rows {
				score := r.Score
				items = append(items, FeedItem{
					Type:      FeedItemRating,
					Actor:     summaryOf(r.User, r.UserID),
					Recipe:    r.Recipe,
					Score:     &score,
					Review:    r.Review,
					CreatedAt: r.CreatedAt,
				})
			}
			slots[1] = items
			return nil
		})
	}
	if prefs.ShowFavorites {
		g.Go(func() error {
			rows, err := s.store.Activities.RecentFavorites(gctx, active, limit)
			if err != nil {
				return err
			}
			items := make([]FeedItem, 0, len(rows))
			for _, f := range rows {
				items = append(items, FeedItem{
					Type:      FeedItemFavorite,
					Actor:     summaryOf(f.User, f.UserID),
					Recipe:    f.Recipe,
					CreatedAt: f.CreatedAt,
				})
			}
			slots[2] = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load feed sources")
		return nil, err
	}

	items := make([]FeedItem, 0, len(slots[0])+len(slots[1])+len(slots[2]))
	for _, slot := range slots {
		items = append(items, slot...)
	}
	// algorithmic 暂未实现排序，保留数据源顺序
	if order == model.FeedOrderChronological {
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		})
	}
	if len(items) > limit {
		items = items[:limit]
	}
	span.SetAttributes(attribute.Int("feed.items", len(items)))
	return items, nil
}

// activeFollowing 关注列表去掉静音的人
func (s *feedService) activeFollowing(ctx context.Context, userID string) ([]string, error) {
	following, err := s.store.Follows.FollowingIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(following) == 0 {
		return nil, nil
	}
	muted, err := s.store.Mutes.MutedIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	mutedSet := make(map[string]struct{}, len(muted))
	for _, id := range muted {
		mutedSet[id] = struct{}{}
	}
	active := make([]string, 0, len(following))
	for _, id := range following {
		if _, ok := mutedSet[id]; !ok {
			active = append(active, id)
		}
	}
	return active, nil
}

func (s *feedService) GetPreferences(ctx context.Context, userID string) (*model.FeedPreference, error) {
	if userID == "" {
		return nil, ErrAuthRequired
	}
	p, err := s.store.Preferences.Get(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return model.DefaultFeedPreference(userID), nil
		}
		return nil, err
	}
	return p, nil
}

func (s *feedService) UpdatePreferences(ctx context.Context, userID string, patch PreferencePatch) (*model.FeedPreference, error) {
	p, err := s.GetPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}
	if patch.ShowRecipes != nil {
		p.ShowRecipes = *patch.ShowRecipes
	}
	if patch.ShowRatings != nil {
		p.ShowRatings = *patch.ShowRatings
	}
	if patch.ShowComments != nil {
		p.ShowComments = *patch.ShowComments
	}
	if patch.ShowFavorites != nil {
		p.ShowFavorites = *patch.ShowFavorites
	}
	if patch.FeedOrder != nil {
		switch *patch.FeedOrder {
		case model.FeedOrderChronological, model.FeedOrderAlgorithmic:
			p.FeedOrder = *patch.FeedOrder
		default:
			return nil, ErrInvalidInput
		}
	}
	if err := s.store.Preferences.Upsert(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func summaryOf(u *model.User, id string) model.UserSummary {
	if u == nil {
		return model.UserSummary{ID: id}
	}
	return u.Summary()
}
