package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"

	"github.com/d60-Lab/recipe-social/internal/model"
	"github.com/d60-Lab/recipe-social/internal/repository"
)

const (
	DefaultDiscoveryLimit = 20
	minSearchRunes        = 2
)

// SummaryReader 批量读取用户摘要，实现方可以是仓储或缓存
type SummaryReader interface {
	Summaries(ctx context.Context, ids []string) ([]model.UserSummary, error)
}

// DiscoveryService 找人：搜索、热门、可能认识的人
type DiscoveryService interface {
	Search(ctx context.Context, actorID, query string, limit int) ([]model.UserSummary, error)
	Popular(ctx context.Context, actorID string, limit int) ([]model.UserSummary, error)
	Suggested(ctx context.Context, actorID string, limit int) ([]model.UserSummary, error)
}

type discoveryService struct {
	store     *repository.Store
	summaries SummaryReader
}

// NewDiscoveryService summaries 为空时直接读仓储
func NewDiscoveryService(store *repository.Store, summaries SummaryReader) DiscoveryService {
	if summaries == nil {
		summaries = store.Users
	}
	return &discoveryService{store: store, summaries: summaries}
}

func (s *discoveryService) Search(ctx context.Context, actorID, query string, limit int) ([]model.UserSummary, error) {
	ctx, span := tracer.Start(ctx, "DiscoveryService.Search")
	defer span.End()

	if actorID == "" {
		return nil, ErrAuthRequired
	}
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < minSearchRunes {
		return []model.UserSummary{}, nil
	}
	exclude, err := s.store.Blocks.RelatedIDs(ctx, actorID)
	if err != nil {
		return nil, err
	}
	exclude = append(exclude, actorID)
	res, err := s.store.Users.Search(ctx, query, exclude, clampLimit(limit, DefaultDiscoveryLimit))
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("discovery.results", len(res)))
	return nonNil(res), nil
}

// Popular 匿名用户不做拉黑过滤
func (s *discoveryService) Popular(ctx context.Context, actorID string, limit int) ([]model.UserSummary, error) {
	ctx, span := tracer.Start(ctx, "DiscoveryService.Popular")
	defer span.End()

	var exclude []string
	if actorID != "" {
		var err error
		if exclude, err = s.store.Blocks.RelatedIDs(ctx, actorID); err != nil {
			return nil, err
		}
	}
	res, err := s.store.Users.Popular(ctx, exclude, clampLimit(limit, DefaultDiscoveryLimit))
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("discovery.results", len(res)))
	return nonNil(res), nil
}

// Suggested 关注的人所关注的人，去掉自己、已关注和双向拉黑
func (s *discoveryService) Suggested(ctx context.Context, actorID string, limit int) ([]model.UserSummary, error) {
	ctx, span := tracer.Start(ctx, "DiscoveryService.Suggested")
	defer span.End()

	if actorID == "" {
		return nil, ErrAuthRequired
	}
	following, err := s.store.Follows.FollowingIDs(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if len(following) == 0 {
		return []model.UserSummary{}, nil
	}
	blocked, err := s.store.Blocks.RelatedIDs(ctx, actorID)
	if err != nil {
		return nil, err
	}
	exclude := make([]string, 0, len(following)+len(blocked)+1)
	exclude = append(exclude, actorID)
	exclude = append(exclude, following...)
	exclude = append(exclude, blocked...)

	ids, err := s.store.Follows.FollowedBy(ctx, following, exclude, clampLimit(limit, DefaultDiscoveryLimit))
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("discovery.candidates", len(ids)))
	if len(ids) == 0 {
		return []model.UserSummary{}, nil
	}
	res, err := s.summaries.Summaries(ctx, ids)
	if err != nil {
		return nil, err
	}
	return nonNil(res), nil
}

func nonNil(s []model.UserSummary) []model.UserSummary {
	if s == nil {
		return []model.UserSummary{}
	}
	return s
}
