package service

import (
	"context"
	"strings"

	"github.com/d60-Lab/recipe-social/internal/model"
	"github.com/d60-Lab/recipe-social/internal/repository"
)

// RecipeInput 发布菜谱的参数
type RecipeInput struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description"`
	IsPublished bool   `json:"is_published"`
}

// ActivityService 动态流的写入侧：发布菜谱、评分、收藏
type ActivityService interface {
	PublishRecipe(ctx context.Context, authorID string, in RecipeInput) (*model.Recipe, error)
	Rate(ctx context.Context, userID, recipeID string, score int, review string) (*model.Rating, error)
	Favorite(ctx context.Context, userID, recipeID string) (*model.Favorite, error)
	Unfavorite(ctx context.Context, userID, recipeID string) error
}

type activityService struct {
	store    *repository.Store
	notifier Notifier
}

func NewActivityService(store *repository.Store, notifier Notifier) ActivityService {
	return &activityService{store: store, notifier: notifier}
}

func (s *activityService) PublishRecipe(ctx context.Context, authorID string, in RecipeInput) (*model.Recipe, error) {
	if authorID == "" {
		return nil, ErrAuthRequired
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, ErrInvalidInput
	}
	rec := &model.Recipe{
		AuthorID:    authorID,
		Title:       title,
		Description: in.Description,
		IsPublished: in.IsPublished,
	}
	if err := s.store.Activities.CreateRecipe(ctx, rec); err != nil {
		return nil, err
	}
	// 草稿不通知粉丝
	if rec.IsPublished && s.notifier != nil {
		s.notifier.Announce(authorID, rec.ID)
	}
	return rec, nil
}

func (s *activityService) getRecipe(ctx context.Context, recipeID string) (*model.Recipe, error) {
	rec, err := s.store.Activities.GetRecipe(ctx, recipeID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rec, nil
}

// Rate 同一用户重复评分覆盖旧分数
func (s *activityService) Rate(ctx context.Context, userID, recipeID string, score int, review string) (*model.Rating, error) {
	if userID == "" {
		return nil, ErrAuthRequired
	}
	if score < 1 || score > 5 {
		return nil, ErrInvalidInput
	}
	rec, err := s.getRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	rt, err := s.store.Activities.UpsertRating(ctx, userID, recipeID, score, review)
	if err != nil {
		return nil, err
	}
	s.notifyAuthor(rec, userID, model.VerbRated)
	return rt, nil
}

func (s *activityService) Favorite(ctx context.Context, userID, recipeID string) (*model.Favorite, error) {
	if userID == "" {
		return nil, ErrAuthRequired
	}
	rec, err := s.getRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	fav, created, err := s.store.Activities.GetOrCreateFavorite(ctx, userID, recipeID)
	if err != nil {
		return nil, err
	}
	if created {
		s.notifyAuthor(rec, userID, model.VerbFavorited)
	}
	return fav, nil
}

func (s *activityService) Unfavorite(ctx context.Context, userID, recipeID string) error {
	if userID == "" {
		return ErrAuthRequired
	}
	return s.store.Activities.DeleteFavorite(ctx, userID, recipeID)
}

// notifyAuthor 自己对自己的菜谱操作不产生通知
func (s *activityService) notifyAuthor(rec *model.Recipe, actorID string, verb model.Verb) {
	if s.notifier == nil || rec.AuthorID == actorID {
		return
	}
	s.notifier.Notify(NotificationInput{
		RecipientID: rec.AuthorID,
		Verb:        verb,
		ActorID:     actorID,
		TargetType:  model.TargetTypeRecipe,
		TargetID:    rec.ID,
	})
}
