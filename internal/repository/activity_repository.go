package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/recipe-social/internal/model"
)

// ActivityRepository 动态流的数据源：菜谱、评分、收藏
type ActivityRepository interface {
	CreateRecipe(ctx context.Context, r *model.Recipe) error
	GetRecipe(ctx context.Context, id string) (*model.Recipe, error)
	// UpsertRating 同一用户对同一菜谱重复评分时覆盖 score/review
	UpsertRating(ctx context.Context, userID, recipeID string, score int, review string) (*model.Rating, error)
	GetOrCreateFavorite(ctx context.Context, userID, recipeID string) (fav *model.Favorite, created bool, err error)
	DeleteFavorite(ctx context.Context, userID, recipeID string) error

	RecentRecipes(ctx context.Context, authorIDs []string, limit int) ([]*model.Recipe, error)
	RecentRatings(ctx context.Context, userIDs []string, limit int) ([]*model.Rating, error)
	RecentFavorites(ctx context.Context, userIDs []string, limit int) ([]*model.Favorite, error)
}

type activityRepository struct{ db *gorm.DB }

func NewActivityRepository(db *gorm.DB) ActivityRepository { return &activityRepository{db: db} }

func (r *activityRepository) CreateRecipe(ctx context.Context, rec *model.Recipe) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *activityRepository) GetRecipe(ctx context.Context, id string) (*model.Recipe, error) {
	var rec model.Recipe
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *activityRepository) UpsertRating(ctx context.Context, userID, recipeID string, score int, review string) (*model.Rating, error) {
	rt := &model.Rating{ID: uuid.New().String(), UserID: userID, RecipeID: recipeID, Score: score, Review: review}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "recipe_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"score", "review"}),
	}).Create(rt).Error
	if err != nil {
		return nil, err
	}
	var stored model.Rating
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *activityRepository) GetOrCreateFavorite(ctx context.Context, userID, recipeID string) (*model.Favorite, bool, error) {
	fav := &model.Favorite{ID: uuid.New().String(), UserID: userID, RecipeID: recipeID}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(fav)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected > 0 {
		return fav, true, nil
	}
	var existing model.Favorite
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		First(&existing).Error; err != nil {
		return nil, false, err
	}
	return &existing, false, nil
}

func (r *activityRepository) DeleteFavorite(ctx context.Context, userID, recipeID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&model.Favorite{}).Error
}

func (r *activityRepository) RecentRecipes(ctx context.Context, authorIDs []string, limit int) ([]*model.Recipe, error) {
	if len(authorIDs) == 0 {
		return nil, nil
	}
	var res []*model.Recipe
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("author_id IN ? AND is_published = ?", authorIDs, true).
		Order("created_at DESC, id DESC").
		Limit(normalizeLimit(limit)).
		Find(&res).Error
	return res, err
}

func (r *activityRepository) RecentRatings(ctx context.Context, userIDs []string, limit int) ([]*model.Rating, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var res []*model.Rating
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Recipe").
		Where("user_id IN ?", userIDs).
		Order("created_at DESC, id DESC").
		Limit(normalizeLimit(limit)).
		Find(&res).Error
	return res, err
}

func (r *activityRepository) RecentFavorites(ctx context.Context, userIDs []string, limit int) ([]*model.Favorite, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var res []*model.Favorite
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Recipe").
		Where("user_id IN ?", userIDs).
		Order("created_at DESC, id DESC").
		Limit(normalizeLimit(limit)).
		Find(&res).Error
	return res, err
}
