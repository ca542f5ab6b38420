package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/recipe-social/internal/model"
)

type PreferenceRepository interface {
	Get(ctx context.Context, userID string) (*model.FeedPreference, error)
	Upsert(ctx context.Context, p *model.FeedPreference) error
}

type preferenceRepository struct{ db *gorm.DB }

func NewPreferenceRepository(db *gorm.DB) PreferenceRepository { return &preferenceRepository{db: db} }

func (r *preferenceRepository) Get(ctx context.Context, userID string) (*model.FeedPreference, error) {
	var p model.FeedPreference
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *preferenceRepository) Upsert(ctx context.Context, p *model.FeedPreference) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		UpdateAll: true,
	}).Create(p).Error
}
