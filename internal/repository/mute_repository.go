package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/recipe-social/internal/model"
)

type MuteRepository interface {
	GetOrCreate(ctx context.Context, userID, mutedUserID string) (*model.Mute, error)
	Delete(ctx context.Context, userID, mutedUserID string) error
	MutedIDs(ctx context.Context, userID string) ([]string, error)
	List(ctx context.Context, userID string, offset, limit int) ([]*model.Mute, error)
	Count(ctx context.Context, userID string) (int64, error)
}

type muteRepository struct{ db *gorm.DB }

func NewMuteRepository(db *gorm.DB) MuteRepository { return &muteRepository{db: db} }

func (r *muteRepository) GetOrCreate(ctx context.Context, userID, mutedUserID string) (*model.Mute, error) {
	m := &model.Mute{ID: uuid.New().String(), UserID: userID, MutedUserID: mutedUserID}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(m)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected > 0 {
		return m, nil
	}
	var existing model.Mute
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND muted_user_id = ?", userID, mutedUserID).
		First(&existing).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}

func (r *muteRepository) Delete(ctx context.Context, userID, mutedUserID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND muted_user_id = ?", userID, mutedUserID).
		Delete(&model.Mute{}).Error
}

func (r *muteRepository) MutedIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.Mute{}).
		Where("user_id = ?", userID).
		Pluck("muted_user_id", &ids).Error
	return ids, err
}

func (r *muteRepository) List(ctx context.Context, userID string, offset, limit int) ([]*model.Mute, error) {
	var res []*model.Mute
	err := r.db.WithContext(ctx).
		Preload("MutedUser").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Offset(offset).Limit(normalizeLimit(limit)).
		Find(&res).Error
	return res, err
}

func (r *muteRepository) Count(ctx context.Context, userID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Mute{}).Where("user_id = ?", userID).Count(&cnt).Error
	return cnt, err
}
