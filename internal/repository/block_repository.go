package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/recipe-social/internal/model"
)

type BlockRepository interface {
	GetOrCreate(ctx context.Context, userID, blockedUserID string) (*model.Block, error)
	Delete(ctx context.Context, userID, blockedUserID string) error
	Exists(ctx context.Context, userID, blockedUserID string) (bool, error)
	// RelatedIDs 与 userID 存在任意方向拉黑关系的用户（不含 userID 本身）
	RelatedIDs(ctx context.Context, userID string) ([]string, error)
	List(ctx context.Context, userID string, offset, limit int) ([]*model.Block, error)
	Count(ctx context.Context, userID string) (int64, error)
}

type blockRepository struct{ db *gorm.DB }

func NewBlockRepository(db *gorm.DB) BlockRepository { return &blockRepository{db: db} }

func (r *blockRepository) GetOrCreate(ctx context.Context, userID, blockedUserID string) (*model.Block, error) {
	b := &model.Block{ID: uuid.New().String(), UserID: userID, BlockedUserID: blockedUserID}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(b)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected > 0 {
		return b, nil
	}
	var existing model.Block
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND blocked_user_id = ?", userID, blockedUserID).
		First(&existing).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}

func (r *blockRepository) Delete(ctx context.Context, userID, blockedUserID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND blocked_user_id = ?", userID, blockedUserID).
		Delete(&model.Block{}).Error
}

func (r *blockRepository) Exists(ctx context.Context, userID, blockedUserID string) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.Block{}).
		Where("user_id = ? AND blocked_user_id = ?", userID, blockedUserID).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *blockRepository) RelatedIDs(ctx context.Context, userID string) ([]string, error) {
	var rows []model.Block
	if err := r.db.WithContext(ctx).
		Select("user_id", "blocked_user_id").
		Where("user_id = ? OR blocked_user_id = ?", userID, userID).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(rows))
	ids := make([]string, 0, len(rows))
	for _, b := range rows {
		other := b.BlockedUserID
		if other == userID {
			other = b.UserID
		}
		if _, ok := seen[other]; ok {
			continue
		}
		seen[other] = struct{}{}
		ids = append(ids, other)
	}
	return ids, nil
}

func (r *blockRepository) List(ctx context.Context, userID string, offset, limit int) ([]*model.Block, error) {
	var res []*model.Block
	err := r.db.WithContext(ctx).
		Preload("BlockedUser").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Offset(offset).Limit(normalizeLimit(limit)).
		Find(&res).Error
	return res, err
}

func (r *blockRepository) Count(ctx context.Context, userID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Block{}).Where("user_id = ?", userID).Count(&cnt).Error
	return cnt, err
}
