package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/recipe-social/internal/model"
)

type FollowRepository interface {
	// Create 插入关注；唯一键冲突时不报错，created=false
	Create(ctx context.Context, followerID, followingID string) (f *model.Follow, created bool, err error)
	GetOrCreate(ctx context.Context, followerID, followingID string) (*model.Follow, error)
	Get(ctx context.Context, followerID, followingID string) (*model.Follow, error)
	Exists(ctx context.Context, followerID, followingID string) (bool, error)
	Delete(ctx context.Context, followerID, followingID string) error
	ListFollowers(ctx context.Context, userID string, offset, limit int) ([]*model.Follow, error)
	ListFollowings(ctx context.Context, followerID string, offset, limit int) ([]*model.Follow, error)
	CountFollowers(ctx context.Context, userID string) (int64, error)
	CountFollowings(ctx context.Context, followerID string) (int64, error)
	FollowingIDs(ctx context.Context, followerID string) ([]string, error)
	// FollowerIDs 分页返回粉丝 ID，用于批量扇出
	FollowerIDs(ctx context.Context, userID string, offset, limit int) ([]string, error)
	// FollowedBy 返回 followerIDs 中任意用户关注的人（去重），排除 exclude
	FollowedBy(ctx context.Context, followerIDs, exclude []string, limit int) ([]string, error)
}

type followRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) FollowRepository { return &followRepository{db: db} }

func (r *followRepository) Create(ctx context.Context, followerID, followingID string) (*model.Follow, bool, error) {
	f := &model.Follow{ID: uuid.New().String(), FollowerID: followerID, FollowingID: followingID}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(f)
	if res.Error != nil {
		return nil, false, res.Error
	}
	return f, res.RowsAffected > 0, nil
}

func (r *followRepository) GetOrCreate(ctx context.Context, followerID, followingID string) (*model.Follow, error) {
	f, created, err := r.Create(ctx, followerID, followingID)
	if err != nil {
		return nil, err
	}
	if created {
		return f, nil
	}
	return r.Get(ctx, followerID, followingID)
}

func (r *followRepository) Get(ctx context.Context, followerID, followingID string) (*model.Follow, error) {
	var f model.Follow
	err := r.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		First(&f).Error
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *followRepository) Exists(ctx context.Context, followerID, followingID string) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *followRepository) Delete(ctx context.Context, followerID, followingID string) error {
	return r.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&model.Follow{}).Error
}

func (r *followRepository) ListFollowers(ctx context.Context, userID string, offset, limit int) ([]*model.Follow, error) {
	var res []*model.Follow
	err := r.db.WithContext(ctx).
		Preload("Follower").
		Where("following_id = ?", userID).
		Order("created_at DESC, id DESC").
		Offset(offset).Limit(normalizeLimit(limit)).
		Find(&res).Error
	return res, err
}

func (r *followRepository) ListFollowings(ctx context.Context, followerID string, offset, limit int) ([]*model.Follow, error) {
	var res []*model.Follow
	err := r.db.WithContext(ctx).
		Preload("Following").
		Where("follower_id = ?", followerID).
		Order("created_at DESC, id DESC").
		Offset(offset).Limit(normalizeLimit(limit)).
		Find(&res).Error
	return res, err
}

func (r *followRepository) CountFollowers(ctx context.Context, userID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Follow{}).Where("following_id = ?", userID).Count(&cnt).Error
	return cnt, err
}

func (r *followRepository) CountFollowings(ctx context.Context, followerID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Follow{}).Where("follower_id = ?", followerID).Count(&cnt).Error
	return cnt, err
}

func (r *followRepository) FollowingIDs(ctx context.Context, followerID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.Follow{}).
		Where("follower_id = ?", followerID).
		Pluck("following_id", &ids).Error
	return ids, err
}

func (r *followRepository) FollowerIDs(ctx context.Context, userID string, offset, limit int) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.Follow{}).
		Where("following_id = ?", userID).
		Order("follower_id").
		Offset(offset).Limit(normalizeLimit(limit)).
		Pluck("follower_id", &ids).Error
	return ids, err
}

func (r *followRepository) FollowedBy(ctx context.Context, followerIDs, exclude []string, limit int) ([]string, error) {
	if len(followerIDs) == 0 {
		return nil, nil
	}
	q := r.db.WithContext(ctx).
		Model(&model.Follow{}).
		Where("follower_id IN ?", followerIDs)
	// NOT IN 空集合会被渲染成 NOT IN (NULL)，结果恒为空
	if len(exclude) > 0 {
		q = q.Where("following_id NOT IN ?", exclude)
	}
	var ids []string
	err := q.Distinct().
		Order("following_id").
		Limit(normalizeLimit(limit)).
		Pluck("following_id", &ids).Error
	return ids, err
}
