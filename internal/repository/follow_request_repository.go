package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/recipe-social/internal/model"
)

type FollowRequestRepository interface {
	Create(ctx context.Context, requesterID, targetID string) (req *model.FollowRequest, created bool, err error)
	Get(ctx context.Context, requesterID, targetID string) (*model.FollowRequest, error)
	// ResetPending 复用已处理（拒绝/通过）的申请，重新置为 pending
	ResetPending(ctx context.Context, req *model.FollowRequest) error
	// FindPending 只查找 target 本人名下、仍处于 pending 的申请
	FindPending(ctx context.Context, id, targetID string) (*model.FollowRequest, error)
	// Transition 条件更新 pending -> to，返回是否命中
	Transition(ctx context.Context, id, targetID string, to model.FollowRequestStatus) (bool, error)
	Delete(ctx context.Context, requesterID, targetID string) error
	ListPending(ctx context.Context, targetID string, offset, limit int) ([]*model.FollowRequest, error)
	CountPending(ctx context.Context, targetID string) (int64, error)
}

type followRequestRepository struct{ db *gorm.DB }

func NewFollowRequestRepository(db *gorm.DB) FollowRequestRepository {
	return &followRequestRepository{db: db}
}

func (r *followRequestRepository) Create(ctx context.Context, requesterID, targetID string) (*model.FollowRequest, bool, error) {
	req := &model.FollowRequest{
		ID:          uuid.New().String(),
		RequesterID: requesterID,
		TargetID:    targetID,
		Status:      model.FollowRequestPending,
	}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(req)
	if res.Error != nil {
		return nil, false, res.Error
	}
	return req, res.RowsAffected > 0, nil
}

func (r *followRequestRepository) Get(ctx context.Context, requesterID, targetID string) (*model.FollowRequest, error) {
	var req model.FollowRequest
	err := r.db.WithContext(ctx).
		Where("requester_id = ? AND target_id = ?", requesterID, targetID).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *followRequestRepository) ResetPending(ctx context.Context, req *model.FollowRequest) error {
	now := r.db.NowFunc()
	err := r.db.WithContext(ctx).
		Model(&model.FollowRequest{}).
		Where("id = ?", req.ID).
		Updates(map[string]any{"status": model.FollowRequestPending, "created_at": now}).Error
	if err != nil {
		return err
	}
	req.Status = model.FollowRequestPending
	req.CreatedAt = now
	return nil
}

func (r *followRequestRepository) FindPending(ctx context.Context, id, targetID string) (*model.FollowRequest, error) {
	var req model.FollowRequest
	err := r.db.WithContext(ctx).
		Preload("Requester").
		Where("id = ? AND target_id = ? AND status = ?", id, targetID, model.FollowRequestPending).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *followRequestRepository) Transition(ctx context.Context, id, targetID string, to model.FollowRequestStatus) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.FollowRequest{}).
		Where("id = ? AND target_id = ? AND status = ?", id, targetID, model.FollowRequestPending).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *followRequestRepository) Delete(ctx context.Context, requesterID, targetID string) error {
	return r.db.WithContext(ctx).
		Where("requester_id = ? AND target_id = ?", requesterID, targetID).
		Delete(&model.FollowRequest{}).Error
}

func (r *followRequestRepository) ListPending(ctx context.Context, targetID string, offset, limit int) ([]*model.FollowRequest, error) {
	var res []*model.FollowRequest
	err := r.db.WithContext(ctx).
		Preload("Requester").
		Where("target_id = ? AND status = ?", targetID, model.FollowRequestPending).
		Order("created_at DESC, id DESC").
		Offset(offset).Limit(normalizeLimit(limit)).
		Find(&res).Error
	return res, err
}

func (r *followRequestRepository) CountPending(ctx context.Context, targetID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&model.FollowRequest{}).
		Where("target_id = ? AND status = ?", targetID, model.FollowRequestPending).
		Count(&cnt).Error
	return cnt, err
}
