package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/recipe-social/internal/model"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	CreateBatch(ctx context.Context, ns []*model.Notification, batchSize int) error
	List(ctx context.Context, recipientID string, offset, limit int) ([]*model.Notification, error)
	Count(ctx context.Context, recipientID string) (int64, error)
	// FindForRecipient 只返回属于 recipientID 的通知
	FindForRecipient(ctx context.Context, id, recipientID string) (*model.Notification, error)
	MarkRead(ctx context.Context, id, recipientID string) (int64, error)
	MarkAllRead(ctx context.Context, recipientID string) (int64, error)
	UnreadCount(ctx context.Context, recipientID string) (int64, error)
}

type notificationRepository struct{ db *gorm.DB }

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *model.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *notificationRepository) CreateBatch(ctx context.Context, ns []*model.Notification, batchSize int) error {
	if len(ns) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(ns, batchSize).Error
}

func (r *notificationRepository) List(ctx context.Context, recipientID string, offset, limit int) ([]*model.Notification, error) {
	var res []*model.Notification
	err := r.db.WithContext(ctx).
		Preload("Actor").
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC, id DESC").
		Offset(offset).Limit(normalizeLimit(limit)).
		Find(&res).Error
	return res, err
}

func (r *notificationRepository) Count(ctx context.Context, recipientID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Notification{}).Where("recipient_id = ?", recipientID).Count(&cnt).Error
	return cnt, err
}

func (r *notificationRepository) FindForRecipient(ctx context.Context, id, recipientID string) (*model.Notification, error) {
	var n model.Notification
	err := r.db.WithContext(ctx).
		Preload("Actor").
		Where("id = ? AND recipient_id = ?", id, recipientID).
		First(&n).Error
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id, recipientID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("id = ? AND recipient_id = ?", id, recipientID).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, recipientID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (r *notificationRepository) UnreadCount(ctx context.Context, recipientID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Count(&cnt).Error
	return cnt, err
}
