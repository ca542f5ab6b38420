package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/d60-Lab/recipe-social/internal/model"
	"github.com/d60-Lab/recipe-social/internal/repository"
)

// NotificationInput 创建通知的参数，空字符串表示对应字段为空
type NotificationInput struct {
	RecipientID string
	Verb        model.Verb
	ActorID     string
	TargetType  string
	TargetID    string
}

func (in NotificationInput) toModel() *model.Notification {
	return &model.Notification{
		ID:          uuid.New().String(),
		RecipientID: in.RecipientID,
		ActorID:     optional(in.ActorID),
		Verb:        in.Verb,
		TargetType:  optional(in.TargetType),
		TargetID:    optional(in.TargetID),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Notifier 其它服务在写入成功后发出通知事件，实现方可以同步落库或异步投递
type Notifier interface {
	Notify(in NotificationInput)
	// Announce 作者发布菜谱后通知其全部粉丝
	Announce(authorID, recipeID string)
}

type NotificationService interface {
	Create(ctx context.Context, in NotificationInput) (*model.Notification, error)
	List(ctx context.Context, recipientID string, page, pageSize int) (*Page[*model.Notification], error)
	MarkRead(ctx context.Context, recipientID, notificationID string) (*model.Notification, error)
	MarkAllRead(ctx context.Context, recipientID string) (int64, error)
	UnreadCount(ctx context.Context, recipientID string) (int64, error)
}

type notificationService struct {
	store *repository.Store
}

func NewNotificationService(store *repository.Store) NotificationService {
	return &notificationService{store: store}
}

func (s *notificationService) Create(ctx context.Context, in NotificationInput) (*model.Notification, error) {
	n := in.toModel()
	if err := s.store.Notifications.Create(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *notificationService) List(ctx context.Context, recipientID string, page, pageSize int) (*Page[*model.Notification], error) {
	if recipientID == "" {
		return nil, ErrAuthRequired
	}
	page, pageSize, offset := normalizePage(page, pageSize)
	total, err := s.store.Notifications.Count(ctx, recipientID)
	if err != nil {
		return nil, err
	}
	list, err := s.store.Notifications.List(ctx, recipientID, offset, pageSize)
	if err != nil {
		return nil, err
	}
	return newPage(list, total, page, pageSize), nil
}

func (s *notificationService) MarkRead(ctx context.Context, recipientID, notificationID string) (*model.Notification, error) {
	if recipientID == "" {
		return nil, ErrAuthRequired
	}
	n, err := s.store.Notifications.FindForRecipient(ctx, notificationID, recipientID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if n.IsRead {
		return n, nil
	}
	if _, err := s.store.Notifications.MarkRead(ctx, notificationID, recipientID); err != nil {
		return nil, err
	}
	n.IsRead = true
	return n, nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, recipientID string) (int64, error) {
	if recipientID == "" {
		return 0, ErrAuthRequired
	}
	return s.store.Notifications.MarkAllRead(ctx, recipientID)
}

func (s *notificationService) UnreadCount(ctx context.Context, recipientID string) (int64, error) {
	if recipientID == "" {
		return 0, ErrAuthRequired
	}
	return s.store.Notifications.UnreadCount(ctx, recipientID)
}

// DirectNotifier 在调用方 goroutine 内同步写通知，失败只记录日志
type DirectNotifier struct {
	store     *repository.Store
	batchSize int
}

func NewDirectNotifier(store *repository.Store) *DirectNotifier {
	return &DirectNotifier{store: store, batchSize: 500}
}

func (n *DirectNotifier) Notify(in NotificationInput) {
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()
	deliver(ctx, n.store, in)
}

func (n *DirectNotifier) Announce(authorID, recipeID string) {
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()
	announce(ctx, n.store, authorID, recipeID, n.batchSize)
}
