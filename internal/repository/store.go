package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Store 关系存储：聚合各仓储并提供事务边界。
// 事务内通过 fn 收到的 tx 访问仓储，保证多次写入一起提交或一起回滚。
type Store struct {
	db *gorm.DB

	Users         UserRepository
	Follows       FollowRepository
	Requests      FollowRequestRepository
	Blocks        BlockRepository
	Mutes         MuteRepository
	Notifications NotificationRepository
	Activities    ActivityRepository
	Preferences   PreferenceRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:            db,
		Users:         NewUserRepository(db),
		Follows:       NewFollowRepository(db),
		Requests:      NewFollowRequestRepository(db),
		Blocks:        NewBlockRepository(db),
		Mutes:         NewMuteRepository(db),
		Notifications: NewNotificationRepository(db),
		Activities:    NewActivityRepository(db),
		Preferences:   NewPreferenceRepository(db),
	}
}

// Transaction 在同一个数据库事务内执行 fn
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// DB 返回底层连接（仅用于健康检查与迁移）
func (s *Store) DB() *gorm.DB { return s.db }

// IsNotFound 判断是否为记录不存在
func IsNotFound(err error) bool { return errors.Is(err, gorm.ErrRecordNotFound) }

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return 20
	}
	return limit
}
