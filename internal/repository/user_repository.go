package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/d60-Lab/recipe-social/internal/model"
)

const summaryColumns = "users.id, users.email, users.name, users.profile_photo, users.is_verified"

type UserRepository interface {
	Create(ctx context.Context, u *model.User) error
	Get(ctx context.Context, id string) (*model.User, error)
	// Search 按 name/email 做不区分大小写的子串匹配
	Search(ctx context.Context, query string, exclude []string, limit int) ([]model.UserSummary, error)
	// Popular 按粉丝数倒序
	Popular(ctx context.Context, exclude []string, limit int) ([]model.UserSummary, error)
	Summaries(ctx context.Context, ids []string) ([]model.UserSummary, error)
}

type userRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) UserRepository { return &userRepository{db: db} }

func (r *userRepository) Create(ctx context.Context, u *model.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *userRepository) Get(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) Search(ctx context.Context, query string, exclude []string, limit int) ([]model.UserSummary, error) {
	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"
	q := r.db.WithContext(ctx).
		Table("users").
		Select(summaryColumns).
		Where(`(LOWER(users.name) LIKE ? ESCAPE '\' OR LOWER(users.email) LIKE ? ESCAPE '\')`, pattern, pattern)
	if len(exclude) > 0 {
		q = q.Where("users.id NOT IN ?", exclude)
	}
	var res []model.UserSummary
	err := q.Order("users.name, users.id").Limit(normalizeLimit(limit)).Scan(&res).Error
	return res, err
}

func (r *userRepository) Popular(ctx context.Context, exclude []string, limit int) ([]model.UserSummary, error) {
	q := r.db.WithContext(ctx).
		Table("users").
		Select(summaryColumns + ", COUNT(follows.id) AS follower_count").
		Joins("LEFT JOIN follows ON follows.following_id = users.id")
	if len(exclude) > 0 {
		q = q.Where("users.id NOT IN ?", exclude)
	}
	var res []model.UserSummary
	err := q.Group(summaryColumns).
		Order("follower_count DESC, users.id ASC").
		Limit(normalizeLimit(limit)).
		Scan(&res).Error
	return res, err
}

func (r *userRepository) Summaries(ctx context.Context, ids []string) ([]model.UserSummary, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var res []model.UserSummary
	err := r.db.WithContext(ctx).
		Table("users").
		Select(summaryColumns).
		Where("users.id IN ?", ids).
		Order("users.id").
		Scan(&res).Error
	return res, err
}

// escapeLike 转义 LIKE 通配符，使用户输入按字面匹配
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
