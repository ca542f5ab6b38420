package model

import "time"

type FeedOrder string

const (
	FeedOrderChronological FeedOrder = "chronological"
	FeedOrderAlgorithmic   FeedOrder = "algorithmic"
)

// FeedPreference 每个用户一条；没有记录时使用 DefaultFeedPreference
// 布尔列不设数据库默认值：gorm 会把零值 false 替换成列默认值
type FeedPreference struct {
	UserID        string    `json:"user_id" gorm:"primaryKey;type:varchar(36)"`
	User          *User     `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	ShowRecipes   bool      `json:"show_recipes" gorm:"not null"`
	ShowRatings   bool      `json:"show_ratings" gorm:"not null"`
	ShowComments  bool      `json:"show_comments" gorm:"not null"`
	ShowFavorites bool      `json:"show_favorites" gorm:"not null"`
	FeedOrder     FeedOrder `json:"feed_order" gorm:"type:varchar(16);not null;default:'chronological'"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (FeedPreference) TableName() string { return "feed_preferences" }

// DefaultFeedPreference 默认偏好
func DefaultFeedPreference(userID string) *FeedPreference {
	return &FeedPreference{
		UserID:      userID,
		ShowRecipes: true,
		ShowRatings: true,
		FeedOrder:   FeedOrderChronological,
	}
}
