package model

import (
	"time"
)

// Follow 关注关系（A 关注 B）
type Follow struct {
	ID          string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	FollowerID  string `json:"follower_id" gorm:"type:varchar(36);index:idx_follow_follower;index:idx_follow_pair,unique;not null;check:chk_follow_self,follower_id <> following_id"`
	Follower    *User  `json:"follower,omitempty" gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE"`
	FollowingID string `json:"following_id" gorm:"type:varchar(36);not null;index:idx_follow_pair,unique;index:idx_follow_following"`
	Following   *User  `json:"following,omitempty" gorm:"foreignKey:FollowingID;constraint:OnDelete:CASCADE"`
	// 复合唯一键，避免重复关注
	// idx_follow_pair = (follower_id, following_id)
	CreatedAt time.Time `json:"created_at"`
}

func (Follow) TableName() string { return "follows" }
