package model

import "time"

// Mute 静音：只影响动态流，不影响关注关系
type Mute struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID      string    `json:"user_id" gorm:"type:varchar(36);not null;index:idx_mute_pair,unique;check:chk_mute_self,user_id <> muted_user_id"`
	User        *User     `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	MutedUserID string    `json:"muted_user_id" gorm:"type:varchar(36);not null;index:idx_mute_pair,unique"`
	MutedUser   *User     `json:"muted_user,omitempty" gorm:"foreignKey:MutedUserID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Mute) TableName() string { return "mutes" }
