package model

import "time"

// User 用户（由账户服务维护，此处只保留社交图谱需要的字段）
type User struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Email        string    `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	Name         string    `json:"name" gorm:"type:varchar(255);index"`
	Bio          string    `json:"bio" gorm:"type:text"`
	ProfilePhoto string    `json:"profile_photo" gorm:"type:varchar(500)"`
	IsPrivate    bool      `json:"is_private" gorm:"not null;default:false"`
	IsVerified   bool      `json:"is_verified" gorm:"not null;default:false"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }

// Summary 转换为轻量用户信息
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		ProfilePhoto: u.ProfilePhoto,
		IsVerified:   u.IsVerified,
	}
}

// UserSummary 社交功能使用的轻量用户信息
type UserSummary struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	ProfilePhoto  string `json:"profile_photo"`
	IsVerified    bool   `json:"is_verified"`
	FollowerCount int64  `json:"follower_count"`
}
