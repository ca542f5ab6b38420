package model

import "time"

// Block 拉黑（user 拉黑 blocked_user）
type Block struct {
	ID            string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID        string    `json:"user_id" gorm:"type:varchar(36);not null;index:idx_block_pair,unique;check:chk_block_self,user_id <> blocked_user_id"`
	User          *User     `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	BlockedUserID string    `json:"blocked_user_id" gorm:"type:varchar(36);not null;index:idx_block_pair,unique;index:idx_block_blocked"`
	BlockedUser   *User     `json:"blocked_user,omitempty" gorm:"foreignKey:BlockedUserID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time `json:"created_at"`
}

func (Block) TableName() string { return "blocks" }
