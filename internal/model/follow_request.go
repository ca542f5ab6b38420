package model

import "time"

// FollowRequest 私密账号的关注申请
type FollowRequest struct {
	ID          string              `json:"id" gorm:"primaryKey;type:varchar(36)"`
	RequesterID string              `json:"requester_id" gorm:"type:varchar(36);not null;index:idx_follow_request_pair,unique"`
	Requester   *User               `json:"requester,omitempty" gorm:"foreignKey:RequesterID;constraint:OnDelete:CASCADE"`
	TargetID    string              `json:"target_id" gorm:"type:varchar(36);not null;index:idx_follow_request_pair,unique;index:idx_follow_request_target_status"`
	Target      *User               `json:"target,omitempty" gorm:"foreignKey:TargetID;constraint:OnDelete:CASCADE"`
	Status      FollowRequestStatus `json:"status" gorm:"type:varchar(16);not null;default:'pending';index:idx_follow_request_target_status"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

func (FollowRequest) TableName() string { return "follow_requests" }

type FollowRequestStatus string

// 申请状态
const (
	FollowRequestPending  FollowRequestStatus = "pending"
	FollowRequestApproved FollowRequestStatus = "approved"
	FollowRequestRejected FollowRequestStatus = "rejected"
)
