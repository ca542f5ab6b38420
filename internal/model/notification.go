package model

import "time"

// Notification 站内通知；ActorID 为空表示系统通知
type Notification struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	RecipientID string    `json:"recipient_id" gorm:"type:varchar(36);not null;index:idx_notification_recipient_created;index:idx_notification_recipient_read"`
	Recipient   *User     `json:"-" gorm:"foreignKey:RecipientID;constraint:OnDelete:CASCADE"`
	ActorID     *string   `json:"actor_id" gorm:"type:varchar(36)"`
	Actor       *User     `json:"actor,omitempty" gorm:"foreignKey:ActorID;constraint:OnDelete:CASCADE"`
	Verb        Verb      `json:"verb" gorm:"type:varchar(32);not null"`
	TargetType  *string   `json:"target_type" gorm:"type:varchar(32)"`
	TargetID    *string   `json:"target_id" gorm:"type:varchar(36)"`
	IsRead      bool      `json:"is_read" gorm:"not null;default:false;index:idx_notification_recipient_read"`
	CreatedAt   time.Time `json:"created_at" gorm:"index:idx_notification_recipient_created"`
}

func (Notification) TableName() string { return "notifications" }

type Verb string

const (
	VerbFollowed      Verb = "followed"
	VerbFollowRequest Verb = "follow_request"
	VerbRated         Verb = "rated"
	VerbCommented     Verb = "commented"
	VerbFavorited     Verb = "favorited"
	VerbPostedRecipe  Verb = "posted_recipe"
	VerbBadgeAwarded  Verb = "badge_awarded"
)

// Valid 是否为已知动作
func (v Verb) Valid() bool {
	switch v {
	case VerbFollowed, VerbFollowRequest, VerbRated, VerbCommented,
		VerbFavorited, VerbPostedRecipe, VerbBadgeAwarded:
		return true
	}
	return false
}

// 通知目标类型
const (
	TargetTypeUser          = "user"
	TargetTypeRecipe        = "recipe"
	TargetTypeFollowRequest = "follow_request"
)
