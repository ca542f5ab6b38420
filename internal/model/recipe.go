package model

import "time"

// Recipe 菜谱（动态流只关心作者、发布状态和创建时间）
type Recipe struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	AuthorID    string    `json:"author_id" gorm:"type:varchar(36);not null;index:idx_recipe_author_created"`
	Author      *User     `json:"author,omitempty" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Title       string    `json:"title" gorm:"type:varchar(200);not null"`
	Description string    `json:"description" gorm:"type:text"`
	IsPublished bool      `json:"is_published" gorm:"not null;default:false;index"`
	CreatedAt   time.Time `json:"created_at" gorm:"index:idx_recipe_author_created"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Recipe) TableName() string { return "recipes" }

// Rating 评分 1-5，每个用户对每个菜谱只有一条
type Rating struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"user_id" gorm:"type:varchar(36);not null;index:idx_rating_pair,unique;index:idx_rating_user_created"`
	User      *User     `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	RecipeID  string    `json:"recipe_id" gorm:"type:varchar(36);not null;index:idx_rating_pair,unique"`
	Recipe    *Recipe   `json:"recipe,omitempty" gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	Score     int       `json:"score" gorm:"not null;check:chk_rating_score,score BETWEEN 1 AND 5"`
	Review    string    `json:"review" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at" gorm:"index:idx_rating_user_created"`
}

func (Rating) TableName() string { return "ratings" }

// Favorite 收藏
type Favorite struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"user_id" gorm:"type:varchar(36);not null;index:idx_favorite_pair,unique;index:idx_favorite_user_created"`
	User      *User     `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	RecipeID  string    `json:"recipe_id" gorm:"type:varchar(36);not null;index:idx_favorite_pair,unique"`
	Recipe    *Recipe   `json:"recipe,omitempty" gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"created_at" gorm:"index:idx_favorite_user_created"`
}

func (Favorite) TableName() string { return "favorites" }
