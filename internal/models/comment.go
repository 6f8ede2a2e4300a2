package models

import (
	"time"

	"gorm.io/gorm"
)

// MaxCommentLength bounds comment content.
const MaxCommentLength = 500

// Comment represents a comment on a photo. A non-nil ParentID marks the
// comment as a reply; comments per photo form a forest rooted at
// null-parent rows. Deleting a parent leaves its replies in place.
type Comment struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Content  string `gorm:"type:text;not null" json:"content"`
	UserID   uint   `gorm:"not null;index" json:"user_id"`
	PhotoID  uint   `gorm:"not null;index" json:"photo_id"`
	ParentID *uint  `gorm:"index" json:"parent_id"`
	User     User   `gorm:"foreignKey:UserID" json:"user"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
