package models

import (
	"time"

	"gorm.io/gorm"
)

// DefaultCameraType is stored when the uploader leaves the camera field empty.
const DefaultCameraType = "unspecified"

// Photo represents an uploaded photo and its metadata. The binary itself
// lives on the media host; ImageURL is the public location and StorageID
// the host-side object key used for deletion.
type Photo struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	Title      string `gorm:"not null" json:"title"`
	ImageURL   string `gorm:"not null" json:"image_url"`
	StorageID  string `gorm:"not null" json:"-"`
	CameraType string `gorm:"not null;default:unspecified" json:"camera_type"`
	// TakenAt is the capture date in canonical ISO 8601 form (YYYY-MM-DD).
	TakenAt string `gorm:"not null" json:"taken_at"`
	UserID  uint   `gorm:"not null;index" json:"user_id"`
	User    User   `gorm:"foreignKey:UserID" json:"user"`
	// LikesCount is not persisted; computed at query time
	LikesCount int `gorm:"->" json:"likes_count"`
	// DislikesCount is not persisted; computed at query time
	DislikesCount int `gorm:"->" json:"dislikes_count"`
	// Liked indicates whether the current requesting user liked this photo (computed)
	Liked bool `gorm:"->" json:"liked"`
	// Disliked indicates whether the current requesting user disliked this photo (computed)
	Disliked bool `gorm:"->" json:"disliked"`
	// Voter sets, populated on the detail endpoint only.
	LikedBy    []uint         `gorm:"-" json:"liked_by,omitempty"`
	DislikedBy []uint         `gorm:"-" json:"disliked_by,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}
