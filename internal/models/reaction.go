package models

import "time"

// ReactionKind is the kind of reaction a user can hold on a photo.
type ReactionKind string

const (
	ReactionLike    ReactionKind = "like"
	ReactionDislike ReactionKind = "dislike"
)

// Valid reports whether k is a known reaction kind.
func (k ReactionKind) Valid() bool {
	return k == ReactionLike || k == ReactionDislike
}

// Opposite returns the other reaction kind.
func (k ReactionKind) Opposite() ReactionKind {
	if k == ReactionLike {
		return ReactionDislike
	}
	return ReactionLike
}

// Reaction records a single user's reaction on a single photo.
// The unique index on (photo_id, user_id) makes "at most one reaction
// per user per photo" a database invariant rather than application logic.
type Reaction struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	PhotoID   uint         `gorm:"not null;uniqueIndex:idx_photo_user" json:"photo_id"`
	UserID    uint         `gorm:"not null;uniqueIndex:idx_photo_user" json:"user_id"`
	Kind      ReactionKind `gorm:"not null" json:"kind"`
	CreatedAt time.Time    `json:"created_at"`

	User  User  `gorm:"foreignKey:UserID" json:"-"`
	Photo Photo `gorm:"foreignKey:PhotoID" json:"-"`
}
