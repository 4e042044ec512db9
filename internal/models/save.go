package models

import "time"

// Save is a join record expressing "this post is a member of this collection".
// The composite unique index rejects a second save of the same post into the
// same collection at the database level.
type Save struct {
	ID           uint        `json:"id" gorm:"primaryKey"`
	PostID       uint        `json:"post_id" gorm:"index;not null;uniqueIndex:idx_post_collection_save"`
	CollectionID uint        `json:"collection_id" gorm:"index;not null;uniqueIndex:idx_post_collection_save"`
	SavedAt      time.Time   `json:"saved_at"`
	Post         *Post       `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Collection   *Collection `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// SaveRequest is the optional body for the save/unsave endpoints.
// A nil CollectionID targets the user's default collection on save, and
// every collection the user owns on unsave.
type SaveRequest struct {
	CollectionID *uint `json:"collection_id,omitempty"`
}
