package models

import "time"

// Post represents an uploaded image or video pin
type Post struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Title        string    `json:"title" gorm:"size:100"`
	Description  string    `json:"description" gorm:"size:500"`
	FileURL      string    `json:"file_url" gorm:"size:500;not null"`
	FileType     string    `json:"file_type" gorm:"size:10;not null"` // "image" or "video"
	ThumbnailURL string    `json:"thumbnail_url,omitempty" gorm:"size:500"`
	CreatedAt    time.Time `json:"created_at" gorm:"index"`
	UserID       uint      `json:"user_id" gorm:"index;not null"`
	User         *User     `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// PostAuthor is the author projection embedded in PostDetail
type PostAuthor struct {
	ID              uint   `json:"id"`
	Username        string `json:"username"`
	ProfileImageURL string `json:"profile_image_url,omitempty"`
}

// PostDetail is the single-post JSON projection including save state
// for the current session.
type PostDetail struct {
	ID          uint       `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	FileURL     string     `json:"file_url"`
	FileType    string     `json:"file_type"`
	CreatedAt   string     `json:"created_at"`
	Author      PostAuthor `json:"author"`
	SaveCount   int64      `json:"save_count"`
	Saved       bool       `json:"saved"`
}
