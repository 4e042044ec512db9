package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// User represents a registered account. Username and email are immutable
// identity fields after registration.
type User struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	Username        string    `json:"username" gorm:"size:64;uniqueIndex"`
	Email           string    `json:"email" gorm:"size:120;uniqueIndex"`
	PasswordHash    string    `json:"-" gorm:"size:256"`
	Bio             string    `json:"bio,omitempty" gorm:"size:150"`
	ProfileImageURL string    `json:"profile_image_url,omitempty" gorm:"size:255"`
	CreatedAt       time.Time `json:"created_at"`

	Posts       []Post       `json:"-" gorm:"foreignKey:UserID"`
	Collections []Collection `json:"-" gorm:"foreignKey:UserID"`
}

// RegisterRequest defines the request body for user registration
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=2,max=64"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest defines the request body for logging in
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SessionClaims are custom claims embedded in the session cookie token
type SessionClaims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}
