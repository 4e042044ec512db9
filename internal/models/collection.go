package models

import "time"

// DefaultCollectionName is the distinguished collection every user owns
// for untargeted saves.
const DefaultCollectionName = "Saved"

// DefaultCollectionDescription is the description given to the default
// collection when it is bootstrapped.
const DefaultCollectionDescription = "Your saved pins"

// Collection is a named grouping of posts owned by one user.
// The (user_id, name) unique index guarantees a user can never end up
// with two collections of the same name, which is what makes the lazy
// default-collection bootstrap race-safe.
type Collection struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"size:100;not null;uniqueIndex:idx_user_collection_name"`
	Description string    `json:"description" gorm:"size:200"`
	CreatedAt   time.Time `json:"created_at"`
	UserID      uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_user_collection_name"`
	User        *User     `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}
