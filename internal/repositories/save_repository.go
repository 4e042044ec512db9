package repositories

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/pinspire/backend/internal/apperrors"
	"github.com/pinspire/backend/internal/models"
)

// SaveRepository is the relationship model between posts and collections.
// Each save is an independent join-record lifecycle; the operations here
// keep the default-collection bootstrap and the duplicate-save constraint
// consistent under concurrent requests.
type SaveRepository interface {
	// SavePost saves a post into one collection: the given one (which
	// must belong to the user) or the user's default collection when
	// collectionID is nil. A duplicate save fails with ErrConflict.
	SavePost(userID, postID uint, collectionID *uint) (*models.Save, error)

	// UnsavePost removes saves of a post. With collectionID nil it
	// removes the post from every collection the user owns; with a
	// collection given it removes only that pair. Returns the number of
	// removed saves; zero matches fail with ErrNotFound.
	UnsavePost(userID, postID uint, collectionID *uint) (int64, error)

	// IsSavedByUser reports whether any of the user's collections
	// contains the post.
	IsSavedByUser(userID, postID uint) (bool, error)

	// SaveCount returns the total number of saves referencing the post
	// across all users.
	SaveCount(postID uint) (int64, error)
}

// PostgresSaveRepository implements SaveRepository
type PostgresSaveRepository struct {
	db *gorm.DB
}

// NewPostgresSaveRepository creates a new PostgresSaveRepository
func NewPostgresSaveRepository(db *gorm.DB) *PostgresSaveRepository {
	return &PostgresSaveRepository{db: db}
}

// SavePost saves a post into a collection as one atomic transaction:
// either the (possibly bootstrapped) collection and the save both exist
// afterwards, or neither does.
func (r *PostgresSaveRepository) SavePost(userID, postID uint, collectionID *uint) (*models.Save, error) {
	var save *models.Save
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var target *models.Collection
		if collectionID == nil {
			var err error
			target, err = ensureDefaultCollection(tx, userID)
			if err != nil {
				return err
			}
		} else {
			var collection models.Collection
			if err := tx.First(&collection, *collectionID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("collection %d: %w", *collectionID, apperrors.ErrNotFound)
				}
				return err
			}
			if collection.UserID != userID {
				return fmt.Errorf("collection %d belongs to another user: %w", *collectionID, apperrors.ErrUnauthorized)
			}
			target = &collection
		}

		var count int64
		if err := tx.Model(&models.Save{}).
			Where("post_id = ? AND collection_id = ?", postID, target.ID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("post already saved to this collection: %w", apperrors.ErrConflict)
		}

		save = &models.Save{
			PostID:       postID,
			CollectionID: target.ID,
			SavedAt:      time.Now(),
		}
		if err := tx.Create(save).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("post already saved to this collection: %w", apperrors.ErrConflict)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return save, nil
}

// UnsavePost removes saves of a post. Note the deliberate asymmetry with
// SavePost: an untargeted unsave clears the post out of every collection
// the user owns, not just the default one.
func (r *PostgresSaveRepository) UnsavePost(userID, postID uint, collectionID *uint) (int64, error) {
	var removed int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var res *gorm.DB
		if collectionID == nil {
			owned := tx.Model(&models.Collection{}).Select("id").Where("user_id = ?", userID)
			res = tx.Where("post_id = ? AND collection_id IN (?)", postID, owned).
				Delete(&models.Save{})
		} else {
			var collection models.Collection
			if err := tx.First(&collection, *collectionID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("collection %d: %w", *collectionID, apperrors.ErrNotFound)
				}
				return err
			}
			if collection.UserID != userID {
				return fmt.Errorf("collection %d belongs to another user: %w", *collectionID, apperrors.ErrUnauthorized)
			}
			res = tx.Where("post_id = ? AND collection_id = ?", postID, *collectionID).
				Delete(&models.Save{})
		}
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("post not saved to specified collection: %w", apperrors.ErrNotFound)
		}
		removed = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// IsSavedByUser checks for a save of the post in any collection owned by
// the user.
func (r *PostgresSaveRepository) IsSavedByUser(userID, postID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Save{}).
		Joins("JOIN collections ON collections.id = saves.collection_id").
		Where("saves.post_id = ? AND collections.user_id = ?", postID, userID).
		Count(&count).Error
	return count > 0, err
}

// SaveCount counts all saves referencing the post, regardless of owner.
func (r *PostgresSaveRepository) SaveCount(postID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Save{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}
