package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pinspire/backend/internal/models"
)

// CollectionRepository defines the interface for collection operations
type CollectionRepository interface {
	GetCollectionByID(id uint) (*models.Collection, error)
	GetCollectionsByUser(userID uint) ([]models.Collection, error)
	EnsureDefaultCollection(userID uint) (*models.Collection, error)
}

// PostgresCollectionRepository implements CollectionRepository
type PostgresCollectionRepository struct {
	db *gorm.DB
}

// NewPostgresCollectionRepository creates a new PostgresCollectionRepository
func NewPostgresCollectionRepository(db *gorm.DB) *PostgresCollectionRepository {
	return &PostgresCollectionRepository{db: db}
}

// GetCollectionByID retrieves a collection by ID
func (r *PostgresCollectionRepository) GetCollectionByID(id uint) (*models.Collection, error) {
	var collection models.Collection
	if err := r.db.First(&collection, id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &collection, nil
}

// GetCollectionsByUser retrieves all collections owned by a user
func (r *PostgresCollectionRepository) GetCollectionsByUser(userID uint) ([]models.Collection, error) {
	var collections []models.Collection
	if err := r.db.Where("user_id = ?", userID).Order("created_at").Find(&collections).Error; err != nil {
		return nil, err
	}
	return collections, nil
}

// EnsureDefaultCollection returns the user's "Saved" collection, creating
// it if absent. Safe to call repeatedly and concurrently.
func (r *PostgresCollectionRepository) EnsureDefaultCollection(userID uint) (*models.Collection, error) {
	var collection *models.Collection
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var err error
		collection, err = ensureDefaultCollection(tx, userID)
		return err
	})
	return collection, err
}

// ensureDefaultCollection is the single implementation behind both the
// registration-time and first-save-time bootstrap of the "Saved"
// collection. The check-then-create has a race window, so the insert runs
// as ON CONFLICT DO NOTHING against the (user_id, name) unique index: a
// plain unique violation would abort the surrounding transaction, whereas
// a skipped insert lets us simply re-fetch the winner's row.
func ensureDefaultCollection(tx *gorm.DB, userID uint) (*models.Collection, error) {
	var collection models.Collection
	err := tx.Where("user_id = ? AND name = ?", userID, models.DefaultCollectionName).
		First(&collection).Error
	if err == nil {
		return &collection, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	collection = models.Collection{
		Name:        models.DefaultCollectionName,
		Description: models.DefaultCollectionDescription,
		UserID:      userID,
	}
	res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&collection)
	if res.Error != nil {
		return nil, fmt.Errorf("ensure default collection for user %d: %w", userID, res.Error)
	}
	if res.RowsAffected == 0 {
		// lost the race; the other writer's row is the default collection
		collection = models.Collection{}
		if err := tx.Where("user_id = ? AND name = ?", userID, models.DefaultCollectionName).
			First(&collection).Error; err != nil {
			return nil, fmt.Errorf("ensure default collection for user %d: %w", userID, err)
		}
	}
	return &collection, nil
}
