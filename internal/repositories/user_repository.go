package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/pinspire/backend/internal/apperrors"
	"github.com/pinspire/backend/internal/models"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Register(user *models.User) error
	GetUserByID(id uint) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	SearchUsers(query string) ([]models.User, error)
}

// PostgresUserRepository implements UserRepository
type PostgresUserRepository struct {
	db *gorm.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository
func NewPostgresUserRepository(db *gorm.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// Register creates the user together with their default collection in one
// transaction, so a user row never exists without its "Saved" collection.
// A duplicate username or email aborts the whole transaction with
// ErrConflict and writes nothing.
func (r *PostgresUserRepository) Register(user *models.User) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		_, err := ensureDefaultCollection(tx, user.ID)
		return err
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("username or email already registered: %w", apperrors.ErrConflict)
	}
	return err
}

// GetUserByID retrieves a user by ID
func (r *PostgresUserRepository) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email
func (r *PostgresUserRepository) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &user, nil
}

// GetUserByUsername retrieves a user by username
func (r *PostgresUserRepository) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &user, nil
}

// SearchUsers searches for users by username (case-insensitive)
func (r *PostgresUserRepository) SearchUsers(query string) ([]models.User, error) {
	var users []models.User
	if err := r.db.Where("LOWER(username) LIKE LOWER(?)", "%"+query+"%").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// translateNotFound maps gorm's record-not-found onto the shared sentinel.
func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrNotFound
	}
	return err
}
