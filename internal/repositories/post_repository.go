package repositories

import (
	"gorm.io/gorm"

	"github.com/pinspire/backend/internal/models"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(post *models.Post) error
	GetPostByID(id uint) (*models.Post, error)
	GetAllPosts() ([]models.Post, error)
	GetPostsByUser(userID uint) ([]models.Post, error)
	GetPostsByCollection(collectionID uint) ([]models.Post, error)
	SearchPosts(query string) ([]models.Post, error)
	DeletePost(id uint) error
}

// PostgresPostRepository implements PostRepository
type PostgresPostRepository struct {
	db *gorm.DB
}

// NewPostgresPostRepository creates a new PostgresPostRepository
func NewPostgresPostRepository(db *gorm.DB) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

// CreatePost creates a new post
func (r *PostgresPostRepository) CreatePost(post *models.Post) error {
	return r.db.Create(post).Error
}

// GetPostByID retrieves a post by ID
func (r *PostgresPostRepository) GetPostByID(id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.First(&post, id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &post, nil
}

// GetAllPosts retrieves all posts, newest first
func (r *PostgresPostRepository) GetAllPosts() ([]models.Post, error) {
	var posts []models.Post
	if err := r.db.Order("created_at DESC").Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// GetPostsByUser retrieves a user's posts, newest first
func (r *PostgresPostRepository) GetPostsByUser(userID uint) ([]models.Post, error) {
	var posts []models.Post
	if err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// GetPostsByCollection retrieves the posts saved into a collection,
// newest first
func (r *PostgresPostRepository) GetPostsByCollection(collectionID uint) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.
		Joins("JOIN saves ON saves.post_id = posts.id").
		Where("saves.collection_id = ?", collectionID).
		Order("posts.created_at DESC").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// SearchPosts searches posts by title or description (case-insensitive)
func (r *PostgresPostRepository) SearchPosts(query string) ([]models.Post, error) {
	var posts []models.Post
	pattern := "%" + query + "%"
	err := r.db.
		Where("LOWER(title) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?)", pattern, pattern).
		Order("created_at DESC").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// DeletePost removes a post together with every Save referencing it, in
// one transaction.
func (r *PostgresPostRepository) DeletePost(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Save{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, id).Error
	})
}
