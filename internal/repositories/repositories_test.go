package repositories_test

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/pinspire/backend/internal/apperrors"
	"github.com/pinspire/backend/internal/models"
	"github.com/pinspire/backend/internal/repositories"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// a single connection keeps every session on the same in-memory database
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Collection{},
		&models.Save{},
	))
	return db
}

func registerUser(t *testing.T, db *gorm.DB, username, email string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Email: email, PasswordHash: "x"}
	require.NoError(t, repositories.NewPostgresUserRepository(db).Register(user))
	return user
}

func createPost(t *testing.T, db *gorm.DB, userID uint) *models.Post {
	t.Helper()
	post := &models.Post{Title: "cat", FileURL: "/static/uploads/images/cat.jpg", FileType: "image", UserID: userID}
	require.NoError(t, repositories.NewPostgresPostRepository(db).CreatePost(post))
	return post
}

func TestMigrationCreatesForeignKeys(t *testing.T) {
	db := newTestDB(t)
	m := db.Migrator()

	assert.True(t, m.HasConstraint(&models.Post{}, "User"))
	assert.True(t, m.HasConstraint(&models.Collection{}, "User"))
	assert.True(t, m.HasConstraint(&models.Save{}, "Post"))
	assert.True(t, m.HasConstraint(&models.Save{}, "Collection"))
}

func TestRegisterCreatesDefaultCollection(t *testing.T) {
	db := newTestDB(t)
	user := registerUser(t, db, "alice", "alice@x.com")

	var collections []models.Collection
	require.NoError(t, db.Where("user_id = ?", user.ID).Find(&collections).Error)
	require.Len(t, collections, 1)
	assert.Equal(t, models.DefaultCollectionName, collections[0].Name)
	assert.Equal(t, models.DefaultCollectionDescription, collections[0].Description)
}

func TestRegisterDuplicateEmailWritesNothing(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewPostgresUserRepository(db)
	registerUser(t, db, "alice", "alice@x.com")

	err := repo.Register(&models.User{Username: "alice2", Email: "alice@x.com", PasswordHash: "x"})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	var userCount int64
	require.NoError(t, db.Model(&models.User{}).Count(&userCount).Error)
	assert.EqualValues(t, 1, userCount)

	var collectionCount int64
	require.NoError(t, db.Model(&models.Collection{}).Count(&collectionCount).Error)
	assert.EqualValues(t, 1, collectionCount)
}

func TestRegisterDuplicateUsernameFails(t *testing.T) {
	db := newTestDB(t)
	registerUser(t, db, "alice", "alice@x.com")

	err := repositories.NewPostgresUserRepository(db).
		Register(&models.User{Username: "alice", Email: "other@x.com", PasswordHash: "x"})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestEnsureDefaultCollectionIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	user := registerUser(t, db, "alice", "alice@x.com")
	repo := repositories.NewPostgresCollectionRepository(db)

	first, err := repo.EnsureDefaultCollection(user.ID)
	require.NoError(t, err)
	second, err := repo.EnsureDefaultCollection(user.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&models.Collection{}).
		Where("user_id = ? AND name = ?", user.ID, models.DefaultCollectionName).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestEnsureDefaultCollectionBootstrapsWhenMissing(t *testing.T) {
	db := newTestDB(t)
	user := registerUser(t, db, "alice", "alice@x.com")
	// simulate a user predating the registration-time bootstrap
	require.NoError(t, db.Where("user_id = ?", user.ID).Delete(&models.Collection{}).Error)

	collection, err := repositories.NewPostgresCollectionRepository(db).EnsureDefaultCollection(user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultCollectionName, collection.Name)
	assert.Equal(t, user.ID, collection.UserID)
}

func TestSavePostToDefaultCollection(t *testing.T) {
	db := newTestDB(t)
	user := registerUser(t, db, "alice", "alice@x.com")
	post := createPost(t, db, user.ID)
	repo := repositories.NewPostgresSaveRepository(db)

	save, err := repo.SavePost(user.ID, post.ID, nil)
	require.NoError(t, err)

	var collection models.Collection
	require.NoError(t, db.First(&collection, save.CollectionID).Error)
	assert.Equal(t, models.DefaultCollectionName, collection.Name)
	assert.Equal(t, user.ID, collection.UserID)
	assert.False(t, save.SavedAt.IsZero())
}

func TestSavePostTwiceConflicts(t *testing.T) {
	db := newTestDB(t)
	user := registerUser(t, db, "alice", "alice@x.com")
	post := createPost(t, db, user.ID)
	repo := repositories.NewPostgresSaveRepository(db)

	_, err := repo.SavePost(user.ID, post.ID, nil)
	require.NoError(t, err)
	_, err = repo.SavePost(user.ID, post.ID, nil)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	count, err := repo.SaveCount(post.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestSavePostToMissingCollection(t *testing.T) {
	db := newTestDB(t)
	user := registerUser(t, db, "alice", "alice@x.com")
	post := createPost(t, db, user.ID)

	missing := uint(9999)
	_, err := repositories.NewPostgresSaveRepository(db).SavePost(user.ID, post.ID, &missing)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSavePostToForeignCollection(t *testing.T) {
	db := newTestDB(t)
	alice := registerUser(t, db, "alice", "alice@x.com")
	bob := registerUser(t, db, "bob", "bob@x.com")
	post := createPost(t, db, alice.ID)

	bobDefault, err := repositories.NewPostgresCollectionRepository(db).EnsureDefaultCollection(bob.ID)
	require.NoError(t, err)

	_, err = repositories.NewPostgresSaveRepository(db).SavePost(alice.ID, post.ID, &bobDefault.ID)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestUnsavePostRemovesFromAllCollections(t *testing.T) {
	db := newTestDB(t)
	user := registerUser(t, db, "alice", "alice@x.com")
	post := createPost(t, db, user.ID)
	repo := repositories.NewPostgresSaveRepository(db)

	second := &models.Collection{Name: "Cats", UserID: user.ID}
	require.NoError(t, db.Create(second).Error)

	_, err := repo.SavePost(user.ID, post.ID, nil)
	require.NoError(t, err)
	_, err = repo.SavePost(user.ID, post.ID, &second.ID)
	require.NoError(t, err)

	removed, err := repo.UnsavePost(user.ID, post.ID, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 2, removed)

	count, err := repo.SaveCount(post.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

func TestUnsavePostLeavesOtherUsersSaves(t *testing.T) {
	db := newTestDB(t)
	alice := registerUser(t, db, "alice", "alice@x.com")
	bob := registerUser(t, db, "bob", "bob@x.com")
	post := createPost(t, db, alice.ID)
	repo := repositories.NewPostgresSaveRepository(db)

	_, err := repo.SavePost(alice.ID, post.ID, nil)
	require.NoError(t, err)
	_, err = repo.SavePost(bob.ID, post.ID, nil)
	require.NoError(t, err)

	removed, err := repo.UnsavePost(alice.ID, post.ID, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	saved, err := repo.IsSavedByUser(bob.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, saved)
}

func TestUnsavePostFromSpecificCollection(t *testing.T) {
	db := newTestDB(t)
	user := registerUser(t, db, "alice", "alice@x.com")
	post := createPost(t, db, user.ID)
	repo := repositories.NewPostgresSaveRepository(db)

	second := &models.Collection{Name: "Cats", UserID: user.ID}
	require.NoError(t, db.Create(second).Error)

	_, err := repo.SavePost(user.ID, post.ID, nil)
	require.NoError(t, err)
	_, err = repo.SavePost(user.ID, post.ID, &second.ID)
	require.NoError(t, err)

	removed, err := repo.UnsavePost(user.ID, post.ID, &second.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	saved, err := repo.IsSavedByUser(user.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, saved)
}

func TestUnsavePostNothingSaved(t *testing.T) {
	db := newTestDB(t)
	user := registerUser(t, db, "alice", "alice@x.com")
	post := createPost(t, db, user.ID)

	_, err := repositories.NewPostgresSaveRepository(db).UnsavePost(user.ID, post.ID, nil)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUnsavePostForeignCollection(t *testing.T) {
	db := newTestDB(t)
	alice := registerUser(t, db, "alice", "alice@x.com")
	bob := registerUser(t, db, "bob", "bob@x.com")
	post := createPost(t, db, alice.ID)

	bobDefault, err := repositories.NewPostgresCollectionRepository(db).EnsureDefaultCollection(bob.ID)
	require.NoError(t, err)

	_, err = repositories.NewPostgresSaveRepository(db).UnsavePost(alice.ID, post.ID, &bobDefault.ID)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestIsSavedByUserChecksAllCollections(t *testing.T) {
	db := newTestDB(t)
	user := registerUser(t, db, "alice", "alice@x.com")
	post := createPost(t, db, user.ID)
	repo := repositories.NewPostgresSaveRepository(db)

	saved, err := repo.IsSavedByUser(user.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, saved)

	// saved only into a non-default collection still counts
	second := &models.Collection{Name: "Cats", UserID: user.ID}
	require.NoError(t, db.Create(second).Error)
	_, err = repo.SavePost(user.ID, post.ID, &second.ID)
	require.NoError(t, err)

	saved, err = repo.IsSavedByUser(user.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, saved)
}

func TestSaveCountCountsAcrossUsers(t *testing.T) {
	db := newTestDB(t)
	alice := registerUser(t, db, "alice", "alice@x.com")
	bob := registerUser(t, db, "bob", "bob@x.com")
	post := createPost(t, db, alice.ID)
	repo := repositories.NewPostgresSaveRepository(db)

	_, err := repo.SavePost(alice.ID, post.ID, nil)
	require.NoError(t, err)
	_, err = repo.SavePost(bob.ID, post.ID, nil)
	require.NoError(t, err)

	count, err := repo.SaveCount(post.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestDeletePostCascadesSaves(t *testing.T) {
	db := newTestDB(t)
	user := registerUser(t, db, "alice", "alice@x.com")
	post := createPost(t, db, user.ID)
	saveRepo := repositories.NewPostgresSaveRepository(db)
	postRepo := repositories.NewPostgresPostRepository(db)

	_, err := saveRepo.SavePost(user.ID, post.ID, nil)
	require.NoError(t, err)

	require.NoError(t, postRepo.DeletePost(post.ID))

	_, err = postRepo.GetPostByID(post.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	count, err := saveRepo.SaveCount(post.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

func TestSearchPostsIsCaseInsensitive(t *testing.T) {
	db := newTestDB(t)
	user := registerUser(t, db, "alice", "alice@x.com")
	repo := repositories.NewPostgresPostRepository(db)

	require.NoError(t, repo.CreatePost(&models.Post{
		Title: "Fluffy Cat", FileURL: "/u/1.jpg", FileType: "image", UserID: user.ID,
	}))
	require.NoError(t, repo.CreatePost(&models.Post{
		Title: "Dog", Description: "chasing cats", FileURL: "/u/2.jpg", FileType: "image", UserID: user.ID,
	}))

	posts, err := repo.SearchPosts("CAT")
	require.NoError(t, err)
	assert.Len(t, posts, 2)
}
