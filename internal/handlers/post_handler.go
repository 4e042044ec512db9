package handlers

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/pinspire/backend/internal/logger"
	"github.com/pinspire/backend/internal/models"
	"github.com/pinspire/backend/internal/repositories"
	"github.com/pinspire/backend/internal/storage"
)

// maxUploadBytes caps a single upload read.
const maxUploadBytes = 50 << 20

// PostHandler handles post listing, detail, upload and deletion
type PostHandler struct {
	postRepository repositories.PostRepository
	userRepository repositories.UserRepository
	saveRepository repositories.SaveRepository
	backend        storage.Backend
	storageTimeout time.Duration
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(
	postRepo repositories.PostRepository,
	userRepo repositories.UserRepository,
	saveRepo repositories.SaveRepository,
	backend storage.Backend,
	storageTimeout time.Duration,
) *PostHandler {
	return &PostHandler{
		postRepository: postRepo,
		userRepository: userRepo,
		saveRepository: saveRepo,
		backend:        backend,
		storageTimeout: storageTimeout,
	}
}

// RegisterPostRoutes registers the read routes on the optional-session
// group and the mutating routes on the authenticated group.
func (h *PostHandler) RegisterPostRoutes(public, authed *echo.Group) {
	public.GET("/posts", h.ListPosts)
	public.GET("/post/:id", h.GetPost)
	authed.DELETE("/post/:id", h.DeletePost)
	public.GET("/uploads/status", h.UploadsStatus)
}

// RegisterUploadRoute registers the multipart upload endpoint
func (h *PostHandler) RegisterUploadRoute(authed *echo.Group) {
	authed.POST("/upload", h.Upload)
}

// UploadsStatus reports whether the storage backend accepts uploads, so
// clients can disable the upload UI instead of failing the request.
func (h *PostHandler) UploadsStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"enabled": h.backend.Configured()})
}

// ListPosts returns all posts, newest first
func (h *PostHandler) ListPosts(c echo.Context) error {
	posts, err := h.postRepository.GetAllPosts()
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, posts)
}

// GetPost returns the single-post projection including the save count
// and whether the current session has saved it.
func (h *PostHandler) GetPost(c echo.Context) error {
	postID, err := parseID(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid post id")
	}

	post, err := h.postRepository.GetPostByID(postID)
	if err != nil {
		return httpError(err)
	}

	author, err := h.userRepository.GetUserByID(post.UserID)
	if err != nil {
		return httpError(err)
	}

	saveCount, err := h.saveRepository.SaveCount(postID)
	if err != nil {
		return httpError(err)
	}

	saved := false
	if currentUserID := getUserIDFromContext(c); currentUserID != 0 {
		saved, err = h.saveRepository.IsSavedByUser(currentUserID, postID)
		if err != nil {
			return httpError(err)
		}
	}

	return c.JSON(http.StatusOK, models.PostDetail{
		ID:          post.ID,
		Title:       post.Title,
		Description: post.Description,
		FileURL:     post.FileURL,
		FileType:    post.FileType,
		CreatedAt:   post.CreatedAt.Format("2006-01-02 15:04:05"),
		Author: models.PostAuthor{
			ID:              author.ID,
			Username:        author.Username,
			ProfileImageURL: author.ProfileImageURL,
		},
		SaveCount: saveCount,
		Saved:     saved,
	})
}

// Upload accepts a multipart file with title and description and creates
// a post. The storage backend is checked up front so an unconfigured
// backend degrades into a clear 503 rather than a failed upload.
func (h *PostHandler) Upload(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	if !h.backend.Configured() {
		return httpError(storage.ErrUnconfigured)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "No file part")
	}
	if fileHeader.Filename == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "No selected file")
	}
	if !storage.IsAllowedFile(fileHeader.Filename) {
		return echo.NewHTTPError(http.StatusBadRequest, "File type not allowed")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Could not read file")
	}
	defer src.Close()

	// Read one byte past the cap so an oversize upload is rejected
	// instead of stored truncated.
	data, err := io.ReadAll(io.LimitReader(src, maxUploadBytes+1))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Could not read file")
	}
	if len(data) > maxUploadBytes {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "File too large")
	}

	logger.Log.Infow("uploading file",
		"filename", fileHeader.Filename, "size", len(data), "user_id", currentUserID)

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.storageTimeout)
	defer cancel()

	fileURL, fileType, err := h.backend.Store(ctx, data, fileHeader.Filename, storage.StoreOptions{
		UniqueID: uuid.NewString(),
	})
	if err != nil {
		logger.Log.Errorw("file upload failed", "error", err)
		return httpError(err)
	}

	post := &models.Post{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		FileURL:     fileURL,
		FileType:    string(fileType),
		UserID:      currentUserID,
	}

	if err := h.postRepository.CreatePost(post); err != nil {
		return httpError(err)
	}

	logger.Log.Infow("post created", "post_id", post.ID, "file_url", fileURL)
	return c.JSON(http.StatusCreated, post)
}

// DeletePost removes a post the session user owns, cascading its saves.
// The backing blob is removed best-effort afterwards; a failure there is
// logged but does not fail the request, the relational state is already
// consistent.
func (h *PostHandler) DeletePost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	postID, err := parseID(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid post id")
	}

	post, err := h.postRepository.GetPostByID(postID)
	if err != nil {
		return httpError(err)
	}
	if post.UserID != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to delete this post")
	}

	if err := h.postRepository.DeletePost(postID); err != nil {
		return httpError(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.storageTimeout)
	defer cancel()
	if err := h.backend.Remove(ctx, post.FileURL); err != nil {
		logger.Log.Warnw("could not remove backing file", "post_id", postID, "error", err)
	}

	return c.NoContent(http.StatusNoContent)
}

// parseID parses a positive decimal path parameter.
func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, strconv.ErrSyntax
	}
	return uint(id), nil
}
