package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pinspire/backend/internal/repositories"
)

// UserHandler handles profile and search endpoints
type UserHandler struct {
	userRepository       repositories.UserRepository
	postRepository       repositories.PostRepository
	collectionRepository repositories.CollectionRepository
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository, postRepo repositories.PostRepository, collectionRepo repositories.CollectionRepository) *UserHandler {
	return &UserHandler{
		userRepository:       userRepo,
		postRepository:       postRepo,
		collectionRepository: collectionRepo,
	}
}

// RegisterUserRoutes registers profile and search routes
func (h *UserHandler) RegisterUserRoutes(public *echo.Group) {
	public.GET("/profile/:username", h.Profile)
	public.GET("/search", h.Search)
}

// Profile returns a user with their posts and collections
func (h *UserHandler) Profile(c echo.Context) error {
	username := c.Param("username")

	user, err := h.userRepository.GetUserByUsername(username)
	if err != nil {
		return httpError(err)
	}

	posts, err := h.postRepository.GetPostsByUser(user.ID)
	if err != nil {
		return httpError(err)
	}

	collections, err := h.collectionRepository.GetCollectionsByUser(user.ID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"user":        user,
		"posts":       posts,
		"collections": collections,
	})
}

// Search looks up posts by title/description and users by username
func (h *UserHandler) Search(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing search query")
	}

	posts, err := h.postRepository.SearchPosts(query)
	if err != nil {
		return httpError(err)
	}

	users, err := h.userRepository.SearchUsers(query)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"query": query,
		"posts": posts,
		"users": users,
	})
}
