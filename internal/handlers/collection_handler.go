package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pinspire/backend/internal/repositories"
)

// CollectionHandler handles collection read endpoints
type CollectionHandler struct {
	collectionRepository repositories.CollectionRepository
	postRepository       repositories.PostRepository
}

// NewCollectionHandler creates a new CollectionHandler
func NewCollectionHandler(collectionRepo repositories.CollectionRepository, postRepo repositories.PostRepository) *CollectionHandler {
	return &CollectionHandler{
		collectionRepository: collectionRepo,
		postRepository:       postRepo,
	}
}

// RegisterCollectionRoutes registers collection routes
func (h *CollectionHandler) RegisterCollectionRoutes(public, authed *echo.Group) {
	public.GET("/collection/:id", h.GetCollection)
	authed.GET("/collections", h.MyCollections)
}

// GetCollection returns a collection and the posts saved into it
func (h *CollectionHandler) GetCollection(c echo.Context) error {
	collectionID, err := parseID(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid collection id")
	}

	collection, err := h.collectionRepository.GetCollectionByID(collectionID)
	if err != nil {
		return httpError(err)
	}

	posts, err := h.postRepository.GetPostsByCollection(collectionID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"collection": collection,
		"posts":      posts,
	})
}

// MyCollections returns the session user's collections, for the
// save-to-collection picker
func (h *CollectionHandler) MyCollections(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	collections, err := h.collectionRepository.GetCollectionsByUser(currentUserID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, collections)
}
