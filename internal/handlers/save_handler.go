package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pinspire/backend/internal/apperrors"
	"github.com/pinspire/backend/internal/models"
	"github.com/pinspire/backend/internal/repositories"
)

// SaveHandler handles saving posts into collections and removing them
type SaveHandler struct {
	saveRepository repositories.SaveRepository
	postRepository repositories.PostRepository
}

// NewSaveHandler creates a new SaveHandler
func NewSaveHandler(saveRepo repositories.SaveRepository, postRepo repositories.PostRepository) *SaveHandler {
	return &SaveHandler{
		saveRepository: saveRepo,
		postRepository: postRepo,
	}
}

// RegisterSaveRoutes registers save/unsave routes on the authenticated group
func (h *SaveHandler) RegisterSaveRoutes(g *echo.Group) {
	g.POST("/save/:id", h.SavePost)
	g.POST("/unsave/:id", h.UnsavePost)
}

// bindSaveRequest reads the optional collection_id body; an empty body is
// valid and means "use the defaults". The body is decoded directly rather
// than gated on ContentLength, which is -1 for chunked requests.
func bindSaveRequest(c echo.Context) (*uint, error) {
	var req models.SaveRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	return req.CollectionID, nil
}

// SavePost saves a post into the given collection, or the user's default
// "Saved" collection when none is given. Saving the same post into the
// same collection twice is rejected.
func (h *SaveHandler) SavePost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	postID, err := parseID(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid post id")
	}

	// Verify post exists
	if _, err := h.postRepository.GetPostByID(postID); err != nil {
		return httpError(err)
	}

	collectionID, err := bindSaveRequest(c)
	if err != nil {
		return err
	}

	if _, err := h.saveRepository.SavePost(currentUserID, postID, collectionID); err != nil {
		// the save API reports a duplicate save as a plain bad request
		if errors.Is(err, apperrors.ErrConflict) {
			return echo.NewHTTPError(http.StatusBadRequest, "Post already saved to this collection")
		}
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// UnsavePost removes a post from the given collection, or from every
// collection the user owns when none is given.
func (h *SaveHandler) UnsavePost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	postID, err := parseID(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid post id")
	}

	collectionID, err := bindSaveRequest(c)
	if err != nil {
		return err
	}

	if _, err := h.saveRepository.UnsavePost(currentUserID, postID, collectionID); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
