package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pinspire/backend/internal/apperrors"
	"github.com/pinspire/backend/internal/middleware"
	"github.com/pinspire/backend/internal/models"
	"github.com/pinspire/backend/internal/storage"
)

// getUserIDFromContext returns the session user's ID, or 0 when the
// request carries no valid session.
func getUserIDFromContext(c echo.Context) uint {
	claims, ok := c.Get(middleware.ContextUserKey).(*models.SessionClaims)
	if !ok || claims == nil {
		return 0
	}
	return claims.UserID
}

// httpError translates a repository or storage error into an HTTP error
// with the matching status. Unknown errors become opaque 500s so raw
// provider/database detail never reaches the client.
func httpError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, apperrors.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, apperrors.ErrUnauthorized):
		return echo.NewHTTPError(http.StatusForbidden, "Unauthorized")
	case errors.Is(err, apperrors.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, storage.ErrUnconfigured):
		return echo.NewHTTPError(http.StatusServiceUnavailable, "File uploads are temporarily disabled. Please check back later.")
	case errors.Is(err, storage.ErrTransport):
		return echo.NewHTTPError(http.StatusBadGateway, "Storage service is currently unavailable.")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}
}
