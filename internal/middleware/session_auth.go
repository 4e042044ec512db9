package middleware

import (
	"net/http"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/pinspire/backend/internal/models"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "session"

// ContextUserKey is the echo context key the parsed claims are stored
// under.
const ContextUserKey = "user"

func parseSessionCookie(c echo.Context, secret string) (*models.SessionClaims, error) {
	cookie, err := c.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Not logged in")
	}

	claims := &models.SessionClaims{}
	token, err := jwt.ParseWithClaims(cookie.Value, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, echo.NewHTTPError(http.StatusUnauthorized, "Unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Invalid session")
	}

	return claims, nil
}

// SessionAuth rejects requests without a valid session cookie and puts
// the session claims into the request context.
func SessionAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := parseSessionCookie(c, secret)
			if err != nil {
				return err
			}
			c.Set(ContextUserKey, claims)
			return next(c)
		}
	}
}

// OptionalSessionAuth parses the session cookie when present but lets
// anonymous requests through. Read paths use it to personalize responses
// (e.g. the "saved" flag on a post) without requiring login.
func OptionalSessionAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if claims, err := parseSessionCookie(c, secret); err == nil {
				c.Set(ContextUserKey, claims)
			}
			return next(c)
		}
	}
}
