package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// ActorIDKey is the echo context key holding the authenticated user id.
const ActorIDKey = "actorID"

// ActorID returns the authenticated user id, or "" for anonymous requests.
func ActorID(c echo.Context) string {
	id, _ := c.Get(ActorIDKey).(string)
	return id
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "Missing Authorization header")
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "Authorization header must be in Bearer format")
	}
	return parts[1], nil
}

// Optional runs auth only when an Authorization header is present, so
// anonymous callers can still reach public reads.
func Optional(auth echo.MiddlewareFunc) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		authed := auth(next)
		return func(c echo.Context) error {
			if c.Request().Header.Get("Authorization") == "" {
				return next(c)
			}
			return authed(c)
		}
	}
}
