package middleware

import (
	"context"
	"net/http"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// TokenVerifier is the part of the Firebase auth client the middleware uses.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// appUserClaim is the custom claim carrying the user's id in the users table.
const appUserClaim = "app_user_id"

// FirebaseAuthMiddleware verifies Firebase ID tokens. The actor is the
// app_user_id custom claim when set, otherwise the Firebase UID.
func FirebaseAuthMiddleware(verifier TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			idToken, err := bearerToken(c)
			if err != nil {
				return err
			}

			token, err := verifier.VerifyIDToken(c.Request().Context(), idToken)
			if err != nil {
				logrus.WithError(err).Debug("firebase token rejected")
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired ID token")
			}

			actorID := token.UID
			if id, ok := token.Claims[appUserClaim].(string); ok && id != "" {
				actorID = id
			}
			c.Set(ActorIDKey, actorID)
			return next(c)
		}
	}
}
