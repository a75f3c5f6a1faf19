package handlers

import (
	"context"
	"net/http"

	"github.com/anonto42/microblog/backend/internal/middleware"
	"github.com/labstack/echo/v4"
)

// FollowManager maintains the follow graph
type FollowManager interface {
	Follow(ctx context.Context, actorID, targetID string) error
	Unfollow(ctx context.Context, actorID, targetID string) error
	IsFollowing(ctx context.Context, actorID, targetID string) (bool, error)
	Following(ctx context.Context, userID string) ([]string, error)
}

// userPath is the :id path parameter of the user routes
type userPath struct {
	ID string `param:"id" validate:"uuid_id"`
}

// FollowHandler handles follow/unfollow HTTP requests
type FollowHandler struct {
	follows FollowManager
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(follows FollowManager) *FollowHandler {
	return &FollowHandler{follows: follows}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group, auth echo.MiddlewareFunc) {
	g.POST("/users/:id/follow", h.FollowUser, auth)
	g.DELETE("/users/:id/follow", h.UnfollowUser, auth)
	g.GET("/users/:id/follow", h.GetFollowStatus, auth)
	g.GET("/users/:id/following", h.GetFollowing, middleware.Optional(auth))
}

// FollowUser follows a user
func (h *FollowHandler) FollowUser(c echo.Context) error {
	targetID, err := bindUserID(c)
	if err != nil {
		return err
	}
	if err := h.follows.Follow(c.Request().Context(), middleware.ActorID(c), targetID); err != nil {
		return toHTTPError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{"user_id": targetID, "following": true})
}

// UnfollowUser unfollows a user
func (h *FollowHandler) UnfollowUser(c echo.Context) error {
	targetID, err := bindUserID(c)
	if err != nil {
		return err
	}
	if err := h.follows.Unfollow(c.Request().Context(), middleware.ActorID(c), targetID); err != nil {
		return toHTTPError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetFollowStatus reports whether the caller follows the user
func (h *FollowHandler) GetFollowStatus(c echo.Context) error {
	targetID, err := bindUserID(c)
	if err != nil {
		return err
	}
	following, err := h.follows.IsFollowing(c.Request().Context(), middleware.ActorID(c), targetID)
	if err != nil {
		return toHTTPError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"user_id": targetID, "following": following})
}

// GetFollowing lists the ids a user follows
func (h *FollowHandler) GetFollowing(c echo.Context) error {
	userID, err := bindUserID(c)
	if err != nil {
		return err
	}
	ids, err := h.follows.Following(c.Request().Context(), userID)
	if err != nil {
		return toHTTPError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"user_id":   userID,
		"following": ids,
	})
}

func bindUserID(c echo.Context) (string, error) {
	var p userPath
	if err := (&echo.DefaultBinder{}).BindPathParams(c, &p); err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}
	if err := c.Validate(&p); err != nil {
		return "", err
	}
	return p.ID, nil
}
