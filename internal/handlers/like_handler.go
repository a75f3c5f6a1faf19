package handlers

import (
	"context"
	"net/http"

	"github.com/anonto42/microblog/backend/internal/middleware"
	"github.com/anonto42/microblog/backend/internal/models"
	"github.com/anonto42/microblog/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// LikeToggler flips likes on posts and comments
type LikeToggler interface {
	ToggleLike(ctx context.Context, target services.LikeTarget, entityID, actorID string) (*models.LikeResult, error)
}

// LikeHandler handles HTTP requests related to likes
type LikeHandler struct {
	likes LikeToggler
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(likes LikeToggler) *LikeHandler {
	return &LikeHandler{likes: likes}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group, auth echo.MiddlewareFunc) {
	g.POST("/posts/:id/like", h.togglePost, auth)
	g.POST("/comments/:id/like", h.toggleComment, auth)
}

func (h *LikeHandler) togglePost(c echo.Context) error {
	return h.toggle(c, services.LikeTargetPost)
}

func (h *LikeHandler) toggleComment(c echo.Context) error {
	return h.toggle(c, services.LikeTargetComment)
}

// toggle likes the entity if the caller has not, and unlikes it otherwise.
func (h *LikeHandler) toggle(c echo.Context, target services.LikeTarget) error {
	result, err := h.likes.ToggleLike(c.Request().Context(), target, c.Param("id"), middleware.ActorID(c))
	if err != nil {
		return toHTTPError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}
