package handlers

import (
	"context"
	"net/http"

	"github.com/anonto42/microblog/backend/internal/middleware"
	"github.com/anonto42/microblog/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// CommentManager covers comments, replies and thread reads
type CommentManager interface {
	CreateComment(ctx context.Context, actorID, postID string, req models.CreateCommentRequest) (*models.Comment, error)
	EditComment(ctx context.Context, actorID, commentID string, req models.UpdateCommentRequest) (*models.Comment, error)
	DeleteComment(ctx context.Context, actorID, commentID string) error
	GetThread(ctx context.Context, postID string) ([]*models.CommentNode, error)
}

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	comments CommentManager
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(comments CommentManager) *CommentHandler {
	return &CommentHandler{comments: comments}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group, auth echo.MiddlewareFunc) {
	g.POST("/posts/:id/comments", h.CreateComment, auth)
	g.GET("/posts/:id/comments", h.GetThread, middleware.Optional(auth))
	g.PUT("/comments/:id", h.UpdateComment, auth)
	g.DELETE("/comments/:id", h.DeleteComment, auth)
}

// CreateComment creates a new comment or reply on a post
func (h *CommentHandler) CreateComment(c echo.Context) error {
	var req models.CreateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	comment, err := h.comments.CreateComment(c.Request().Context(), middleware.ActorID(c), c.Param("id"), req)
	if err != nil {
		return toHTTPError(c, err)
	}
	return c.JSON(http.StatusCreated, comment)
}

// GetThread returns the nested comment tree of a post
func (h *CommentHandler) GetThread(c echo.Context) error {
	postID := c.Param("id")
	roots, err := h.comments.GetThread(c.Request().Context(), postID)
	if err != nil {
		return toHTTPError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"post_id":  postID,
		"comments": roots,
	})
}

// UpdateComment edits the caller's own comment
func (h *CommentHandler) UpdateComment(c echo.Context) error {
	var req models.UpdateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	comment, err := h.comments.EditComment(c.Request().Context(), middleware.ActorID(c), c.Param("id"), req)
	if err != nil {
		return toHTTPError(c, err)
	}
	return c.JSON(http.StatusOK, comment)
}

// DeleteComment deletes the caller's own comment
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	if err := h.comments.DeleteComment(c.Request().Context(), middleware.ActorID(c), c.Param("id")); err != nil {
		return toHTTPError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
