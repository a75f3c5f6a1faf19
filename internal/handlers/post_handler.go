package handlers

import (
	"context"
	"net/http"

	"github.com/anonto42/microblog/backend/internal/middleware"
	"github.com/anonto42/microblog/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// PostManager is the write side of the post lifecycle
type PostManager interface {
	CreatePost(ctx context.Context, actorID string, req models.CreatePostRequest) (*models.Post, error)
	EditPost(ctx context.Context, actorID, postID string, req models.UpdatePostRequest) (*models.Post, error)
	DeletePost(ctx context.Context, actorID, postID string) error
}

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	posts PostManager
	feed  FeedComposer
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(posts PostManager, feed FeedComposer) *PostHandler {
	return &PostHandler{posts: posts, feed: feed}
}

// RegisterPostRoutes registers post-related routes. auth guards writes.
func (h *PostHandler) RegisterPostRoutes(g *echo.Group, auth echo.MiddlewareFunc) {
	g.POST("/posts", h.CreatePost, auth)
	g.GET("/posts/:id", h.GetPost, middleware.Optional(auth))
	g.PUT("/posts/:id", h.UpdatePost, auth)
	g.DELETE("/posts/:id", h.DeletePost, auth)
}

// CreatePost creates a new post
func (h *PostHandler) CreatePost(c echo.Context) error {
	var req models.CreatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	post, err := h.posts.CreatePost(c.Request().Context(), middleware.ActorID(c), req)
	if err != nil {
		return toHTTPError(c, err)
	}
	return c.JSON(http.StatusCreated, post)
}

// GetPost retrieves a post with its author and counts
func (h *PostHandler) GetPost(c echo.Context) error {
	view, err := h.feed.GetPost(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

// UpdatePost updates an existing post
func (h *PostHandler) UpdatePost(c echo.Context) error {
	var req models.UpdatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	post, err := h.posts.EditPost(c.Request().Context(), middleware.ActorID(c), c.Param("id"), req)
	if err != nil {
		return toHTTPError(c, err)
	}
	return c.JSON(http.StatusOK, post)
}

// DeletePost deletes a post
func (h *PostHandler) DeletePost(c echo.Context) error {
	if err := h.posts.DeletePost(c.Request().Context(), middleware.ActorID(c), c.Param("id")); err != nil {
		return toHTTPError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
