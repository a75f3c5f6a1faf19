package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/anonto42/microblog/backend/internal/middleware"
	"github.com/anonto42/microblog/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// FeedComposer builds enriched post listings
type FeedComposer interface {
	Search(ctx context.Context, requesterID string, filter models.SearchFilter, page models.Pagination) (*models.SearchResult, error)
	GetPost(ctx context.Context, postID string) (*models.PostView, error)
}

// FeedHandler handles feed and search HTTP requests
type FeedHandler struct {
	feed FeedComposer
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(feed FeedComposer) *FeedHandler {
	return &FeedHandler{feed: feed}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group, auth echo.MiddlewareFunc) {
	g.GET("/posts/search", h.SearchPosts, middleware.Optional(auth))
	g.GET("/feed", h.GetFeed, auth)
}

// SearchPosts returns one page of posts matching the query parameters:
// q, tags, authors, subscribed_only, limit, offset. tags and authors may be
// repeated or comma separated.
func (h *FeedHandler) SearchPosts(c echo.Context) error {
	filter, page, err := bindSearch(c)
	if err != nil {
		return err
	}
	return h.search(c, filter, page)
}

// GetFeed is the requester's home feed: posts by followed authors only.
func (h *FeedHandler) GetFeed(c echo.Context) error {
	filter, page, err := bindSearch(c)
	if err != nil {
		return err
	}
	filter.SubscribedOnly = true
	return h.search(c, filter, page)
}

func (h *FeedHandler) search(c echo.Context, filter models.SearchFilter, page models.Pagination) error {
	result, err := h.feed.Search(c.Request().Context(), middleware.ActorID(c), filter, page)
	if err != nil {
		return toHTTPError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

func bindSearch(c echo.Context) (models.SearchFilter, models.Pagination, error) {
	var (
		filter models.SearchFilter
		page   models.Pagination
	)
	err := echo.QueryParamsBinder(c).
		String("q", &filter.Text).
		Strings("tags", &filter.Tags).
		Strings("authors", &filter.Authors).
		Bool("subscribed_only", &filter.SubscribedOnly).
		Int("limit", &page.Limit).
		Int("offset", &page.Offset).
		BindError()
	if err != nil {
		return filter, page, echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}
	filter.Tags = splitList(filter.Tags)
	filter.Authors = splitList(filter.Authors)
	if err := c.Validate(&filter); err != nil {
		return filter, page, err
	}
	return filter, page, nil
}

func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
