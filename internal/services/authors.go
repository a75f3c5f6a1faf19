package services

import (
	"context"

	"github.com/anonto42/microblog/backend/internal/models"
	"github.com/anonto42/microblog/backend/internal/repositories"
	"github.com/anonto42/microblog/backend/pkg/metrics"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// AuthorResolution is either a found author or the deleted-user placeholder.
type AuthorResolution struct {
	View  models.AuthorView
	Found bool
}

// AuthorResolver joins author ids against the user store.
type AuthorResolver struct {
	users repositories.UserRepository
	cache repositories.AuthorCache
	log   *logrus.Entry
}

// NewAuthorResolver creates an AuthorResolver. cache may be nil.
func NewAuthorResolver(users repositories.UserRepository, cache repositories.AuthorCache) *AuthorResolver {
	return &AuthorResolver{
		users: users,
		cache: cache,
		log:   logrus.WithField("component", "authors"),
	}
}

// ResolveAuthor never fails: any miss or lookup error yields the placeholder.
func (r *AuthorResolver) ResolveAuthor(ctx context.Context, authorID string) AuthorResolution {
	if r.cache != nil {
		view, ok, err := r.cache.GetAuthor(ctx, authorID)
		if err != nil {
			r.log.WithError(err).WithField("author_id", authorID).Debug("author cache read failed")
		} else if ok {
			return AuthorResolution{View: *view, Found: true}
		}
	}

	if !r.users.ValidID(authorID) {
		return placeholder(authorID, "malformed_id")
	}

	user, err := r.users.GetUserByID(ctx, authorID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) || errors.Is(err, repositories.ErrInvalidID) {
			return placeholder(authorID, "missing")
		}
		r.log.WithError(err).WithField("author_id", authorID).Warn("author lookup failed, using placeholder")
		return placeholder(authorID, "lookup_error")
	}

	view := user.ToAuthorView()
	if r.cache != nil {
		if err := r.cache.SetAuthor(ctx, view); err != nil {
			r.log.WithError(err).WithField("author_id", authorID).Debug("author cache write failed")
		}
	}
	return AuthorResolution{View: view, Found: true}
}

// ResolveAuthors resolves each distinct id once.
func (r *AuthorResolver) ResolveAuthors(ctx context.Context, authorIDs []string) map[string]AuthorResolution {
	out := make(map[string]AuthorResolution, len(authorIDs))
	for _, id := range authorIDs {
		if _, done := out[id]; done {
			continue
		}
		out[id] = r.ResolveAuthor(ctx, id)
	}
	return out
}

func placeholder(authorID, reason string) AuthorResolution {
	metrics.AuthorPlaceholders.WithLabelValues(reason).Inc()
	return AuthorResolution{View: models.DeletedAuthor(authorID)}
}
