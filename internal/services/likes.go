package services

import (
	"context"

	"github.com/anonto42/microblog/backend/internal/apperr"
	"github.com/anonto42/microblog/backend/internal/models"
	"github.com/anonto42/microblog/backend/internal/repositories"
	"github.com/anonto42/microblog/backend/pkg/metrics"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// LikeTarget is the kind of entity a like applies to.
type LikeTarget string

const (
	LikeTargetPost    LikeTarget = "post"
	LikeTargetComment LikeTarget = "comment"
)

// LikeService toggles likes on posts and comments.
type LikeService struct {
	posts    repositories.LikeStore
	comments repositories.LikeStore
	checker  *ExistenceChecker
	log      *logrus.Entry
}

// NewLikeService creates a new LikeService
func NewLikeService(posts, comments repositories.LikeStore, checker *ExistenceChecker) *LikeService {
	return &LikeService{
		posts:    posts,
		comments: comments,
		checker:  checker,
		log:      logrus.WithField("component", "likes"),
	}
}

// ToggleLike flips actorID's like on the entity and reports the new state.
//
// The flip itself is one atomic store operation and is never retried: a
// second concurrent toggle by the same actor legitimately reverses it.
func (s *LikeService) ToggleLike(ctx context.Context, target LikeTarget, entityID, actorID string) (*models.LikeResult, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}

	var (
		store      repositories.LikeStore
		collection Collection
	)
	switch target {
	case LikeTargetPost:
		store, collection = s.posts, CollectionPosts
	case LikeTargetComment:
		store, collection = s.comments, CollectionComments
	default:
		return nil, apperr.Validation("target", "unsupported like target %q", target)
	}
	if !store.ValidID(entityID) {
		return nil, apperr.Validation("id", "malformed %s id %q", target, entityID)
	}

	if err := s.checker.Require(ctx, collection, entityID); err != nil {
		s.record(target, err)
		return nil, err
	}

	liked, count, err := store.ToggleLike(ctx, entityID, actorID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			err = apperr.Conflict(string(target), entityID, "%s was deleted while the like was being applied", target)
		} else {
			err = apperr.Store(err, "toggle like")
		}
		s.record(target, err)
		return nil, err
	}

	result := "unliked"
	if liked {
		result = "liked"
	}
	metrics.LikeToggles.WithLabelValues(string(target), result).Inc()
	s.log.WithFields(logrus.Fields{
		"target":     target,
		"entity_id":  entityID,
		"actor_id":   actorID,
		"liked":      liked,
		"like_count": count,
	}).Debug("like toggled")
	return &models.LikeResult{Liked: liked, LikeCount: count}, nil
}

func (s *LikeService) record(target LikeTarget, err error) {
	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		metrics.LikeToggles.WithLabelValues(string(target), "not_found").Inc()
	case apperr.KindConflict:
		metrics.LikeToggles.WithLabelValues(string(target), "conflict").Inc()
	default:
		metrics.LikeToggles.WithLabelValues(string(target), "error").Inc()
		s.log.WithError(err).WithField("target", target).Error("like toggle failed")
	}
}
