package services

import (
	"context"

	"github.com/anonto42/microblog/backend/internal/apperr"
	"github.com/anonto42/microblog/backend/internal/models"
	"github.com/anonto42/microblog/backend/internal/repositories"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// FollowService maintains the follow graph used by subscribed-only feeds.
// Every id is checked for user-id shape before the store is touched.
type FollowService struct {
	follows repositories.FollowRepository
	checker *ExistenceChecker
	log     *logrus.Entry
}

// NewFollowService creates a new FollowService
func NewFollowService(follows repositories.FollowRepository, checker *ExistenceChecker) *FollowService {
	return &FollowService{follows: follows, checker: checker, log: logrus.WithField("component", "follows")}
}

// Follow adds the edge actorID -> targetID
func (s *FollowService) Follow(ctx context.Context, actorID, targetID string) error {
	if err := s.requireEdge(actorID, targetID); err != nil {
		return err
	}
	if actorID == targetID {
		return apperr.Validation("id", "cannot follow yourself")
	}
	if err := s.checker.Require(ctx, CollectionUsers, targetID); err != nil {
		return err
	}

	err := s.follows.CreateFollow(ctx, &models.Follow{FollowerID: actorID, FollowingID: targetID})
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return apperr.Conflict("follow", targetID, "already following this user")
		}
		return apperr.Store(err, "create follow")
	}
	s.log.WithFields(logrus.Fields{"follower_id": actorID, "following_id": targetID}).Info("follow created")
	return nil
}

// Unfollow removes the edge actorID -> targetID
func (s *FollowService) Unfollow(ctx context.Context, actorID, targetID string) error {
	if err := s.requireEdge(actorID, targetID); err != nil {
		return err
	}
	if err := s.follows.DeleteFollow(ctx, actorID, targetID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperr.NotFound("follow", targetID)
		}
		return apperr.Store(err, "delete follow")
	}
	return nil
}

// IsFollowing reports whether the edge actorID -> targetID exists
func (s *FollowService) IsFollowing(ctx context.Context, actorID, targetID string) (bool, error) {
	if err := s.requireEdge(actorID, targetID); err != nil {
		return false, err
	}
	following, err := s.follows.IsFollowing(ctx, actorID, targetID)
	if err != nil {
		return false, apperr.Store(err, "check follow")
	}
	return following, nil
}

// Following lists the ids userID follows
func (s *FollowService) Following(ctx context.Context, userID string) ([]string, error) {
	if err := s.requireUserID("id", userID); err != nil {
		return nil, err
	}
	ids, err := s.follows.GetFollowingIDs(ctx, userID)
	if err != nil {
		return nil, apperr.Store(err, "list following")
	}
	return ids, nil
}

func (s *FollowService) requireEdge(actorID, targetID string) error {
	if err := requireActor(actorID); err != nil {
		return err
	}
	if err := s.requireUserID("actor_id", actorID); err != nil {
		return err
	}
	return s.requireUserID("id", targetID)
}

func (s *FollowService) requireUserID(field, id string) error {
	if !s.checker.ValidID(CollectionUsers, id) {
		return apperr.Validation(field, "malformed user id %q", id)
	}
	return nil
}
