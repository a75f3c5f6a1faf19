package services

import (
	"context"

	"github.com/anonto42/microblog/backend/internal/apperr"
	"github.com/anonto42/microblog/backend/internal/models"
	"github.com/anonto42/microblog/backend/internal/repositories"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CommentService handles comments, replies and thread views.
type CommentService struct {
	comments repositories.CommentRepository
	checker  *ExistenceChecker
	authors  *AuthorResolver
	log      *logrus.Entry
}

// NewCommentService creates a new CommentService
func NewCommentService(comments repositories.CommentRepository, checker *ExistenceChecker, authors *AuthorResolver) *CommentService {
	return &CommentService{
		comments: comments,
		checker:  checker,
		authors:  authors,
		log:      logrus.WithField("component", "comments"),
	}
}

// CreateComment adds a comment to a post. When req names a parent, the
// parent must exist and belong to the same post.
func (s *CommentService) CreateComment(ctx context.Context, actorID, postID string, req models.CreateCommentRequest) (*models.Comment, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	if err := validateContent("content", req.Content); err != nil {
		return nil, err
	}
	postObjID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return nil, apperr.Validation("post_id", "malformed post id %q", postID)
	}
	var parentID *primitive.ObjectID
	if req.ParentCommentID != "" {
		id, err := primitive.ObjectIDFromHex(req.ParentCommentID)
		if err != nil {
			return nil, apperr.Validation("parent_comment_id", "malformed comment id %q", req.ParentCommentID)
		}
		parentID = &id
	}

	if err := s.checker.Require(ctx, CollectionPosts, postID); err != nil {
		return nil, err
	}
	if parentID != nil {
		parent, err := s.comments.GetCommentByID(ctx, req.ParentCommentID)
		if err != nil {
			if isMissing(err) {
				return nil, apperr.NotFound("comment", req.ParentCommentID)
			}
			return nil, apperr.Store(err, "get parent comment")
		}
		if parent.PostID != postObjID {
			return nil, apperr.Validation("parent_comment_id", "parent comment belongs to a different post")
		}
	}

	comment := &models.Comment{
		PostID:          postObjID,
		ParentCommentID: parentID,
		AuthorID:        actorID,
		Content:         req.Content,
		Likes:           []string{},
	}
	if err := s.comments.CreateComment(ctx, comment); err != nil {
		return nil, apperr.Store(err, "create comment")
	}
	s.log.WithFields(logrus.Fields{
		"comment_id": comment.ID.Hex(),
		"post_id":    postID,
		"reply":      parentID != nil,
	}).Info("comment created")
	return comment, nil
}

// EditComment replaces the content of the actor's own comment
func (s *CommentService) EditComment(ctx context.Context, actorID, commentID string, req models.UpdateCommentRequest) (*models.Comment, error) {
	if err := validateContent("content", req.Content); err != nil {
		return nil, err
	}
	comment, err := s.ownedComment(ctx, actorID, commentID, "edit")
	if err != nil {
		return nil, err
	}
	comment.Content = req.Content
	if err := s.comments.UpdateComment(ctx, comment); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.Conflict("comment", commentID, "comment was deleted while being edited")
		}
		return nil, apperr.Store(err, "update comment")
	}
	return comment, nil
}

// DeleteComment removes one comment. Its replies later render as roots.
func (s *CommentService) DeleteComment(ctx context.Context, actorID, commentID string) error {
	if _, err := s.ownedComment(ctx, actorID, commentID, "delete"); err != nil {
		return err
	}
	if err := s.comments.DeleteComment(ctx, commentID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperr.NotFound("comment", commentID)
		}
		return apperr.Store(err, "delete comment")
	}
	return nil
}

// GetThread returns the reply forest of a post with authors resolved.
func (s *CommentService) GetThread(ctx context.Context, postID string) ([]*models.CommentNode, error) {
	if !primitive.IsValidObjectID(postID) {
		return nil, apperr.Validation("post_id", "malformed post id %q", postID)
	}
	if err := s.checker.Require(ctx, CollectionPosts, postID); err != nil {
		return nil, err
	}

	comments, err := s.comments.GetCommentsByPostID(ctx, postID)
	if err != nil {
		return nil, apperr.Store(err, "list comments")
	}

	authorIDs := make([]string, len(comments))
	for i := range comments {
		authorIDs[i] = comments[i].AuthorID
		if comments[i].Likes == nil {
			comments[i].Likes = []string{}
		}
	}
	resolved := s.authors.ResolveAuthors(ctx, authorIDs)

	roots := BuildTree(comments)
	walkTree(roots, func(n *models.CommentNode) {
		view := resolved[n.AuthorID].View
		n.Author = &view
	})
	return roots, nil
}

func (s *CommentService) ownedComment(ctx context.Context, actorID, commentID, action string) (*models.Comment, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	if !primitive.IsValidObjectID(commentID) {
		return nil, apperr.Validation("id", "malformed comment id %q", commentID)
	}
	comment, err := s.comments.GetCommentByID(ctx, commentID)
	if err != nil {
		if isMissing(err) {
			return nil, apperr.NotFound("comment", commentID)
		}
		return nil, apperr.Store(err, "get comment")
	}
	if comment.AuthorID != actorID {
		return nil, apperr.Forbidden("comment", commentID, "only the author may %s this comment", action)
	}
	return comment, nil
}
