package services

import (
	"context"

	"github.com/anonto42/microblog/backend/internal/apperr"
	"github.com/anonto42/microblog/backend/internal/models"
	"github.com/anonto42/microblog/backend/internal/repositories"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// PostService handles the post lifecycle. Only the author may edit or delete.
type PostService struct {
	posts repositories.PostRepository
	log   *logrus.Entry
}

// NewPostService creates a new PostService
func NewPostService(posts repositories.PostRepository) *PostService {
	return &PostService{posts: posts, log: logrus.WithField("component", "posts")}
}

// CreatePost stores a new post authored by actorID
func (s *PostService) CreatePost(ctx context.Context, actorID string, req models.CreatePostRequest) (*models.Post, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	if err := validateContent("content", req.Content); err != nil {
		return nil, err
	}
	if err := validateMedia(req.ImageURL, req.VideoURL); err != nil {
		return nil, err
	}

	post := &models.Post{
		AuthorID: actorID,
		Content:  req.Content,
		Tags:     normalizeSet(req.Tags),
		Likes:    []string{},
		ImageURL: req.ImageURL,
		VideoURL: req.VideoURL,
	}
	if err := s.posts.CreatePost(ctx, post); err != nil {
		return nil, apperr.Store(err, "create post")
	}
	s.log.WithFields(logrus.Fields{"post_id": post.ID.Hex(), "author_id": actorID}).Info("post created")
	return post, nil
}

// EditPost applies the non-nil fields of req to the post
func (s *PostService) EditPost(ctx context.Context, actorID, postID string, req models.UpdatePostRequest) (*models.Post, error) {
	post, err := s.ownedPost(ctx, actorID, postID, "edit")
	if err != nil {
		return nil, err
	}

	if req.Content != nil {
		if err := validateContent("content", *req.Content); err != nil {
			return nil, err
		}
		post.Content = *req.Content
	}
	if req.Tags != nil {
		post.Tags = normalizeSet(*req.Tags)
	}
	if req.ImageURL != nil {
		post.ImageURL = *req.ImageURL
	}
	if req.VideoURL != nil {
		post.VideoURL = *req.VideoURL
	}
	if err := validateMedia(post.ImageURL, post.VideoURL); err != nil {
		return nil, err
	}

	if err := s.posts.UpdatePost(ctx, post); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.Conflict("post", postID, "post was deleted while being edited")
		}
		return nil, apperr.Store(err, "update post")
	}
	return post, nil
}

// DeletePost hard-deletes the post. Comments and likes referencing it stay behind.
func (s *PostService) DeletePost(ctx context.Context, actorID, postID string) error {
	if _, err := s.ownedPost(ctx, actorID, postID, "delete"); err != nil {
		return err
	}
	if err := s.posts.DeletePost(ctx, postID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperr.NotFound("post", postID)
		}
		return apperr.Store(err, "delete post")
	}
	s.log.WithFields(logrus.Fields{"post_id": postID, "author_id": actorID}).Info("post deleted")
	return nil
}

func (s *PostService) ownedPost(ctx context.Context, actorID, postID, action string) (*models.Post, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	if !s.posts.ValidID(postID) {
		return nil, apperr.Validation("id", "malformed post id %q", postID)
	}
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		if isMissing(err) {
			return nil, apperr.NotFound("post", postID)
		}
		return nil, apperr.Store(err, "get post")
	}
	if post.AuthorID != actorID {
		return nil, apperr.Forbidden("post", postID, "only the author may %s this post", action)
	}
	return post, nil
}

func validateMedia(imageURL, videoURL string) error {
	if imageURL != "" && videoURL != "" {
		return apperr.Validation("video_url", "a post may carry an image or a video, not both")
	}
	return nil
}
