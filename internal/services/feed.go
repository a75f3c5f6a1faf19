package services

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/anonto42/microblog/backend/internal/apperr"
	"github.com/anonto42/microblog/backend/internal/models"
	"github.com/anonto42/microblog/backend/internal/repositories"
	"github.com/anonto42/microblog/backend/pkg/metrics"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const defaultEnrichConcurrency = 8

// FeedService composes post listings from the post, user, follow and
// comment stores.
type FeedService struct {
	posts       repositories.PostRepository
	comments    repositories.CommentRepository
	users       repositories.UserRepository
	follows     repositories.FollowRepository
	authors     *AuthorResolver
	concurrency int
	log         *logrus.Entry
}

// NewFeedService creates a new FeedService. concurrency bounds the number of
// posts enriched at once; values below 1 select the default.
func NewFeedService(
	posts repositories.PostRepository,
	comments repositories.CommentRepository,
	users repositories.UserRepository,
	follows repositories.FollowRepository,
	authors *AuthorResolver,
	concurrency int,
) *FeedService {
	if concurrency < 1 {
		concurrency = defaultEnrichConcurrency
	}
	return &FeedService{
		posts:       posts,
		comments:    comments,
		users:       users,
		follows:     follows,
		authors:     authors,
		concurrency: concurrency,
		log:         logrus.WithField("component", "feed"),
	}
}

// Search returns one page of posts matching filter, newest first, together
// with the size of the whole filtered set.
func (s *FeedService) Search(ctx context.Context, requesterID string, filter models.SearchFilter, page models.Pagination) (*models.SearchResult, error) {
	start := time.Now()
	defer func() { metrics.SearchDuration.Observe(time.Since(start).Seconds()) }()

	page = page.Normalize()
	if utf8.RuneCountInString(filter.Text) > models.MaxContentLength {
		return nil, apperr.Validation("q", "search text must be at most %d characters", models.MaxContentLength)
	}
	if filter.SubscribedOnly {
		if err := requireActor(requesterID); err != nil {
			return nil, apperr.Validation("subscribed_only", "subscribed-only search requires an authenticated requester")
		}
	}

	result := &models.SearchResult{Items: []models.PostView{}, Limit: page.Limit, Offset: page.Offset}

	authorIDs, restricted, err := s.selectAuthors(ctx, requesterID, filter)
	if err != nil {
		return nil, err
	}
	if restricted && len(authorIDs) == 0 {
		return result, nil
	}

	q := models.PostQuery{
		Text:   filter.Text,
		Tags:   normalizeSet(filter.Tags),
		Limit:  page.Limit,
		Offset: page.Offset,
	}
	if restricted {
		q.AuthorIDs = authorIDs
	}

	total, err := s.posts.CountPosts(ctx, q)
	if err != nil {
		return nil, apperr.Store(err, "count posts")
	}
	result.TotalCount = total
	if int64(page.Offset) >= total {
		return result, nil
	}

	posts, err := s.posts.FindPosts(ctx, q)
	if err != nil {
		return nil, apperr.Store(err, "find posts")
	}
	result.Items = s.enrich(ctx, posts)

	s.log.WithFields(logrus.Fields{
		"requester_id": requesterID,
		"total":        total,
		"returned":     len(result.Items),
		"limit":        page.Limit,
		"offset":       page.Offset,
	}).Debug("search composed")
	return result, nil
}

// GetPost returns a single enriched post.
func (s *FeedService) GetPost(ctx context.Context, postID string) (*models.PostView, error) {
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
	view := s.enrichPost(ctx, *post)
	return &view, nil
}

// selectAuthors unions the explicit author set with the requester's follow
// set. restricted is false when neither source was requested.
func (s *FeedService) selectAuthors(ctx context.Context, requesterID string, filter models.SearchFilter) (ids []string, restricted bool, err error) {
	usernames := normalizeSet(filter.Authors)
	if len(usernames) == 0 && !filter.SubscribedOnly {
		return nil, false, nil
	}

	var named, following []string
	if len(usernames) > 0 {
		named, err = s.users.GetUserIDsByUsernames(ctx, usernames)
		if err != nil {
			return nil, true, apperr.Store(err, "resolve author usernames")
		}
	}
	if filter.SubscribedOnly {
		// A requester without a user id, such as a bare Firebase UID, cannot
		// appear in the follow graph and so follows nobody.
		if s.users.ValidID(requesterID) {
			following, err = s.follows.GetFollowingIDs(ctx, requesterID)
			if err != nil {
				return nil, true, apperr.Store(err, "list followed authors")
			}
		} else {
			s.log.WithField("requester_id", requesterID).Debug("requester has no user id, follow set is empty")
		}
	}
	return unionIDs(named, following), true, nil
}

// enrich decorates posts concurrently. The output is index-aligned with the
// input regardless of completion order.
func (s *FeedService) enrich(ctx context.Context, posts []models.Post) []models.PostView {
	views := make([]models.PostView, len(posts))
	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i := range posts {
		i := i
		g.Go(func() error {
			views[i] = s.enrichPost(ctx, posts[i])
			return nil
		})
	}
	_ = g.Wait()
	return views
}

// enrichPost never fails; each step that cannot complete leaves a default and
// marks the view partial.
func (s *FeedService) enrichPost(ctx context.Context, post models.Post) (view models.PostView) {
	if post.Likes == nil {
		post.Likes = []string{}
	}
	if post.Tags == nil {
		post.Tags = []string{}
	}
	view = models.PostView{
		Post:      post,
		Author:    models.DeletedAuthor(post.AuthorID),
		LikeCount: len(post.Likes),
	}
	postID := post.ID.Hex()

	defer func() {
		if r := recover(); r != nil {
			metrics.EnrichmentFailures.WithLabelValues("panic").Inc()
			s.log.WithField("post_id", postID).Error(fmt.Sprintf("post enrichment panicked: %v", r))
			view.Partial = true
		}
	}()

	view.Author = s.authors.ResolveAuthor(ctx, post.AuthorID).View

	count, err := s.comments.CountCommentsByPostID(ctx, postID)
	if err != nil {
		metrics.EnrichmentFailures.WithLabelValues("comment_count").Inc()
		s.log.WithError(err).WithField("post_id", postID).Warn("comment count failed, reporting 0")
		view.Partial = true
	} else {
		view.CommentCount = count
	}
	return view
}
