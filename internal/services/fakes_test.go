package services

import (
	"bytes"
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/anonto42/microblog/backend/internal/models"
	"github.com/anonto42/microblog/backend/internal/repositories"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory stores that behave like the Mongo and Postgres repositories.

type fakePostStore struct {
	mu    sync.Mutex
	posts map[primitive.ObjectID]models.Post

	countErr  error
	findErr   error
	existsErr error
	toggleErr error
	// vanish deletes the target between the existence check and the toggle.
	vanish      bool
	existsCalls int
	findCalls   int
}

func newFakePostStore() *fakePostStore {
	return &fakePostStore{posts: map[primitive.ObjectID]models.Post{}}
}

func (f *fakePostStore) seed(p models.Post) models.Post {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	f.posts[p.ID] = p
	return p
}

func (f *fakePostStore) ValidID(id string) bool { return primitive.IsValidObjectID(id) }

func (f *fakePostStore) ExistsByID(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.existsCalls++
	if f.existsErr != nil {
		return false, f.existsErr
	}
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}
	_, ok := f.posts[objID]
	return ok, nil
}

func (f *fakePostStore) CreatePost(_ context.Context, post *models.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now().UTC()
	post.UpdatedAt = post.CreatedAt
	f.posts[post.ID] = *post
	return nil
}

func (f *fakePostStore) GetPostByID(_ context.Context, id string) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repositories.ErrInvalidID
	}
	p, ok := f.posts[objID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &p, nil
}

func (f *fakePostStore) matching(q models.PostQuery) []models.Post {
	out := []models.Post{}
	for _, p := range f.posts {
		if q.Text != "" && !strings.Contains(strings.ToLower(p.Content), strings.ToLower(q.Text)) {
			continue
		}
		if len(q.Tags) > 0 && !anyIn(p.Tags, q.Tags) {
			continue
		}
		if q.AuthorIDs != nil && !anyIn([]string{p.AuthorID}, q.AuthorIDs) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return bytes.Compare(out[i].ID[:], out[j].ID[:]) > 0
	})
	return out
}

func (f *fakePostStore) FindPosts(_ context.Context, q models.PostQuery) ([]models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.findCalls++
	if f.findErr != nil {
		return nil, f.findErr
	}
	all := f.matching(q)
	if q.Offset >= len(all) {
		return []models.Post{}, nil
	}
	end := q.Offset + q.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[q.Offset:end], nil
}

func (f *fakePostStore) CountPosts(_ context.Context, q models.PostQuery) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.countErr != nil {
		return 0, f.countErr
	}
	return int64(len(f.matching(q))), nil
}

func (f *fakePostStore) UpdatePost(_ context.Context, post *models.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.posts[post.ID]; !ok {
		return repositories.ErrNotFound
	}
	f.posts[post.ID] = *post
	return nil
}

func (f *fakePostStore) DeletePost(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repositories.ErrInvalidID
	}
	if _, ok := f.posts[objID]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.posts, objID)
	return nil
}

func (f *fakePostStore) ToggleLike(_ context.Context, id, actorID string) (bool, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.toggleErr != nil {
		return false, 0, f.toggleErr
	}
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, 0, repositories.ErrInvalidID
	}
	if f.vanish {
		delete(f.posts, objID)
	}
	p, ok := f.posts[objID]
	if !ok {
		return false, 0, repositories.ErrNotFound
	}
	var liked bool
	p.Likes, liked = toggled(p.Likes, actorID)
	f.posts[objID] = p
	return liked, len(p.Likes), nil
}

type fakeCommentStore struct {
	mu       sync.Mutex
	comments map[primitive.ObjectID]models.Comment
	order    []primitive.ObjectID

	countErrs  map[string]error
	countPanic string
	listErr    error
	vanish     bool
}

func newFakeCommentStore() *fakeCommentStore {
	return &fakeCommentStore{comments: map[primitive.ObjectID]models.Comment{}, countErrs: map[string]error{}}
}

func (f *fakeCommentStore) seed(c models.Comment) models.Comment {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	f.comments[c.ID] = c
	f.order = append(f.order, c.ID)
	return c
}

func (f *fakeCommentStore) ValidID(id string) bool { return primitive.IsValidObjectID(id) }

func (f *fakeCommentStore) ExistsByID(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}
	_, ok := f.comments[objID]
	return ok, nil
}

func (f *fakeCommentStore) CreateComment(_ context.Context, c *models.Comment) error {
	c.ID = primitive.NewObjectID()
	c.CreatedAt = time.Now().UTC()
	c.UpdatedAt = c.CreatedAt
	f.seed(*c)
	return nil
}

func (f *fakeCommentStore) GetCommentByID(_ context.Context, id string) (*models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repositories.ErrInvalidID
	}
	c, ok := f.comments[objID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &c, nil
}

func (f *fakeCommentStore) GetCommentsByPostID(_ context.Context, postID string) ([]models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []models.Comment{}
	for _, id := range f.order {
		c, ok := f.comments[id]
		if ok && c.PostID.Hex() == postID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCommentStore) CountCommentsByPostID(_ context.Context, postID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if postID == f.countPanic {
		panic("count exploded")
	}
	if err := f.countErrs[postID]; err != nil {
		return 0, err
	}
	var n int64
	for _, c := range f.comments {
		if c.PostID.Hex() == postID {
			n++
		}
	}
	return n, nil
}

func (f *fakeCommentStore) UpdateComment(_ context.Context, c *models.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.comments[c.ID]; !ok {
		return repositories.ErrNotFound
	}
	f.comments[c.ID] = *c
	return nil
}

func (f *fakeCommentStore) DeleteComment(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	objID, _ := primitive.ObjectIDFromHex(id)
	if _, ok := f.comments[objID]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.comments, objID)
	return nil
}

func (f *fakeCommentStore) ToggleLike(_ context.Context, id, actorID string) (bool, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, 0, repositories.ErrInvalidID
	}
	if f.vanish {
		delete(f.comments, objID)
	}
	c, ok := f.comments[objID]
	if !ok {
		return false, 0, repositories.ErrNotFound
	}
	var liked bool
	c.Likes, liked = toggled(c.Likes, actorID)
	f.comments[objID] = c
	return liked, len(c.Likes), nil
}

type fakeUserStore struct {
	mu       sync.Mutex
	users    map[string]models.User
	getErr   error
	getCalls int
}

func newFakeUserStore(users ...models.User) *fakeUserStore {
	f := &fakeUserStore{users: map[string]models.User{}}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUserStore) ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func (f *fakeUserStore) ExistsByID(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.users[id]
	return ok, nil
}

func (f *fakeUserStore) GetUserByID(_ context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &u, nil
}

func (f *fakeUserStore) GetUserIDsByUsernames(_ context.Context, usernames []string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := []string{}
	for _, name := range usernames {
		for _, u := range f.users {
			if strings.ToLower(u.Username) == name {
				ids = append(ids, u.ID)
			}
		}
	}
	return ids, nil
}

type fakeFollowStore struct {
	mu    sync.Mutex
	edges []models.Follow
	err   error
	calls int
}

func (f *fakeFollowStore) CreateFollow(_ context.Context, follow *models.Follow) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	for _, e := range f.edges {
		if e.FollowerID == follow.FollowerID && e.FollowingID == follow.FollowingID {
			return repositories.ErrDuplicate
		}
	}
	follow.ID = uint(len(f.edges) + 1)
	f.edges = append(f.edges, *follow)
	return nil
}

func (f *fakeFollowStore) DeleteFollow(_ context.Context, followerID, followingID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	for i, e := range f.edges {
		if e.FollowerID == followerID && e.FollowingID == followingID {
			f.edges = append(f.edges[:i], f.edges[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (f *fakeFollowStore) IsFollowing(_ context.Context, followerID, followingID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	for _, e := range f.edges {
		if e.FollowerID == followerID && e.FollowingID == followingID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeFollowStore) GetFollowingIDs(_ context.Context, userID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	ids := []string{}
	for _, e := range f.edges {
		if e.FollowerID == userID {
			ids = append(ids, e.FollowingID)
		}
	}
	return ids, nil
}

type fakeAuthorCache struct {
	mu    sync.Mutex
	views map[string]models.AuthorView
	sets  int
}

func newFakeAuthorCache() *fakeAuthorCache {
	return &fakeAuthorCache{views: map[string]models.AuthorView{}}
}

func (c *fakeAuthorCache) GetAuthor(_ context.Context, id string) (*models.AuthorView, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.views[id]
	if !ok {
		return nil, false, nil
	}
	return &v, true, nil
}

func (c *fakeAuthorCache) SetAuthor(_ context.Context, view models.AuthorView) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.views[view.ID] = view
	return nil
}

func toggled(likes []string, actorID string) ([]string, bool) {
	for i, id := range likes {
		if id == actorID {
			out := append([]string{}, likes[:i]...)
			return append(out, likes[i+1:]...), false
		}
	}
	return append(append([]string{}, likes...), actorID), true
}

func anyIn(values, set []string) bool {
	for _, v := range values {
		for _, s := range set {
			if v == s {
				return true
			}
		}
	}
	return false
}

func newUser(username string) models.User {
	return models.User{
		ID:       uuid.NewString(),
		Username: username,
		Email:    strings.ToLower(username) + "@example.com",
		Bio:      "bio of " + username,
	}
}

// fixture wires every service over fresh fakes.
type fixture struct {
	posts    *fakePostStore
	comments *fakeCommentStore
	users    *fakeUserStore
	follows  *fakeFollowStore

	checker *ExistenceChecker
	authors *AuthorResolver
	feed    *FeedService
	likes   *LikeService
	post    *PostService
	thread  *CommentService
	graph   *FollowService
}

func newFixture(users ...models.User) *fixture {
	f := &fixture{
		posts:    newFakePostStore(),
		comments: newFakeCommentStore(),
		users:    newFakeUserStore(users...),
		follows:  &fakeFollowStore{},
	}
	f.checker = NewExistenceChecker(f.posts, f.comments, f.users)
	f.authors = NewAuthorResolver(f.users, nil)
	f.feed = NewFeedService(f.posts, f.comments, f.users, f.follows, f.authors, 4)
	f.likes = NewLikeService(f.posts, f.comments, f.checker)
	f.post = NewPostService(f.posts)
	f.thread = NewCommentService(f.comments, f.checker, f.authors)
	f.graph = NewFollowService(f.follows, f.checker)
	return f
}
