package services

import (
	"context"

	"github.com/anonto42/microblog/backend/internal/apperr"
	"github.com/anonto42/microblog/backend/internal/repositories"
)

// Collection names a store the existence checker can consult.
type Collection string

const (
	CollectionPosts    Collection = "posts"
	CollectionComments Collection = "comments"
	CollectionUsers    Collection = "users"
)

// Entity is the singular name used in error messages.
func (c Collection) Entity() string {
	switch c {
	case CollectionPosts:
		return "post"
	case CollectionComments:
		return "comment"
	case CollectionUsers:
		return "user"
	default:
		return string(c)
	}
}

// ExistenceChecker guards writes that reference another collection.
type ExistenceChecker struct {
	stores map[Collection]repositories.ExistenceStore
}

// NewExistenceChecker creates a checker over the post, comment and user stores
func NewExistenceChecker(posts, comments, users repositories.ExistenceStore) *ExistenceChecker {
	return &ExistenceChecker{stores: map[Collection]repositories.ExistenceStore{
		CollectionPosts:    posts,
		CollectionComments: comments,
		CollectionUsers:    users,
	}}
}

// ValidID reports whether id has the shape of an id in collection. It never
// touches the store.
func (c *ExistenceChecker) ValidID(collection Collection, id string) bool {
	store, ok := c.stores[collection]
	return ok && store != nil && store.ValidID(id)
}

// Exists reports whether id is present in collection. A malformed id is
// reported as absent without querying the store; a store failure is
// returned as an error and never as "absent".
func (c *ExistenceChecker) Exists(ctx context.Context, collection Collection, id string) (bool, error) {
	store, ok := c.stores[collection]
	if !ok || store == nil {
		return false, apperr.Validation("collection", "unknown collection %q", collection)
	}
	if !store.ValidID(id) {
		return false, nil
	}
	found, err := store.ExistsByID(ctx, id)
	if err != nil {
		return false, apperr.Store(err, "check "+collection.Entity()+" existence")
	}
	return found, nil
}

// Require is Exists turned into a not-found error.
func (c *ExistenceChecker) Require(ctx context.Context, collection Collection, id string) error {
	found, err := c.Exists(ctx, collection, id)
	if err != nil {
		return err
	}
	if !found {
		return apperr.NotFound(collection.Entity(), id)
	}
	return nil
}
