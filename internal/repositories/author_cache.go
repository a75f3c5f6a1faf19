package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/anonto42/microblog/backend/internal/models"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// authorViewKey caches the author view of a single user
const authorViewKey = "author:view:%s"

// AuthorCache is a read-through cache in front of user lookups.
type AuthorCache interface {
	// GetAuthor returns the cached view and true on a hit.
	GetAuthor(ctx context.Context, id string) (*models.AuthorView, bool, error)
	SetAuthor(ctx context.Context, view models.AuthorView) error
}

// RedisAuthorCache implements AuthorCache on Redis
type RedisAuthorCache struct {
	client *redis.Client
	expire time.Duration
}

// NewRedisAuthorCache creates a new RedisAuthorCache
func NewRedisAuthorCache(client *redis.Client, expire time.Duration) *RedisAuthorCache {
	if expire <= 0 {
		expire = 5 * time.Minute
	}
	return &RedisAuthorCache{client: client, expire: expire}
}

func (c *RedisAuthorCache) GetAuthor(ctx context.Context, id string) (*models.AuthorView, bool, error) {
	data, err := c.client.Get(ctx, fmt.Sprintf(authorViewKey, id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, errors.Wrap(err, "get cached author")
	}

	var view models.AuthorView
	if err := json.Unmarshal(data, &view); err != nil {
		return nil, false, errors.Wrap(err, "unmarshal cached author")
	}
	return &view, true, nil
}

// SetAuthor caches a resolved author view. Placeholders must not be cached.
func (c *RedisAuthorCache) SetAuthor(ctx context.Context, view models.AuthorView) error {
	data, err := json.Marshal(view)
	if err != nil {
		return errors.Wrap(err, "marshal author")
	}
	return errors.Wrap(c.client.Set(ctx, fmt.Sprintf(authorViewKey, view.ID), data, c.expire).Err(), "cache author")
}
