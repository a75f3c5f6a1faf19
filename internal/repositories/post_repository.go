package repositories

import (
	"context"
	"regexp"
	"time"

	"github.com/anonto42/microblog/backend/internal/models"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	LikeStore
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
	FindPosts(ctx context.Context, q models.PostQuery) ([]models.Post, error)
	CountPosts(ctx context.Context, q models.PostQuery) (int64, error)
	UpdatePost(ctx context.Context, post *models.Post) error
	DeletePost(ctx context.Context, id string) error
}

// MongoPostRepository implements PostRepository for MongoDB
type MongoPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection("posts")}
}

// EnsureIndexes creates the indexes the feed queries rely on.
func (r *MongoPostRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}},
		{Keys: bson.D{{Key: "author_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "tags", Value: 1}}},
	})
	return errors.Wrap(err, "create post indexes")
}

// ValidID reports whether id has the shape of a post id.
func (r *MongoPostRepository) ValidID(id string) bool {
	return primitive.IsValidObjectID(id)
}

// CreatePost creates a new post in MongoDB
func (r *MongoPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	now := time.Now().UTC()
	post.ID = primitive.NewObjectID()
	post.CreatedAt = now
	post.UpdatedAt = now
	if post.Tags == nil {
		post.Tags = []string{}
	}
	if post.Likes == nil {
		post.Likes = []string{}
	}
	_, err := r.collection.InsertOne(ctx, post)
	return errors.Wrap(err, "insert post")
}

// GetPostByID retrieves a post by ID from MongoDB
func (r *MongoPostRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	var post models.Post
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "find post")
	}
	return &post, nil
}

// ExistsByID reports whether a post with the given id is stored.
func (r *MongoPostRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	return existsByID(ctx, r.collection, id)
}

// FindPosts returns one page of posts matching q, newest first.
func (r *MongoPostRepository) FindPosts(ctx context.Context, q models.PostQuery) ([]models.Post, error) {
	findOptions := options.Find().
		SetSkip(int64(q.Offset)).
		SetLimit(int64(q.Limit)).
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.collection.Find(ctx, postFilter(q), findOptions)
	if err != nil {
		return nil, errors.Wrap(err, "find posts")
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, errors.Wrap(err, "decode posts")
	}
	return posts, nil
}

// CountPosts counts every post matching q, ignoring the page window.
func (r *MongoPostRepository) CountPosts(ctx context.Context, q models.PostQuery) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, postFilter(q))
	return n, errors.Wrap(err, "count posts")
}

// UpdatePost updates the mutable fields of an existing post in MongoDB
func (r *MongoPostRepository) UpdatePost(ctx context.Context, post *models.Post) error {
	post.UpdatedAt = time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"content":    post.Content,
			"tags":       post.Tags,
			"image_url":  post.ImageURL,
			"video_url":  post.VideoURL,
			"updated_at": post.UpdatedAt,
		},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": post.ID}, update)
	if err != nil {
		return errors.Wrap(err, "update post")
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeletePost deletes a post by ID from MongoDB. Comments are left in place.
func (r *MongoPostRepository) DeletePost(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return errors.Wrap(err, "delete post")
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ToggleLike flips actorID's membership in the post's like set.
func (r *MongoPostRepository) ToggleLike(ctx context.Context, id, actorID string) (bool, int, error) {
	return toggleLike(ctx, r.collection, id, actorID)
}

func postFilter(q models.PostQuery) bson.M {
	filter := bson.M{}
	if q.Text != "" {
		filter["content"] = bson.M{"$regex": primitive.Regex{Pattern: regexp.QuoteMeta(q.Text), Options: "i"}}
	}
	if len(q.Tags) > 0 {
		filter["tags"] = bson.M{"$in": q.Tags}
	}
	if q.AuthorIDs != nil {
		filter["author_id"] = bson.M{"$in": q.AuthorIDs}
	}
	return filter
}
