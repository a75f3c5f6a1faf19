package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxContentLength is the upper bound for post and comment bodies, in characters.
const MaxContentLength = 280

// Post represents a microblog post stored in MongoDB
type Post struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	AuthorID  string             `json:"author_id" bson:"author_id"` // user id, not enforced
	Content   string             `json:"content" bson:"content"`
	Tags      []string           `json:"tags" bson:"tags"`
	Likes     []string           `json:"likes" bson:"likes"` // actor ids, set semantics
	ImageURL  string             `json:"image_url,omitempty" bson:"image_url,omitempty"`
	VideoURL  string             `json:"video_url,omitempty" bson:"video_url,omitempty"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Content  string   `json:"content" validate:"required,min=1,max=280"`
	Tags     []string `json:"tags,omitempty" validate:"omitempty,max=20,dive,min=1,max=50"`
	ImageURL string   `json:"image_url,omitempty" validate:"omitempty,url,excluded_with=VideoURL"`
	VideoURL string   `json:"video_url,omitempty" validate:"omitempty,url,excluded_with=ImageURL"`
}

// UpdatePostRequest defines the request body for updating an existing post.
// Nil fields are left unchanged.
type UpdatePostRequest struct {
	Content  *string   `json:"content,omitempty" validate:"omitempty,min=1,max=280"`
	Tags     *[]string `json:"tags,omitempty" validate:"omitempty,max=20,dive,min=1,max=50"`
	ImageURL *string   `json:"image_url,omitempty" validate:"omitempty,url"`
	VideoURL *string   `json:"video_url,omitempty" validate:"omitempty,url"`
}

// PostView is the denormalized shape returned by feeds and post lookups.
type PostView struct {
	Post
	Author       AuthorView `json:"author"`
	LikeCount    int        `json:"like_count"`
	CommentCount int64      `json:"comment_count"`
	// Partial is set when some enrichment for this post degraded to a default.
	Partial bool `json:"partial,omitempty"`
}
