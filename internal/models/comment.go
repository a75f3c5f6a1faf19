package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment represents a comment or reply on a post, stored in MongoDB
type Comment struct {
	ID              primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	PostID          primitive.ObjectID  `json:"post_id" bson:"post_id"`
	ParentCommentID *primitive.ObjectID `json:"parent_comment_id" bson:"parent_comment_id"` // nil for top-level comments
	AuthorID        string              `json:"author_id" bson:"author_id"`
	Content         string              `json:"content" bson:"content"`
	Likes           []string            `json:"likes" bson:"likes"`
	CreatedAt       time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at" bson:"updated_at"`
}

// IsReply reports whether the comment points at a parent comment.
func (c *Comment) IsReply() bool {
	return c.ParentCommentID != nil && !c.ParentCommentID.IsZero()
}

// CreateCommentRequest defines the request body for creating a new comment
type CreateCommentRequest struct {
	Content         string `json:"content" validate:"required,min=1,max=280"`
	ParentCommentID string `json:"parent_comment_id,omitempty" validate:"omitempty,objectid"`
}

// UpdateCommentRequest defines the request body for updating an existing comment
type UpdateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=280"`
}

// CommentNode wraps a comment with its ordered replies.
type CommentNode struct {
	Comment
	Author    *AuthorView    `json:"author,omitempty"`
	LikeCount int            `json:"like_count"`
	Children  []*CommentNode `json:"children"`
}
