package services

import (
	"context"
	"testing"

	"github.com/anonto42/microblog/backend/internal/apperr"
	"github.com/anonto42/microblog/backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreateComment_TopLevelAndReply(t *testing.T) {
	alice := newUser("alice")
	f := newFixture(alice)
	ctx := context.Background()
	p := f.posts.seed(models.Post{AuthorID: alice.ID, Content: "post"})

	top, err := f.thread.CreateComment(ctx, alice.ID, p.ID.Hex(), models.CreateCommentRequest{Content: "first"})
	require.NoError(t, err)
	assert.False(t, top.IsReply())
	assert.Equal(t, p.ID, top.PostID)

	reply, err := f.thread.CreateComment(ctx, alice.ID, p.ID.Hex(), models.CreateCommentRequest{
		Content:         "reply",
		ParentCommentID: top.ID.Hex(),
	})
	require.NoError(t, err)
	require.True(t, reply.IsReply())
	assert.Equal(t, top.ID, *reply.ParentCommentID)
}

func TestCreateComment_Rejections(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := f.posts.seed(models.Post{AuthorID: "a", Content: "post"})
	other := f.posts.seed(models.Post{AuthorID: "a", Content: "other"})
	foreign := f.comments.seed(models.Comment{PostID: other.ID, Content: "elsewhere"})

	_, err := f.thread.CreateComment(ctx, "a", primitive.NewObjectID().Hex(), models.CreateCommentRequest{Content: "x"})
	assert.True(t, apperr.IsNotFound(err), "missing post")

	_, err = f.thread.CreateComment(ctx, "a", p.ID.Hex(), models.CreateCommentRequest{Content: "x", ParentCommentID: primitive.NewObjectID().Hex()})
	assert.True(t, apperr.IsNotFound(err), "missing parent")

	_, err = f.thread.CreateComment(ctx, "a", p.ID.Hex(), models.CreateCommentRequest{Content: "x", ParentCommentID: foreign.ID.Hex()})
	assert.True(t, apperr.IsValidation(err), "parent on another post")

	_, err = f.thread.CreateComment(ctx, "a", p.ID.Hex(), models.CreateCommentRequest{Content: "x", ParentCommentID: "bad"})
	assert.True(t, apperr.IsValidation(err), "malformed parent")

	_, err = f.thread.CreateComment(ctx, "a", p.ID.Hex(), models.CreateCommentRequest{Content: ""})
	assert.True(t, apperr.IsValidation(err), "empty content")
}

func TestEditAndDeleteComment(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	c := f.comments.seed(models.Comment{PostID: primitive.NewObjectID(), AuthorID: "alice", Content: "typo"})

	_, err := f.thread.EditComment(ctx, "bob", c.ID.Hex(), models.UpdateCommentRequest{Content: "mine now"})
	assert.True(t, apperr.IsForbidden(err))

	edited, err := f.thread.EditComment(ctx, "alice", c.ID.Hex(), models.UpdateCommentRequest{Content: "fixed"})
	require.NoError(t, err)
	assert.Equal(t, "fixed", edited.Content)

	assert.True(t, apperr.IsForbidden(f.thread.DeleteComment(ctx, "bob", c.ID.Hex())))
	require.NoError(t, f.thread.DeleteComment(ctx, "alice", c.ID.Hex()))
	assert.True(t, apperr.IsNotFound(f.thread.DeleteComment(ctx, "alice", c.ID.Hex())))
}

func TestGetThread(t *testing.T) {
	alice := newUser("alice")
	f := newFixture(alice)
	ctx := context.Background()
	p := f.posts.seed(models.Post{AuthorID: alice.ID, Content: "post"})
	ghost := uuid.NewString()

	c1 := f.comments.seed(models.Comment{PostID: p.ID, AuthorID: alice.ID, Content: "C1", Likes: []string{"x"}})
	c2 := f.comments.seed(models.Comment{PostID: p.ID, AuthorID: ghost, Content: "C2", ParentCommentID: &c1.ID})
	c3 := f.comments.seed(models.Comment{PostID: p.ID, AuthorID: alice.ID, Content: "C3"})
	f.comments.seed(models.Comment{PostID: primitive.NewObjectID(), AuthorID: alice.ID, Content: "elsewhere"})

	roots, err := f.thread.GetThread(ctx, p.ID.Hex())
	require.NoError(t, err)
	require.Len(t, roots, 2)
	assert.Equal(t, c1.ID, roots[0].ID)
	assert.Equal(t, c3.ID, roots[1].ID)
	assert.Equal(t, 1, roots[0].LikeCount)
	require.Len(t, roots[0].Children, 1)

	reply := roots[0].Children[0]
	assert.Equal(t, c2.ID, reply.ID)
	require.NotNil(t, reply.Author)
	assert.Equal(t, models.DeletedUsername, reply.Author.Username)
	require.NotNil(t, roots[0].Author)
	assert.Equal(t, "alice", roots[0].Author.Username)
	assert.NotNil(t, reply.Likes)
}

func TestGetThread_MissingPost(t *testing.T) {
	f := newFixture()

	_, err := f.thread.GetThread(context.Background(), primitive.NewObjectID().Hex())
	assert.True(t, apperr.IsNotFound(err))
}
