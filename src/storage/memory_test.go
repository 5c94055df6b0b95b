package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/picshare/backend/src/models"
)

func seedUser(t *testing.T, store *MemoryStorage, username string) models.User {
	t.Helper()
	user, err := store.CreateUser(context.Background(), models.User{
		Name:     username,
		Username: username,
		Email:    username + "@example.com",
	})
	require.NoError(t, err)
	return user
}

func seedPost(t *testing.T, store *MemoryStorage, author models.User, createdAt time.Time) models.Post {
	t.Helper()
	post, err := store.CreatePost(context.Background(), models.Post{
		Author:    author.Id,
		Caption:   "caption",
		Image:     "https://cdn.example.com/image.jpg",
		CreatedAt: createdAt,
	})
	require.NoError(t, err)
	return post
}

func TestCreatePost_AppendsToAuthorPosts(t *testing.T) {
	store := NewMemoryStorage()
	user := seedUser(t, store, "alice")

	post := seedPost(t, store, user, time.Now())

	updated, err := store.GetUserByID(context.Background(), user.Id)
	assert.NoError(t, err)
	assert.Contains(t, updated.Posts, post.Id)
}

func TestCreatePost_UnknownAuthor(t *testing.T) {
	store := NewMemoryStorage()

	_, err := store.CreatePost(context.Background(), models.Post{
		Author: primitive.NewObjectID(),
		Image:  "https://cdn.example.com/image.jpg",
	})

	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetAllPosts_NewestFirst(t *testing.T) {
	store := NewMemoryStorage()
	user := seedUser(t, store, "alice")

	now := time.Now()
	older := seedPost(t, store, user, now.Add(-time.Hour))
	newer := seedPost(t, store, user, now)

	posts, err := store.GetAllPosts(context.Background())
	assert.NoError(t, err)
	assert.Len(t, posts, 2)
	assert.Equal(t, newer.Id, posts[0].Id)
	assert.Equal(t, older.Id, posts[1].Id)
}

func TestGetAllPosts_Empty(t *testing.T) {
	store := NewMemoryStorage()

	posts, err := store.GetAllPosts(context.Background())

	assert.NoError(t, err)
	assert.Empty(t, posts)
}

func TestGetPostsByAuthor_FiltersOtherAuthors(t *testing.T) {
	store := NewMemoryStorage()
	alice := seedUser(t, store, "alice")
	bob := seedUser(t, store, "bob")

	mine := seedPost(t, store, alice, time.Now())
	seedPost(t, store, bob, time.Now())

	posts, err := store.GetPostsByAuthor(context.Background(), alice.Id)
	assert.NoError(t, err)
	assert.Len(t, posts, 1)
	assert.Equal(t, mine.Id, posts[0].Id)
}

func TestAddLike_Idempotent(t *testing.T) {
	store := NewMemoryStorage()
	user := seedUser(t, store, "alice")
	post := seedPost(t, store, user, time.Now())

	assert.NoError(t, store.AddLike(context.Background(), post.Id, user.Id))
	assert.NoError(t, store.AddLike(context.Background(), post.Id, user.Id))

	// Liking twice leaves the set size unchanged
	updated, err := store.GetPostByID(context.Background(), post.Id)
	assert.NoError(t, err)
	assert.Len(t, updated.Likes, 1)
}

func TestRemoveLike_NeverLiked(t *testing.T) {
	store := NewMemoryStorage()
	alice := seedUser(t, store, "alice")
	bob := seedUser(t, store, "bob")
	post := seedPost(t, store, alice, time.Now())

	require.NoError(t, store.AddLike(context.Background(), post.Id, alice.Id))
	assert.NoError(t, store.RemoveLike(context.Background(), post.Id, bob.Id))

	updated, err := store.GetPostByID(context.Background(), post.Id)
	assert.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{alice.Id}, updated.Likes)
}

func TestAddLike_PostMissing(t *testing.T) {
	store := NewMemoryStorage()
	user := seedUser(t, store, "alice")

	err := store.AddLike(context.Background(), primitive.NewObjectID(), user.Id)

	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestCreateComment_MissingPost(t *testing.T) {
	store := NewMemoryStorage()
	user := seedUser(t, store, "alice")

	comment, err := store.CreateComment(context.Background(), models.Comment{
		Post:      primitive.NewObjectID(),
		Author:    user.Id,
		Text:      "hello",
		CreatedAt: time.Now(),
	})

	assert.ErrorIs(t, err, ErrPostNotFound)
	assert.True(t, comment.Id.IsZero())
}

func TestCreateComment_AppendsToPost(t *testing.T) {
	store := NewMemoryStorage()
	user := seedUser(t, store, "alice")
	post := seedPost(t, store, user, time.Now())

	comment, err := store.CreateComment(context.Background(), models.Comment{
		Post:      post.Id,
		Author:    user.Id,
		Text:      "hello",
		CreatedAt: time.Now(),
	})
	assert.NoError(t, err)
	assert.False(t, comment.Id.IsZero())

	updated, err := store.GetPostByID(context.Background(), post.Id)
	assert.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{comment.Id}, updated.Comments)
}

func TestGetCommentsByPost_NewestFirst(t *testing.T) {
	store := NewMemoryStorage()
	user := seedUser(t, store, "alice")
	post := seedPost(t, store, user, time.Now())

	now := time.Now()
	older, err := store.CreateComment(context.Background(), models.Comment{
		Post: post.Id, Author: user.Id, Text: "first", CreatedAt: now.Add(-time.Minute),
	})
	require.NoError(t, err)
	newer, err := store.CreateComment(context.Background(), models.Comment{
		Post: post.Id, Author: user.Id, Text: "second", CreatedAt: now,
	})
	require.NoError(t, err)

	comments, err := store.GetCommentsByPost(context.Background(), post.Id)
	assert.NoError(t, err)
	assert.Len(t, comments, 2)
	assert.Equal(t, newer.Id, comments[0].Id)
	assert.Equal(t, older.Id, comments[1].Id)
}

func TestGetCommentsByPost_Empty(t *testing.T) {
	store := NewMemoryStorage()
	user := seedUser(t, store, "alice")
	post := seedPost(t, store, user, time.Now())

	comments, err := store.GetCommentsByPost(context.Background(), post.Id)

	// Empty list, not an error
	assert.NoError(t, err)
	assert.Empty(t, comments)
}

func TestDeletePost_NotAuthor(t *testing.T) {
	store := NewMemoryStorage()
	alice := seedUser(t, store, "alice")
	bob := seedUser(t, store, "bob")
	post := seedPost(t, store, alice, time.Now())

	_, err := store.CreateComment(context.Background(), models.Comment{
		Post: post.Id, Author: bob.Id, Text: "hi", CreatedAt: time.Now(),
	})
	require.NoError(t, err)

	err = store.DeletePost(context.Background(), post.Id, bob.Id)
	assert.ErrorIs(t, err, ErrNotPostAuthor)

	// Post and its comments are intact
	_, err = store.GetPostByID(context.Background(), post.Id)
	assert.NoError(t, err)
	comments, err := store.GetCommentsByPost(context.Background(), post.Id)
	assert.NoError(t, err)
	assert.Len(t, comments, 1)
}

func TestDeletePost_Cascades(t *testing.T) {
	store := NewMemoryStorage()
	alice := seedUser(t, store, "alice")
	post := seedPost(t, store, alice, time.Now())

	_, err := store.CreateComment(context.Background(), models.Comment{
		Post: post.Id, Author: alice.Id, Text: "hi", CreatedAt: time.Now(),
	})
	require.NoError(t, err)

	assert.NoError(t, store.DeletePost(context.Background(), post.Id, alice.Id))

	_, err = store.GetPostByID(context.Background(), post.Id)
	assert.ErrorIs(t, err, ErrPostNotFound)

	comments, err := store.GetCommentsByPost(context.Background(), post.Id)
	assert.NoError(t, err)
	assert.Empty(t, comments)

	updated, err := store.GetUserByID(context.Background(), alice.Id)
	assert.NoError(t, err)
	assert.NotContains(t, updated.Posts, post.Id)
}

func TestDeletePost_NotFound(t *testing.T) {
	store := NewMemoryStorage()
	alice := seedUser(t, store, "alice")

	err := store.DeletePost(context.Background(), primitive.NewObjectID(), alice.Id)

	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestToggleBookmark_Flips(t *testing.T) {
	store := NewMemoryStorage()
	alice := seedUser(t, store, "alice")
	post := seedPost(t, store, alice, time.Now())

	saved, err := store.ToggleBookmark(context.Background(), alice.Id, post.Id)
	assert.NoError(t, err)
	assert.True(t, saved)

	saved, err = store.ToggleBookmark(context.Background(), alice.Id, post.Id)
	assert.NoError(t, err)
	assert.False(t, saved)

	updated, err := store.GetUserByID(context.Background(), alice.Id)
	assert.NoError(t, err)
	assert.Empty(t, updated.Saved)
}

func TestToggleBookmark_PostMissing(t *testing.T) {
	store := NewMemoryStorage()
	alice := seedUser(t, store, "alice")

	_, err := store.ToggleBookmark(context.Background(), alice.Id, primitive.NewObjectID())

	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestGetUserSummaries_SkipsUnknownIDs(t *testing.T) {
	store := NewMemoryStorage()
	alice := seedUser(t, store, "alice")

	summaries, err := store.GetUserSummaries(context.Background(), []primitive.ObjectID{
		alice.Id, primitive.NewObjectID(),
	})

	assert.NoError(t, err)
	assert.Len(t, summaries, 1)
	assert.Equal(t, "alice", summaries[alice.Id].Username)
}
