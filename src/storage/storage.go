package storage

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/picshare/backend/src/models"
)

var (
	ErrPostNotFound  = errors.New("post not found")
	ErrUserNotFound  = errors.New("user not found")
	ErrNotPostAuthor = errors.New("requester is not the post author")
)

// Storage is the persistence boundary for users, posts and comments.
// Multi-entity mutations (ownership backlinks, cascade delete, set-membership
// updates for likes and bookmarks) live behind this interface so handlers stay
// thin and tests can run against the in-memory implementation.
type Storage interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	GetUserByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
	GetUserByUsername(ctx context.Context, username string) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	// GetUserSummaries resolves user ids into author summaries for population.
	GetUserSummaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.UserDto, error)

	// CreatePost inserts the post and appends its id to the author's posts list.
	CreatePost(ctx context.Context, post models.Post) (models.Post, error)
	GetAllPosts(ctx context.Context) ([]models.Post, error)
	GetPostsByAuthor(ctx context.Context, author primitive.ObjectID) ([]models.Post, error)
	GetPostByID(ctx context.Context, id primitive.ObjectID) (models.Post, error)
	// DeletePost removes the post, all comments referencing it, and the id from
	// the author's posts list. Only the author may delete.
	DeletePost(ctx context.Context, id, requester primitive.ObjectID) error
	// AddLike is idempotent: liking an already-liked post changes nothing.
	AddLike(ctx context.Context, postID, userID primitive.ObjectID) error
	RemoveLike(ctx context.Context, postID, userID primitive.ObjectID) error

	// CreateComment inserts the comment and appends its id to the post's
	// comment list. Fails with ErrPostNotFound when the post does not exist.
	CreateComment(ctx context.Context, comment models.Comment) (models.Comment, error)
	// GetCommentsByPost returns the post's comments newest-first; an empty
	// slice, not an error, when there are none.
	GetCommentsByPost(ctx context.Context, postID primitive.ObjectID) ([]models.Comment, error)

	// ToggleBookmark flips the post's membership in the user's saved set and
	// reports whether the post is saved after the call.
	ToggleBookmark(ctx context.Context, userID, postID primitive.ObjectID) (bool, error)
}
