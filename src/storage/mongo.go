package storage

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/picshare/backend/src/models"
)

// MongoStorage implements Storage on top of the users, posts and comments
// collections. Set-valued fields (likes, saved) are mutated with $addToSet and
// $pull so concurrent toggles by different users cannot lose updates.
type MongoStorage struct {
	users    *mongo.Collection
	posts    *mongo.Collection
	comments *mongo.Collection
}

func NewMongoStorage(db *mongo.Database) *MongoStorage {
	return &MongoStorage{
		users:    db.Collection("users"),
		posts:    db.Collection("posts"),
		comments: db.Collection("comments"),
	}
}

func (s *MongoStorage) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	if user.Id.IsZero() {
		user.Id = primitive.NewObjectID()
	}
	if user.Posts == nil {
		user.Posts = []primitive.ObjectID{}
	}
	if user.Saved == nil {
		user.Saved = []primitive.ObjectID{}
	}

	if _, err := s.users.InsertOne(ctx, user); err != nil {
		return models.User{}, errors.Wrap(err, "insert user")
	}
	return user, nil
}

func (s *MongoStorage) GetUserByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var user models.User
	err := s.users.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return models.User{}, ErrUserNotFound
	}
	if err != nil {
		return models.User{}, errors.Wrap(err, "fetch user")
	}
	return user, nil
}

func (s *MongoStorage) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	var user models.User
	err := s.users.FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return models.User{}, ErrUserNotFound
	}
	if err != nil {
		return models.User{}, errors.Wrap(err, "fetch user by username")
	}
	return user, nil
}

func (s *MongoStorage) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return models.User{}, ErrUserNotFound
	}
	if err != nil {
		return models.User{}, errors.Wrap(err, "fetch user by email")
	}
	return user, nil
}

func (s *MongoStorage) GetUserSummaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.UserDto, error) {
	summaries := make(map[primitive.ObjectID]models.UserDto, len(ids))
	if len(ids) == 0 {
		return summaries, nil
	}

	projection := bson.M{
		"name":           1,
		"username":       1,
		"profilePicture": 1,
	}

	cursor, err := s.users.Find(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetProjection(projection),
	)
	if err != nil {
		return nil, errors.Wrap(err, "fetch user summaries")
	}
	defer cursor.Close(ctx)

	var users []models.UserDto
	if err := cursor.All(ctx, &users); err != nil {
		return nil, errors.Wrap(err, "decode user summaries")
	}

	for _, u := range users {
		summaries[u.ID] = u
	}
	return summaries, nil
}

func (s *MongoStorage) CreatePost(ctx context.Context, post models.Post) (models.Post, error) {
	if post.Id.IsZero() {
		post.Id = primitive.NewObjectID()
	}
	if post.Likes == nil {
		post.Likes = []primitive.ObjectID{}
	}
	if post.Comments == nil {
		post.Comments = []primitive.ObjectID{}
	}

	if _, err := s.posts.InsertOne(ctx, post); err != nil {
		return models.Post{}, errors.Wrap(err, "insert post")
	}

	// Backlink from the author to the new post. Not transactional: if this
	// fails the post exists without the backlink and the error is surfaced.
	res, err := s.users.UpdateByID(ctx, post.Author, bson.M{
		"$push": bson.M{"posts": post.Id},
	})
	if err != nil {
		return models.Post{}, errors.Wrap(err, "append post to author")
	}
	if res.MatchedCount == 0 {
		return models.Post{}, ErrUserNotFound
	}
	return post, nil
}

func (s *MongoStorage) GetAllPosts(ctx context.Context) ([]models.Post, error) {
	return s.findPosts(ctx, bson.M{})
}

func (s *MongoStorage) GetPostsByAuthor(ctx context.Context, author primitive.ObjectID) ([]models.Post, error) {
	return s.findPosts(ctx, bson.M{"author": author})
}

func (s *MongoStorage) findPosts(ctx context.Context, filter bson.M) ([]models.Post, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := s.posts.Find(ctx, filter, opts)
	if err != nil {
		return nil, errors.Wrap(err, "fetch posts")
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, errors.Wrap(err, "decode posts")
	}
	return posts, nil
}

func (s *MongoStorage) GetPostByID(ctx context.Context, id primitive.ObjectID) (models.Post, error) {
	var post models.Post
	err := s.posts.FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if err == mongo.ErrNoDocuments {
		return models.Post{}, ErrPostNotFound
	}
	if err != nil {
		return models.Post{}, errors.Wrap(err, "fetch post")
	}
	return post, nil
}

func (s *MongoStorage) DeletePost(ctx context.Context, id, requester primitive.ObjectID) error {
	post, err := s.GetPostByID(ctx, id)
	if err != nil {
		return err
	}
	if post.Author != requester {
		return ErrNotPostAuthor
	}

	if _, err := s.posts.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return errors.Wrap(err, "delete post")
	}
	if _, err := s.comments.DeleteMany(ctx, bson.M{"post": id}); err != nil {
		return errors.Wrap(err, "delete post comments")
	}
	if _, err := s.users.UpdateByID(ctx, post.Author, bson.M{
		"$pull": bson.M{"posts": id},
	}); err != nil {
		return errors.Wrap(err, "remove post from author")
	}
	return nil
}

func (s *MongoStorage) AddLike(ctx context.Context, postID, userID primitive.ObjectID) error {
	res, err := s.posts.UpdateOne(ctx, bson.M{"_id": postID}, bson.M{
		"$addToSet": bson.M{"likes": userID},
	})
	if err != nil {
		return errors.Wrap(err, "add like")
	}
	if res.MatchedCount == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (s *MongoStorage) RemoveLike(ctx context.Context, postID, userID primitive.ObjectID) error {
	res, err := s.posts.UpdateOne(ctx, bson.M{"_id": postID}, bson.M{
		"$pull": bson.M{"likes": userID},
	})
	if err != nil {
		return errors.Wrap(err, "remove like")
	}
	if res.MatchedCount == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (s *MongoStorage) CreateComment(ctx context.Context, comment models.Comment) (models.Comment, error) {
	if comment.Id.IsZero() {
		comment.Id = primitive.NewObjectID()
	}

	if _, err := s.comments.InsertOne(ctx, comment); err != nil {
		return models.Comment{}, errors.Wrap(err, "insert comment")
	}

	res, err := s.posts.UpdateOne(ctx, bson.M{"_id": comment.Post}, bson.M{
		"$push": bson.M{"comments": comment.Id},
	})
	if err != nil {
		return models.Comment{}, errors.Wrap(err, "append comment to post")
	}
	if res.MatchedCount == 0 {
		// No such post; remove the just-inserted comment so it cannot be
		// orphaned.
		_, _ = s.comments.DeleteOne(ctx, bson.M{"_id": comment.Id})
		return models.Comment{}, ErrPostNotFound
	}
	return comment, nil
}

func (s *MongoStorage) GetCommentsByPost(ctx context.Context, postID primitive.ObjectID) ([]models.Comment, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := s.comments.Find(ctx, bson.M{"post": postID}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "fetch comments")
	}
	defer cursor.Close(ctx)

	comments := []models.Comment{}
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, errors.Wrap(err, "decode comments")
	}
	return comments, nil
}

func (s *MongoStorage) ToggleBookmark(ctx context.Context, userID, postID primitive.ObjectID) (bool, error) {
	count, err := s.posts.CountDocuments(ctx, bson.M{"_id": postID})
	if err != nil {
		return false, errors.Wrap(err, "check post")
	}
	if count == 0 {
		return false, ErrPostNotFound
	}

	// $addToSet reports a modification only when the post was not yet saved;
	// otherwise flip the other way with $pull.
	res, err := s.users.UpdateByID(ctx, userID, bson.M{
		"$addToSet": bson.M{"saved": postID},
	})
	if err != nil {
		return false, errors.Wrap(err, "save post")
	}
	if res.MatchedCount == 0 {
		return false, ErrUserNotFound
	}
	if res.ModifiedCount == 1 {
		return true, nil
	}

	if _, err := s.users.UpdateByID(ctx, userID, bson.M{
		"$pull": bson.M{"saved": postID},
	}); err != nil {
		return false, errors.Wrap(err, "unsave post")
	}
	return false, nil
}
