package storage

import (
	"context"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/picshare/backend/src/models"
)

// MemoryStorage is a map-backed Storage used in tests. It mirrors the Mongo
// implementation's semantics, including set behavior for likes and bookmarks.
type MemoryStorage struct {
	mu       sync.RWMutex
	users    map[primitive.ObjectID]models.User
	posts    map[primitive.ObjectID]models.Post
	comments map[primitive.ObjectID]models.Comment
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		users:    make(map[primitive.ObjectID]models.User),
		posts:    make(map[primitive.ObjectID]models.Post),
		comments: make(map[primitive.ObjectID]models.Comment),
	}
}

func (s *MemoryStorage) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user.Id.IsZero() {
		user.Id = primitive.NewObjectID()
	}
	if user.Posts == nil {
		user.Posts = []primitive.ObjectID{}
	}
	if user.Saved == nil {
		user.Saved = []primitive.ObjectID{}
	}
	s.users[user.Id] = user
	return user, nil
}

func (s *MemoryStorage) GetUserByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return models.User{}, ErrUserNotFound
	}
	return user, nil
}

func (s *MemoryStorage) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Username == username {
			return user, nil
		}
	}
	return models.User{}, ErrUserNotFound
}

func (s *MemoryStorage) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, ErrUserNotFound
}

func (s *MemoryStorage) GetUserSummaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.UserDto, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summaries := make(map[primitive.ObjectID]models.UserDto, len(ids))
	for _, id := range ids {
		if user, ok := s.users[id]; ok {
			summaries[id] = models.UserDto{
				ID:             user.Id,
				Name:           user.Name,
				Username:       user.Username,
				ProfilePicture: user.ProfilePicture,
			}
		}
	}
	return summaries, nil
}

func (s *MemoryStorage) CreatePost(ctx context.Context, post models.Post) (models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	author, ok := s.users[post.Author]
	if !ok {
		return models.Post{}, ErrUserNotFound
	}

	if post.Id.IsZero() {
		post.Id = primitive.NewObjectID()
	}
	if post.Likes == nil {
		post.Likes = []primitive.ObjectID{}
	}
	if post.Comments == nil {
		post.Comments = []primitive.ObjectID{}
	}
	s.posts[post.Id] = post

	author.Posts = append(author.Posts, post.Id)
	s.users[author.Id] = author
	return post, nil
}

func (s *MemoryStorage) GetAllPosts(ctx context.Context) ([]models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	posts := make([]models.Post, 0, len(s.posts))
	for _, post := range s.posts {
		posts = append(posts, post)
	}
	sortPostsNewestFirst(posts)
	return posts, nil
}

func (s *MemoryStorage) GetPostsByAuthor(ctx context.Context, author primitive.ObjectID) ([]models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	posts := []models.Post{}
	for _, post := range s.posts {
		if post.Author == author {
			posts = append(posts, post)
		}
	}
	sortPostsNewestFirst(posts)
	return posts, nil
}

func (s *MemoryStorage) GetPostByID(ctx context.Context, id primitive.ObjectID) (models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	post, ok := s.posts[id]
	if !ok {
		return models.Post{}, ErrPostNotFound
	}
	return post, nil
}

func (s *MemoryStorage) DeletePost(ctx context.Context, id, requester primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[id]
	if !ok {
		return ErrPostNotFound
	}
	if post.Author != requester {
		return ErrNotPostAuthor
	}

	delete(s.posts, id)
	for commentID, comment := range s.comments {
		if comment.Post == id {
			delete(s.comments, commentID)
		}
	}
	if author, ok := s.users[post.Author]; ok {
		author.Posts = removeID(author.Posts, id)
		s.users[author.Id] = author
	}
	return nil
}

func (s *MemoryStorage) AddLike(ctx context.Context, postID, userID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[postID]
	if !ok {
		return ErrPostNotFound
	}
	if !containsID(post.Likes, userID) {
		post.Likes = append(post.Likes, userID)
		s.posts[postID] = post
	}
	return nil
}

func (s *MemoryStorage) RemoveLike(ctx context.Context, postID, userID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[postID]
	if !ok {
		return ErrPostNotFound
	}
	post.Likes = removeID(post.Likes, userID)
	s.posts[postID] = post
	return nil
}

func (s *MemoryStorage) CreateComment(ctx context.Context, comment models.Comment) (models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[comment.Post]
	if !ok {
		return models.Comment{}, ErrPostNotFound
	}

	if comment.Id.IsZero() {
		comment.Id = primitive.NewObjectID()
	}
	s.comments[comment.Id] = comment

	post.Comments = append(post.Comments, comment.Id)
	s.posts[post.Id] = post
	return comment, nil
}

func (s *MemoryStorage) GetCommentsByPost(ctx context.Context, postID primitive.ObjectID) ([]models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	comments := []models.Comment{}
	for _, comment := range s.comments {
		if comment.Post == postID {
			comments = append(comments, comment)
		}
	}
	sort.Slice(comments, func(i, j int) bool {
		return comments[i].CreatedAt.After(comments[j].CreatedAt)
	})
	return comments, nil
}

func (s *MemoryStorage) ToggleBookmark(ctx context.Context, userID, postID primitive.ObjectID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[postID]; !ok {
		return false, ErrPostNotFound
	}
	user, ok := s.users[userID]
	if !ok {
		return false, ErrUserNotFound
	}

	if containsID(user.Saved, postID) {
		user.Saved = removeID(user.Saved, postID)
		s.users[userID] = user
		return false, nil
	}
	user.Saved = append(user.Saved, postID)
	s.users[userID] = user
	return true, nil
}

func sortPostsNewestFirst(posts []models.Post) {
	sort.Slice(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, existing := range ids {
		if existing == id {
			return true
		}
	}
	return false
}

func removeID(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	filtered := ids[:0]
	for _, existing := range ids {
		if existing != id {
			filtered = append(filtered, existing)
		}
	}
	return filtered
}
