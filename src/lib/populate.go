package lib

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/picshare/backend/src/models"
	"github.com/picshare/backend/src/storage"
)

// PopulatePosts resolves each post into a response DTO: the author reference
// becomes a user summary and the comment-id list becomes the post's comments,
// newest-first, each with its own author summary. One summary lookup serves
// the whole batch.
func PopulatePosts(ctx context.Context, store storage.Storage, posts []models.Post) ([]models.PostDto, error) {
	commentsByPost := make(map[primitive.ObjectID][]models.Comment, len(posts))
	authorIDs := []primitive.ObjectID{}
	seen := map[primitive.ObjectID]struct{}{}

	collect := func(id primitive.ObjectID) {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			authorIDs = append(authorIDs, id)
		}
	}

	for _, post := range posts {
		collect(post.Author)

		comments, err := store.GetCommentsByPost(ctx, post.Id)
		if err != nil {
			return nil, err
		}
		commentsByPost[post.Id] = comments
		for _, comment := range comments {
			collect(comment.Author)
		}
	}

	summaries, err := store.GetUserSummaries(ctx, authorIDs)
	if err != nil {
		return nil, err
	}

	dtos := make([]models.PostDto, 0, len(posts))
	for _, post := range posts {
		dtos = append(dtos, models.PostDto{
			ID:        post.Id,
			Author:    summaries[post.Author],
			Caption:   post.Caption,
			Image:     post.Image,
			Likes:     nonNilIDs(post.Likes),
			Comments:  commentDtos(commentsByPost[post.Id], summaries),
			CreatedAt: post.CreatedAt,
		})
	}
	return dtos, nil
}

// PopulateComments attaches author summaries to a list of comments.
func PopulateComments(ctx context.Context, store storage.Storage, comments []models.Comment) ([]models.CommentDto, error) {
	authorIDs := []primitive.ObjectID{}
	seen := map[primitive.ObjectID]struct{}{}
	for _, comment := range comments {
		if _, ok := seen[comment.Author]; !ok {
			seen[comment.Author] = struct{}{}
			authorIDs = append(authorIDs, comment.Author)
		}
	}

	summaries, err := store.GetUserSummaries(ctx, authorIDs)
	if err != nil {
		return nil, err
	}
	return commentDtos(comments, summaries), nil
}

func commentDtos(comments []models.Comment, summaries map[primitive.ObjectID]models.UserDto) []models.CommentDto {
	dtos := make([]models.CommentDto, 0, len(comments))
	for _, comment := range comments {
		dtos = append(dtos, models.CommentDto{
			ID:        comment.Id,
			Author:    summaries[comment.Author],
			Text:      comment.Text,
			CreatedAt: comment.CreatedAt,
		})
	}
	return dtos
}

func nonNilIDs(ids []primitive.ObjectID) []primitive.ObjectID {
	if ids == nil {
		return []primitive.ObjectID{}
	}
	return ids
}
