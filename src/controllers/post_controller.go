package controllers

import (
	"errors"
	"io"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/picshare/backend/src/lib"
	"github.com/picshare/backend/src/media"
	"github.com/picshare/backend/src/models"
	"github.com/picshare/backend/src/storage"
)

type PostController struct {
	Store storage.Storage
	Media *media.Service
}

func NewPostController(store storage.Storage, mediaService *media.Service) *PostController {
	return &PostController{Store: store, Media: mediaService}
}

// CreatePost creates a post for the authenticated user. The image is required
// and goes through the media pipeline before anything is persisted.
func (pc *PostController) CreatePost(c *fiber.Ctx) error {
	user := c.Locals("user").(models.User)

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.ErrorResponse("Image is required"))
	}
	if fileHeader.Size > media.MaxUploadSizeBytes {
		return c.Status(fiber.StatusBadRequest).JSON(lib.ErrorResponse("Image is too large"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Printf("Error opening uploaded file: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(lib.ErrorResponse("Failed to read image"))
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		log.Printf("Error reading uploaded file: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(lib.ErrorResponse("Failed to read image"))
	}

	imageURL, err := pc.Media.Ingest(c.Context(), raw)
	if err != nil {
		if errors.Is(err, media.ErrNoImage) {
			return c.Status(fiber.StatusBadRequest).JSON(lib.ErrorResponse("Image is required"))
		}
		log.Printf("Error ingesting image: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(lib.ErrorResponse("Failed to upload image"))
	}

	newPost := models.Post{
		Id:        primitive.NewObjectID(),
		Author:    user.Id,
		Caption:   c.FormValue("caption"),
		Image:     imageURL,
		Likes:     []primitive.ObjectID{},
		Comments:  []primitive.ObjectID{},
		CreatedAt: time.Now(),
	}

	created, err := pc.Store.CreatePost(c.Context(), newPost)
	if err != nil {
		log.Printf("Error creating post: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(lib.ErrorResponse("Failed to create post"))
	}

	populated, err := lib.PopulatePosts(c.Context(), pc.Store, []models.Post{created})
	if err != nil {
		log.Printf("Error populating post: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(lib.ErrorResponse("Failed to load post details"))
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Post created successfully",
		"post":    populated[0],
	})
}

// GetAllPosts returns every post newest-first with populated authors and comments
func (pc *PostController) GetAllPosts(c *fiber.Ctx) error {
	posts, err := pc.Store.GetAllPosts(c.Context())
	if err != nil {
		log.Printf("Error fetching posts: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(lib.ErrorResponse("Failed to fetch posts"))
	}

	populated, err := lib.PopulatePosts(c.Context(), pc.Store, posts)
	if err != nil {
		log.Printf("Error populating posts: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(lib.ErrorResponse("Failed to load post details"))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"posts":   populated,
	})
}

// GetMyPosts returns the authenticated user's posts, same shape as GetAllPosts
func (pc *PostController) GetMyPosts(c *fiber.Ctx) error {
	user := c.Locals("user").(models.User)

	posts, err := pc.Store.GetPostsByAuthor(c.Context(), user.Id)
	if err != nil {
		log.Printf("Error fetching posts: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(lib.ErrorResponse("Failed to fetch posts"))
	}

	populated, err := lib.PopulatePosts(c.Context(), pc.Store, posts)
	if err != nil {
		log.Printf("Error populating posts: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(lib.ErrorResponse("Failed to load post details"))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"posts":   populated,
	})
}

// LikePost adds the authenticated user to the post's likes set. Liking an
// already-liked post is a no-op.
func (pc *PostController) LikePost(c *fiber.Ctx) error {
	user := c.Locals("user").(models.User)

	postID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.ErrorResponse("Invalid post ID"))
	}

	if err := pc.Store.AddLike(c.Context(), postID, user.Id); err != nil {
		return pc.storageError(c, err, "Failed to like post")
	}

	return c.JSON(lib.SuccessResponse("Post liked"))
}

// DislikePost removes the authenticated user from the post's likes set
func (pc *PostController) DislikePost(c *fiber.Ctx) error {
	user := c.Locals("user").(models.User)

	postID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.ErrorResponse("Invalid post ID"))
	}

	if err := pc.Store.RemoveLike(c.Context(), postID, user.Id); err != nil {
		return pc.storageError(c, err, "Failed to dislike post")
	}

	return c.JSON(lib.SuccessResponse("Post disliked"))
}

// CreateComment adds a comment to a post by its ID
func (pc *PostController) CreateComment(c *fiber.Ctx) error {
	user := c.Locals("user").(models.User)

	postID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.ErrorResponse("Invalid post ID"))
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.ErrorResponse("Invalid request body"))
	}

	if strings.TrimSpace(req.Text) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(lib.ErrorResponse("Comment text is required"))
	}

	created, err := pc.Store.CreateComment(c.Context(), models.Comment{
		Id:        primitive.NewObjectID(),
		Post:      postID,
		Author:    user.Id,
		Text:      req.Text,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return pc.storageError(c, err, "Failed to add comment")
	}

	populated, err := lib.PopulateComments(c.Context(), pc.Store, []models.Comment{created})
	if err != nil {
		log.Printf("Error populating comment: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(lib.ErrorResponse("Failed to load comment details"))
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Comment added",
		"comment": populated[0],
	})
}

// GetComments returns a post's comments newest-first with author summaries.
// A post with no comments yields an empty list, not an error.
func (pc *PostController) GetComments(c *fiber.Ctx) error {
	postID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.ErrorResponse("Invalid post ID"))
	}

	comments, err := pc.Store.GetCommentsByPost(c.Context(), postID)
	if err != nil {
		log.Printf("Error fetching comments: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(lib.ErrorResponse("Failed to fetch comments"))
	}

	populated, err := lib.PopulateComments(c.Context(), pc.Store, comments)
	if err != nil {
		log.Printf("Error populating comments: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(lib.ErrorResponse("Failed to load comment details"))
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"comments": populated,
	})
}

// DeletePost deletes a post by ID if the authenticated user is the author,
// cascading to its comments and the author's posts list
func (pc *PostController) DeletePost(c *fiber.Ctx) error {
	user := c.Locals("user").(models.User)

	postID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.ErrorResponse("Invalid post ID"))
	}

	if err := pc.Store.DeletePost(c.Context(), postID, user.Id); err != nil {
		if errors.Is(err, storage.ErrNotPostAuthor) {
			return c.Status(fiber.StatusForbidden).JSON(lib.ErrorResponse("You are not authorized to delete this post"))
		}
		return pc.storageError(c, err, "Failed to delete post")
	}

	return c.JSON(lib.SuccessResponse("Post deleted successfully"))
}

// SavePost toggles the post in the authenticated user's bookmarks
func (pc *PostController) SavePost(c *fiber.Ctx) error {
	user := c.Locals("user").(models.User)

	postID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.ErrorResponse("Invalid post ID"))
	}

	saved, err := pc.Store.ToggleBookmark(c.Context(), user.Id, postID)
	if err != nil {
		return pc.storageError(c, err, "Failed to save post")
	}

	resultType := "unsaved"
	if saved {
		resultType = "saved"
	}

	return c.JSON(fiber.Map{
		"success": true,
		"type":    resultType,
		"message": "Post " + resultType,
	})
}

func (pc *PostController) storageError(c *fiber.Ctx, err error, fallback string) error {
	if errors.Is(err, storage.ErrPostNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(lib.ErrorResponse("Post not found"))
	}
	log.Printf("%s: %v", fallback, err)
	return c.Status(fiber.StatusInternalServerError).JSON(lib.ErrorResponse(fallback))
}
