package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/picshare/backend/src/controllers"
)

// PostRoutes sets up post-related routes for creating, listing, liking,
// commenting, deleting and bookmarking posts
func PostRoutes(app *fiber.App, pc *controllers.PostController, protect fiber.Handler) {
	posts := app.Group("/api/v1/posts", protect)

	posts.Post("/", pc.CreatePost)
	posts.Get("/", pc.GetAllPosts)
	posts.Get("/me", pc.GetMyPosts)
	posts.Put("/:id/like", pc.LikePost)
	posts.Put("/:id/dislike", pc.DislikePost)
	posts.Post("/:id/comments", pc.CreateComment)
	posts.Get("/:id/comments", pc.GetComments)
	posts.Delete("/:id", pc.DeletePost)
	posts.Put("/:id/save", pc.SavePost)
}
