package main

import (
	"fmt"
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"github.com/picshare/backend/src/controllers"
	"github.com/picshare/backend/src/lib"
	"github.com/picshare/backend/src/media"
	"github.com/picshare/backend/src/middleware"
	"github.com/picshare/backend/src/routes"
	"github.com/picshare/backend/src/storage"
)

func main() {
	app := fiber.New(fiber.Config{
		BodyLimit: media.MaxUploadSizeBytes + 1024*1024,
	})

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:5173"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(logger.New())

	db := lib.ConnectDB()
	store := storage.NewMongoStorage(db)

	uploader, err := media.NewCloudinaryUploader(os.Getenv("CLOUDINARY_URL"), "posts")
	if err != nil {
		log.Fatalf("Failed to configure Cloudinary: %v", err)
	}
	mediaService := media.NewService(uploader)

	protect := middleware.ProtectRoute(store)
	routes.AuthRoutes(app, controllers.NewAuthController(store), protect)
	routes.PostRoutes(app, controllers.NewPostController(store, mediaService), protect)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	fmt.Println("Server is running on http://localhost:" + port)
	app.Listen(":" + port)
}
