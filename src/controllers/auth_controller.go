package controllers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/picshare/backend/src/lib"
	"github.com/picshare/backend/src/models"
	"github.com/picshare/backend/src/storage"
)

type AuthController struct {
	Store storage.Storage
}

func NewAuthController(store storage.Storage) *AuthController {
	return &AuthController{Store: store}
}

// Register handles user registration: validates input, checks for duplicates,
// hashes the password, creates the user and returns a JWT
func (ac *AuthController) Register(c *fiber.Ctx) error {
	var userData struct {
		Name     string `json:"name"`
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.BodyParser(&userData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.ErrorResponse("Invalid request body"))
	}

	if userData.Name == "" || userData.Username == "" || userData.Email == "" || userData.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(lib.ErrorResponse("All fields are required"))
	}

	if len(userData.Password) < 6 {
		return c.Status(fiber.StatusBadRequest).JSON(lib.ErrorResponse("Password must be at least 6 characters"))
	}

	if _, err := ac.Store.GetUserByEmail(c.Context(), userData.Email); err == nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.ErrorResponse("Email already exists"))
	}
	if _, err := ac.Store.GetUserByUsername(c.Context(), userData.Username); err == nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.ErrorResponse("Username already exists"))
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(userData.Password), 11)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(lib.ErrorResponse("Internal server error"))
	}

	newUser, err := ac.Store.CreateUser(c.Context(), models.User{
		Name:     userData.Name,
		Username: userData.Username,
		Email:    userData.Email,
		Password: string(hashedPassword),
	})
	if err != nil {
		log.Printf("Error creating user: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(lib.ErrorResponse("Failed to create user"))
	}

	token, err := lib.GenerateJWT(newUser.Id)
	if err != nil {
		log.Printf("Error generating token: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(lib.ErrorResponse("Failed to generate token"))
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "User registered successfully",
		"token":   token,
	})
}

// Login authenticates a user by username and password and returns a JWT
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var loginData struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := c.BodyParser(&loginData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.ErrorResponse("Invalid request body"))
	}

	if loginData.Username == "" || loginData.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(lib.ErrorResponse("Username and password are required"))
	}

	user, err := ac.Store.GetUserByUsername(c.Context(), loginData.Username)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return c.Status(fiber.StatusBadRequest).JSON(lib.ErrorResponse("Invalid credentials"))
		}
		log.Printf("Error fetching user: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(lib.ErrorResponse("Internal server error"))
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(loginData.Password)); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.ErrorResponse("Invalid credentials"))
	}

	token, err := lib.GenerateJWT(user.Id)
	if err != nil {
		log.Printf("Error generating token: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(lib.ErrorResponse("Internal server error"))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Login successful",
		"token":   token,
	})
}

// GetCurrentUser returns the authenticated user loaded by the middleware
func (ac *AuthController) GetCurrentUser(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(models.User)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(lib.ErrorResponse("Not authenticated"))
	}
	return c.JSON(fiber.Map{
		"success": true,
		"user":    user,
	})
}
