package handler

import (
	"errors"

	"go-pos-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login handles POST /login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req service.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	response, err := h.authService.Login(&req)
	if err != nil {
		if handled, resp := validationFailed(c, err); handled {
			return resp
		}
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	return c.JSON(response)
}

// Register handles POST /register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req service.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if _, err := h.authService.Register(&req); err != nil {
		if handled, resp := validationFailed(c, err); handled {
			return resp
		}
		if errors.Is(err, service.ErrUsernameTaken) {
			return c.Status(422).JSON(fiber.Map{
				"success": false,
				"errors":  fiber.Map{"username": "has already been taken"},
			})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to register user: " + err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{"message": "User registered successfully"})
}
