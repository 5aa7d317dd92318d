package handler

import (
	"errors"

	"go-pos-api/internal/model"
	"go-pos-api/internal/repository"
	"go-pos-api/pkg/validator"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ShopHandler works straight off the repository; shops carry no business
// logic beyond CRUD.
type ShopHandler struct {
	repo repository.ShopRepository
}

func NewShopHandler(repo repository.ShopRepository) *ShopHandler {
	return &ShopHandler{repo: repo}
}

// GetShops handles GET /shops
func (h *ShopHandler) GetShops(c *fiber.Ctx) error {
	shops, err := h.repo.FindAll(c.Query("name"), c.Query("branch"))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(shops)
}

// CreateShop handles POST /shops
func (h *ShopHandler) CreateShop(c *fiber.Ctx) error {
	var shop model.Shop
	if err := c.BodyParser(&shop); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if errs := validator.ValidateStruct(&shop); len(errs) > 0 {
		return c.Status(422).JSON(fiber.Map{"success": false, "errors": validator.Fields(errs)})
	}

	if err := h.repo.Create(&shop); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create shop: " + err.Error()})
	}
	return c.Status(201).JSON(shop)
}

// GetShop handles GET /shops/:id
func (h *ShopHandler) GetShop(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid shop ID"})
	}

	shop, err := h.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Shop not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(shop)
}

// UpdateShop handles PUT /shops/:id
func (h *ShopHandler) UpdateShop(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid shop ID"})
	}

	shop, err := h.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Shop not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}

	var req model.Shop
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if errs := validator.ValidateStruct(&req); len(errs) > 0 {
		return c.Status(422).JSON(fiber.Map{"success": false, "errors": validator.Fields(errs)})
	}

	shop.Name = req.Name
	shop.Branch = req.Branch
	if err := h.repo.Update(shop); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update shop: " + err.Error()})
	}
	return c.JSON(shop)
}

// DeleteShop handles DELETE /shops/:id; items, users and orders cascade.
func (h *ShopHandler) DeleteShop(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid shop ID"})
	}

	if _, err := h.repo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Shop not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}

	if err := h.repo.Delete(id); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete shop: " + err.Error()})
	}
	return c.SendStatus(204)
}
