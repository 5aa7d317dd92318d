package handler

import (
	"errors"

	"go-pos-api/internal/model"
	"go-pos-api/internal/repository"
	"go-pos-api/internal/service"
	"go-pos-api/pkg/pagination"

	"github.com/gofiber/fiber/v2"
)

type ItemHandler struct {
	service service.ItemService
}

func NewItemHandler(s service.ItemService) *ItemHandler {
	return &ItemHandler{service: s}
}

// GetItems handles GET /items (paginated, filtered)
func (h *ItemHandler) GetItems(c *fiber.Ctx) error {
	page, perPage := pagination.Normalize(c.QueryInt("page", 1), c.QueryInt("per_page", 10), 10)

	items, total, err := h.service.ListPage(repository.ItemListQuery{
		Name:    c.Query("name"),
		Type:    c.Query("type"),
		Code:    c.Query("item_id"),
		ShopID:  c.Query("shop_id"),
		Page:    page,
		PerPage: perPage,
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}

	return c.JSON(pagination.New(items, page, perPage, total))
}

// SearchItems handles GET /items/filter: a capped, unpaginated lookup for the
// register screen. An unknown type yields an empty array, not an error.
func (h *ItemHandler) SearchItems(c *fiber.Ctx) error {
	items, err := h.service.Search(repository.ItemSearchQuery{
		Name:   c.Query("name"),
		Type:   c.Query("type"),
		Code:   c.Query("item_id"),
		ShopID: c.Query("shop_id"),
		Limit:  c.QueryInt("limit", 20),
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(items)
}

// GetAllItems handles GET /items/all-items
func (h *ItemHandler) GetAllItems(c *fiber.Ctx) error {
	items, err := h.service.ListAll(
		c.Query("name"),
		c.Query("item_id"),
		c.Query("type"),
		c.Query("shop_id"),
	)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(items)
}

// CreateItem handles POST /items
func (h *ItemHandler) CreateItem(c *fiber.Ctx) error {
	var item model.Item
	if err := c.BodyParser(&item); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	created, err := h.service.Create(&item)
	if err != nil {
		if handled, resp := validationFailed(c, err); handled {
			return resp
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create item: " + err.Error()})
	}

	return c.Status(201).JSON(created)
}

// GetItem handles GET /items/:id
func (h *ItemHandler) GetItem(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid item ID"})
	}

	item, err := h.service.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Item not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(item)
}

// UpdateItem handles PUT /items/:id
func (h *ItemHandler) UpdateItem(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid item ID"})
	}

	var item model.Item
	if err := c.BodyParser(&item); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	updated, err := h.service.Update(id, &item)
	if err != nil {
		if handled, resp := validationFailed(c, err); handled {
			return resp
		}
		if errors.Is(err, service.ErrItemNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Item not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update item: " + err.Error()})
	}
	return c.JSON(updated)
}

// DeleteItem handles DELETE /items/:id
func (h *ItemHandler) DeleteItem(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid item ID"})
	}

	if err := h.service.Delete(id); err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Item not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete item: " + err.Error()})
	}
	return c.SendStatus(204)
}
