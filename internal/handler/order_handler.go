package handler

import (
	"errors"

	"go-pos-api/internal/repository"
	"go-pos-api/internal/service"
	"go-pos-api/pkg/pagination"

	"github.com/gofiber/fiber/v2"
)

type OrderHandler struct {
	service service.OrderService
}

func NewOrderHandler(s service.OrderService) *OrderHandler {
	return &OrderHandler{service: s}
}

// CreateOrder handles POST /orders
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	var req service.CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	order, err := h.service.Create(&req)
	if err != nil {
		if handled, resp := validationFailed(c, err); handled {
			return resp
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create order: " + err.Error()})
	}

	return c.Status(201).JSON(order)
}

// UpdateOrder handles PUT /orders/:id
func (h *OrderHandler) UpdateOrder(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	var req service.UpdateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	order, err := h.service.Update(id, &req)
	if err != nil {
		if handled, resp := validationFailed(c, err); handled {
			return resp
		}
		if errors.Is(err, service.ErrOrderNotFound) {
			return c.Status(404).JSON(fiber.Map{"success": false, "message": "Order not found."})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update order: " + err.Error()})
	}

	return c.JSON(order)
}

// DeleteOrder handles DELETE /orders/:id
func (h *OrderHandler) DeleteOrder(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	if err := h.service.Delete(id); err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			return c.Status(404).JSON(fiber.Map{"success": false, "message": "Order not found."})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete order: " + err.Error()})
	}

	return c.SendStatus(204)
}

// SettleOrder handles PUT /settle-orders/:orderId
func (h *OrderHandler) SettleOrder(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("orderId"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	var req service.SettleOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	order, err := h.service.Settle(id, &req)
	if err != nil {
		if handled, resp := validationFailed(c, err); handled {
			return resp
		}
		if errors.Is(err, service.ErrOrderNotFound) {
			return c.Status(404).JSON(fiber.Map{"success": false, "message": "Order not found."})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update order: " + err.Error()})
	}

	return c.JSON(order)
}

// CancelOrder handles PUT /cancel-orders/:orderId
func (h *OrderHandler) CancelOrder(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("orderId"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	var req service.CancelOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	order, err := h.service.Cancel(id, &req)
	if err != nil {
		if handled, resp := validationFailed(c, err); handled {
			return resp
		}
		if errors.Is(err, service.ErrOrderNotFound) {
			return c.Status(404).JSON(fiber.Map{"success": false, "message": "Order not found."})
		}
		if errors.Is(err, service.ErrOrderAlreadyDone) {
			return c.Status(409).JSON(fiber.Map{"success": false, "message": err.Error()})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to cancel order: " + err.Error()})
	}

	return c.JSON(order)
}

// ReturnItem handles PUT /return-item
func (h *OrderHandler) ReturnItem(c *fiber.Ctx) error {
	var req service.ReturnItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	result, err := h.service.ReturnItem(&req)
	if err != nil {
		if handled, resp := validationFailed(c, err); handled {
			return resp
		}
		if errors.Is(err, service.ErrOrderDetailNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Order detail not found"})
		}
		if errors.Is(err, service.ErrReturnExceedsSold) {
			return c.Status(422).JSON(fiber.Map{"success": false, "message": err.Error()})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to process the request: " + err.Error()})
	}

	return c.JSON(fiber.Map{"success": true, "message": result.Message})
}

// GetOrders handles GET /orders with the historical filters
func (h *OrderHandler) GetOrders(c *fiber.Ctx) error {
	page, perPage := pagination.Normalize(c.QueryInt("page", 1), c.QueryInt("per_page", 10), 10)

	orders, total, err := h.service.List(repository.OrderListQuery{
		CashierID: c.Query("cashier_id"),
		ShopID:    c.Query("shop_id"),
		Date:      c.Query("date"),
		Week:      c.Query("week"),
		Month:     c.Query("month"),
		Page:      page,
		PerPage:   perPage,
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}

	return c.JSON(pagination.New(orders, page, perPage, total))
}

// GetAllOrders handles GET /orders/all-orders
func (h *OrderHandler) GetAllOrders(c *fiber.Ctx) error {
	orders, err := h.service.ListAll(c.Query("cashier_id"), c.Query("shop_id"))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(orders)
}

// GetInProgressOrders handles GET /inprogress-orders
func (h *OrderHandler) GetInProgressOrders(c *fiber.Ctx) error {
	page, perPage := pagination.Normalize(c.QueryInt("page", 1), c.QueryInt("per_page", 20), 20)

	orders, total, err := h.service.ListInProgress(repository.InProgressQuery{
		ShopID:  c.Query("shop_id"),
		KotID:   c.Query("kot_id"),
		Page:    page,
		PerPage: perPage,
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}

	return c.JSON(pagination.New(orders, page, perPage, total))
}

// GetTodayOrders handles GET /today-orders: same filters as the listing,
// restricted to done orders, no pagination.
func (h *OrderHandler) GetTodayOrders(c *fiber.Ctx) error {
	orders, err := h.service.ListTodayDone(repository.OrderListQuery{
		CashierID: c.Query("cashier_id"),
		ShopID:    c.Query("shop_id"),
		Date:      c.Query("date"),
		Week:      c.Query("week"),
		Month:     c.Query("month"),
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(orders)
}

// GetOrderDetails handles GET /order-details
func (h *OrderHandler) GetOrderDetails(c *fiber.Ctx) error {
	details, err := h.service.SearchDetails(repository.OrderDetailQuery{
		ShopID:   c.Query("shop_id"),
		ItemCode: c.Query("item_id"),
		ItemName: c.Query("name"),
		OrderID:  c.Query("order_id"),
		Limit:    c.QueryInt("limit", 30),
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(details)
}
