package main

import (
	"os"
	"os/signal"
	"syscall"

	"go-pos-api/internal/handler"
	"go-pos-api/internal/middleware"
	"go-pos-api/internal/model"
	"go-pos-api/internal/repository"
	"go-pos-api/internal/service"
	"go-pos-api/internal/ws"
	"go-pos-api/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Warn(".env file not found, relying on system env")
	}

	// 2. Setup Database
	db := database.ConnectDB()
	// Auto Migrate (prefer a separate migration tool in production)
	if err := db.AutoMigrate(
		&model.Shop{}, &model.User{}, &model.Item{},
		&model.Order{}, &model.OrderDetail{},
	); err != nil {
		log.WithError(err).Fatal("auto migration failed")
	}

	// 3. Setup WebSocket Hub (kitchen displays subscribe here)
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 4. Dependency Injection (wiring layers)
	shopRepo := repository.NewShopRepo(db, log)
	itemRepo := repository.NewItemRepo(db, log)
	userRepo := repository.NewUserRepo(db)
	orderRepo := repository.NewOrderRepo(db, log)

	orderService := service.NewOrderService(orderRepo, itemRepo, userRepo, shopRepo, db, wsHub, log)
	itemService := service.NewItemService(itemRepo, shopRepo, wsHub)
	authService := service.NewAuthService(userRepo, shopRepo)

	orderHandler := handler.NewOrderHandler(orderService)
	itemHandler := handler.NewItemHandler(itemService)
	shopHandler := handler.NewShopHandler(shopRepo)
	authHandler := handler.NewAuthHandler(authService)

	// 5. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "POS API v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Request logging
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 6. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	api.Post("/login", authHandler.Login)
	api.Post("/register", authHandler.Register)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(userRepo))

	// Shops
	protected.Get("/shops", shopHandler.GetShops)
	protected.Post("/shops", shopHandler.CreateShop)
	protected.Get("/shops/:id", shopHandler.GetShop)
	protected.Put("/shops/:id", shopHandler.UpdateShop)
	protected.Delete("/shops/:id", shopHandler.DeleteShop)

	// Items (static paths before :id)
	protected.Get("/items/filter", itemHandler.SearchItems)
	protected.Get("/items/all-items", itemHandler.GetAllItems)
	protected.Get("/items", itemHandler.GetItems)
	protected.Post("/items", itemHandler.CreateItem)
	protected.Get("/items/:id", itemHandler.GetItem)
	protected.Put("/items/:id", itemHandler.UpdateItem)
	protected.Delete("/items/:id", itemHandler.DeleteItem)

	// Orders
	protected.Get("/orders/all-orders", orderHandler.GetAllOrders)
	protected.Get("/orders", orderHandler.GetOrders)
	protected.Post("/orders", orderHandler.CreateOrder)
	protected.Put("/orders/:id", orderHandler.UpdateOrder)
	protected.Delete("/orders/:id", orderHandler.DeleteOrder)

	// Order lifecycle
	protected.Get("/order-details", orderHandler.GetOrderDetails)
	protected.Put("/return-item", orderHandler.ReturnItem)
	protected.Get("/inprogress-orders", orderHandler.GetInProgressOrders)
	protected.Put("/settle-orders/:orderId", orderHandler.SettleOrder)
	protected.Put("/cancel-orders/:orderId", orderHandler.CancelOrder)
	protected.Get("/today-orders", orderHandler.GetTodayOrders)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 7. Graceful Shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.WithError(err).Panic("server stopped")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.WithError(err).Fatal("Server forced to shutdown")
	}

	log.Info("Server exited")
}
