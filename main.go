package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopspring/decimal"
	"github.com/streadway/amqp"

	"storefront/internal/app"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/models"
	"storefront/internal/services"
	"storefront/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// --- Database ---
	db, err := database.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}

	// --- Initialize RabbitMQ Client ---
	// The storefront keeps selling without a broker; events are skipped.
	var publisher services.OrderEventPublisher
	mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
	if err != nil {
		log.Printf("Warning: RabbitMQ unavailable, order events disabled: %v", err)
	} else {
		defer mqClient.Close()
		publisher = mqClient
	}

	storefront, err := app.New(cfg, db, publisher)
	if err != nil {
		log.Fatalf("Failed to create app: %v", err)
	}

	if cfg.SeedProducts {
		seedCatalog(storefront.Products)
	}
	if cfg.StaffUsername != "" {
		ensureStaff(storefront.Auth, cfg)
	}

	// --- Start RabbitMQ Consumer in a Goroutine ---
	if mqClient != nil {
		go func() {
			log.Println("Starting RabbitMQ consumer for orders...")
			if err := mqClient.ConsumeOrderEvents(handleOrderEvent); err != nil {
				log.Printf("Failed to start RabbitMQ consumer: %v", err)
			}
		}()
	}

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", cfg.AppPort)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := storefront.Fiber.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	<-quit
	log.Println("Shutting down server...")

	if err := storefront.Fiber.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}

	log.Println("Server gracefully stopped")
}

// handleOrderEvent logs placed orders for fulfilment. A malformed message is
// rejected and not redelivered.
func handleOrderEvent(msg amqp.Delivery) error {
	event, err := services.DecodeOrderCreated(msg.Body)
	if err != nil {
		return err
	}
	mode := "pickup"
	if event.RequiresDelivery {
		mode = "delivery"
	}
	log.Printf("Received order %s of user %s: %d items, total %s, %s", event.OrderID, event.UserID, len(event.Items), event.Total, mode)
	return nil
}

// defaultCatalog is inserted into an empty database at startup.
func defaultCatalog() []models.Product {
	return []models.Product{
		{Name: "Laptop", Description: "High performance laptop", Price: decimal.RequireFromString("1200.00"), Discount: decimal.RequireFromString("10"), Quantity: 10},
		{Name: "Keyboard", Description: "Mechanical keyboard", Price: decimal.RequireFromString("75.00"), Quantity: 25},
		{Name: "Mouse", Description: "Ergonomic wireless mouse", Price: decimal.RequireFromString("25.00"), Quantity: 50},
		{Name: "Monitor", Description: "27 inch IPS monitor", Price: decimal.RequireFromString("300.00"), Discount: decimal.RequireFromString("5"), Quantity: 8},
	}
}

// ensureStaff creates the configured staff account on first start. Staff is
// the only role that may edit the catalog or change order status.
func ensureStaff(auth *services.AuthService, cfg config.Config) {
	_, err := auth.EnsureStaff(&models.User{
		Username: cfg.StaffUsername,
		Email:    cfg.StaffEmail,
		Password: cfg.StaffPassword,
	})
	if err != nil {
		log.Printf("Error creating staff account %s: %v", cfg.StaffUsername, err)
	}
}

func seedCatalog(products *services.ProductService) {
	seeded, err := products.SeedCatalog(defaultCatalog())
	if err != nil {
		log.Printf("Error seeding products: %v", err)
		return
	}
	if seeded > 0 {
		log.Printf("Seeded %d products", seeded)
	}
}
