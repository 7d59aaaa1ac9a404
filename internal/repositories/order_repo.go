package repositories

import (
	"storefront/internal/models"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	Create(order *models.Order) error
	CreateItem(item *models.OrderItem) error
	// NextNumber returns the number the user's next order gets.
	NextNumber(userID string) (int, error)
	// ListByUser returns the user's orders newest first with items and their
	// products loaded.
	ListByUser(userID string) ([]models.Order, error)
	GetByID(id string) (*models.Order, error)
	UpdateStatus(id string, status models.OrderStatus) error
}
