package repositories

import (
	"storefront/internal/models"
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll() ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error
	Count() (int64, error)
	// GetForUpdate reads a product and locks its row until the transaction ends.
	GetForUpdate(id string) (*models.Product, error)
	// DecrementStock subtracts quantity only if that much stock is left.
	DecrementStock(id string, quantity int) error
}
