package repositories

import "storefront/internal/models"

// CartRepository defines the interface for cart line data access.
// Every method is scoped to one owner.
type CartRepository interface {
	ListByOwner(owner models.CartOwner) ([]models.CartLine, error)
	FindByProduct(owner models.CartOwner, productID string) (*models.CartLine, error)
	GetLine(owner models.CartOwner, id uint) (*models.CartLine, error)
	Create(line *models.CartLine) error
	SetQuantity(id uint, quantity int) error
	Delete(owner models.CartOwner, id uint) error
	DeleteByOwner(owner models.CartOwner) (int64, error)
	// Reassign moves every line of sessionKey to userID.
	Reassign(sessionKey, userID string) (int64, error)
}
