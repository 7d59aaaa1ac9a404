package repositories

import (
	"errors"
	"fmt"

	"storefront/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{db: db}
}

func ownedBy(owner models.CartOwner) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if owner.IsUser() {
			return db.Where("user_id = ?", owner.UserID)
		}
		return db.Where("session_key = ?", owner.SessionKey)
	}
}

// ListByOwner returns the owner's lines with their products, oldest first.
func (r *GORMCartRepository) ListByOwner(owner models.CartOwner) ([]models.CartLine, error) {
	var lines []models.CartLine
	err := r.db.Scopes(ownedBy(owner)).
		Preload("Product").
		Order("id").
		Find(&lines).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list cart lines: %w", err)
	}
	return lines, nil
}

// FindByProduct returns the owner's line for productID.
func (r *GORMCartRepository) FindByProduct(owner models.CartOwner, productID string) (*models.CartLine, error) {
	var line models.CartLine
	err := r.db.Scopes(ownedBy(owner)).First(&line, "product_id = ?", productID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cart line for product %s: %w", productID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find cart line: %w", err)
	}
	return &line, nil
}

// GetLine returns one of the owner's lines by ID.
func (r *GORMCartRepository) GetLine(owner models.CartOwner, id uint) (*models.CartLine, error) {
	var line models.CartLine
	err := r.db.Scopes(ownedBy(owner)).Preload("Product").First(&line, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cart line %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get cart line %d: %w", id, err)
	}
	return &line, nil
}

// Create inserts a new line. The product association is never written.
func (r *GORMCartRepository) Create(line *models.CartLine) error {
	if err := r.db.Omit(clause.Associations).Create(line).Error; err != nil {
		return fmt.Errorf("failed to create cart line: %w", err)
	}
	return nil
}

// SetQuantity overwrites a line's quantity.
func (r *GORMCartRepository) SetQuantity(id uint, quantity int) error {
	res := r.db.Model(&models.CartLine{}).Where("id = ?", id).Update("quantity", quantity)
	if res.Error != nil {
		return fmt.Errorf("failed to update cart line %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart line %d: %w", id, ErrNotFound)
	}
	return nil
}

// Delete removes one of the owner's lines.
func (r *GORMCartRepository) Delete(owner models.CartOwner, id uint) error {
	res := r.db.Scopes(ownedBy(owner)).Delete(&models.CartLine{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete cart line %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart line %d: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteByOwner removes every line of owner and returns how many were removed.
func (r *GORMCartRepository) DeleteByOwner(owner models.CartOwner) (int64, error) {
	res := r.db.Scopes(ownedBy(owner)).Delete(&models.CartLine{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to clear cart: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// Reassign re-owns the session's lines to the user in place.
func (r *GORMCartRepository) Reassign(sessionKey, userID string) (int64, error) {
	res := r.db.Model(&models.CartLine{}).
		Where("session_key = ?", sessionKey).
		Updates(map[string]interface{}{"user_id": userID, "session_key": nil})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to reassign session cart: %w", res.Error)
	}
	return res.RowsAffected, nil
}
