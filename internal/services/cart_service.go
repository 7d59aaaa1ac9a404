package services

import (
	"errors"
	"fmt"
	"log"

	"storefront/internal/models"
	"storefront/internal/repositories"

	"github.com/shopspring/decimal"
)

// MergePolicy decides what happens to a user's existing cart when an
// anonymous session cart is merged into it at login.
type MergePolicy string

const (
	// MergeDiscard drops the user's existing lines and keeps the session's.
	MergeDiscard MergePolicy = "discard"
	// MergeCombine sums quantities of products present in both carts.
	MergeCombine MergePolicy = "combine"
)

// ParseMergePolicy converts a configuration value to a MergePolicy.
func ParseMergePolicy(s string) (MergePolicy, error) {
	switch p := MergePolicy(s); p {
	case MergeDiscard, MergeCombine:
		return p, nil
	case "":
		return MergeDiscard, nil
	default:
		return "", fmt.Errorf("unknown cart merge policy %q", s)
	}
}

// Cart is the priced view of an owner's cart lines.
type Cart struct {
	Lines         []models.CartLine `json:"lines"`
	TotalQuantity int               `json:"total_quantity"`
	TotalPrice    decimal.Decimal   `json:"total_price"`
}

// CartService handles cart lines for anonymous sessions and users.
type CartService struct {
	tx       repositories.Transactor
	carts    repositories.CartRepository
	products repositories.ProductRepository
	policy   MergePolicy
}

// NewCartService creates a new CartService.
func NewCartService(
	tx repositories.Transactor,
	carts repositories.CartRepository,
	products repositories.ProductRepository,
	policy MergePolicy,
) *CartService {
	return &CartService{
		tx:       tx,
		carts:    carts,
		products: products,
		policy:   policy,
	}
}

// Policy returns the merge policy in effect.
func (s *CartService) Policy() MergePolicy { return s.policy }

// GetCart returns the owner's lines with totals.
func (s *CartService) GetCart(owner models.CartOwner) (*Cart, error) {
	if err := owner.Validate(); err != nil {
		return nil, err
	}
	lines, err := s.carts.ListByOwner(owner)
	if err != nil {
		return nil, err
	}

	cart := &Cart{Lines: lines, TotalPrice: decimal.Zero}
	for _, line := range lines {
		cart.TotalQuantity += line.Quantity
		cart.TotalPrice = cart.TotalPrice.Add(line.Total())
	}
	return cart, nil
}

// AddProduct puts quantity units of a product in the owner's cart, adding to
// an existing line for the same product.
func (s *CartService) AddProduct(owner models.CartOwner, productID string, quantity int) (*models.CartLine, error) {
	if err := owner.Validate(); err != nil {
		return nil, err
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	var line *models.CartLine
	err := s.tx.WithinTransaction(func(repos *repositories.Repositories) error {
		if _, err := repos.Products.GetByID(productID); err != nil {
			return err
		}

		existing, err := repos.Carts.FindByProduct(owner, productID)
		switch {
		case err == nil:
			if err := repos.Carts.SetQuantity(existing.ID, existing.Quantity+quantity); err != nil {
				return err
			}
			line, err = repos.Carts.GetLine(owner, existing.ID)
			return err
		case errors.Is(err, repositories.ErrNotFound):
			created := models.NewCartLine(owner, productID, quantity)
			if err := repos.Carts.Create(&created); err != nil {
				return err
			}
			line, err = repos.Carts.GetLine(owner, created.ID)
			return err
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}
	return line, nil
}

// UpdateQuantity sets the quantity of one of the owner's lines.
func (s *CartService) UpdateQuantity(owner models.CartOwner, lineID uint, quantity int) (*models.CartLine, error) {
	if err := owner.Validate(); err != nil {
		return nil, err
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	line, err := s.carts.GetLine(owner, lineID)
	if err != nil {
		return nil, err
	}
	if err := s.carts.SetQuantity(line.ID, quantity); err != nil {
		return nil, err
	}
	line.Quantity = quantity
	return line, nil
}

// RemoveLine deletes one of the owner's lines.
func (s *CartService) RemoveLine(owner models.CartOwner, lineID uint) error {
	if err := owner.Validate(); err != nil {
		return err
	}
	return s.carts.Delete(owner, lineID)
}

// MergeAnonymousCart re-owns the session's lines to the user according to
// the merge policy. It does nothing when sessionKey is empty or the session
// has no lines, so the user's cart survives a login without a session cart.
func (s *CartService) MergeAnonymousCart(sessionKey, userID string) error {
	if sessionKey == "" {
		return nil
	}

	return s.tx.WithinTransaction(func(repos *repositories.Repositories) error {
		sessionOwner := models.SessionOwner(sessionKey)
		lines, err := repos.Carts.ListByOwner(sessionOwner)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return nil
		}

		userOwner := models.UserOwner(userID)
		switch s.policy {
		case MergeCombine:
			for _, line := range lines {
				existing, err := repos.Carts.FindByProduct(userOwner, line.ProductID)
				if errors.Is(err, repositories.ErrNotFound) {
					continue
				}
				if err != nil {
					return err
				}
				if err := repos.Carts.SetQuantity(existing.ID, existing.Quantity+line.Quantity); err != nil {
					return err
				}
				if err := repos.Carts.Delete(sessionOwner, line.ID); err != nil {
					return err
				}
			}
		default:
			dropped, err := repos.Carts.DeleteByOwner(userOwner)
			if err != nil {
				return err
			}
			if dropped > 0 {
				log.Printf("Discarded %d existing cart lines of user %s in favor of session cart", dropped, userID)
			}
		}

		moved, err := repos.Carts.Reassign(sessionKey, userID)
		if err != nil {
			return err
		}
		log.Printf("Merged session cart into user %s (%d lines moved, policy %s)", userID, moved, s.policy)
		return nil
	})
}
