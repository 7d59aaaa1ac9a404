package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrInvalidOwner is returned when a cart owner has neither or both identities set.
var ErrInvalidOwner = errors.New("cart owner must be exactly one of user or session")

// CartOwner identifies who a cart line belongs to: an anonymous session
// before login, a user after. Exactly one field is set.
type CartOwner struct {
	UserID     string
	SessionKey string
}

// UserOwner returns the owner for an authenticated user.
func UserOwner(userID string) CartOwner { return CartOwner{UserID: userID} }

// SessionOwner returns the owner for an anonymous visitor.
func SessionOwner(sessionKey string) CartOwner { return CartOwner{SessionKey: sessionKey} }

// Validate checks the session XOR user rule.
func (o CartOwner) Validate() error {
	if (o.UserID == "") == (o.SessionKey == "") {
		return ErrInvalidOwner
	}
	return nil
}

// IsUser reports whether the owner is an authenticated user.
func (o CartOwner) IsUser() bool { return o.UserID != "" }

// CartLine is one (product, quantity) entry of a cart.
type CartLine struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserID     *string   `json:"user_id,omitempty" gorm:"type:varchar(36);index"`
	SessionKey *string   `json:"-" gorm:"type:varchar(64);index"`
	ProductID  string    `json:"product_id" gorm:"type:varchar(36);not null;index"`
	Product    Product   `json:"product" gorm:"foreignKey:ProductID"`
	Quantity   int       `json:"quantity" gorm:"not null;check:quantity > 0"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewCartLine builds a line owned by owner.
func NewCartLine(owner CartOwner, productID string, quantity int) CartLine {
	line := CartLine{ProductID: productID, Quantity: quantity}
	if owner.IsUser() {
		id := owner.UserID
		line.UserID = &id
	} else {
		key := owner.SessionKey
		line.SessionKey = &key
	}
	return line
}

// Total is the line's sell price times quantity. Product must be loaded.
func (l CartLine) Total() decimal.Decimal {
	return l.Product.SellPrice().Mul(decimal.NewFromInt(int64(l.Quantity)))
}
