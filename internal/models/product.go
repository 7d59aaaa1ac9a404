package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a product in the store.
type Product struct {
	ID          string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        string          `json:"name" gorm:"type:varchar(150);not null"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" gorm:"type:numeric(10,2);not null"`
	Discount    decimal.Decimal `json:"discount" gorm:"type:numeric(5,2);not null;default:0"`   // percent
	Quantity    int             `json:"quantity" gorm:"not null;default:0;check:quantity >= 0"` // units in stock
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `json:"-" gorm:"index"`
}

var hundred = decimal.NewFromInt(100)

// SellPrice returns the price after the percentage discount, rounded to cents.
func (p Product) SellPrice() decimal.Decimal {
	if !p.Discount.IsPositive() {
		return p.Price
	}
	off := p.Price.Mul(p.Discount).Div(hundred)
	return p.Price.Sub(off).Round(2)
}
