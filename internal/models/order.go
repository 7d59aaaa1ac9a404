package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is managed outside the checkout workflow.
type OrderStatus string

const (
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// OrderItem is an immutable snapshot of a cart line at checkout time.
type OrderItem struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	OrderID   string          `json:"order_id" gorm:"type:varchar(36);not null;index"`
	ProductID string          `json:"product_id" gorm:"type:varchar(36);index"`
	Product   *Product        `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Name      string          `json:"name" gorm:"type:varchar(150);not null"`
	Price     decimal.Decimal `json:"price" gorm:"type:numeric(10,2);not null"` // sell price at the time of order
	Quantity  int             `json:"quantity" gorm:"not null"`
	CreatedAt time.Time       `json:"created_at"`
}

// Total returns price times quantity.
func (i OrderItem) Total() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order represents a placed customer order.
type Order struct {
	ID               string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID           string      `json:"user_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_orders_user_number,priority:1"`
	Number           int         `json:"number" gorm:"not null;uniqueIndex:idx_orders_user_number,priority:2"` // per-user sequence, starts at 1
	PhoneNumber      string      `json:"phone_number" gorm:"type:varchar(20);not null"`
	RequiresDelivery bool        `json:"requires_delivery"`
	DeliveryAddress  string      `json:"delivery_address,omitempty"`
	PaymentOnGet     bool        `json:"payment_on_get"`
	IsPaid           bool        `json:"is_paid"`
	Status           OrderStatus `json:"status" gorm:"type:varchar(20);not null"`
	Items            []OrderItem `json:"items" gorm:"foreignKey:OrderID"`
	CreatedAt        time.Time   `json:"created_at" gorm:"index"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// TotalAmount sums the totals of the loaded items.
func (o Order) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Total())
	}
	return total
}
