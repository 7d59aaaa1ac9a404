package services

import (
	"encoding/json"
	"fmt"
	"time"

	"storefront/internal/models"
)

// OrderEventPublisher delivers order events to other systems.
type OrderEventPublisher interface {
	PublishOrderCreated(event interface{}) error
}

// OrderCreatedEvent is published after a checkout commits.
type OrderCreatedEvent struct {
	OrderID          string           `json:"order_id"`
	UserID           string           `json:"user_id"`
	RequiresDelivery bool             `json:"requires_delivery"`
	PaymentOnGet     bool             `json:"payment_on_get"`
	Total            string           `json:"total"`
	Items            []OrderEventItem `json:"items"`
	CreatedAt        time.Time        `json:"created_at"`
}

// OrderEventItem is one ordered product in an OrderCreatedEvent.
type OrderEventItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// NewOrderCreatedEvent builds the event for a placed order.
func NewOrderCreatedEvent(order *models.Order) OrderCreatedEvent {
	items := make([]OrderEventItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderEventItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return OrderCreatedEvent{
		OrderID:          order.ID,
		UserID:           order.UserID,
		RequiresDelivery: order.RequiresDelivery,
		PaymentOnGet:     order.PaymentOnGet,
		Total:            order.TotalAmount().StringFixed(2),
		Items:            items,
		CreatedAt:        order.CreatedAt,
	}
}

// DecodeOrderCreated parses a message body published by OrderService.
func DecodeOrderCreated(body []byte) (OrderCreatedEvent, error) {
	var event OrderCreatedEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return OrderCreatedEvent{}, fmt.Errorf("failed to decode order event: %w", err)
	}
	if event.OrderID == "" {
		return OrderCreatedEvent{}, fmt.Errorf("order event without order_id")
	}
	return event, nil
}
