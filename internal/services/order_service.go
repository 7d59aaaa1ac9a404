package services

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"storefront/internal/cache"
	"storefront/internal/models"
	"storefront/internal/repositories"
)

// CheckoutInput carries the validated checkout form.
type CheckoutInput struct {
	PhoneNumber      string
	RequiresDelivery bool
	DeliveryAddress  string
	PaymentOnGet     bool
}

// Validate re-checks the rules the workflow depends on.
func (in CheckoutInput) Validate() error {
	if strings.TrimSpace(in.PhoneNumber) == "" {
		return fmt.Errorf("%w: phone number is required", ErrInvalidCheckout)
	}
	if in.RequiresDelivery && strings.TrimSpace(in.DeliveryAddress) == "" {
		return fmt.Errorf("%w: delivery address is required for delivery", ErrInvalidCheckout)
	}
	return nil
}

// OrderService handles checkout and order history.
type OrderService struct {
	tx        repositories.Transactor
	orderRepo repositories.OrderRepository
	cache     cache.Cache
	cacheTTL  time.Duration
	publisher OrderEventPublisher
}

// NewOrderService creates a new OrderService. publisher may be nil.
func NewOrderService(
	tx repositories.Transactor,
	orderRepo repositories.OrderRepository,
	c cache.Cache,
	cacheTTL time.Duration,
	publisher OrderEventPublisher,
) *OrderService {
	return &OrderService{
		tx:        tx,
		orderRepo: orderRepo,
		cache:     c,
		cacheTTL:  cacheTTL,
		publisher: publisher,
	}
}

// PlaceOrder turns the user's cart into an order in one transaction: the
// order, one item per cart line, the stock decrements and the cart removal
// all commit together or not at all.
func (s *OrderService) PlaceOrder(userID string, in CheckoutInput) (*models.Order, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var order *models.Order
	err := s.tx.WithinTransaction(func(repos *repositories.Repositories) error {
		// Serializes checkouts of one user, so the cart is read once and
		// order numbers stay unique.
		if err := repos.Users.LockByID(userID); err != nil {
			return err
		}

		owner := models.UserOwner(userID)
		lines, err := repos.Carts.ListByOwner(owner)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return ErrEmptyCart
		}

		products, err := reserveStock(repos.Products, lines)
		if err != nil {
			return err
		}

		number, err := repos.Orders.NextNumber(userID)
		if err != nil {
			return err
		}

		order = &models.Order{
			UserID:           userID,
			Number:           number,
			PhoneNumber:      in.PhoneNumber,
			RequiresDelivery: in.RequiresDelivery,
			PaymentOnGet:     in.PaymentOnGet,
			Status:           models.OrderStatusProcessing,
		}
		if in.RequiresDelivery {
			order.DeliveryAddress = in.DeliveryAddress
		}
		if err := repos.Orders.Create(order); err != nil {
			return err
		}

		for _, line := range lines {
			product := products[line.ProductID]
			item := models.OrderItem{
				OrderID:   order.ID,
				ProductID: product.ID,
				Name:      product.Name,
				Price:     product.SellPrice(),
				Quantity:  line.Quantity,
			}
			if err := repos.Orders.CreateItem(&item); err != nil {
				return err
			}
			if err := repos.Products.DecrementStock(product.ID, line.Quantity); err != nil {
				if errors.Is(err, repositories.ErrStockConflict) {
					return &InsufficientStockError{
						ProductID:   product.ID,
						ProductName: product.Name,
						Requested:   line.Quantity,
						Available:   product.Quantity,
					}
				}
				return err
			}
			order.Items = append(order.Items, item)
		}

		if _, err := repos.Carts.DeleteByOwner(owner); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Order %s placed by user %s with %d items", order.ID, userID, len(order.Items))
	s.publishOrderCreated(order)
	return order, nil
}

// reserveStock locks every product referenced by lines, in ID order, and
// checks the summed demand per product against its stock.
func reserveStock(products repositories.ProductRepository, lines []models.CartLine) (map[string]*models.Product, error) {
	demand := make(map[string]int, len(lines))
	for _, line := range lines {
		demand[line.ProductID] += line.Quantity
	}

	ids := make([]string, 0, len(demand))
	for id := range demand {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	locked := make(map[string]*models.Product, len(ids))
	for _, id := range ids {
		product, err := products.GetForUpdate(id)
		if err != nil {
			return nil, fmt.Errorf("product in cart is no longer available: %w", err)
		}
		if demand[id] > product.Quantity {
			return nil, &InsufficientStockError{
				ProductID:   product.ID,
				ProductName: product.Name,
				Requested:   demand[id],
				Available:   product.Quantity,
			}
		}
		locked[id] = product
	}
	return locked, nil
}

func (s *OrderService) publishOrderCreated(order *models.Order) {
	if s.publisher == nil {
		log.Println("Order event publisher is not configured. Skipping message publication.")
		return
	}
	if err := s.publisher.PublishOrderCreated(NewOrderCreatedEvent(order)); err != nil {
		log.Printf("Warning: Failed to publish order created event for order %s: %v", order.ID, err)
	}
}

func userOrdersKey(userID string) string {
	return "orders:user:" + userID
}

// GetUserOrders returns the user's orders, newest first, with items and
// products loaded. Results are cached per user for the configured ttl and are
// not invalidated by new orders.
func (s *OrderService) GetUserOrders(userID string) ([]models.Order, error) {
	return cache.GetOrSet(s.cache, userOrdersKey(userID), s.cacheTTL, func() ([]models.Order, error) {
		return s.orderRepo.ListByUser(userID)
	})
}

// GetUserOrder returns one order if it belongs to userID.
func (s *OrderService) GetUserOrder(userID, orderID string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, fmt.Errorf("order with ID %s: %w", orderID, repositories.ErrNotFound)
	}
	return order, nil
}

// UpdateOrderStatus updates the status of an existing order.
func (s *OrderService) UpdateOrderStatus(id string, status string) error {
	st := models.OrderStatus(status)
	if !st.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}

	if err := s.orderRepo.UpdateStatus(id, st); err != nil {
		return fmt.Errorf("failed to update order status for order %s: %w", id, err)
	}
	return nil
}
