package services_test

import (
	"io"
	"log"
	"os"
	"testing"
	"time"

	"storefront/internal/cache"
	"storefront/internal/database/databasetest"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// TestMain silences service logging during tests.
func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

// MockPublisher is a mock implementation of services.OrderEventPublisher.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishOrderCreated(event interface{}) error {
	args := m.Called(event)
	return args.Error(0)
}

// fixture wires the services to a private in-memory SQLite database.
type fixture struct {
	db        *gorm.DB
	repos     *repositories.Repositories
	cache     *cache.Store
	publisher *MockPublisher
	orders    *services.OrderService
	carts     *services.CartService
}

func newFixture(t *testing.T, policy services.MergePolicy, ordersTTL time.Duration) *fixture {
	t.Helper()
	db := databasetest.Open(t)
	repos := repositories.NewGORMRepositories(db)
	tx := repositories.NewGORMTransactor(db)
	store := cache.New(time.Minute, time.Minute)
	publisher := new(MockPublisher)

	return &fixture{
		db:        db,
		repos:     repos,
		cache:     store,
		publisher: publisher,
		orders:    services.NewOrderService(tx, repos.Orders, store, ordersTTL, publisher),
		carts:     services.NewCartService(tx, repos.Carts, repos.Products, policy),
	}
}

func (f *fixture) createUser(t *testing.T, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Email: username + "@example.com", Password: "x"}
	require.NoError(t, f.repos.Users.Create(user))
	return user
}

func (f *fixture) createProduct(t *testing.T, name, price string, quantity int) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Quantity: quantity,
	}
	require.NoError(t, f.repos.Products.Create(product))
	return product
}

func (f *fixture) stock(t *testing.T, productID string) int {
	t.Helper()
	product, err := f.repos.Products.GetByID(productID)
	require.NoError(t, err)
	return product.Quantity
}

func (f *fixture) countOrders(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&models.Order{}).Count(&n).Error)
	return n
}

func (f *fixture) countOrderItems(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&models.OrderItem{}).Count(&n).Error)
	return n
}

// cartContents maps product ID to quantity for owner.
func (f *fixture) cartContents(t *testing.T, owner models.CartOwner) map[string]int {
	t.Helper()
	lines, err := f.repos.Carts.ListByOwner(owner)
	require.NoError(t, err)
	contents := make(map[string]int, len(lines))
	for _, line := range lines {
		contents[line.ProductID] += line.Quantity
	}
	return contents
}

func (f *fixture) add(t *testing.T, owner models.CartOwner, product *models.Product, quantity int) *models.CartLine {
	t.Helper()
	line, err := f.carts.AddProduct(owner, product.ID, quantity)
	require.NoError(t, err)
	return line
}

func checkout() services.CheckoutInput {
	return services.CheckoutInput{
		PhoneNumber:      "9001234567",
		RequiresDelivery: true,
		DeliveryAddress:  "Main st. 1",
		PaymentOnGet:     true,
	}
}
