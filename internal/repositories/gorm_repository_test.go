package repositories_test

import (
	"errors"
	"testing"
	"time"

	"storefront/internal/database/databasetest"
	"storefront/internal/models"
	"storefront/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProduct(t *testing.T, repos *repositories.Repositories, name string, quantity int) *models.Product {
	t.Helper()
	product := &models.Product{Name: name, Price: decimal.RequireFromString("10.00"), Quantity: quantity}
	require.NoError(t, repos.Products.Create(product))
	return product
}

func TestProductRepository_DecrementStock(t *testing.T) {
	repos := repositories.NewGORMRepositories(databasetest.Open(t))
	product := newProduct(t, repos, "Mouse", 3)

	require.NoError(t, repos.Products.DecrementStock(product.ID, 2))
	err := repos.Products.DecrementStock(product.ID, 2)
	assert.ErrorIs(t, err, repositories.ErrStockConflict)

	reloaded, err := repos.Products.GetForUpdate(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.Quantity, "a failed decrement leaves stock untouched")
}

func TestProductRepository_UpdateAndDelete(t *testing.T) {
	repos := repositories.NewGORMRepositories(databasetest.Open(t))
	product := newProduct(t, repos, "Mouse", 3)

	product.Discount = decimal.NewFromInt(20)
	product.Quantity = 0
	require.NoError(t, repos.Products.Update(product))
	reloaded, err := repos.Products.GetByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, reloaded.Quantity)
	assert.Equal(t, "8.00", reloaded.SellPrice().StringFixed(2))

	err = repos.Products.Update(&models.Product{ID: "missing", Name: "x"})
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	require.NoError(t, repos.Products.Delete(product.ID))
	_, err = repos.Products.GetByID(product.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	assert.ErrorIs(t, repos.Products.Delete(product.ID), repositories.ErrNotFound)

	n, err := repos.Products.Count()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCartRepository_ReassignMovesLinesInPlace(t *testing.T) {
	repos := repositories.NewGORMRepositories(databasetest.Open(t))
	product := newProduct(t, repos, "Mouse", 3)
	session := models.SessionOwner("sess-1")

	line := models.NewCartLine(session, product.ID, 2)
	require.NoError(t, repos.Carts.Create(&line))

	moved, err := repos.Carts.Reassign("sess-1", "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), moved)

	lines, err := repos.Carts.ListByOwner(models.UserOwner("user-1"))
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, line.ID, lines[0].ID, "the row is re-owned, not copied")
	assert.Nil(t, lines[0].SessionKey)
	assert.Equal(t, "Mouse", lines[0].Product.Name)

	lines, err = repos.Carts.ListByOwner(session)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestUserRepository_LockByID(t *testing.T) {
	repos := repositories.NewGORMRepositories(databasetest.Open(t))
	user := &models.User{Username: "buyer", Email: "buyer@example.com", Password: "x"}
	require.NoError(t, repos.Users.Create(user))

	assert.NoError(t, repos.Users.LockByID(user.ID))
	assert.ErrorIs(t, repos.Users.LockByID("missing"), repositories.ErrNotFound)
}

func TestTransactor_RollsBackOnError(t *testing.T) {
	db := databasetest.Open(t)
	repos := repositories.NewGORMRepositories(db)
	tx := repositories.NewGORMTransactor(db)
	boom := errors.New("boom")

	err := tx.WithinTransaction(func(r *repositories.Repositories) error {
		newProduct(t, r, "Ghost", 1)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	n, err := repos.Products.Count()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestOrderRepository_ListByUserNewestFirst(t *testing.T) {
	repos := repositories.NewGORMRepositories(databasetest.Open(t))
	product := newProduct(t, repos, "Mouse", 3)
	placedAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	var ids []string
	for i := 0; i < 3; i++ {
		number, err := repos.Orders.NextNumber("user-1")
		require.NoError(t, err)
		assert.Equal(t, i+1, number)

		// Same timestamp on purpose: the number decides the order.
		order := &models.Order{UserID: "user-1", Number: number, PhoneNumber: "9001234567", Status: models.OrderStatusProcessing, CreatedAt: placedAt}
		require.NoError(t, repos.Orders.Create(order))
		item := models.OrderItem{OrderID: order.ID, ProductID: product.ID, Name: product.Name, Price: product.Price, Quantity: 1}
		require.NoError(t, repos.Orders.CreateItem(&item))
		ids = append(ids, order.ID)
	}
	require.NoError(t, repos.Products.Delete(product.ID))

	duplicate := &models.Order{UserID: "user-1", Number: 1, PhoneNumber: "9001234567", Status: models.OrderStatusProcessing}
	assert.Error(t, repos.Orders.Create(duplicate), "numbers are unique per user")

	orders, err := repos.Orders.ListByUser("user-1")
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, []string{ids[2], ids[1], ids[0]}, []string{orders[0].ID, orders[1].ID, orders[2].ID})
	require.Len(t, orders[0].Items, 1)
	require.NotNil(t, orders[0].Items[0].Product, "deleted products stay visible in history")
	assert.Equal(t, "Mouse", orders[0].Items[0].Product.Name)

	_, err = repos.Orders.GetByID("missing")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	assert.ErrorIs(t, repos.Orders.UpdateStatus("missing", models.OrderStatusShipped), repositories.ErrNotFound)
}
