package models_test

import (
	"testing"

	"storefront/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestProduct_SellPrice(t *testing.T) {
	p := models.Product{Price: decimal.RequireFromString("100.00")}
	assert.True(t, p.SellPrice().Equal(decimal.RequireFromString("100.00")))

	p.Discount = decimal.RequireFromString("15")
	assert.True(t, p.SellPrice().Equal(decimal.RequireFromString("85.00")))

	p = models.Product{Price: decimal.RequireFromString("9.99"), Discount: decimal.RequireFromString("33")}
	assert.Equal(t, "6.69", p.SellPrice().StringFixed(2))
}

func TestCartOwner_Validate(t *testing.T) {
	assert.NoError(t, models.UserOwner("u1").Validate())
	assert.NoError(t, models.SessionOwner("s1").Validate())
	assert.ErrorIs(t, models.CartOwner{}.Validate(), models.ErrInvalidOwner)
	assert.ErrorIs(t, models.CartOwner{UserID: "u1", SessionKey: "s1"}.Validate(), models.ErrInvalidOwner)
}

func TestNewCartLine_SetsExactlyOneOwner(t *testing.T) {
	line := models.NewCartLine(models.UserOwner("u1"), "p1", 2)
	assert.NotNil(t, line.UserID)
	assert.Nil(t, line.SessionKey)

	line = models.NewCartLine(models.SessionOwner("s1"), "p1", 2)
	assert.Nil(t, line.UserID)
	assert.Equal(t, "s1", *line.SessionKey)
}

func TestOrder_TotalAmount(t *testing.T) {
	order := models.Order{Items: []models.OrderItem{
		{Price: decimal.RequireFromString("10.50"), Quantity: 2},
		{Price: decimal.RequireFromString("1.25"), Quantity: 4},
	}}
	assert.Equal(t, "26.00", order.TotalAmount().StringFixed(2))
	assert.True(t, models.OrderStatusShipped.Valid())
	assert.False(t, models.OrderStatus("lost").Valid())
}
