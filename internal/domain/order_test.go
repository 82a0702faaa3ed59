package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewOrder(t *testing.T) {
	order := NewOrder(7)

	assert.Equal(t, int64(7), order.UserID)
	assert.Equal(t, OrderStatusOpen, order.Status)
	assert.Empty(t, order.Items)
	assert.Equal(t, int64(0), order.Total())
}

func TestOrderItem_PriceFrozenAtCreation(t *testing.T) {
	product := &Product{ID: 1, Name: "Granola Artesanal", Price: 2500}

	item := NewOrderItem(product.ID, product.Name, 2, product.Price)

	// Изменение цены продукта после создания позиции не влияет на неё
	product.Price = 9900

	assert.Equal(t, int64(2500), item.UnitPrice)
	assert.Equal(t, int64(5000), item.Subtotal())
}

func TestOrder_Total(t *testing.T) {
	order := NewOrder(1)
	order.Items = []OrderItem{
		{ProductID: 1, Quantity: 2, UnitPrice: 2500},
		{ProductID: 2, Quantity: 1, UnitPrice: 1099},
		{ProductID: 3, Quantity: 3, UnitPrice: 0},
	}

	assert.Equal(t, int64(6099), order.Total())
}
