package domain

import "time"

// OrderStatus — статус жизненного цикла заказа.
type OrderStatus string

const (
	OrderStatusOpen      OrderStatus = "AB" // Открыт/корзина
	OrderStatusFinalized OrderStatus = "FI" // Завершён/оплачен
	OrderStatusCancelled OrderStatus = "CA" // Отменён
)

// Order — заказ пользователя. Сумма заказа всегда вычисляется из позиций,
// отдельно не хранится.
type Order struct {
	ID        int64
	UserID    int64
	Status    OrderStatus
	Items     []OrderItem
	CreatedAt time.Time
}

// OrderItem — позиция заказа. UnitPrice фиксируется в момент создания
// и никогда не пересчитывается из текущей цены продукта.
type OrderItem struct {
	ID          int64
	OrderID     int64
	ProductID   int64
	ProductName string
	Quantity    int64
	UnitPrice   int64 // цена в сентаво, заморожена при создании
}

func NewOrder(userID int64) *Order {
	return &Order{
		UserID: userID,
		Status: OrderStatusOpen,
	}
}

func NewOrderItem(productID int64, productName string, quantity int64, unitPrice int64) *OrderItem {
	return &OrderItem{
		ProductID:   productID,
		ProductName: productName,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
	}
}

// Subtotal возвращает стоимость позиции: замороженная цена * количество.
func (i *OrderItem) Subtotal() int64 {
	return i.UnitPrice * i.Quantity
}

// Total возвращает сумму заказа как сумму стоимостей позиций.
func (o *Order) Total() int64 {
	var total int64
	for i := range o.Items {
		total += o.Items[i].Subtotal()
	}
	return total
}
