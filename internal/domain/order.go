package domain

import "time"

// OrderStatus — статус жизненного цикла заказа.
type OrderStatus string

const (
	OrderCreated OrderStatus = "created"
)

// Order описывает оформленный заказ
type Order struct {
	ID        int64
	SessionID string
	Total     int64 // сумма заказа в центах
	ItemCount int64
	Status    OrderStatus
	CreatedAt time.Time
	Items     []OrderItem
}

// OrderItem — позиция заказа, зафиксированная на момент оформления.
type OrderItem struct {
	ID        int64
	OrderID   int64
	ProductID int64
	Title     string
	Price     int64 // цена за единицу в центах на момент заказа
	Quantity  int64
}

func NewOrder(sessionID string, items []OrderItem, total int64, itemCount int64) *Order {
	return &Order{
		SessionID: sessionID,
		Total:     total,
		ItemCount: itemCount,
		Status:    OrderCreated,
		Items:     items,
	}
}
