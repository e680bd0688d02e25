package usecase

import (
	"context"
	"encoding/json"
	"time"

	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/partsline/storefront/internal/cart"
	"github.com/partsline/storefront/internal/domain"
	"github.com/partsline/storefront/pkg/e"
	"github.com/partsline/storefront/pkg/logger"
)

// CheckoutUseCase оформляет заказ из корзины сессии: заказ и outbox-событие
// фиксируются в одной транзакции, корзина очищается после коммита.
type CheckoutUseCase struct {
	carts      *cart.Manager
	orderRepo  OrderRepository
	outboxRepo OutboxRepository
	dbPool     transaction.Transactional
	logger     logger.Logger
}

func NewCheckoutUC(
	carts *cart.Manager,
	orderRepo OrderRepository,
	outboxRepo OutboxRepository,
	dbPool transaction.Transactional,
	logger logger.Logger,
) *CheckoutUseCase {
	return &CheckoutUseCase{
		carts:      carts,
		orderRepo:  orderRepo,
		outboxRepo: outboxRepo,
		dbPool:     dbPool,
		logger:     logger,
	}
}

// orderPlacedPayload — тело события order_placed для outbox.
type orderPlacedPayload struct {
	EventID   string            `json:"event_id"`
	OrderID   int64             `json:"order_id"`
	SessionID string            `json:"session_id"`
	Total     int64             `json:"total"`
	ItemCount int64             `json:"item_count"`
	Items     []orderPlacedItem `json:"items"`
	Timestamp int64             `json:"timestamp"`
}

type orderPlacedItem struct {
	ProductID int64 `json:"product_id"`
	Price     int64 `json:"price"`
	Quantity  int64 `json:"quantity"`
}

// PlaceOrder превращает корзину сессии в заказ. Суммы пересчитываются по
// позициям на стороне сервера, а не берутся из снимка корзины.
func (c *CheckoutUseCase) PlaceOrder(ctx context.Context, sessionID string) (*PlaceOrderRes, error) {
	const op = "CheckoutUseCase.PlaceOrder"

	store := c.carts.Get(ctx, sessionID)
	items := store.Items()
	if len(items) == 0 {
		return nil, e.Wrap(op, e.ErrEmptyCart)
	}

	var (
		total     int64
		itemCount int64
	)
	orderItems := make([]domain.OrderItem, 0, len(items))
	for _, item := range items {
		total += item.Subtotal()
		itemCount += item.Quantity
		orderItems = append(orderItems, domain.OrderItem{
			ProductID: item.ProductID,
			Title:     item.Title,
			Price:     item.Price,
			Quantity:  item.Quantity,
		})
	}

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, c.dbPool)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	defer func() {
		if err != nil && tx.IsActive() {
			tx.Rollback(ctx)
		}
	}()
	ctx = context.WithValue(ctx, "tx", tx.Transaction())

	order, err := c.orderRepo.Create(ctx, domain.NewOrder(sessionID, orderItems, total, itemCount))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	event, err := c.createOutboxEvent(ctx, order)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, e.Wrap(op, err)
	}

	// Корзина очищается только после успешного коммита заказа
	store.ClearCart(ctx)

	return &PlaceOrderRes{
		OrderID:   order.ID,
		EventID:   event.EventID,
		Total:     order.Total,
		ItemCount: order.ItemCount,
	}, nil
}

// createOutboxEvent записывает событие order_placed в outbox.
func (c *CheckoutUseCase) createOutboxEvent(ctx context.Context, order *domain.Order) (*OutboxEvent, error) {
	eventID := uuid.NewString()

	items := make([]orderPlacedItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, orderPlacedItem{
			ProductID: item.ProductID,
			Price:     item.Price,
			Quantity:  item.Quantity,
		})
	}

	payload, err := json.Marshal(orderPlacedPayload{
		EventID:   eventID,
		OrderID:   order.ID,
		SessionID: order.SessionID,
		Total:     order.Total,
		ItemCount: order.ItemCount,
		Items:     items,
		Timestamp: time.Now().UTC().UnixNano(),
	})
	if err != nil {
		return nil, err
	}

	return c.outboxRepo.Create(ctx, &OutboxEvent{
		EventID:     eventID,
		EventType:   OrderPlaced,
		AggregateID: order.ID,
		Payload:     payload,
		Status:      Pending,
		CreatedAt:   time.Now().UTC(),
	})
}
