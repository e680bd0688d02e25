package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partsline/storefront/internal/cart"
	"github.com/partsline/storefront/internal/domain"
	"github.com/partsline/storefront/pkg/e"
	"github.com/partsline/storefront/pkg/logger"
)

// fakeOrderRepo запоминает переданный заказ и присваивает ему идентификатор.
type fakeOrderRepo struct {
	created   *domain.Order
	createErr error
}

func (f *fakeOrderRepo) Create(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	order.ID = 42
	f.created = order
	return order, nil
}

type fakeOutboxRepo struct {
	created *OutboxEvent
}

func (f *fakeOutboxRepo) Create(_ context.Context, event *OutboxEvent) (*OutboxEvent, error) {
	f.created = event
	return event, nil
}

func (f *fakeOutboxRepo) GetAndMarkAsProcessing(_ context.Context, _ int) ([]*OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepo) MarkAsProcessed(_ context.Context, _ int64) error {
	return nil
}

// fakeTx подменяет pgx.Tx: фиксирует только Commit/Rollback, остальные
// методы ведут в панику встроенного nil-интерфейса.
type fakeTx struct {
	pgx.Tx
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Commit(_ context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(_ context.Context) error {
	t.rolledBack = true
	return nil
}

type fakeTxPool struct {
	tx     *fakeTx
	begins int
}

func (p *fakeTxPool) Begin(ctx context.Context) (pgx.Tx, error) {
	return p.BeginTx(ctx, pgx.TxOptions{})
}

func (p *fakeTxPool) BeginTx(_ context.Context, _ pgx.TxOptions) (pgx.Tx, error) {
	p.begins++
	return p.tx, nil
}

func newCheckoutUCForTest(orderRepo OrderRepository, outboxRepo OutboxRepository, pool *fakeTxPool) (*CheckoutUseCase, *cart.Manager) {
	log := logger.NewSlogLogger()
	carts := cart.NewManager(cart.NewNoopStorage(), log)
	return NewCheckoutUC(carts, orderRepo, outboxRepo, pool, log), carts
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	pool := &fakeTxPool{tx: &fakeTx{}}
	uc, _ := newCheckoutUCForTest(&fakeOrderRepo{}, &fakeOutboxRepo{}, pool)

	res, err := uc.PlaceOrder(context.Background(), "session-empty")

	require.Error(t, err)
	assert.ErrorIs(t, err, e.ErrEmptyCart)
	assert.Nil(t, res)
	assert.Zero(t, pool.begins, "пустая корзина не должна открывать транзакцию")
}

func TestPlaceOrderRecomputesTotalsAndClearsCart(t *testing.T) {
	ctx := context.Background()
	orderRepo := &fakeOrderRepo{}
	outboxRepo := &fakeOutboxRepo{}
	pool := &fakeTxPool{tx: &fakeTx{}}
	uc, carts := newCheckoutUCForTest(orderRepo, outboxRepo, pool)

	const session = "session-1"
	store := carts.Get(ctx, session)
	store.AddToCart(ctx, domain.CartLineItem{ProductID: 1, Title: "Brake Pad Set", Price: 1999, Category: "Brakes"})
	store.UpdateQuantity(ctx, 1, 3)
	store.AddToCart(ctx, domain.CartLineItem{ProductID: 2, Title: "Oil Filter", Price: 500, Category: "Filters"})

	res, err := uc.PlaceOrder(ctx, session)
	require.NoError(t, err)

	// Суммы пересчитаны по позициям, а не взяты из снимка
	assert.Equal(t, int64(3*1999+500), res.Total)
	assert.Equal(t, int64(4), res.ItemCount)
	assert.Equal(t, int64(42), res.OrderID)

	require.NotNil(t, orderRepo.created)
	assert.Equal(t, session, orderRepo.created.SessionID)
	assert.Equal(t, domain.OrderCreated, orderRepo.created.Status)
	assert.Len(t, orderRepo.created.Items, 2)

	require.NotNil(t, outboxRepo.created)
	assert.Equal(t, OrderPlaced, outboxRepo.created.EventType)
	assert.Equal(t, int64(42), outboxRepo.created.AggregateID)
	assert.Equal(t, res.EventID, outboxRepo.created.EventID)

	var payload struct {
		OrderID   int64 `json:"order_id"`
		Total     int64 `json:"total"`
		ItemCount int64 `json:"item_count"`
	}
	require.NoError(t, json.Unmarshal(outboxRepo.created.Payload, &payload))
	assert.Equal(t, res.OrderID, payload.OrderID)
	assert.Equal(t, res.Total, payload.Total)
	assert.Equal(t, res.ItemCount, payload.ItemCount)

	assert.True(t, pool.tx.committed)
	assert.False(t, pool.tx.rolledBack)

	// Корзина очищена только после успешного коммита
	assert.Empty(t, store.Items())
	assert.Zero(t, store.ItemCount())
}

func TestPlaceOrderRepoErrorKeepsCart(t *testing.T) {
	ctx := context.Background()
	orderRepo := &fakeOrderRepo{createErr: errors.New("orders table unavailable")}
	pool := &fakeTxPool{tx: &fakeTx{}}
	uc, carts := newCheckoutUCForTest(orderRepo, &fakeOutboxRepo{}, pool)

	const session = "session-2"
	store := carts.Get(ctx, session)
	store.AddToCart(ctx, domain.CartLineItem{ProductID: 7, Title: "Headlight Bulb", Price: 899, Category: "Lighting"})

	res, err := uc.PlaceOrder(ctx, session)

	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, pool.tx.rolledBack)
	assert.False(t, pool.tx.committed)

	// Корзина не тронута при откате
	assert.Equal(t, int64(1), store.ItemCount())
}
