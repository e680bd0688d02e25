package cart

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partsline/storefront/internal/domain"
	"github.com/partsline/storefront/pkg/logger"
)

// mapStorage — потокобезопасное in-memory хранилище для тестов.
type mapStorage struct {
	mu   sync.Mutex
	data map[string]string
}

func newMapStorage() *mapStorage {
	return &mapStorage{data: make(map[string]string)}
}

func (s *mapStorage) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.data[key]
	return value, ok, nil
}

func (s *mapStorage) Set(_ context.Context, key string, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *mapStorage) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// failingStorage всегда возвращает ошибку.
type failingStorage struct{}

func (failingStorage) Get(_ context.Context, _ string) (string, bool, error) {
	return "", false, errors.New("storage down")
}

func (failingStorage) Set(_ context.Context, _ string, _ string) error {
	return errors.New("storage down")
}

func (failingStorage) Remove(_ context.Context, _ string) error {
	return errors.New("storage down")
}

func testItem(id int64, price int64) domain.CartLineItem {
	return domain.CartLineItem{
		ProductID: id,
		Title:     "item",
		Price:     price,
		Category:  "Brakes",
	}
}

func newTestStore(t *testing.T, storage Storage) *Store {
	t.Helper()
	return NewStore(context.Background(), storage, "test-session", logger.NewSlogLogger())
}

func TestAddToCartNewItem(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, NewNoopStorage())

	store.AddToCart(ctx, testItem(1, 599_99))

	require.True(t, store.IsItemInCart(1))
	assert.EqualValues(t, 1, store.GetItemQuantity(1))
	assert.EqualValues(t, 1, store.ItemCount())
	assert.EqualValues(t, 599_99, store.Total())
}

func TestAddToCartExistingIncrementsQuantity(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, NewNoopStorage())

	store.AddToCart(ctx, testItem(1, 100))
	store.AddToCart(ctx, testItem(1, 100))
	store.AddToCart(ctx, testItem(1, 100))

	assert.EqualValues(t, 3, store.GetItemQuantity(1))
	assert.Len(t, store.Items(), 1, "повторное добавление не создает новую позицию")
	assert.EqualValues(t, 300, store.Total())
}

func TestAddToCartPreservesInsertionOrder(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, NewNoopStorage())

	store.AddToCart(ctx, testItem(3, 10))
	store.AddToCart(ctx, testItem(1, 20))
	store.AddToCart(ctx, testItem(2, 30))
	store.AddToCart(ctx, testItem(1, 20))

	items := store.Items()
	require.Len(t, items, 3)
	assert.EqualValues(t, 3, items[0].ProductID)
	assert.EqualValues(t, 1, items[1].ProductID)
	assert.EqualValues(t, 2, items[2].ProductID)
}

func TestTotalsInvariant(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, NewNoopStorage())

	store.AddToCart(ctx, testItem(1, 599_99))
	store.AddToCart(ctx, testItem(2, 120_00))
	store.AddToCart(ctx, testItem(1, 599_99))
	store.UpdateQuantity(ctx, 2, 5)

	var wantTotal, wantCount int64
	for _, item := range store.Items() {
		wantTotal += item.Price * item.Quantity
		wantCount += item.Quantity
	}

	assert.Equal(t, wantTotal, store.Total())
	assert.Equal(t, wantCount, store.ItemCount())
}

func TestUpdateQuantityClampsToOne(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, NewNoopStorage())

	store.AddToCart(ctx, testItem(1, 100))

	store.UpdateQuantity(ctx, 1, 0)
	assert.EqualValues(t, 1, store.GetItemQuantity(1))

	store.UpdateQuantity(ctx, 1, -10)
	assert.EqualValues(t, 1, store.GetItemQuantity(1))

	store.UpdateQuantity(ctx, 1, 7)
	assert.EqualValues(t, 7, store.GetItemQuantity(1))
}

func TestUpdateQuantityUnknownProductIsNoop(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, NewNoopStorage())

	store.AddToCart(ctx, testItem(1, 100))
	store.UpdateQuantity(ctx, 42, 5)

	assert.False(t, store.IsItemInCart(42))
	assert.EqualValues(t, 1, store.ItemCount())
}

func TestRemoveFromCart(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, NewNoopStorage())

	store.AddToCart(ctx, testItem(1, 100))
	store.AddToCart(ctx, testItem(2, 200))
	store.AddToCart(ctx, testItem(3, 300))

	store.RemoveFromCart(ctx, 2)

	assert.False(t, store.IsItemInCart(2))
	items := store.Items()
	require.Len(t, items, 2)
	assert.EqualValues(t, 1, items[0].ProductID)
	assert.EqualValues(t, 3, items[1].ProductID)
	assert.EqualValues(t, 400, store.Total())

	// Удаление отсутствующего товара — no-op
	store.RemoveFromCart(ctx, 42)
	assert.EqualValues(t, 2, store.ItemCount())
}

func TestClearCart(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, NewNoopStorage())

	store.AddToCart(ctx, testItem(1, 100))
	store.AddToCart(ctx, testItem(2, 200))

	store.ClearCart(ctx)

	assert.Empty(t, store.Items())
	assert.EqualValues(t, 0, store.ItemCount())
	assert.EqualValues(t, 0, store.Total())
}

func TestItemsReturnsIndependentCopy(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, NewNoopStorage())

	store.AddToCart(ctx, testItem(1, 100))

	snapshot := store.Items()
	snapshot[0].Quantity = 99

	assert.EqualValues(t, 1, store.GetItemQuantity(1), "мутация снимка не затрагивает корзину")
}

func TestMutationDoesNotChangeEarlierSnapshot(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, NewNoopStorage())

	store.AddToCart(ctx, testItem(1, 100))
	before := store.Items()

	store.AddToCart(ctx, testItem(1, 100))
	store.AddToCart(ctx, testItem(2, 200))

	require.Len(t, before, 1)
	assert.EqualValues(t, 1, before[0].Quantity, "ранее выданный снимок не меняется")
}

func TestPersistenceRoundTrip(t *testing.T) {
	ctx := context.Background()
	storage := newMapStorage()
	log := logger.NewSlogLogger()

	store := NewStore(ctx, storage, "session-1", log)
	store.AddToCart(ctx, testItem(1, 599_99))
	store.AddToCart(ctx, testItem(2, 120_00))
	store.UpdateQuantity(ctx, 1, 3)

	restored := NewStore(ctx, storage, "session-1", log)

	assert.Equal(t, store.Items(), restored.Items())
	assert.Equal(t, store.Total(), restored.Total())
	assert.Equal(t, store.ItemCount(), restored.ItemCount())
}

func TestPersistedPayloadContainsOnlyItems(t *testing.T) {
	ctx := context.Background()
	storage := newMapStorage()

	store := NewStore(ctx, storage, "session-1", logger.NewSlogLogger())
	store.AddToCart(ctx, testItem(1, 100))

	raw, found, err := storage.Get(ctx, KeyPrefix+"session-1")
	require.NoError(t, err)
	require.True(t, found)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(raw), &decoded))
	assert.Contains(t, decoded, "version")
	assert.Contains(t, decoded, "items")
	assert.NotContains(t, decoded, "total", "производные значения не сохраняются")
	assert.NotContains(t, decoded, "item_count")
}

func TestEmptyCartRemovesPersistedKey(t *testing.T) {
	ctx := context.Background()
	storage := newMapStorage()

	store := NewStore(ctx, storage, "session-1", logger.NewSlogLogger())
	store.AddToCart(ctx, testItem(1, 100))
	store.ClearCart(ctx)

	_, found, err := storage.Get(ctx, KeyPrefix+"session-1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRehydrateCorruptPayloadFallsBackToEmpty(t *testing.T) {
	ctx := context.Background()
	storage := newMapStorage()
	require.NoError(t, storage.Set(ctx, KeyPrefix+"session-1", "{not json"))

	store := NewStore(ctx, storage, "session-1", logger.NewSlogLogger())

	assert.Empty(t, store.Items())
	assert.EqualValues(t, 0, store.Total())
}

func TestRehydrateUnsupportedVersionFallsBackToEmpty(t *testing.T) {
	ctx := context.Background()
	storage := newMapStorage()
	raw, err := json.Marshal(payload{Version: 99, Items: []domain.CartLineItem{testItem(1, 100)}})
	require.NoError(t, err)
	require.NoError(t, storage.Set(ctx, KeyPrefix+"session-1", string(raw)))

	store := NewStore(ctx, storage, "session-1", logger.NewSlogLogger())

	assert.Empty(t, store.Items())
}

func TestRehydrateCollapsesDuplicatesAndClampsQuantities(t *testing.T) {
	ctx := context.Background()
	storage := newMapStorage()

	items := []domain.CartLineItem{
		{ProductID: 1, Title: "a", Price: 100, Quantity: 2},
		{ProductID: 2, Title: "b", Price: 200, Quantity: 0},
		{ProductID: 1, Title: "a", Price: 100, Quantity: 3},
	}
	raw, err := json.Marshal(payload{Version: payloadVersion, Items: items})
	require.NoError(t, err)
	require.NoError(t, storage.Set(ctx, KeyPrefix+"session-1", string(raw)))

	store := NewStore(ctx, storage, "session-1", logger.NewSlogLogger())

	restored := store.Items()
	require.Len(t, restored, 2)
	assert.EqualValues(t, 5, store.GetItemQuantity(1), "дубликаты схлопываются суммированием")
	assert.EqualValues(t, 1, store.GetItemQuantity(2), "нулевое количество нормализуется")
}

func TestStorageFailuresDoNotBreakCart(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, failingStorage{})

	store.AddToCart(ctx, testItem(1, 100))
	store.UpdateQuantity(ctx, 1, 4)
	store.RemoveFromCart(ctx, 1)
	store.AddToCart(ctx, testItem(2, 200))
	store.ClearCart(ctx)

	assert.Empty(t, store.Items())
}

func TestNoopStorageAlwaysMisses(t *testing.T) {
	ctx := context.Background()
	storage := NewNoopStorage()

	require.NoError(t, storage.Set(ctx, "k", "v"))
	_, found, err := storage.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, storage.Remove(ctx, "k"))
}

func TestManagerReturnsSameStorePerSession(t *testing.T) {
	ctx := context.Background()
	manager := NewManager(NewNoopStorage(), logger.NewSlogLogger())

	first := manager.Get(ctx, "s1")
	second := manager.Get(ctx, "s1")
	other := manager.Get(ctx, "s2")

	assert.Same(t, first, second)
	assert.NotSame(t, first, other)
}

func TestManagerEvict(t *testing.T) {
	ctx := context.Background()
	manager := NewManager(NewNoopStorage(), logger.NewSlogLogger())

	first := manager.Get(ctx, "s1")
	manager.Evict("s1")
	second := manager.Get(ctx, "s1")

	assert.NotSame(t, first, second)
}

func TestConcurrentMutations(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, NewNoopStorage())

	const goroutines = 16
	const addsPerGoroutine = 50

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < addsPerGoroutine; i++ {
				store.AddToCart(ctx, testItem(1, 100))
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, goroutines*addsPerGoroutine, store.GetItemQuantity(1))
	assert.EqualValues(t, goroutines*addsPerGoroutine*100, store.Total())
}
