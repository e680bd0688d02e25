package usecase

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partsline/storefront/internal/cart"
	"github.com/partsline/storefront/pkg/e"
	"github.com/partsline/storefront/pkg/logger"
)

// fakeCacheRepo — заглушка кэша с потокобезопасным учётом записей.
type fakeCacheRepo struct {
	mu       sync.Mutex
	products map[int64]ProductInfo
}

func newFakeCacheRepo() *fakeCacheRepo {
	return &fakeCacheRepo{products: make(map[int64]ProductInfo)}
}

func (f *fakeCacheRepo) GetProducts(_ context.Context, ids []int64) (map[int64]ProductInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	result := make(map[int64]ProductInfo)
	for _, id := range ids {
		if info, ok := f.products[id]; ok {
			result[id] = info
		}
	}
	return result, nil
}

func (f *fakeCacheRepo) SetProducts(_ context.Context, products []ProductInfo) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, info := range products {
		f.products[info.ID] = info
	}
	return nil
}

func (f *fakeCacheRepo) DeleteProducts(_ context.Context, ids []int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, id := range ids {
		delete(f.products, id)
	}
	return nil
}

func newCartUCForTest(productRepo ProductRepository, cacheRepo CacheRepository) *CartUseCase {
	log := logger.NewSlogLogger()
	carts := cart.NewManager(cart.NewNoopStorage(), log)
	return NewCartUC(carts, productRepo, cacheRepo, log)
}

func TestAddToCartUnknownProduct(t *testing.T) {
	productRepo := &fakeProductRepo{
		getProductsInfoFn: func(_ context.Context, _ []int64) ([]ProductInfo, error) {
			return nil, nil
		},
	}
	uc := newCartUCForTest(productRepo, newFakeCacheRepo())

	_, err := uc.AddToCart(context.Background(), "s1", 42)

	require.Error(t, err)
	assert.ErrorIs(t, err, e.ErrProductNotFound)
}

func TestAddToCartBuildsLineItemFromProductInfo(t *testing.T) {
	productRepo := &fakeProductRepo{
		getProductsInfoFn: func(_ context.Context, ids []int64) ([]ProductInfo, error) {
			require.Equal(t, []int64{7}, ids)
			return []ProductInfo{{
				ID:           7,
				Title:        "Brake Pads",
				CategoryName: "Brakes",
				Price:        599_99,
				ImageKeys:    []string{"brakes/pads-1.jpg", "brakes/pads-2.jpg"},
			}}, nil
		},
	}
	uc := newCartUCForTest(productRepo, newFakeCacheRepo())

	view, err := uc.AddToCart(context.Background(), "s1", 7)

	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	item := view.Items[0]
	assert.EqualValues(t, 7, item.ProductID)
	assert.Equal(t, "Brake Pads", item.Title)
	assert.Equal(t, "Brakes", item.Category)
	assert.EqualValues(t, 599_99, item.Price)
	assert.Equal(t, "brakes/pads-1.jpg", item.ImageKey, "в позицию попадает первый ключ изображения")
	assert.EqualValues(t, 1, item.Quantity)
	assert.EqualValues(t, 599_99, view.Total)
}

func TestAddToCartPrefersCachedProduct(t *testing.T) {
	cacheRepo := newFakeCacheRepo()
	require.NoError(t, cacheRepo.SetProducts(context.Background(), []ProductInfo{
		{ID: 7, Title: "Cached Pads", CategoryName: "Brakes", Price: 100},
	}))

	productRepo := &fakeProductRepo{
		getProductsInfoFn: func(_ context.Context, _ []int64) ([]ProductInfo, error) {
			t.Fatal("при попадании в кэш БД не опрашивается")
			return nil, nil
		},
	}
	uc := newCartUCForTest(productRepo, cacheRepo)

	view, err := uc.AddToCart(context.Background(), "s1", 7)

	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, "Cached Pads", view.Items[0].Title)
}

func TestAddToCartTwiceIncrementsQuantity(t *testing.T) {
	cacheRepo := newFakeCacheRepo()
	require.NoError(t, cacheRepo.SetProducts(context.Background(), []ProductInfo{
		{ID: 7, Title: "Pads", CategoryName: "Brakes", Price: 100},
	}))
	uc := newCartUCForTest(&fakeProductRepo{}, cacheRepo)

	_, err := uc.AddToCart(context.Background(), "s1", 7)
	require.NoError(t, err)
	view, err := uc.AddToCart(context.Background(), "s1", 7)
	require.NoError(t, err)

	require.Len(t, view.Items, 1)
	assert.EqualValues(t, 2, view.Items[0].Quantity)
	assert.EqualValues(t, 2, view.ItemCount)
	assert.EqualValues(t, 200, view.Total)
}

func TestCartsAreIsolatedPerSession(t *testing.T) {
	cacheRepo := newFakeCacheRepo()
	require.NoError(t, cacheRepo.SetProducts(context.Background(), []ProductInfo{
		{ID: 7, Title: "Pads", CategoryName: "Brakes", Price: 100},
	}))
	uc := newCartUCForTest(&fakeProductRepo{}, cacheRepo)

	_, err := uc.AddToCart(context.Background(), "s1", 7)
	require.NoError(t, err)

	other, err := uc.ViewCart(context.Background(), "s2")
	require.NoError(t, err)
	assert.Empty(t, other.Items)
}

func TestUpdateRemoveClearFlow(t *testing.T) {
	ctx := context.Background()
	cacheRepo := newFakeCacheRepo()
	require.NoError(t, cacheRepo.SetProducts(ctx, []ProductInfo{
		{ID: 1, Title: "Pads", CategoryName: "Brakes", Price: 100},
		{ID: 2, Title: "Bulb", CategoryName: "Lighting", Price: 50},
	}))
	uc := newCartUCForTest(&fakeProductRepo{}, cacheRepo)

	_, err := uc.AddToCart(ctx, "s1", 1)
	require.NoError(t, err)
	_, err = uc.AddToCart(ctx, "s1", 2)
	require.NoError(t, err)

	view, err := uc.UpdateQuantity(ctx, "s1", 1, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, view.Items[0].Quantity, "количество ниже единицы нормализуется")

	view, err = uc.RemoveFromCart(ctx, "s1", 1)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.EqualValues(t, 2, view.Items[0].ProductID)

	view, err = uc.ClearCart(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, view.Items)
	assert.EqualValues(t, 0, view.Total)
}
