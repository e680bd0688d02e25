package usecase

import (
	"context"
	"time"

	"github.com/partsline/storefront/internal/cart"
	"github.com/partsline/storefront/internal/domain"
	"github.com/partsline/storefront/pkg/e"
	"github.com/partsline/storefront/pkg/logger"
)

// CartUseCase — фасад над корзинами сессий: находит товар в кэше/БД и
// делегирует мутации агрегирующей корзине. Операции корзины сами по себе
// ошибок не возвращают; ошибкой фасада может быть только неизвестный товар
// или недоступность каталога.
type CartUseCase struct {
	carts       *cart.Manager
	productRepo ProductRepository
	cacheRepo   CacheRepository
	logger      logger.Logger
}

func NewCartUC(carts *cart.Manager, productRepo ProductRepository, cacheRepo CacheRepository, logger logger.Logger) *CartUseCase {
	return &CartUseCase{
		carts:       carts,
		productRepo: productRepo,
		cacheRepo:   cacheRepo,
		logger:      logger,
	}
}

// AddToCart добавляет товар в корзину сессии: существующая позиция
// увеличивает количество, новая добавляется с количеством 1.
func (c *CartUseCase) AddToCart(ctx context.Context, sessionID string, productID int64) (*CartView, error) {
	const op = "CartUseCase.AddToCart"

	info, err := c.lookupProduct(ctx, productID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	store := c.carts.Get(ctx, sessionID)
	store.AddToCart(ctx, domain.CartLineItem{
		ProductID: info.ID,
		Title:     info.Title,
		Price:     info.Price,
		Category:  info.CategoryName,
		ImageKey:  firstKey(info.ImageKeys),
	})

	return c.view(store), nil
}

// UpdateQuantity выставляет количество позиции (минимум 1); отсутствие
// товара в корзине — no-op.
func (c *CartUseCase) UpdateQuantity(ctx context.Context, sessionID string, productID int64, quantity int64) (*CartView, error) {
	store := c.carts.Get(ctx, sessionID)
	store.UpdateQuantity(ctx, productID, quantity)

	return c.view(store), nil
}

// RemoveFromCart удаляет позицию; отсутствие товара — no-op.
func (c *CartUseCase) RemoveFromCart(ctx context.Context, sessionID string, productID int64) (*CartView, error) {
	store := c.carts.Get(ctx, sessionID)
	store.RemoveFromCart(ctx, productID)

	return c.view(store), nil
}

// ClearCart опустошает корзину сессии.
func (c *CartUseCase) ClearCart(ctx context.Context, sessionID string) (*CartView, error) {
	store := c.carts.Get(ctx, sessionID)
	store.ClearCart(ctx)

	return c.view(store), nil
}

// ViewCart возвращает снимок корзины с производными значениями.
func (c *CartUseCase) ViewCart(ctx context.Context, sessionID string) (*CartView, error) {
	return c.view(c.carts.Get(ctx, sessionID)), nil
}

func (c *CartUseCase) view(store *cart.Store) *CartView {
	return NewCartView(store.Items(), store.ItemCount(), store.Total())
}

// lookupProduct ищет товар в кэше, затем в БД; промах БД — ErrProductNotFound.
func (c *CartUseCase) lookupProduct(ctx context.Context, productID int64) (*ProductInfo, error) {
	cached, err := c.cacheRepo.GetProducts(ctx, []int64{productID})
	if err == nil {
		if info, ok := cached[productID]; ok {
			return &info, nil
		}
	}

	fromDB, err := c.productRepo.GetProductsInfo(ctx, []int64{productID})
	if err != nil {
		return nil, err
	}
	if len(fromDB) == 0 {
		return nil, e.ErrProductNotFound
	}

	info := fromDB[0]

	// Фоновое добавление товара в кэш
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()

		if err := c.cacheRepo.SetProducts(bgCtx, []ProductInfo{info}); err != nil {
			c.logger.Warnf("Failed to cache product %d in background: %v", info.ID, err)
		}
	}()

	return &info, nil
}

func firstKey(keys []string) string {
	if len(keys) == 0 {
		return ""
	}
	return keys[0]
}
