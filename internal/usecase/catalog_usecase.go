package usecase

import (
	"context"

	"github.com/partsline/storefront/internal/domain"
	"github.com/partsline/storefront/pkg/e"
	"github.com/partsline/storefront/pkg/logger"
)

// CatalogUseCase реализует витринные запросы каталога: списки товаров,
// категории и выборку по категории с нечётким разрешением её имени.
type CatalogUseCase struct {
	productRepo  ProductRepository
	categoryRepo CategoryRepository
	logger       logger.Logger
}

func NewCatalogUC(productRepo ProductRepository, categoryRepo CategoryRepository, logger logger.Logger) *CatalogUseCase {
	return &CatalogUseCase{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		logger:       logger,
	}
}

// ListProducts возвращает страницу каталога.
func (c *CatalogUseCase) ListProducts(ctx context.Context, req *ListProductsReq) ([]ProductInfo, error) {
	const (
		op           = "CatalogUseCase.ListProducts"
		defaultLimit = 20
		maxLimit     = 100
	)

	limit := req.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	offset := req.Offset
	if offset < 0 {
		offset = 0
	}

	products, err := c.productRepo.ListProducts(ctx, limit, offset)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return products, nil
}

// ListCategories возвращает все активные категории каталога.
func (c *CatalogUseCase) ListCategories(ctx context.Context) ([]domain.Category, error) {
	const op = "CatalogUseCase.ListCategories"

	categories, err := c.categoryRepo.List(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return categories, nil
}

// GetProductsByCategory разрешает запрошенное имя категории относительно
// известного набора и возвращает её товары. Нераспознанная категория — это
// отрицательный результат (Matched=false), а не ошибка.
func (c *CatalogUseCase) GetProductsByCategory(ctx context.Context, requested string) (*ProductsByCategoryRes, error) {
	const op = "CatalogUseCase.GetProductsByCategory"

	categories, err := c.categoryRepo.List(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	known := make([]string, len(categories))
	for i, cat := range categories {
		known[i] = cat.Name
	}

	match := domain.ResolveCategory(requested, known)
	if !match.Matched {
		c.logger.Debugf("category %q did not resolve against %d known categories", requested, len(known))
		return &ProductsByCategoryRes{}, nil
	}

	products, err := c.productRepo.ListProductsByCategory(ctx, match.Canonical)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return &ProductsByCategoryRes{
		Matched:  true,
		Category: match.Canonical,
		Products: products,
	}, nil
}
