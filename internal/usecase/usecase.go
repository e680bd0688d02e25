package usecase

import (
	"context"

	"github.com/partsline/storefront/internal/domain"
)

type ProductUC interface {
	RegisterNewProduct(ctx context.Context, req *AddNewProductReq) (*OutboxEvent, error)
	GetProductsInfo(ctx context.Context, req *GetProductsReq) (*GetProductsRes, error)
}

type CatalogUC interface {
	ListProducts(ctx context.Context, req *ListProductsReq) ([]ProductInfo, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	GetProductsByCategory(ctx context.Context, requested string) (*ProductsByCategoryRes, error)
}

type CartUC interface {
	AddToCart(ctx context.Context, sessionID string, productID int64) (*CartView, error)
	UpdateQuantity(ctx context.Context, sessionID string, productID int64, quantity int64) (*CartView, error)
	RemoveFromCart(ctx context.Context, sessionID string, productID int64) (*CartView, error)
	ClearCart(ctx context.Context, sessionID string) (*CartView, error)
	ViewCart(ctx context.Context, sessionID string) (*CartView, error)
}

type CheckoutUC interface {
	PlaceOrder(ctx context.Context, sessionID string) (*PlaceOrderRes, error)
}
