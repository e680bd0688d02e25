package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partsline/storefront/internal/domain"
	"github.com/partsline/storefront/pkg/logger"
)

// fakeProductRepo — управляемая заглушка ProductRepository.
type fakeProductRepo struct {
	upsertFn                 func(ctx context.Context, product *domain.Product) (*UpsertProductRes, error)
	getProductsInfoFn        func(ctx context.Context, ids []int64) ([]ProductInfo, error)
	listProductsFn           func(ctx context.Context, limit, offset int) ([]ProductInfo, error)
	listProductsByCategoryFn func(ctx context.Context, categoryName string) ([]ProductInfo, error)
	setImageKeysFn           func(ctx context.Context, productID int64, keys []string) error
}

func (f *fakeProductRepo) Upsert(ctx context.Context, product *domain.Product) (*UpsertProductRes, error) {
	return f.upsertFn(ctx, product)
}

func (f *fakeProductRepo) GetProductsInfo(ctx context.Context, ids []int64) ([]ProductInfo, error) {
	return f.getProductsInfoFn(ctx, ids)
}

func (f *fakeProductRepo) ListProducts(ctx context.Context, limit, offset int) ([]ProductInfo, error) {
	return f.listProductsFn(ctx, limit, offset)
}

func (f *fakeProductRepo) ListProductsByCategory(ctx context.Context, categoryName string) ([]ProductInfo, error) {
	return f.listProductsByCategoryFn(ctx, categoryName)
}

func (f *fakeProductRepo) SetImageKeys(ctx context.Context, productID int64, keys []string) error {
	return f.setImageKeysFn(ctx, productID, keys)
}

// fakeCategoryRepo — управляемая заглушка CategoryRepository.
type fakeCategoryRepo struct {
	createFn func(ctx context.Context, category *domain.Category) (*domain.Category, error)
	listFn   func(ctx context.Context) ([]domain.Category, error)
}

func (f *fakeCategoryRepo) Create(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	return f.createFn(ctx, category)
}

func (f *fakeCategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	return f.listFn(ctx)
}

func TestListProductsClampsLimitAndOffset(t *testing.T) {
	var gotLimit, gotOffset int
	productRepo := &fakeProductRepo{
		listProductsFn: func(_ context.Context, limit, offset int) ([]ProductInfo, error) {
			gotLimit, gotOffset = limit, offset
			return nil, nil
		},
	}
	uc := NewCatalogUC(productRepo, &fakeCategoryRepo{}, logger.NewSlogLogger())

	_, err := uc.ListProducts(context.Background(), &ListProductsReq{Limit: 0, Offset: -5})
	require.NoError(t, err)
	assert.Equal(t, 20, gotLimit)
	assert.Equal(t, 0, gotOffset)

	_, err = uc.ListProducts(context.Background(), &ListProductsReq{Limit: 1000, Offset: 40})
	require.NoError(t, err)
	assert.Equal(t, 100, gotLimit)
	assert.Equal(t, 40, gotOffset)
}

func TestGetProductsByCategoryMatched(t *testing.T) {
	categoryRepo := &fakeCategoryRepo{
		listFn: func(_ context.Context) ([]domain.Category, error) {
			return []domain.Category{{ID: 1, Name: "Brakes"}, {ID: 2, Name: "Engine"}}, nil
		},
	}
	productRepo := &fakeProductRepo{
		listProductsByCategoryFn: func(_ context.Context, categoryName string) ([]ProductInfo, error) {
			require.Equal(t, "Brakes", categoryName)
			return []ProductInfo{{ID: 7, Title: "Pads", CategoryName: "Brakes", Price: 599_99}}, nil
		},
	}
	uc := NewCatalogUC(productRepo, categoryRepo, logger.NewSlogLogger())

	res, err := uc.GetProductsByCategory(context.Background(), "brake")

	require.NoError(t, err)
	assert.True(t, res.Matched)
	assert.Equal(t, "Brakes", res.Category)
	require.Len(t, res.Products, 1)
	assert.EqualValues(t, 7, res.Products[0].ID)
}

func TestGetProductsByCategoryUnmatchedIsNotAnError(t *testing.T) {
	categoryRepo := &fakeCategoryRepo{
		listFn: func(_ context.Context) ([]domain.Category, error) {
			return []domain.Category{{ID: 1, Name: "Brakes"}}, nil
		},
	}
	productRepo := &fakeProductRepo{
		listProductsByCategoryFn: func(_ context.Context, _ string) ([]ProductInfo, error) {
			t.Fatal("нераспознанная категория не должна приводить к выборке товаров")
			return nil, nil
		},
	}
	uc := NewCatalogUC(productRepo, categoryRepo, logger.NewSlogLogger())

	res, err := uc.GetProductsByCategory(context.Background(), "tires")

	require.NoError(t, err)
	assert.False(t, res.Matched)
	assert.Empty(t, res.Category)
	assert.Empty(t, res.Products)
}

func TestGetProductsByCategoryRepoError(t *testing.T) {
	wantErr := errors.New("db down")
	categoryRepo := &fakeCategoryRepo{
		listFn: func(_ context.Context) ([]domain.Category, error) {
			return nil, wantErr
		},
	}
	uc := NewCatalogUC(&fakeProductRepo{}, categoryRepo, logger.NewSlogLogger())

	_, err := uc.GetProductsByCategory(context.Background(), "brakes")

	require.Error(t, err)
	assert.ErrorIs(t, err, wantErr)
}
