package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/partsline/storefront/internal/domain"
	"github.com/partsline/storefront/pkg/e"
	"github.com/partsline/storefront/pkg/logger"
)

// ProductUseCase реализует бизнес-логику управления товарами каталога.
type ProductUseCase struct {
	productRepo  ProductRepository
	categoryRepo CategoryRepository
	outboxRepo   OutboxRepository
	dbPool       transaction.Transactional
	imagesInfra  ImagesInfra
	logger       logger.Logger
	cacheRepo    CacheRepository
}

func NewProductUC(
	productRepo ProductRepository,
	categoryRepo CategoryRepository,
	outboxRepo OutboxRepository,
	dbPool transaction.Transactional,
	imagesInfra ImagesInfra,
	logger logger.Logger,
	cacheRepo CacheRepository,
) *ProductUseCase {
	return &ProductUseCase{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		outboxRepo:   outboxRepo,
		dbPool:       dbPool,
		imagesInfra:  imagesInfra,
		logger:       logger,
		cacheRepo:    cacheRepo,
	}
}

// productUpsertedPayload — тело события product_upserted для outbox.
type productUpsertedPayload struct {
	EventID   string   `json:"event_id"`
	ProductID int64    `json:"product_id"`
	Title     string   `json:"title"`
	Price     int64    `json:"price"`
	Category  string   `json:"category"`
	ImageKeys []string `json:"image_keys,omitempty"`
	Timestamp int64    `json:"timestamp"`
}

// RegisterNewProduct обрабатывает добавление нового товара с изображениями,
// категорией, outbox-событием и сохранением в хранилища.
func (p *ProductUseCase) RegisterNewProduct(ctx context.Context, req *AddNewProductReq) (*OutboxEvent, error) {
	const op = "ProductUseCase.RegisterNewProduct"

	// Валидация данных
	var err error
	err = p.validateProduct(req)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	var (
		imagesRes *UploadImagesRes
		uploaded  bool
	)

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, p.dbPool)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	// Если произошла ошибка, происходит Rollback транзакции и очистка загруженных изображений
	defer func() {
		if err != nil {
			if tx.IsActive() {
				tx.Rollback(ctx)
			}

			if uploaded && imagesRes != nil {
				p.logger.Warnf(
					"Cleaning up orphaned images after transaction failure. product_title: %s, error: %v",
					req.Title,
					e.Wrap(op, err),
				)

				p.imagesInfra.CleanupImages(imagesRes.ImagesKeys)
			}
		}
	}()
	ctx = context.WithValue(ctx, "tx", tx.Transaction())

	// идемпотентное создание категории
	category, err := p.createCategory(ctx, req.CategoryName)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	// идемпотентное создание товара
	upserted, err := p.upsertProduct(ctx, req, category.ID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	product := upserted.Product

	if upserted.NoChanges && len(req.Images) == 0 {
		if err = tx.Commit(ctx); err != nil {
			return nil, e.Wrap(op, err)
		}
		return nil, nil
	}

	// Сохранение изображений в MinIO
	var imageKeys []string
	if len(req.Images) > 0 {
		imagesRes, err = p.uploadImages(ctx, req.Title, req.Images)
		if err != nil {
			return nil, e.Wrap(op, err)
		}
		uploaded = true
		imageKeys = imagesRes.ImagesKeys

		if err = p.productRepo.SetImageKeys(ctx, product.ID, imageKeys); err != nil {
			return nil, e.Wrap(op, err)
		}
	}

	// Событие фиксируется в той же транзакции, что и товар
	event, err := p.createOutboxEvent(ctx, product, category.Name, imageKeys)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	// Коммит изменений в бд
	err = tx.Commit(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	// Удаление из кэша старых данных товара
	if err := p.cacheRepo.DeleteProducts(ctx, []int64{product.ID}); err != nil {
		p.logger.Warnf("Failed to delete products from cache: %v", e.Wrap(op, err))
	}

	return event, nil
}

// GetProductsInfo возвращает информацию о товарах по их идентификаторам.
func (p *ProductUseCase) GetProductsInfo(ctx context.Context, req *GetProductsReq) (*GetProductsRes, error) {
	const op = "ProductUseCase.GetProductsInfo"

	// Валидация
	if len(req.IDs) == 0 {
		return nil, e.Wrap(op, e.ErrNoProducts)
	}

	// Поиск товаров в кэше
	cacheProductsMap, err := p.cacheRepo.GetProducts(ctx, req.IDs)
	var nonCacheable []int64
	if err != nil {
		nonCacheable = append(nonCacheable, req.IDs...)
	} else {
		for _, productId := range req.IDs {
			if _, ok := cacheProductsMap[productId]; !ok {
				nonCacheable = append(nonCacheable, productId)
			}
		}
	}

	// Получение товаров из БД
	var productsInfoFromDB []ProductInfo
	if len(nonCacheable) > 0 {
		productsInfoFromDB, err = p.productRepo.GetProductsInfo(ctx, nonCacheable)
		if err != nil {
			return nil, e.Wrap(op, err)
		}

		// Фоновое добавление товаров в кэш
		go func() {
			bgCtx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
			defer cancel()

			if err := p.cacheRepo.SetProducts(bgCtx, productsInfoFromDB); err != nil {
				p.logger.Warnf("Failed to cache products in background: %v", e.Wrap(op, err))
			}
		}()
	}

	dbProductsMap := make(map[int64]ProductInfo, len(productsInfoFromDB))
	for _, productInfo := range productsInfoFromDB {
		dbProductsMap[productInfo.ID] = productInfo
	}

	// Формирование результата
	result := make([]ProductInfo, 0, len(req.IDs))
	notFoundProducts := make([]int64, 0)
	for _, id := range req.IDs {
		if pr, ok := cacheProductsMap[id]; ok {
			result = append(result, pr)
		} else if pr, ok := dbProductsMap[id]; ok {
			result = append(result, pr)
		} else {
			notFoundProducts = append(notFoundProducts, id)
		}
	}

	return NewGetProductsRes(result, notFoundProducts), nil
}

// upsertProduct идемпотентно создаёт или обновляет товар.
func (p *ProductUseCase) upsertProduct(ctx context.Context, req *AddNewProductReq, categoryID int64) (*UpsertProductRes, error) {
	return p.productRepo.Upsert(ctx, domain.NewProduct(req.Title, req.Price, categoryID, req.Description, req.Specs))
}

// createCategory идемпотентно создаёт категорию.
func (p *ProductUseCase) createCategory(ctx context.Context, categoryName string) (*domain.Category, error) {
	return p.categoryRepo.Create(ctx, domain.NewCategory(categoryName))
}

// uploadImages сохраняет изображения товара в MinIO.
func (p *ProductUseCase) uploadImages(ctx context.Context, title string, images []ProductImage) (*UploadImagesRes, error) {
	return p.imagesInfra.UploadImages(ctx, NewUploadImagesReq(title, images))
}

// createOutboxEvent записывает событие product_upserted в outbox.
func (p *ProductUseCase) createOutboxEvent(ctx context.Context, product *domain.Product, categoryName string, imageKeys []string) (*OutboxEvent, error) {
	eventID := uuid.NewString()
	payload, err := json.Marshal(productUpsertedPayload{
		EventID:   eventID,
		ProductID: product.ID,
		Title:     product.Title,
		Price:     product.Price,
		Category:  categoryName,
		ImageKeys: imageKeys,
		Timestamp: time.Now().UTC().UnixNano(),
	})
	if err != nil {
		return nil, err
	}

	return p.outboxRepo.Create(ctx, &OutboxEvent{
		EventID:     eventID,
		EventType:   ProductUpserted,
		AggregateID: product.ID,
		Payload:     payload,
		Status:      Pending,
		CreatedAt:   time.Now().UTC(),
	})
}

// validateProduct проверяет корректность входных данных запроса на добавление товара.
func (p *ProductUseCase) validateProduct(req *AddNewProductReq) error {
	if strings.TrimSpace(req.Title) == "" {
		return e.ErrProductNameRequired
	}

	if strings.TrimSpace(req.CategoryName) == "" {
		return e.ErrMissingFields
	}

	if req.Price <= 0 {
		return e.ErrPriceMustBePositive
	}

	return nil
}
