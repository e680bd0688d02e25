package usecase

import (
	"time"

	"github.com/partsline/storefront/internal/domain"
)

// PRODUCT / CATALOG

// AddNewProductReq — запрос на добавление нового товара.
type AddNewProductReq struct {
	Title        string
	CategoryName string
	Price        int64
	Description  string
	Specs        map[string]string
	Images       []ProductImage
}

// ProductImage представляет изображение, загруженное через multipart/form-data.
type ProductImage struct {
	Data     []byte // байты изображения
	MimeType string // Content-Type из multipart (image/jpeg)
	Size     int64  // фактический размер в байтах
	Name     string // оригинальное имя файла (для логов)
}

// GetProductsReq запрос информации о товарах по их идентификаторам.
type GetProductsReq struct {
	IDs []int64
}

// GetProductsRes — ответ с данными запрошенных товаров.
type GetProductsRes struct {
	Products         []ProductInfo
	NotFoundProducts []int64
}

// ProductInfo — DTO с информацией о товаре для внешнего использования.
type ProductInfo struct {
	ID           int64
	Title        string
	CategoryName string
	Price        int64
	Description  string
	ImageKeys    []string
	RatingRate   float64
	RatingCount  int64
	Specs        map[string]string
}

// ListProductsReq — запрос списка товаров каталога.
type ListProductsReq struct {
	Limit  int
	Offset int
}

// ProductsByCategoryRes — результат выборки товаров по запрошенной категории.
// Matched=false означает, что категория не распознана; это не ошибка.
type ProductsByCategoryRes struct {
	Matched  bool
	Category string
	Products []ProductInfo
}

// CART

// CartView — снимок корзины с производными значениями для выдачи наружу.
type CartView struct {
	Items     []domain.CartLineItem
	ItemCount int64
	Total     int64
}

// CHECKOUT

// PlaceOrderRes — результат оформления заказа.
type PlaceOrderRes struct {
	OrderID   int64
	EventID   string
	Total     int64
	ItemCount int64
}

// OUTBOX

type OutboxStatus string

const (
	Pending    OutboxStatus = "pending"
	Processing OutboxStatus = "processing"
	Processed  OutboxStatus = "processed"
)

type OutboxEventType string

const (
	ProductUpserted OutboxEventType = "product_upserted"
	OrderPlaced     OutboxEventType = "order_placed"
)

// OutboxEvent — запись transactional outbox: событие фиксируется в той же
// транзакции, что и изменение данных, и доставляется в Kafka воркером.
type OutboxEvent struct {
	ID          int64
	EventID     string
	EventType   OutboxEventType
	AggregateID int64
	Payload     []byte
	Status      OutboxStatus
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// INFRASTRUCTURE

type WriteRawMessageReq struct {
	AggregateID int64
	Payload     []byte
}

// TODO: пересмотреть структуру
// UploadImagesRes — результат загрузки изображений (ключи в MinIO).
type UploadImagesRes struct {
	ImagesKeys []string
}

// UploadImagesReq — запрос на загрузку изображений товара.
type UploadImagesReq struct {
	Title  string
	Images []ProductImage
}

// REPOSITORIES

type UpsertProductRes struct {
	Product   *domain.Product
	NoChanges bool
}

// MAPPERS

func NewUpsertProductRes(product *domain.Product, noChanges bool) *UpsertProductRes {
	return &UpsertProductRes{
		Product:   product,
		NoChanges: noChanges,
	}
}

func NewProductInfo(id int64, title string, category string, price int64) ProductInfo {
	return ProductInfo{
		ID:           id,
		Title:        title,
		CategoryName: category,
		Price:        price,
	}
}

func NewUploadImagesReq(title string, images []ProductImage) *UploadImagesReq {
	return &UploadImagesReq{
		Title:  title,
		Images: images,
	}
}

func NewUploadImagesRes(imagesKeys []string) *UploadImagesRes {
	return &UploadImagesRes{
		ImagesKeys: imagesKeys,
	}
}

func NewAddNewProductReq(title string, category string, price int64, description string, specs map[string]string, images []ProductImage) *AddNewProductReq {
	return &AddNewProductReq{
		Title:        title,
		CategoryName: category,
		Price:        price,
		Description:  description,
		Specs:        specs,
		Images:       images,
	}
}

func NewProductImage(data []byte, mimeType string, size int64, name string) *ProductImage {
	return &ProductImage{
		Data:     data,
		MimeType: mimeType,
		Size:     size,
		Name:     name,
	}
}

func NewGetProductsRes(pr []ProductInfo, notFoundProducts []int64) *GetProductsRes {
	return &GetProductsRes{
		Products:         pr,
		NotFoundProducts: notFoundProducts,
	}
}

func NewGetProductsReq(ids []int64) *GetProductsReq {
	return &GetProductsReq{ids}
}

func NewWriteRawMessageReq(aggregateID int64, payload []byte) *WriteRawMessageReq {
	return &WriteRawMessageReq{
		AggregateID: aggregateID,
		Payload:     payload,
	}
}

func NewCartView(items []domain.CartLineItem, itemCount int64, total int64) *CartView {
	return &CartView{
		Items:     items,
		ItemCount: itemCount,
		Total:     total,
	}
}
