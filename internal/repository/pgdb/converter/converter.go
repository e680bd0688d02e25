package converter

import (
	"github.com/partsline/storefront/internal/domain"
	"github.com/partsline/storefront/internal/usecase"
)

// ProductConverter преобразует сущности Product между domain и моделью PostgreSQL.
type ProductConverter interface {
	ToModel(entity *domain.Product) *ProductModel
	ToEntity(model *ProductModel) *domain.Product
}

// CategoryConverter преобразует сущности Category между domain и моделью PostgreSQL.
type CategoryConverter interface {
	ToModel(entity *domain.Category) *CategoryModel
	ToEntity(model *CategoryModel) *domain.Category
}

// OrderConverter преобразует сущности Order между domain и моделью PostgreSQL.
type OrderConverter interface {
	ToModel(entity *domain.Order) *OrderModel
	ToEntity(model *OrderModel) *domain.Order
}

// OutboxEventConverter преобразует сущности OutboxEvent между usecase и моделью PostgreSQL.
type OutboxEventConverter interface {
	ToModel(entity *usecase.OutboxEvent) *OutboxEventModel
	ToEntity(model *OutboxEventModel) *usecase.OutboxEvent
	ToArrEntity(models []*OutboxEventModel) []*usecase.OutboxEvent
}

type ProductConverterImpl struct{}

func NewProductConverterImpl() *ProductConverterImpl { return &ProductConverterImpl{} }

func (ProductConverterImpl) ToModel(entity *domain.Product) *ProductModel {
	return &ProductModel{
		ID:          entity.ID,
		Title:       entity.Title,
		Price:       entity.Price,
		CategoryID:  entity.CategoryID,
		Description: entity.Description,
		ImageKeys:   entity.ImageKeys,
		RatingRate:  entity.Rating.Rate,
		RatingCount: entity.Rating.Count,
		Specs:       entity.Specs,
		CreatedAt:   entity.CreatedAt,
		UpdatedAt:   entity.UpdatedAt,
		IsArchived:  entity.IsArchived,
	}
}

func (ProductConverterImpl) ToEntity(model *ProductModel) *domain.Product {
	return &domain.Product{
		ID:          model.ID,
		Title:       model.Title,
		Price:       model.Price,
		CategoryID:  model.CategoryID,
		Description: model.Description,
		ImageKeys:   model.ImageKeys,
		Rating:      domain.Rating{Rate: model.RatingRate, Count: model.RatingCount},
		Specs:       model.Specs,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
		IsArchived:  model.IsArchived,
	}
}

type CategoryConverterImpl struct{}

func NewCategoryConverterImpl() *CategoryConverterImpl { return &CategoryConverterImpl{} }

func (CategoryConverterImpl) ToModel(entity *domain.Category) *CategoryModel {
	return &CategoryModel{
		ID:         entity.ID,
		Name:       entity.Name,
		CreatedAt:  entity.CreatedAt,
		UpdatedAt:  entity.UpdatedAt,
		IsArchived: entity.IsArchived,
	}
}

func (CategoryConverterImpl) ToEntity(model *CategoryModel) *domain.Category {
	return &domain.Category{
		ID:         model.ID,
		Name:       model.Name,
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
		IsArchived: model.IsArchived,
	}
}

type OrderConverterImpl struct{}

func NewOrderConverterImpl() *OrderConverterImpl { return &OrderConverterImpl{} }

func (OrderConverterImpl) ToModel(entity *domain.Order) *OrderModel {
	return &OrderModel{
		ID:        entity.ID,
		SessionID: entity.SessionID,
		Total:     entity.Total,
		ItemCount: entity.ItemCount,
		Status:    string(entity.Status),
		CreatedAt: entity.CreatedAt,
	}
}

func (OrderConverterImpl) ToEntity(model *OrderModel) *domain.Order {
	return &domain.Order{
		ID:        model.ID,
		SessionID: model.SessionID,
		Total:     model.Total,
		ItemCount: model.ItemCount,
		Status:    domain.OrderStatus(model.Status),
		CreatedAt: model.CreatedAt,
	}
}

type OutboxEventConverterImpl struct{}

func NewOutboxEventConverterImpl() *OutboxEventConverterImpl { return &OutboxEventConverterImpl{} }

func (OutboxEventConverterImpl) ToModel(entity *usecase.OutboxEvent) *OutboxEventModel {
	return &OutboxEventModel{
		ID:          entity.ID,
		EventID:     entity.EventID,
		EventType:   string(entity.EventType),
		AggregateID: entity.AggregateID,
		Payload:     entity.Payload,
		Status:      string(entity.Status),
		CreatedAt:   entity.CreatedAt,
		ProcessedAt: entity.ProcessedAt,
	}
}

func (OutboxEventConverterImpl) ToEntity(model *OutboxEventModel) *usecase.OutboxEvent {
	return &usecase.OutboxEvent{
		ID:          model.ID,
		EventID:     model.EventID,
		EventType:   usecase.OutboxEventType(model.EventType),
		AggregateID: model.AggregateID,
		Payload:     model.Payload,
		Status:      usecase.OutboxStatus(model.Status),
		CreatedAt:   model.CreatedAt,
		ProcessedAt: model.ProcessedAt,
	}
}

func (c OutboxEventConverterImpl) ToArrEntity(models []*OutboxEventModel) []*usecase.OutboxEvent {
	result := make([]*usecase.OutboxEvent, 0, len(models))
	for _, model := range models {
		result = append(result, c.ToEntity(model))
	}

	return result
}
