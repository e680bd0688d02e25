package converter

import (
	"github.com/partsline/storefront/internal/usecase"
)

// ProductInfoConverter преобразует продуктовые карточки между usecase и
// Redis-моделью кэша.
type ProductInfoConverter interface {
	ToRedisModel(entity *usecase.ProductInfo) *ProductInfoRedisModel
	ToUseCase(model *ProductInfoRedisModel) *usecase.ProductInfo
	ToArrRedisModel(entities []usecase.ProductInfo) []ProductInfoRedisModel
	ToArrUseCase(models []ProductInfoRedisModel) []usecase.ProductInfo
}

type ProductInfoConverterImpl struct{}

func NewProductInfoConverterImpl() *ProductInfoConverterImpl { return &ProductInfoConverterImpl{} }

func (ProductInfoConverterImpl) ToRedisModel(entity *usecase.ProductInfo) *ProductInfoRedisModel {
	return &ProductInfoRedisModel{
		ID:           entity.ID,
		Title:        entity.Title,
		CategoryName: entity.CategoryName,
		Price:        entity.Price,
		Description:  entity.Description,
		ImageKeys:    entity.ImageKeys,
		RatingRate:   entity.RatingRate,
		RatingCount:  entity.RatingCount,
		Specs:        entity.Specs,
	}
}

func (ProductInfoConverterImpl) ToUseCase(model *ProductInfoRedisModel) *usecase.ProductInfo {
	return &usecase.ProductInfo{
		ID:           model.ID,
		Title:        model.Title,
		CategoryName: model.CategoryName,
		Price:        model.Price,
		Description:  model.Description,
		ImageKeys:    model.ImageKeys,
		RatingRate:   model.RatingRate,
		RatingCount:  model.RatingCount,
		Specs:        model.Specs,
	}
}

func (c ProductInfoConverterImpl) ToArrRedisModel(entities []usecase.ProductInfo) []ProductInfoRedisModel {
	result := make([]ProductInfoRedisModel, 0, len(entities))
	for i := range entities {
		result = append(result, *c.ToRedisModel(&entities[i]))
	}

	return result
}

func (c ProductInfoConverterImpl) ToArrUseCase(models []ProductInfoRedisModel) []usecase.ProductInfo {
	result := make([]usecase.ProductInfo, 0, len(models))
	for i := range models {
		result = append(result, *c.ToUseCase(&models[i]))
	}

	return result
}
