package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/partsline/storefront/internal/usecase"
	"github.com/partsline/storefront/pkg/logger"
)

type CatalogHandler struct {
	catalogUsecase usecase.CatalogUC
	logger         logger.Logger
}

func NewCatalogHandler(catalogUsecase usecase.CatalogUC, logger logger.Logger) *CatalogHandler {
	return &CatalogHandler{catalogUsecase: catalogUsecase, logger: logger}
}

// productResponse — представление товара в ответах каталога.
type productResponse struct {
	ID          int64             `json:"id"`
	Title       string            `json:"title"`
	Category    string            `json:"category"`
	Price       int64             `json:"price"`
	Description string            `json:"description,omitempty"`
	ImageKeys   []string          `json:"image_keys,omitempty"`
	RatingRate  float64           `json:"rating_rate"`
	RatingCount int64             `json:"rating_count"`
	Specs       map[string]string `json:"specs,omitempty"`
}

type categoryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type productsByCategoryResponse struct {
	Matched  bool              `json:"matched"`
	Category string            `json:"category,omitempty"`
	Products []productResponse `json:"products"`
}

// listProducts
//
//	@Summary	Список товаров каталога
//	@Tags		catalog
//	@Produce	json
//	@Param		limit	query		int	false	"Размер страницы"
//	@Param		offset	query		int	false	"Смещение"
//	@Success	200		{array}		productResponse
//	@Failure	500		{object}	ErrorResponse
//	@Router		/products [get]
func (c *CatalogHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	products, err := c.catalogUsecase.ListProducts(r.Context(), &usecase.ListProductsReq{Limit: limit, Offset: offset})
	if err != nil {
		c.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductResponses(products))
}

// listCategories
//
//	@Summary	Список категорий каталога
//	@Tags		catalog
//	@Produce	json
//	@Success	200	{array}		categoryResponse
//	@Failure	500	{object}	ErrorResponse
//	@Router		/categories [get]
func (c *CatalogHandler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := c.catalogUsecase.ListCategories(r.Context())
	if err != nil {
		c.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	result := make([]categoryResponse, 0, len(categories))
	for _, category := range categories {
		result = append(result, categoryResponse{ID: category.ID, Name: category.Name})
	}

	WriteSuccess(w, http.StatusOK, result)
}

// productsByCategory
//
//	@Summary		Товары запрошенной категории
//	@Description	Имя категории нормализуется и разрешается через алиасы и число;
//	@Description	нераспознанная категория возвращает matched=false и пустой список, а не ошибку
//	@Tags			catalog
//	@Produce		json
//	@Param			name	path		string	true	"Имя категории в любом регистре"
//	@Success		200		{object}	productsByCategoryResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/categories/{name}/products [get]
func (c *CatalogHandler) productsByCategory(w http.ResponseWriter, r *http.Request) {
	requested := chi.URLParam(r, "name")

	res, err := c.catalogUsecase.GetProductsByCategory(r.Context(), requested)
	if err != nil {
		c.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, productsByCategoryResponse{
		Matched:  res.Matched,
		Category: res.Category,
		Products: toProductResponses(res.Products),
	})
}

func toProductResponses(products []usecase.ProductInfo) []productResponse {
	result := make([]productResponse, 0, len(products))
	for _, product := range products {
		result = append(result, productResponse{
			ID:          product.ID,
			Title:       product.Title,
			Category:    product.CategoryName,
			Price:       product.Price,
			Description: product.Description,
			ImageKeys:   product.ImageKeys,
			RatingRate:  product.RatingRate,
			RatingCount: product.RatingCount,
			Specs:       product.Specs,
		})
	}

	return result
}
