package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/partsline/storefront/internal/usecase"
	"github.com/partsline/storefront/pkg/e"
	"github.com/partsline/storefront/pkg/logger"
)

type ProductHandler struct {
	productUsecase usecase.ProductUC
	logger         logger.Logger
}

func NewProductHandler(productUsecase usecase.ProductUC, logger logger.Logger) *ProductHandler {
	return &ProductHandler{productUsecase: productUsecase, logger: logger}
}

// registerNewProduct
//
//	@Summary		Регистрация нового товара
//	@Description	Создает новый товар в каталоге с изображениями
//	@Tags			products
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			title		formData	string					true	"Название товара"
//	@Param			category	formData	string					true	"Категория"
//	@Param			price		formData	number					true	"Цена"
//	@Param			description	formData	string					false	"Описание"
//	@Param			specs		formData	string					false	"Характеристики (JSON-объект)"
//	@Param			images		formData	file					true	"Изображения товара"
//	@Success		201			{object}	map[string]interface{}	"Успешное создание"
//	@Failure		400			{object}	ErrorResponse			"Ошибка валидации"
//	@Router			/products [post]
func (p *ProductHandler) registerNewProduct(w http.ResponseWriter, r *http.Request) {
	const (
		maxTotalRequestSize = 150 << 20
		maxMemory           = 32 << 20
	)

	r.Body = http.MaxBytesReader(w, r.Body, maxTotalRequestSize)

	if err := ensureMultipartForm(r, maxMemory); err != nil {
		p.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), r.Header.Get("Content-Type"))
		WriteError(w, err)
		return
	}

	prMeta, err := parseProductForm(r)
	if err != nil {
		p.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	images, err := parseImages(r.MultipartForm.File["images"])
	if err != nil {
		if !errors.Is(err, e.ErrNoImages) {
			p.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
			WriteError(w, err)
			return
		}
	}

	event, err := p.productUsecase.RegisterNewProduct(r.Context(),
		usecase.NewAddNewProductReq(prMeta.Title, prMeta.CategoryName, prMeta.Price, prMeta.Description, prMeta.Specs, images))
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	if event != nil {
		WriteSuccess(w, http.StatusCreated, map[string]interface{}{
			"EventID": event.EventID,
		})
	} else {
		WriteSuccess(w, http.StatusOK, map[string]interface{}{
			"Changed": true,
		})
	}
}

// getProductsInfo
//
//	@Summary		Информация о товарах по списку идентификаторов
//	@Description	Отдельно возвращает идентификаторы, которых нет в каталоге
//	@Tags			products
//	@Produce		json
//	@Param			ids	query		string	true	"Идентификаторы через запятую"
//	@Success		200	{object}	map[string]interface{}
//	@Failure		400	{object}	ErrorResponse
//	@Router			/products/info [get]
func (p *ProductHandler) getProductsInfo(w http.ResponseWriter, r *http.Request) {
	ids, err := parseProductIDs(r.URL.Query().Get("ids"))
	if err != nil {
		WriteError(w, err)
		return
	}

	res, err := p.productUsecase.GetProductsInfo(r.Context(), &usecase.GetProductsReq{IDs: ids})
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"products":  res.Products,
		"not_found": res.NotFoundProducts,
	})
}

// parseProductIDs разбирает список идентификаторов из query-параметра.
func parseProductIDs(raw string) ([]int64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, e.ErrNoProducts
	}

	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil || id <= 0 {
			return nil, e.ErrInvalidProductID
		}
		ids = append(ids, id)
	}

	return ids, nil
}
