package http

import (
	"encoding/json"
	"net/http"

	"github.com/partsline/storefront/internal/usecase"
	"github.com/partsline/storefront/pkg/e"
	"github.com/partsline/storefront/pkg/logger"
)

type CartHandler struct {
	cartUsecase usecase.CartUC
	logger      logger.Logger
}

func NewCartHandler(cartUsecase usecase.CartUC, logger logger.Logger) *CartHandler {
	return &CartHandler{cartUsecase: cartUsecase, logger: logger}
}

type addToCartRequest struct {
	ProductID int64 `json:"product_id"`
}

type updateQuantityRequest struct {
	Quantity int64 `json:"quantity"`
}

type cartItemResponse struct {
	ProductID int64  `json:"product_id"`
	Title     string `json:"title"`
	Price     int64  `json:"price"`
	Category  string `json:"category"`
	ImageKey  string `json:"image_key,omitempty"`
	Quantity  int64  `json:"quantity"`
	Subtotal  int64  `json:"subtotal"`
}

type cartResponse struct {
	Items     []cartItemResponse `json:"items"`
	ItemCount int64              `json:"item_count"`
	Total     int64              `json:"total"`
}

// viewCart
//
//	@Summary	Текущее содержимое корзины сессии
//	@Tags		cart
//	@Produce	json
//	@Param		X-Session-Id	header		string	true	"Идентификатор сессии"
//	@Success	200				{object}	cartResponse
//	@Failure	400				{object}	ErrorResponse
//	@Router		/cart [get]
func (c *CartHandler) viewCart(w http.ResponseWriter, r *http.Request) {
	sessionID, err := sessionFromRequest(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	view, err := c.cartUsecase.ViewCart(r.Context(), sessionID)
	if err != nil {
		c.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toCartResponse(view))
}

// addToCart
//
//	@Summary		Добавление товара в корзину
//	@Description	Повторное добавление существующего товара увеличивает количество на единицу
//	@Tags			cart
//	@Accept			json
//	@Produce		json
//	@Param			X-Session-Id	header		string				true	"Идентификатор сессии"
//	@Param			request			body		addToCartRequest	true	"Товар"
//	@Success		200				{object}	cartResponse
//	@Failure		400				{object}	ErrorResponse
//	@Failure		404				{object}	ErrorResponse	"Товар не найден"
//	@Router			/cart/items [post]
func (c *CartHandler) addToCart(w http.ResponseWriter, r *http.Request) {
	sessionID, err := sessionFromRequest(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	var req addToCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID <= 0 {
		WriteError(w, e.ErrInvalidProductID)
		return
	}

	view, err := c.cartUsecase.AddToCart(r.Context(), sessionID, req.ProductID)
	if err != nil {
		c.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toCartResponse(view))
}

// updateQuantity
//
//	@Summary		Изменение количества позиции
//	@Description	Количество меньше единицы нормализуется до единицы
//	@Tags			cart
//	@Accept			json
//	@Produce		json
//	@Param			X-Session-Id	header		string					true	"Идентификатор сессии"
//	@Param			productID		path		int						true	"Идентификатор товара"
//	@Param			request			body		updateQuantityRequest	true	"Новое количество"
//	@Success		200				{object}	cartResponse
//	@Failure		400				{object}	ErrorResponse
//	@Router			/cart/items/{productID} [patch]
func (c *CartHandler) updateQuantity(w http.ResponseWriter, r *http.Request) {
	sessionID, err := sessionFromRequest(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	productID, err := productIDFromURL(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	var req updateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, e.ErrInvalidQuantity)
		return
	}

	view, err := c.cartUsecase.UpdateQuantity(r.Context(), sessionID, productID, req.Quantity)
	if err != nil {
		c.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toCartResponse(view))
}

// removeFromCart
//
//	@Summary		Удаление позиции из корзины
//	@Description	Отсутствие товара в корзине не является ошибкой
//	@Tags			cart
//	@Produce		json
//	@Param			X-Session-Id	header		string	true	"Идентификатор сессии"
//	@Param			productID		path		int		true	"Идентификатор товара"
//	@Success		200				{object}	cartResponse
//	@Failure		400				{object}	ErrorResponse
//	@Router			/cart/items/{productID} [delete]
func (c *CartHandler) removeFromCart(w http.ResponseWriter, r *http.Request) {
	sessionID, err := sessionFromRequest(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	productID, err := productIDFromURL(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	view, err := c.cartUsecase.RemoveFromCart(r.Context(), sessionID, productID)
	if err != nil {
		c.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toCartResponse(view))
}

// clearCart
//
//	@Summary	Полная очистка корзины
//	@Tags		cart
//	@Produce	json
//	@Param		X-Session-Id	header		string	true	"Идентификатор сессии"
//	@Success	200				{object}	cartResponse
//	@Failure	400				{object}	ErrorResponse
//	@Router		/cart [delete]
func (c *CartHandler) clearCart(w http.ResponseWriter, r *http.Request) {
	sessionID, err := sessionFromRequest(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	view, err := c.cartUsecase.ClearCart(r.Context(), sessionID)
	if err != nil {
		c.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toCartResponse(view))
}

func toCartResponse(view *usecase.CartView) cartResponse {
	items := make([]cartItemResponse, 0, len(view.Items))
	for _, item := range view.Items {
		items = append(items, cartItemResponse{
			ProductID: item.ProductID,
			Title:     item.Title,
			Price:     item.Price,
			Category:  item.Category,
			ImageKey:  item.ImageKey,
			Quantity:  item.Quantity,
			Subtotal:  item.Subtotal(),
		})
	}

	return cartResponse{
		Items:     items,
		ItemCount: view.ItemCount,
		Total:     view.Total,
	}
}
