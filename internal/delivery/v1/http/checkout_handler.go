package http

import (
	"net/http"

	"github.com/partsline/storefront/internal/usecase"
	"github.com/partsline/storefront/pkg/logger"
)

type CheckoutHandler struct {
	checkoutUsecase usecase.CheckoutUC
	logger          logger.Logger
}

func NewCheckoutHandler(checkoutUsecase usecase.CheckoutUC, logger logger.Logger) *CheckoutHandler {
	return &CheckoutHandler{checkoutUsecase: checkoutUsecase, logger: logger}
}

type placeOrderResponse struct {
	OrderID   int64  `json:"order_id"`
	EventID   string `json:"event_id"`
	Total     int64  `json:"total"`
	ItemCount int64  `json:"item_count"`
}

// placeOrder
//
//	@Summary		Оформление заказа из корзины сессии
//	@Description	Заказ и outbox-событие фиксируются в одной транзакции; корзина очищается после коммита
//	@Tags			checkout
//	@Produce		json
//	@Param			X-Session-Id	header		string	true	"Идентификатор сессии"
//	@Success		201				{object}	placeOrderResponse
//	@Failure		400				{object}	ErrorResponse
//	@Failure		409				{object}	ErrorResponse	"Пустая корзина"
//	@Router			/checkout [post]
func (c *CheckoutHandler) placeOrder(w http.ResponseWriter, r *http.Request) {
	sessionID, err := sessionFromRequest(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	res, err := c.checkoutUsecase.PlaceOrder(r.Context(), sessionID)
	if err != nil {
		c.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, placeOrderResponse{
		OrderID:   res.OrderID,
		EventID:   res.EventID,
		Total:     res.Total,
		ItemCount: res.ItemCount,
	})
}
