package http

import (
	"net/http"

	"github.com/nutrimercado/go-backend/internal/domain"
	"github.com/nutrimercado/go-backend/internal/usecase"
	"github.com/nutrimercado/go-backend/pkg/e"
	"github.com/nutrimercado/go-backend/pkg/logger"
)

type OrderHandler struct {
	orderUsecase usecase.OrderUC
	logger       logger.Logger
}

func NewOrderHandler(orderUsecase usecase.OrderUC, logger logger.Logger) *OrderHandler {
	return &OrderHandler{orderUsecase: orderUsecase, logger: logger}
}

type placeOrderReq struct {
	Items []orderLineReq `json:"items"`
}

type orderLineReq struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

type updateStatusReq struct {
	Status string `json:"status"`
}

// placeOrder оформляет заказ из корзины текущего пользователя.
func (o *OrderHandler) placeOrder(w http.ResponseWriter, r *http.Request) {
	ident := IdentityFromCtx(r.Context())
	if ident == nil {
		WriteError(w, e.ErrUnauthorized)
		return
	}

	var req placeOrderReq
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	lines := make([]usecase.OrderLine, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, usecase.OrderLine{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	order, err := o.orderUsecase.PlaceOrder(r.Context(), ident, &usecase.PlaceOrderReq{Lines: lines})
	if err != nil {
		o.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, toOrderResponse(order))
}

func (o *OrderHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	ident := IdentityFromCtx(r.Context())
	if ident == nil {
		WriteError(w, e.ErrUnauthorized)
		return
	}

	id, err := pathID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	order, err := o.orderUsecase.GetOrder(r.Context(), ident, id)
	if err != nil {
		o.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toOrderResponse(order))
}

func (o *OrderHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	ident := IdentityFromCtx(r.Context())
	if ident == nil {
		WriteError(w, e.ErrUnauthorized)
		return
	}

	orders, err := o.orderUsecase.ListOrders(r.Context(), ident)
	if err != nil {
		o.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toOrderResponses(orders))
}

// updateStatus переводит заказ в конечный статус. Только для администраторов.
func (o *OrderHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	ident := IdentityFromCtx(r.Context())
	if ident == nil {
		WriteError(w, e.ErrUnauthorized)
		return
	}

	id, err := pathID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	var req updateStatusReq
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	if err := o.orderUsecase.UpdateOrderStatus(r.Context(), ident, id, domain.OrderStatus(req.Status)); err != nil {
		o.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
