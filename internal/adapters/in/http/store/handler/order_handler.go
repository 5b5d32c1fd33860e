package storeHandler

import (
	"net/http"

	"botparts/internal/adapters/in/http/middleware"
	"botparts/internal/application/usecase"
)

// OrderHandler lists the shopper's past orders, newest first.
//
// Routes:
//   - GET /store/me/orders
type OrderHandler struct {
	Checkout *usecase.CheckoutUsecase
}

func NewOrderHandler(checkout *usecase.CheckoutUsecase) http.Handler {
	return &OrderHandler{Checkout: checkout}
}

func (h *OrderHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Checkout == nil {
		internalError(w, "order handler is not ready")
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	uid, ok := middleware.CurrentUserUID(r)
	if !ok {
		unauthorized(w)
		return
	}

	orders, err := h.Checkout.ListOrders(r.Context(), uid)
	if err != nil {
		internalError(w, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": orders, "total": len(orders)})
}
