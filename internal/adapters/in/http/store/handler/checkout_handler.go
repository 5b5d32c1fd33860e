package storeHandler

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"botparts/internal/adapters/in/http/middleware"
	"botparts/internal/application/usecase"
	orderdom "botparts/internal/domain/order"
)

// CheckoutHandler places an order from the shopper's current cart.
//
// Routes:
//   - POST /store/me/checkout
type CheckoutHandler struct {
	Checkout *usecase.CheckoutUsecase
	Sessions *usecase.CartSessions
}

func NewCheckoutHandler(checkout *usecase.CheckoutUsecase, sessions *usecase.CartSessions) http.Handler {
	return &CheckoutHandler{Checkout: checkout, Sessions: sessions}
}

type checkoutRequest struct {
	Shipping      orderdom.ShippingInfo `json:"shipping"`
	PaymentMethod string                `json:"paymentMethod"`
}

func (h *CheckoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Checkout == nil || h.Sessions == nil {
		internalError(w, "checkout handler is not ready")
		return
	}
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	uid, email, ok := middleware.CurrentUserUIDAndEmail(r)
	if !ok {
		unauthorized(w)
		return
	}

	var req checkoutRequest
	if err := readJSON(r, &req); err != nil {
		badRequest(w, "invalid json body")
		return
	}
	if strings.TrimSpace(req.Shipping.Email) == "" {
		req.Shipping.Email = email
	}

	sync, err := h.Sessions.Bind(uid)
	if err != nil {
		log.Printf("[store_checkout_handler] bind failed uid=%s: %v", uid, err)
		internalError(w, "cart session unavailable")
		return
	}

	o, err := h.Checkout.PlaceOrder(r.Context(), sync, uid, req.Shipping, req.PaymentMethod)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrCheckoutInvalidArgument):
			badRequest(w, "invalid shipping info")
		case errors.Is(err, usecase.ErrCheckoutEmptyCart):
			badRequest(w, "cart is empty")
		default:
			internalError(w, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusCreated, o)
}
