package storeHandler

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"botparts/internal/adapters/in/http/middleware"
	storequery "botparts/internal/application/query/store"
	"botparts/internal/application/usecase"
	cartdom "botparts/internal/domain/cart"
)

// CartHandler serves the signed-in shopper's cart. Every mutation responds
// with the freshly derived cart so the client can render without waiting
// for the next snapshot.
//
// Routes:
//   - GET    /store/me/cart
//   - DELETE /store/me/cart
//   - POST   /store/me/cart/items            {productId, quantity}
//   - PUT    /store/me/cart/items            {productId, quantity}
//   - DELETE /store/me/cart/items/{productId}
type CartHandler struct {
	Sessions *usecase.CartSessions
	Catalog  *storequery.CatalogQuery
}

func NewCartHandler(sessions *usecase.CartSessions, catalog *storequery.CatalogQuery) http.Handler {
	return &CartHandler{Sessions: sessions, Catalog: catalog}
}

type cartItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

func (h *CartHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Sessions == nil || h.Catalog == nil {
		internalError(w, "cart handler is not ready")
		return
	}

	uid, ok := middleware.CurrentUserUID(r)
	if !ok {
		unauthorized(w)
		return
	}

	sync, err := h.Sessions.Bind(uid)
	if err != nil {
		log.Printf("[store_cart_handler] bind failed uid=%s: %v", uid, err)
		internalError(w, "cart session unavailable")
		return
	}

	path := strings.TrimSuffix(r.URL.Path, "/")
	isItems := strings.Contains(path, "/cart/items")

	switch {
	case r.Method == http.MethodGet && !isItems:
		writeJSON(w, http.StatusOK, sync.Current())

	case r.Method == http.MethodDelete && !isItems:
		if err := sync.ClearCart(r.Context()); err != nil {
			h.writeCartErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sync.Current())

	case r.Method == http.MethodPost && isItems:
		h.handleAddItem(w, r, sync)

	case r.Method == http.MethodPut && isItems:
		h.handleSetQuantity(w, r, sync)

	case r.Method == http.MethodDelete && isItems:
		h.handleRemoveItem(w, r, sync, path)

	default:
		methodNotAllowed(w)
	}
}

func (h *CartHandler) handleAddItem(w http.ResponseWriter, r *http.Request, sync *usecase.CartSynchronizer) {
	var req cartItemRequest
	if err := readJSON(r, &req); err != nil {
		badRequest(w, "invalid json body")
		return
	}
	req.ProductID = strings.TrimSpace(req.ProductID)
	if req.ProductID == "" {
		badRequest(w, "productId is required")
		return
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}

	p, err := h.Catalog.ProductByID(r.Context(), req.ProductID)
	if err != nil {
		if errors.Is(err, storequery.ErrNotFound) {
			notFound(w)
			return
		}
		internalError(w, err.Error())
		return
	}

	if err := sync.AddToCart(r.Context(), p, req.Quantity); err != nil {
		h.writeCartErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sync.Current())
}

func (h *CartHandler) handleSetQuantity(w http.ResponseWriter, r *http.Request, sync *usecase.CartSynchronizer) {
	var req cartItemRequest
	if err := readJSON(r, &req); err != nil {
		badRequest(w, "invalid json body")
		return
	}
	req.ProductID = strings.TrimSpace(req.ProductID)
	if req.ProductID == "" {
		badRequest(w, "productId is required")
		return
	}

	if err := sync.UpdateQuantity(r.Context(), req.ProductID, req.Quantity); err != nil {
		h.writeCartErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sync.Current())
}

func (h *CartHandler) handleRemoveItem(w http.ResponseWriter, r *http.Request, sync *usecase.CartSynchronizer, path string) {
	// DELETE /store/me/cart/items/{productId}, body fallback for old clients
	pid := ""
	if i := strings.Index(path, "/cart/items/"); i >= 0 {
		pid = strings.TrimSpace(path[i+len("/cart/items/"):])
	}
	if pid == "" {
		var req cartItemRequest
		if err := readJSON(r, &req); err == nil {
			pid = strings.TrimSpace(req.ProductID)
		}
	}
	if pid == "" {
		badRequest(w, "productId is required")
		return
	}

	if err := sync.RemoveFromCart(r.Context(), pid); err != nil {
		h.writeCartErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sync.Current())
}

func (h *CartHandler) writeCartErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, usecase.ErrCartUnauthenticated):
		unauthorized(w)
	case errors.Is(err, usecase.ErrCartInvalidArgument):
		badRequest(w, err.Error())
	case errors.Is(err, cartdom.ErrVersionConflict):
		writeErr(w, http.StatusConflict, "cart was modified concurrently, retry")
	default:
		internalError(w, err.Error())
	}
}
