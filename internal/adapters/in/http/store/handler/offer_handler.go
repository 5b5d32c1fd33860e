package storeHandler

import (
	"net/http"
	"time"

	storequery "botparts/internal/application/query/store"
)

// OfferHandler serves currently running promotions.
//
// Routes:
//   - GET /store/offers
type OfferHandler struct {
	Q *storequery.CatalogQuery
}

func NewOfferHandler(q *storequery.CatalogQuery) http.Handler {
	return &OfferHandler{Q: q}
}

func (h *OfferHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Q == nil {
		internalError(w, "offer handler is not ready")
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	offers, err := h.Q.OffersList(r.Context(), time.Now())
	if err != nil {
		internalError(w, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"offers": offers})
}
