package storeHandler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	storequery "botparts/internal/application/query/store"
)

// CatalogHandler serves the public catalog.
//
// Routes:
//   - GET /store/home
//   - GET /store/catalog           (?featured=true, ?category=)
//   - GET /store/catalog/{id}
type CatalogHandler struct {
	Q *storequery.CatalogQuery
}

func NewCatalogHandler(q *storequery.CatalogQuery) http.Handler {
	return &CatalogHandler{Q: q}
}

func (h *CatalogHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Q == nil {
		internalError(w, "catalog handler is not ready")
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	path := strings.TrimSuffix(r.URL.Path, "/")

	// home aggregation: featured products + categories + active offers
	if strings.HasSuffix(path, "/store/home") {
		d, err := h.Q.Home(r.Context(), time.Now())
		if err != nil {
			internalError(w, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, d)
		return
	}

	// detail: /store/catalog/{id}
	if i := strings.Index(path, "/store/catalog/"); i >= 0 {
		id := strings.TrimSpace(path[i+len("/store/catalog/"):])
		if id == "" {
			notFound(w)
			return
		}
		p, err := h.Q.ProductByID(r.Context(), id)
		if err != nil {
			if errors.Is(err, storequery.ErrNotFound) {
				notFound(w)
				return
			}
			internalError(w, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, p)
		return
	}

	// index: /store/catalog
	featured := parseBool(r.URL.Query().Get("featured"))
	category := strings.TrimSpace(r.URL.Query().Get("category"))

	items, err := h.Q.List(r.Context(), featured, category)
	if err != nil {
		internalError(w, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"products": items, "total": len(items)})
}
