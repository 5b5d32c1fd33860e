package storeHandler

import (
	"errors"
	"net/http"
	"strings"

	storequery "botparts/internal/application/query/store"
)

// CategoryHandler serves the category index and per-category product pages.
//
// Routes:
//   - GET /store/categories
//   - GET /store/categories/{id}
type CategoryHandler struct {
	Q *storequery.CatalogQuery
}

func NewCategoryHandler(q *storequery.CatalogQuery) http.Handler {
	return &CategoryHandler{Q: q}
}

func (h *CategoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Q == nil {
		internalError(w, "category handler is not ready")
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	path := strings.TrimSuffix(r.URL.Path, "/")

	if i := strings.Index(path, "/store/categories/"); i >= 0 {
		id := strings.TrimSpace(path[i+len("/store/categories/"):])
		if id == "" {
			notFound(w)
			return
		}
		page, err := h.Q.CategoryPage(r.Context(), id)
		if err != nil {
			if errors.Is(err, storequery.ErrNotFound) {
				notFound(w)
				return
			}
			internalError(w, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, page)
		return
	}

	cats, err := h.Q.CategoriesList(r.Context())
	if err != nil {
		internalError(w, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": cats})
}
