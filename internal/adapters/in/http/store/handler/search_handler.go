package storeHandler

import (
	"net/http"
	"strings"

	storequery "botparts/internal/application/query/store"
)

// SearchHandler serves the product finder.
//
// Routes:
//   - GET /store/search?q=&category=&min=&max=&freeDelivery=&featured=&sort=
type SearchHandler struct {
	Q *storequery.SearchQuery
}

func NewSearchHandler(q *storequery.SearchQuery) http.Handler {
	return &SearchHandler{Q: q}
}

func (h *SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Q == nil {
		internalError(w, "search handler is not ready")
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	q := r.URL.Query()
	params := storequery.SearchParams{
		Query:            strings.TrimSpace(q.Get("q")),
		CategoryID:       strings.TrimSpace(q.Get("category")),
		MinPrice:         parseInt64Default(q.Get("min"), 0),
		MaxPrice:         parseInt64Default(q.Get("max"), 0),
		FreeDeliveryOnly: parseBool(q.Get("freeDelivery")),
		FeaturedOnly:     parseBool(q.Get("featured")),
		SortBy:           strings.TrimSpace(q.Get("sort")),
	}

	res, err := h.Q.Search(r.Context(), params)
	if err != nil {
		internalError(w, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}
