// internal/application/query/store/search_query.go
package store

import (
	"context"
	"errors"
	"sort"
	"strings"

	"botparts/internal/application/query/store/dto"
	categorydom "botparts/internal/domain/category"
	productdom "botparts/internal/domain/product"
)

// Sort orders accepted by the search surface.
const (
	SortRelevance = "relevance"
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
	SortRating    = "rating"
)

// SearchParams are the storefront search filters. Zero values mean
// "no restriction"; MaxPrice of 0 means unbounded.
type SearchParams struct {
	Query            string
	CategoryID       string
	MinPrice         int64
	MaxPrice         int64
	FreeDeliveryOnly bool
	FeaturedOnly     bool
	SortBy           string
}

// SearchQuery filters the fully downloaded product list in memory: a linear
// substring scan over title/description, then category / price-range /
// free-delivery narrowing, then sorting. Relevance keeps stored order.
type SearchQuery struct {
	Products   productdom.Repository
	Categories categorydom.Repository
}

func NewSearchQuery(products productdom.Repository, categories categorydom.Repository) *SearchQuery {
	return &SearchQuery{Products: products, Categories: categories}
}

func (q *SearchQuery) Search(ctx context.Context, params SearchParams) (dto.SearchResultDTO, error) {
	if q == nil || q.Products == nil {
		return dto.SearchResultDTO{}, errors.New("search query: not configured")
	}

	products, err := q.Products.List(ctx)
	if err != nil {
		return dto.SearchResultDTO{}, err
	}

	categoryName := ""
	if cid := strings.TrimSpace(params.CategoryID); cid != "" && cid != "all" && q.Categories != nil {
		c, err := q.Categories.GetByID(ctx, cid)
		if err != nil {
			return dto.SearchResultDTO{}, err
		}
		if c != nil {
			categoryName = c.Name
		}
		// an unknown category id filters nothing, matching the original UI
	}

	out := Filter(products, params, categoryName)
	return dto.SearchResultDTO{
		Products: out,
		Query:    strings.TrimSpace(params.Query),
		Total:    len(out),
	}, nil
}

// Filter applies params to an already-downloaded product list. Split out so
// it stays a pure function of its inputs.
func Filter(products []productdom.Product, params SearchParams, categoryName string) []productdom.Product {
	query := strings.ToLower(strings.TrimSpace(params.Query))

	out := []productdom.Product{}
	for _, p := range products {
		if query != "" &&
			!strings.Contains(strings.ToLower(p.Title), query) &&
			!strings.Contains(strings.ToLower(p.Description), query) {
			continue
		}
		if categoryName != "" && !strings.EqualFold(p.Category, categoryName) {
			continue
		}
		if p.Price < params.MinPrice {
			continue
		}
		if params.MaxPrice > 0 && p.Price > params.MaxPrice {
			continue
		}
		if params.FreeDeliveryOnly && !p.FreeDelivery {
			continue
		}
		if params.FeaturedOnly && !p.Featured {
			continue
		}
		out = append(out, p)
	}

	switch params.SortBy {
	case SortPriceLow:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortPriceHigh:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	case SortRating:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	default:
		// relevance: keep stored order
	}

	return out
}
