// internal/application/query/store/catalog_query.go
package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"botparts/internal/application/query/store/dto"
	categorydom "botparts/internal/domain/category"
	offerdom "botparts/internal/domain/offer"
	productdom "botparts/internal/domain/product"
)

var ErrNotFound = errors.New("store query: not found")

// CatalogQuery is the buyer-facing catalog read model. It composes the
// domain repositories; all filtering happens in memory over the fully
// downloaded product list (the catalog is small enough that the storefront
// never paginates).
type CatalogQuery struct {
	Products   productdom.Repository
	Categories categorydom.Repository
	Offers     offerdom.Repository
}

func NewCatalogQuery(products productdom.Repository, categories categorydom.Repository, offers offerdom.Repository) *CatalogQuery {
	return &CatalogQuery{Products: products, Categories: categories, Offers: offers}
}

// Home returns the home surface: featured products, all categories and
// offers still valid at now.
func (q *CatalogQuery) Home(ctx context.Context, now time.Time) (dto.HomeDTO, error) {
	if q == nil || q.Products == nil {
		return dto.HomeDTO{}, errors.New("catalog query: not configured")
	}

	products, err := q.Products.List(ctx)
	if err != nil {
		return dto.HomeDTO{}, err
	}
	featured := []productdom.Product{}
	for _, p := range products {
		if p.Featured {
			featured = append(featured, p)
		}
	}

	categories := []categorydom.Category{}
	if q.Categories != nil {
		if categories, err = q.Categories.List(ctx); err != nil {
			return dto.HomeDTO{}, err
		}
	}

	offers := []offerdom.Offer{}
	if q.Offers != nil {
		all, err := q.Offers.List(ctx)
		if err != nil {
			return dto.HomeDTO{}, err
		}
		for _, o := range all {
			if o.Active(now) {
				offers = append(offers, o)
			}
		}
	}

	return dto.HomeDTO{Featured: featured, Categories: categories, Offers: offers}, nil
}

// ProductByID returns one product or ErrNotFound.
func (q *CatalogQuery) ProductByID(ctx context.Context, id string) (*productdom.Product, error) {
	if q == nil || q.Products == nil {
		return nil, errors.New("catalog query: not configured")
	}
	p, err := q.Products.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}
	return p, nil
}

// List returns all products, optionally restricted to featured ones or to
// a category name.
func (q *CatalogQuery) List(ctx context.Context, featuredOnly bool, categoryName string) ([]productdom.Product, error) {
	if q == nil || q.Products == nil {
		return nil, errors.New("catalog query: not configured")
	}
	products, err := q.Products.List(ctx)
	if err != nil {
		return nil, err
	}

	categoryName = strings.TrimSpace(categoryName)
	out := []productdom.Product{}
	for _, p := range products {
		if featuredOnly && !p.Featured {
			continue
		}
		if categoryName != "" && !strings.EqualFold(p.Category, categoryName) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// CategoryPage resolves a category by id and joins its products (products
// carry the category NAME, so the id is resolved first).
func (q *CatalogQuery) CategoryPage(ctx context.Context, categoryID string) (dto.CategoryPageDTO, error) {
	if q == nil || q.Categories == nil {
		return dto.CategoryPageDTO{}, errors.New("catalog query: not configured")
	}

	c, err := q.Categories.GetByID(ctx, strings.TrimSpace(categoryID))
	if err != nil {
		return dto.CategoryPageDTO{}, err
	}
	if c == nil {
		return dto.CategoryPageDTO{}, ErrNotFound
	}

	products, err := q.List(ctx, false, c.Name)
	if err != nil {
		return dto.CategoryPageDTO{}, err
	}
	return dto.CategoryPageDTO{Category: *c, Products: products}, nil
}

// Categories returns all category tiles.
func (q *CatalogQuery) CategoriesList(ctx context.Context) ([]categorydom.Category, error) {
	if q == nil || q.Categories == nil {
		return nil, errors.New("catalog query: not configured")
	}
	return q.Categories.List(ctx)
}

// OffersList returns offers active at now.
func (q *CatalogQuery) OffersList(ctx context.Context, now time.Time) ([]offerdom.Offer, error) {
	if q == nil || q.Offers == nil {
		return nil, errors.New("catalog query: not configured")
	}
	all, err := q.Offers.List(ctx)
	if err != nil {
		return nil, err
	}
	out := []offerdom.Offer{}
	for _, o := range all {
		if o.Active(now) {
			out = append(out, o)
		}
	}
	return out, nil
}
