package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	categorydom "botparts/internal/domain/category"
	productdom "botparts/internal/domain/product"
)

type stubProductRepo struct {
	products []productdom.Product
}

func (s *stubProductRepo) GetByID(ctx context.Context, id string) (*productdom.Product, error) {
	for _, p := range s.products {
		if p.ID == id {
			cp := p
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *stubProductRepo) List(ctx context.Context) ([]productdom.Product, error) {
	return append([]productdom.Product{}, s.products...), nil
}

type stubCategoryRepo struct {
	categories []categorydom.Category
}

func (s *stubCategoryRepo) GetByID(ctx context.Context, id string) (*categorydom.Category, error) {
	for _, c := range s.categories {
		if c.ID == id {
			cp := c
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *stubCategoryRepo) List(ctx context.Context) ([]categorydom.Category, error) {
	return append([]categorydom.Category{}, s.categories...), nil
}

func searchFixture() []productdom.Product {
	return []productdom.Product{
		{ID: "p1", Title: "RX-7 Servo Motor", Description: "high torque servo", Price: 4500, Category: "Actuators", Rating: 4.5, FreeDelivery: true, Featured: true, Stock: 12},
		{ID: "p2", Title: "Lidar Ranger", Description: "360 degree scanner", Price: 19900, Category: "Sensors", Rating: 4.8, Stock: 3},
		{ID: "p3", Title: "Micro Servo", Description: "budget servo for small joints", Price: 900, Category: "Actuators", Rating: 3.9, FreeDelivery: true, Stock: 40},
		{ID: "p4", Title: "Battery Pack 12V", Description: "LiPo 3S", Price: 3200, Category: "Power", Rating: 4.1, Stock: 0},
	}
}

func TestFilterQueryText(t *testing.T) {
	products := searchFixture()

	got := Filter(products, SearchParams{Query: "servo"}, "")
	require.Len(t, got, 2)
	require.Equal(t, "p1", got[0].ID)
	require.Equal(t, "p3", got[1].ID)

	// description matches too
	got = Filter(products, SearchParams{Query: "scanner"}, "")
	require.Len(t, got, 1)
	require.Equal(t, "p2", got[0].ID)

	// case-insensitive
	got = Filter(products, SearchParams{Query: "SERVO"}, "")
	require.Len(t, got, 2)
}

func TestFilterPriceRange(t *testing.T) {
	products := searchFixture()

	got := Filter(products, SearchParams{MinPrice: 1000, MaxPrice: 5000}, "")
	require.Len(t, got, 2) // p1 (4500), p4 (3200)

	// MaxPrice 0 means unbounded
	got = Filter(products, SearchParams{MinPrice: 5000}, "")
	require.Len(t, got, 1)
	require.Equal(t, "p2", got[0].ID)
}

func TestFilterFlags(t *testing.T) {
	products := searchFixture()

	got := Filter(products, SearchParams{FreeDeliveryOnly: true}, "")
	require.Len(t, got, 2)

	got = Filter(products, SearchParams{FeaturedOnly: true}, "")
	require.Len(t, got, 1)
	require.Equal(t, "p1", got[0].ID)
}

func TestFilterCategory(t *testing.T) {
	products := searchFixture()

	got := Filter(products, SearchParams{}, "Actuators")
	require.Len(t, got, 2)

	// category name comparison ignores case
	got = Filter(products, SearchParams{}, "actuators")
	require.Len(t, got, 2)
}

func TestFilterSort(t *testing.T) {
	products := searchFixture()

	got := Filter(products, SearchParams{SortBy: SortPriceLow}, "")
	require.Equal(t, []string{"p3", "p4", "p1", "p2"}, ids(got))

	got = Filter(products, SearchParams{SortBy: SortPriceHigh}, "")
	require.Equal(t, []string{"p2", "p1", "p4", "p3"}, ids(got))

	got = Filter(products, SearchParams{SortBy: SortRating}, "")
	require.Equal(t, "p2", got[0].ID)

	// relevance keeps stored order
	got = Filter(products, SearchParams{SortBy: SortRelevance}, "")
	require.Equal(t, []string{"p1", "p2", "p3", "p4"}, ids(got))
}

func TestSearchResolvesCategoryID(t *testing.T) {
	q := NewSearchQuery(
		&stubProductRepo{products: searchFixture()},
		&stubCategoryRepo{categories: []categorydom.Category{{ID: "c1", Name: "Actuators"}}},
	)

	res, err := q.Search(context.Background(), SearchParams{CategoryID: "c1"})
	require.NoError(t, err)
	require.Equal(t, 2, res.Total)

	// "all" skips category narrowing
	res, err = q.Search(context.Background(), SearchParams{CategoryID: "all"})
	require.NoError(t, err)
	require.Equal(t, 4, res.Total)

	// an unknown id filters nothing
	res, err = q.Search(context.Background(), SearchParams{CategoryID: "nope"})
	require.NoError(t, err)
	require.Equal(t, 4, res.Total)
}

func ids(ps []productdom.Product) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}
