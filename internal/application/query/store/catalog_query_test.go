package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	categorydom "botparts/internal/domain/category"
	offerdom "botparts/internal/domain/offer"
)

type stubOfferRepo struct {
	offers []offerdom.Offer
}

func (s *stubOfferRepo) List(ctx context.Context) ([]offerdom.Offer, error) {
	return append([]offerdom.Offer{}, s.offers...), nil
}

func catalogFixture() *CatalogQuery {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return NewCatalogQuery(
		&stubProductRepo{products: searchFixture()},
		&stubCategoryRepo{categories: []categorydom.Category{
			{ID: "c1", Name: "Actuators"},
			{ID: "c2", Name: "Sensors"},
		}},
		&stubOfferRepo{offers: []offerdom.Offer{
			{ID: "o1", Title: "Spring sale", Discount: "10% OFF", ValidUntil: now.Add(24 * time.Hour)},
			{ID: "o2", Title: "Expired", Discount: "50% OFF", ValidUntil: now.Add(-time.Hour)},
		}},
	)
}

func TestCatalogHome(t *testing.T) {
	q := catalogFixture()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	d, err := q.Home(context.Background(), now)
	require.NoError(t, err)

	require.Equal(t, []string{"p1"}, ids(d.Featured))
	require.Len(t, d.Categories, 2)
	require.Len(t, d.Offers, 1, "expired offers are filtered out")
	require.Equal(t, "o1", d.Offers[0].ID)
}

func TestCatalogProductByID(t *testing.T) {
	q := catalogFixture()

	p, err := q.ProductByID(context.Background(), "p2")
	require.NoError(t, err)
	require.Equal(t, "Lidar Ranger", p.Title)

	_, err = q.ProductByID(context.Background(), "nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCatalogList(t *testing.T) {
	q := catalogFixture()

	all, err := q.List(context.Background(), false, "")
	require.NoError(t, err)
	require.Len(t, all, 4)

	featured, err := q.List(context.Background(), true, "")
	require.NoError(t, err)
	require.Equal(t, []string{"p1"}, ids(featured))

	byCat, err := q.List(context.Background(), false, "actuators")
	require.NoError(t, err)
	require.Len(t, byCat, 2)
}

func TestCatalogCategoryPage(t *testing.T) {
	q := catalogFixture()

	page, err := q.CategoryPage(context.Background(), "c2")
	require.NoError(t, err)
	require.Equal(t, "Sensors", page.Category.Name)
	require.Equal(t, []string{"p2"}, ids(page.Products))

	_, err = q.CategoryPage(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
}
