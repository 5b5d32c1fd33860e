// internal/adapters/out/firestore/product_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	productdom "botparts/internal/domain/product"
)

// ProductRepositoryFS implements product.Repository using Firestore.
//
// Collection design:
// - collection: products
// - docId: product id
type ProductRepositoryFS struct {
	Client      *firestore.Client
	ProductsCol string
}

func NewProductRepositoryFS(client *firestore.Client) *ProductRepositoryFS {
	return &ProductRepositoryFS{Client: client, ProductsCol: "products"}
}

func (r *ProductRepositoryFS) col() *firestore.CollectionRef {
	name := strings.TrimSpace(r.ProductsCol)
	if name == "" {
		name = "products"
	}
	return r.Client.Collection(name)
}

// GetByID returns (nil, nil) when the product does not exist (nil policy;
// the cart resolution path treats nil as "dropped from catalog").
func (r *ProductRepositoryFS) GetByID(ctx context.Context, id string) (*productdom.Product, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("product_repository_fs: firestore client is nil")
	}
	pid := strings.TrimSpace(id)
	if pid == "" {
		return nil, errors.New("product_repository_fs: id is empty")
	}

	snap, err := r.col().Doc(pid).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	p := productFromSnapshot(snap)
	p.ID = pid
	return p, nil
}

// List downloads the full catalog (the storefront filters it in memory).
func (r *ProductRepositoryFS) List(ctx context.Context) ([]productdom.Product, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("product_repository_fs: firestore client is nil")
	}

	out := []productdom.Product{}
	it := r.col().Documents(ctx)
	defer it.Stop()
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		p := productFromSnapshot(snap)
		p.ID = snap.Ref.ID
		out = append(out, *p)
	}
	return out, nil
}

// productFromSnapshot parses data by hand instead of DataTo: prices seeded
// by earlier tooling can be float64, and missing fields must default cleanly.
func productFromSnapshot(snap *firestore.DocumentSnapshot) *productdom.Product {
	raw := snap.Data()
	if raw == nil {
		return &productdom.Product{}
	}
	return &productdom.Product{
		ID:           strings.TrimSpace(asString(raw["id"])),
		Title:        asString(raw["title"]),
		Price:        asInt64(raw["price"]),
		Image:        asString(raw["image"]),
		Category:     asString(raw["category"]),
		Description:  asString(raw["description"]),
		Stock:        asInt(raw["stock"]),
		Rating:       asFloat(raw["rating"]),
		FreeDelivery: asBool(raw["freeDelivery"]),
		Featured:     asBool(raw["featured"]),
	}
}
