// internal/domain/product/repository_port.go
package product

import "context"

// Repository is a read-only persistence port for Product.
//
// Storage (Firestore):
// - collection: products
// - docId: product id
//
// Not-found policy:
// - GetByID returns (nil, nil) when the product does not exist.
//   Callers treat nil as "no longer in the catalog" (cart resolution drops it).
type Repository interface {
	GetByID(ctx context.Context, id string) (*Product, error)

	// List returns the full catalog. The storefront search/filter surfaces
	// operate over this fully downloaded list in memory.
	List(ctx context.Context) ([]Product, error)
}
