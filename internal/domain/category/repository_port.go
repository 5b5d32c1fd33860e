// internal/domain/category/repository_port.go
package category

import "context"

// Repository is a read-only persistence port for Category.
// GetByID returns (nil, nil) when not found.
type Repository interface {
	GetByID(ctx context.Context, id string) (*Category, error)
	List(ctx context.Context) ([]Category, error)
}
