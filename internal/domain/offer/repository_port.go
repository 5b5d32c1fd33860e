// internal/domain/offer/repository_port.go
package offer

import "context"

// Repository is a read-only persistence port for Offer.
type Repository interface {
	List(ctx context.Context) ([]Offer, error)
}
