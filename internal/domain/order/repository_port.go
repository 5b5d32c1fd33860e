// internal/domain/order/repository_port.go
package order

import "context"

// Repository is the persistence port for Order.
//
// Storage (Firestore):
// - collection: orders
// - docId: order id (uuid)
type Repository interface {
	Save(ctx context.Context, o *Order) error

	// ListByUserID returns the user's orders, newest first.
	ListByUserID(ctx context.Context, userID string) ([]Order, error)
}

// Archive is an optional secondary sink for placed orders (analytics /
// reporting mirror). Failures are logged, never surfaced to the buyer.
type Archive interface {
	ArchiveOrder(ctx context.Context, o *Order) error
}
