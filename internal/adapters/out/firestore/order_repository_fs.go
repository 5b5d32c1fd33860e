// internal/adapters/out/firestore/order_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	orderdom "botparts/internal/domain/order"
)

// OrderRepositoryFS implements order.Repository using Firestore.
//
// Collection design:
// - collection: orders
// - docId: order id (uuid)
// - queried by userId + createdAt desc
type OrderRepositoryFS struct {
	Client    *firestore.Client
	OrdersCol string
}

func NewOrderRepositoryFS(client *firestore.Client) *OrderRepositoryFS {
	return &OrderRepositoryFS{Client: client, OrdersCol: "orders"}
}

func (r *OrderRepositoryFS) col() *firestore.CollectionRef {
	name := strings.TrimSpace(r.OrdersCol)
	if name == "" {
		name = "orders"
	}
	return r.Client.Collection(name)
}

func (r *OrderRepositoryFS) Save(ctx context.Context, o *orderdom.Order) error {
	if r == nil || r.Client == nil {
		return errors.New("order_repository_fs: firestore client is nil")
	}
	if o == nil {
		return errors.New("order_repository_fs: order is nil")
	}
	oid := strings.TrimSpace(o.ID)
	if oid == "" {
		return errors.New("order_repository_fs: order.ID is empty")
	}

	// Orders use the struct tags directly: the shape is written once at
	// checkout and never mutated, so there is no legacy drift to coerce.
	_, err := r.col().Doc(oid).Set(ctx, o)
	return err
}

func (r *OrderRepositoryFS) ListByUserID(ctx context.Context, userID string) ([]orderdom.Order, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("order_repository_fs: firestore client is nil")
	}
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return nil, errors.New("order_repository_fs: userID is empty")
	}

	out := []orderdom.Order{}
	it := r.col().
		Where("userId", "==", uid).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx)
	defer it.Stop()
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}

		var o orderdom.Order
		if err := snap.DataTo(&o); err != nil {
			return nil, err
		}
		o.ID = snap.Ref.ID
		out = append(out, o)
	}
	return out, nil
}
