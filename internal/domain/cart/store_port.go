// internal/domain/cart/store_port.go
package cart

import "context"

// Store is the persistence port for the remote cart record.
//
// Storage (Firestore):
// - collection: carts
// - docId: userId
// - fields: items(array), updatedAt, version
//
// Not-found policy:
// - Get returns (nil, nil) when no record exists for userID.
//
// Concurrency:
// - Write is a whole-record replace guarded by rec.Version: the store
//   rejects the write with ErrVersionConflict when the remote version has
//   advanced past it, and increments the version on success (mutating rec).
type Store interface {
	Get(ctx context.Context, userID string) (*Record, error)

	Write(ctx context.Context, rec *Record) error

	// Delete removes the record entirely ("clear cart" wire form).
	// Deleting an absent record is not an error.
	Delete(ctx context.Context, userID string) error

	// Watch streams record snapshots for userID, starting with the current
	// state. A nil element means "absent". Delivery is latest-wins: rapid
	// writes may be coalesced, so every element must be treated as the full
	// authoritative state, never as a delta. stop cancels the stream and
	// closes the channel.
	Watch(ctx context.Context, userID string) (snapshots <-chan *Record, stop func(), err error)
}
