// internal/domain/user/repository_port.go
package user

import "context"

// Repository is the persistence port for the buyer profile.
//
// Storage (Firestore):
// - collection: users
// - docId: uid
//
// GetByUID returns (nil, nil) when no profile document exists yet.
type Repository interface {
	GetByUID(ctx context.Context, uid string) (*User, error)
	Upsert(ctx context.Context, u *User) error
}
