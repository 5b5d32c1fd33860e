// internal/adapters/out/firestore/user_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"strings"

	"cloud.google.com/go/firestore"

	userdom "botparts/internal/domain/user"
)

// UserRepositoryFS implements user.Repository using Firestore.
// collection: users / docId: uid
type UserRepositoryFS struct {
	Client   *firestore.Client
	UsersCol string
}

func NewUserRepositoryFS(client *firestore.Client) *UserRepositoryFS {
	return &UserRepositoryFS{Client: client, UsersCol: "users"}
}

func (r *UserRepositoryFS) col() *firestore.CollectionRef {
	name := strings.TrimSpace(r.UsersCol)
	if name == "" {
		name = "users"
	}
	return r.Client.Collection(name)
}

// GetByUID returns (nil, nil) when no profile document exists yet.
func (r *UserRepositoryFS) GetByUID(ctx context.Context, uid string) (*userdom.User, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("user_repository_fs: firestore client is nil")
	}
	id := strings.TrimSpace(uid)
	if id == "" {
		return nil, errors.New("user_repository_fs: uid is empty")
	}

	snap, err := r.col().Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	raw := snap.Data()
	u := &userdom.User{
		UID:       id,
		Email:     asString(raw["email"]),
		FirstName: asString(raw["firstName"]),
		LastName:  asString(raw["lastName"]),
		Phone:     asString(raw["phone"]),
		PhotoURL:  asString(raw["photoURL"]),
	}
	if tt, ok := asTime(raw["updatedAt"]); ok {
		u.UpdatedAt = tt
	}
	return u, nil
}

func (r *UserRepositoryFS) Upsert(ctx context.Context, u *userdom.User) error {
	if r == nil || r.Client == nil {
		return errors.New("user_repository_fs: firestore client is nil")
	}
	if u == nil {
		return errors.New("user_repository_fs: user is nil")
	}
	id := strings.TrimSpace(u.UID)
	if id == "" {
		return errors.New("user_repository_fs: user.UID is empty")
	}

	_, err := r.col().Doc(id).Set(ctx, u)
	return err
}
