// internal/adapters/out/firestore/category_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	categorydom "botparts/internal/domain/category"
)

// CategoryRepositoryFS implements category.Repository using Firestore.
// collection: categories / docId: category id
type CategoryRepositoryFS struct {
	Client        *firestore.Client
	CategoriesCol string
}

func NewCategoryRepositoryFS(client *firestore.Client) *CategoryRepositoryFS {
	return &CategoryRepositoryFS{Client: client, CategoriesCol: "categories"}
}

func (r *CategoryRepositoryFS) col() *firestore.CollectionRef {
	name := strings.TrimSpace(r.CategoriesCol)
	if name == "" {
		name = "categories"
	}
	return r.Client.Collection(name)
}

func (r *CategoryRepositoryFS) GetByID(ctx context.Context, id string) (*categorydom.Category, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("category_repository_fs: firestore client is nil")
	}
	cid := strings.TrimSpace(id)
	if cid == "" {
		return nil, errors.New("category_repository_fs: id is empty")
	}

	snap, err := r.col().Doc(cid).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	c := categoryFromSnapshot(snap)
	c.ID = cid
	return c, nil
}

func (r *CategoryRepositoryFS) List(ctx context.Context) ([]categorydom.Category, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("category_repository_fs: firestore client is nil")
	}

	out := []categorydom.Category{}
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
		c := categoryFromSnapshot(snap)
		c.ID = snap.Ref.ID
		out = append(out, *c)
	}
	return out, nil
}

func categoryFromSnapshot(snap *firestore.DocumentSnapshot) *categorydom.Category {
	raw := snap.Data()
	if raw == nil {
		return &categorydom.Category{}
	}
	return &categorydom.Category{
		ID:    strings.TrimSpace(asString(raw["id"])),
		Name:  asString(raw["name"]),
		Image: asString(raw["image"]),
	}
}
