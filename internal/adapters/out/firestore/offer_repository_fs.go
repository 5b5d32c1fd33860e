// internal/adapters/out/firestore/offer_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	offerdom "botparts/internal/domain/offer"
)

// OfferRepositoryFS implements offer.Repository using Firestore.
// collection: offers / docId: offer id
type OfferRepositoryFS struct {
	Client    *firestore.Client
	OffersCol string
}

func NewOfferRepositoryFS(client *firestore.Client) *OfferRepositoryFS {
	return &OfferRepositoryFS{Client: client, OffersCol: "offers"}
}

func (r *OfferRepositoryFS) col() *firestore.CollectionRef {
	name := strings.TrimSpace(r.OffersCol)
	if name == "" {
		name = "offers"
	}
	return r.Client.Collection(name)
}

func (r *OfferRepositoryFS) List(ctx context.Context) ([]offerdom.Offer, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("offer_repository_fs: firestore client is nil")
	}

	out := []offerdom.Offer{}
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

		raw := snap.Data()
		o := offerdom.Offer{
			ID:          snap.Ref.ID,
			Title:       asString(raw["title"]),
			Discount:    asString(raw["discount"]),
			Description: asString(raw["description"]),
			Image:       asString(raw["image"]),
		}
		// validUntil was seeded as an RFC3339 string; newer writers use timestamps
		if tt, ok := asTime(raw["validUntil"]); ok {
			o.ValidUntil = tt
		}
		out = append(out, o)
	}
	return out, nil
}
