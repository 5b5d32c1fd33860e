// internal/adapters/out/firestore/cart_store_fs.go
package firestore

import (
	"context"
	"errors"
	"log"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	cartdom "botparts/internal/domain/cart"
)

// CartStoreFS implements cart.Store using Firestore.
//
// Collection design:
// - collection: carts
// - docId: userId (docId is the source of truth)
// - fields: items(array of {productId, quantity}), updatedAt, version
//
// Every write is a whole-doc Set guarded by the version field inside a
// transaction; there are no partial item updates.
type CartStoreFS struct {
	Client *firestore.Client

	// CartsCol overrides the collection name (defaults to "carts").
	CartsCol string
}

func NewCartStoreFS(client *firestore.Client) *CartStoreFS {
	return &CartStoreFS{Client: client, CartsCol: "carts"}
}

func (s *CartStoreFS) col() *firestore.CollectionRef {
	name := strings.TrimSpace(s.CartsCol)
	if name == "" {
		name = "carts"
	}
	return s.Client.Collection(name)
}

// Get returns (nil, nil) when no record exists for userID.
func (s *CartStoreFS) Get(ctx context.Context, userID string) (*cartdom.Record, error) {
	if s == nil || s.Client == nil {
		return nil, errors.New("cart_store_fs: firestore client is nil")
	}
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return nil, errors.New("cart_store_fs: userID is empty")
	}

	snap, err := s.col().Doc(uid).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return recordFromSnapshot(uid, snap), nil
}

// Write replaces the whole record if rec.Version still matches the remote
// version; otherwise it fails with cart.ErrVersionConflict. On success the
// version advances on the record as well as remotely.
func (s *CartStoreFS) Write(ctx context.Context, rec *cartdom.Record) error {
	if s == nil || s.Client == nil {
		return errors.New("cart_store_fs: firestore client is nil")
	}
	if rec == nil {
		return errors.New("cart_store_fs: record is nil")
	}
	uid := strings.TrimSpace(rec.UserID)
	if uid == "" {
		return errors.New("cart_store_fs: record.UserID is empty")
	}

	next := rec.Version + 1
	err := s.Client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		ref := s.col().Doc(uid)

		remoteVersion := int64(0)
		snap, err := tx.Get(ref)
		if err != nil {
			if !isNotFound(err) {
				return err
			}
			// absent doc: version stays 0
		} else if snap.Exists() {
			remoteVersion = asInt64(snap.Data()["version"])
		}

		if remoteVersion != rec.Version {
			return cartdom.ErrVersionConflict
		}
		return tx.Set(ref, docFromRecord(rec, next))
	})
	if err != nil {
		return err
	}

	rec.Version = next
	return nil
}

// Delete removes the record. Deleting an absent record is not an error
// (Firestore Delete is idempotent).
func (s *CartStoreFS) Delete(ctx context.Context, userID string) error {
	if s == nil || s.Client == nil {
		return errors.New("cart_store_fs: firestore client is nil")
	}
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return errors.New("cart_store_fs: userID is empty")
	}
	_, err := s.col().Doc(uid).Delete(ctx)
	return err
}

// Watch streams record snapshots via Firestore's document listener.
// The first delivery is the current state; nil means "absent". Firestore
// already coalesces rapid writes into the latest snapshot, which matches the
// latest-wins contract of cart.Store.
func (s *CartStoreFS) Watch(ctx context.Context, userID string) (<-chan *cartdom.Record, func(), error) {
	if s == nil || s.Client == nil {
		return nil, nil, errors.New("cart_store_fs: firestore client is nil")
	}
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return nil, nil, errors.New("cart_store_fs: userID is empty")
	}

	wctx, cancel := context.WithCancel(ctx)
	it := s.col().Doc(uid).Snapshots(wctx)
	ch := make(chan *cartdom.Record, 1)

	go func() {
		defer close(ch)
		defer it.Stop()
		for {
			snap, err := it.Next()
			if err != nil {
				if status.Code(err) != codes.Canceled && wctx.Err() == nil {
					log.Printf("[cart_store_fs] watch error uid=%s: %v", uid, err)
				}
				return
			}

			var rec *cartdom.Record
			if snap != nil && snap.Exists() {
				rec = recordFromSnapshot(uid, snap)
			}

			select {
			case ch <- rec:
			case <-wctx.Done():
				return
			}
		}
	}()

	return ch, cancel, nil
}

// -----------------------------------------
// Firestore DTO
// -----------------------------------------

type cartDoc struct {
	UserID    string        `firestore:"userId"`
	Items     []cartLineDoc `firestore:"items"`
	UpdatedAt time.Time     `firestore:"updatedAt"`
	Version   int64         `firestore:"version"`
}

type cartLineDoc struct {
	ProductID string `firestore:"productId"`
	Quantity  int    `firestore:"quantity"`
}

func docFromRecord(rec *cartdom.Record, version int64) cartDoc {
	lines := cartdom.NormalizeLines(rec.Items)
	items := make([]cartLineDoc, 0, len(lines))
	for _, l := range lines {
		items = append(items, cartLineDoc{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	return cartDoc{
		UserID:    strings.TrimSpace(rec.UserID),
		Items:     items,
		UpdatedAt: rec.UpdatedAt,
		Version:   version,
	}
}

// recordFromSnapshot parses document data without DataTo, coercing legacy
// shapes at the boundary so the rest of the system only ever sees the
// normalized ordered-list form.
//
// Supported items shapes:
// 1) array of {productId, quantity} (current)
// 2) map[productId] = {quantity} or map[productId] = quantity (legacy);
//    entries are ordered by productId since the map lost insertion order
func recordFromSnapshot(userID string, snap *firestore.DocumentSnapshot) *cartdom.Record {
	return recordFromData(userID, snap.Data())
}

func recordFromData(userID string, raw map[string]any) *cartdom.Record {
	rec := &cartdom.Record{
		UserID: strings.TrimSpace(userID),
		Items:  []cartdom.LineRef{},
	}

	if raw == nil {
		return rec
	}

	if t, ok := raw["updatedAt"]; ok {
		if tt, ok2 := asTime(t); ok2 {
			rec.UpdatedAt = tt
		}
	}
	rec.Version = asInt64(raw["version"])

	switch items := raw["items"].(type) {
	case []any:
		for _, v := range items {
			mv, ok := v.(map[string]any)
			if !ok {
				continue
			}
			rec.Items = append(rec.Items, cartdom.LineRef{
				ProductID: strings.TrimSpace(asString(mv["productId"])),
				Quantity:  asInt(mv["quantity"]),
			})
		}
	case map[string]any:
		keys := make([]string, 0, len(items))
		for k := range items {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			pid := strings.TrimSpace(k)
			if pid == "" {
				continue
			}
			switch v := items[k].(type) {
			case map[string]any:
				rec.Items = append(rec.Items, cartdom.LineRef{ProductID: pid, Quantity: asInt(v["quantity"])})
			default:
				rec.Items = append(rec.Items, cartdom.LineRef{ProductID: pid, Quantity: asInt(v)})
			}
		}
	}

	rec.Items = cartdom.NormalizeLines(rec.Items)
	return rec
}
