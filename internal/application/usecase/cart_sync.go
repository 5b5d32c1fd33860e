// internal/application/usecase/cart_sync.go
package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	cartdom "botparts/internal/domain/cart"
	productdom "botparts/internal/domain/product"
)

var (
	ErrCartUnauthenticated = errors.New("cart_sync: unauthenticated")
	ErrCartInvalidArgument = errors.New("cart_sync: invalid argument")
)

// Clock provides current time (for testability).
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Catalog is the product resolution port: id -> live product snapshot.
// (nil, nil) means the product is no longer in the catalog.
type Catalog interface {
	GetByID(ctx context.Context, id string) (*productdom.Product, error)
}

// CartSynchronizer owns the authoritative in-memory cart for one user slot,
// keeps it consistent with the remote record, and recomputes derived totals
// on every change.
//
// Flow: mutation -> normalized record write (whole replace, version CAS) ->
// optimistic local recompute -> remote snapshot echo -> full
// reload-and-recompute (resolve every line against the catalog, drop
// unresolvable ones, recompute totals, publish).
//
// Mutations are serialized by a mutex (single writer per process); the
// version check at the store catches the cross-device race.
type CartSynchronizer struct {
	store   cartdom.Store
	catalog Catalog
	clock   Clock

	mu     sync.Mutex
	userID string
	rec    *cartdom.Record // last authoritative record (nil while absent)
	cart   cartdom.Cart
	gen    uint64 // identity generation; stale snapshot applies are dropped
	stop   func() // active watch teardown (nil while signed out)

	subMu   sync.Mutex
	subs    map[int]chan cartdom.Cart
	nextSub int
}

func NewCartSynchronizer(store cartdom.Store, catalog Catalog) *CartSynchronizer {
	return NewCartSynchronizerWithClock(store, catalog, nil)
}

// NewCartSynchronizerWithClock is useful for tests.
func NewCartSynchronizerWithClock(store cartdom.Store, catalog Catalog, clock Clock) *CartSynchronizer {
	if clock == nil {
		clock = systemClock{}
	}
	return &CartSynchronizer{
		store:   store,
		catalog: catalog,
		clock:   clock,
		cart:    cartdom.Empty(),
		subs:    map[int]chan cartdom.Cart{},
	}
}

// SetUser rebinds the synchronizer to uid. An empty uid means signed out:
// the previous watch is torn down, the cart is forced to the empty value and
// no remote access occurs until the next sign-in.
//
// ctx bounds the lifetime of the new watch, so pass a long-lived context
// (not a per-request one).
func (s *CartSynchronizer) SetUser(ctx context.Context, uid string) error {
	uid = strings.TrimSpace(uid)

	s.mu.Lock()
	if s.userID == uid && (uid == "" || s.stop != nil) {
		s.mu.Unlock()
		return nil
	}

	// tear down the previous user's watch
	if s.stop != nil {
		s.stop()
		s.stop = nil
	}
	s.gen++
	gen := s.gen
	s.userID = uid
	s.rec = nil
	s.cart = cartdom.Empty()
	s.mu.Unlock()

	s.publish(cartdom.Empty())

	if uid == "" {
		return nil
	}

	snapshots, stop, err := s.store.Watch(ctx, uid)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.gen != gen {
		// identity changed again while we were subscribing
		s.mu.Unlock()
		stop()
		return nil
	}
	s.stop = stop
	s.mu.Unlock()

	go func() {
		for rec := range snapshots {
			s.applySnapshot(ctx, gen, rec)
		}
	}()
	return nil
}

// Close tears down any active watch (application shutdown).
func (s *CartSynchronizer) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop != nil {
		s.stop()
		s.stop = nil
	}
	s.gen++
}

// Current returns the derived cart as last published.
func (s *CartSynchronizer) Current() cartdom.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart
}

// Subscribe returns a channel of derived cart values (latest-wins, buffered)
// and an unsubscribe func. The current value is delivered immediately.
func (s *CartSynchronizer) Subscribe() (<-chan cartdom.Cart, func()) {
	ch := make(chan cartdom.Cart, 1)

	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.subMu.Unlock()

	ch <- s.Current()

	return ch, func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		if _, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(ch)
		}
	}
}

// AddToCart increments the quantity for p by qty (appending a new line when
// absent), clamped so the stored quantity never exceeds p.Stock.
// Fails with ErrCartUnauthenticated while signed out (no remote call).
func (s *CartSynchronizer) AddToCart(ctx context.Context, p *productdom.Product, qty int) error {
	if p == nil || strings.TrimSpace(p.ID) == "" || qty < 1 {
		return ErrCartInvalidArgument
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.userID == "" {
		return ErrCartUnauthenticated
	}

	rec, err := s.workingRecordLocked()
	if err != nil {
		return err
	}

	now := s.clock.Now()
	target := rec.Quantity(p.ID) + qty
	if p.Stock > 0 && target > p.Stock {
		target = p.Stock
	}
	if err := rec.SetQuantity(p.ID, target, now); err != nil {
		return err
	}

	if err := s.writeLocked(ctx, rec, func(fresh *cartdom.Record) error {
		t := fresh.Quantity(p.ID) + qty
		if p.Stock > 0 && t > p.Stock {
			t = p.Stock
		}
		return fresh.SetQuantity(p.ID, t, s.clock.Now())
	}); err != nil {
		return err
	}

	s.recomputeLocalLocked(map[string]productdom.Product{p.ID: *p})
	return nil
}

// RemoveFromCart filters out the line for productID. A signed-out caller or
// an absent cart is a silent no-op.
func (s *CartSynchronizer) RemoveFromCart(ctx context.Context, productID string) error {
	pid := strings.TrimSpace(productID)
	if pid == "" {
		return ErrCartInvalidArgument
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.userID == "" || s.rec == nil {
		return nil
	}

	rec := s.rec.Clone()
	if err := rec.Remove(pid, s.clock.Now()); err != nil {
		return err
	}

	if err := s.writeLocked(ctx, rec, func(fresh *cartdom.Record) error {
		return fresh.Remove(pid, s.clock.Now())
	}); err != nil {
		return err
	}

	s.recomputeLocalLocked(nil)
	return nil
}

// UpdateQuantity replaces the quantity for productID. qty < 1 is rejected
// silently (zero/negative routes through RemoveFromCart instead); qty above
// the resolved product's stock is clamped. Signed-out callers and lines not
// present in the cart are no-ops.
func (s *CartSynchronizer) UpdateQuantity(ctx context.Context, productID string, qty int) error {
	pid := strings.TrimSpace(productID)
	if pid == "" {
		return ErrCartInvalidArgument
	}
	if qty < 1 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.userID == "" || s.rec == nil {
		return nil
	}
	if s.rec.Quantity(pid) == 0 {
		return nil
	}

	// clamp against the freshest stock we can see
	if stock, ok := s.stockForLocked(ctx, pid); ok && qty > stock {
		qty = stock
	}
	if qty < 1 {
		return nil
	}

	rec := s.rec.Clone()
	if err := rec.SetQuantity(pid, qty, s.clock.Now()); err != nil {
		return err
	}

	if err := s.writeLocked(ctx, rec, func(fresh *cartdom.Record) error {
		if fresh.Quantity(pid) == 0 {
			return nil
		}
		return fresh.SetQuantity(pid, qty, s.clock.Now())
	}); err != nil {
		return err
	}

	s.recomputeLocalLocked(nil)
	return nil
}

// ClearCart deletes the remote record in one write and forces the local cart
// to the empty value. Signed-out callers are a silent no-op.
func (s *CartSynchronizer) ClearCart(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.userID == "" {
		return nil
	}

	if err := s.store.Delete(ctx, s.userID); err != nil {
		return err
	}

	s.rec = nil
	s.cart = cartdom.Empty()
	s.publishLocked(s.cart)
	return nil
}

// ----------------------------
// internals
// ----------------------------

// workingRecordLocked returns a mutable copy of the latest known record,
// creating a fresh one on the first add for this user.
func (s *CartSynchronizer) workingRecordLocked() (*cartdom.Record, error) {
	if s.rec != nil {
		return s.rec.Clone(), nil
	}
	return cartdom.NewRecord(s.userID, s.clock.Now())
}

// writeLocked replaces the remote record. On a version conflict it re-reads
// the remote state, reapplies the mutation on the fresh record and retries
// once; a second conflict is surfaced to the caller (the snapshot stream
// will correct local state either way).
func (s *CartSynchronizer) writeLocked(ctx context.Context, rec *cartdom.Record, reapply func(*cartdom.Record) error) error {
	err := s.store.Write(ctx, rec)
	if err == nil {
		s.rec = rec
		return nil
	}
	if !errors.Is(err, cartdom.ErrVersionConflict) {
		return err
	}

	log.Printf("[cart_sync] write conflict uid=%s; retrying against fresh record", s.userID)

	fresh, gerr := s.store.Get(ctx, s.userID)
	if gerr != nil {
		return gerr
	}
	if fresh == nil {
		fresh, gerr = cartdom.NewRecord(s.userID, s.clock.Now())
		if gerr != nil {
			return gerr
		}
	}
	if rerr := reapply(fresh); rerr != nil {
		return rerr
	}
	if werr := s.store.Write(ctx, fresh); werr != nil {
		return werr
	}
	s.rec = fresh
	return nil
}

// stockForLocked resolves the stock for pid, preferring the already-resolved
// line item over a catalog round trip.
func (s *CartSynchronizer) stockForLocked(ctx context.Context, pid string) (int, bool) {
	for _, it := range s.cart.Items {
		if it.ProductID == pid {
			return it.Product.Stock, true
		}
	}
	if s.catalog == nil {
		return 0, false
	}
	p, err := s.catalog.GetByID(ctx, pid)
	if err != nil || p == nil {
		return 0, false
	}
	return p.Stock, true
}

// recomputeLocalLocked optimistically re-derives the cart from s.rec using
// product snapshots already in hand (previously resolved lines plus extra),
// so the UI does not wait for the subscription echo. Lines with no local
// snapshot stay unresolved until the echo arrives.
func (s *CartSynchronizer) recomputeLocalLocked(extra map[string]productdom.Product) {
	known := map[string]productdom.Product{}
	for _, it := range s.cart.Items {
		known[it.ProductID] = it.Product
	}
	for id, p := range extra {
		known[id] = p
	}

	items := []cartdom.LineItem{}
	if s.rec != nil {
		for _, l := range s.rec.Items {
			p, ok := known[l.ProductID]
			if !ok {
				continue
			}
			items = append(items, cartdom.LineItem{ProductID: l.ProductID, Quantity: l.Quantity, Product: p})
		}
	}

	s.cart = cartdom.Derive(items)
	s.publishLocked(s.cart)
}

// applySnapshot is the subscription callback: every delivery is treated as
// the full authoritative state. Each line is resolved against the catalog;
// lines whose product is gone are silently dropped (the cart self-heals by
// omission), lines whose resolution errors are dropped for this cycle only.
func (s *CartSynchronizer) applySnapshot(ctx context.Context, gen uint64, rec *cartdom.Record) {
	items := []cartdom.LineItem{}
	if rec != nil {
		for _, l := range rec.Items {
			p, err := s.catalog.GetByID(ctx, l.ProductID)
			if err != nil {
				log.Printf("[cart_sync] resolve failed productId=%s: %v (treating as unresolved this cycle)", l.ProductID, err)
				continue
			}
			if p == nil {
				continue
			}
			items = append(items, cartdom.LineItem{ProductID: l.ProductID, Quantity: l.Quantity, Product: *p})
		}
	}
	derived := cartdom.Derive(items)

	s.mu.Lock()
	if s.gen != gen {
		// identity changed while resolving; drop the stale snapshot
		s.mu.Unlock()
		return
	}
	if rec != nil {
		s.rec = rec.Clone()
	} else {
		s.rec = nil
	}
	s.cart = derived
	s.publishLocked(derived)
	s.mu.Unlock()
}

func (s *CartSynchronizer) publish(c cartdom.Cart) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		// latest-wins: replace a pending value instead of blocking
		select {
		case ch <- c:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- c:
			default:
			}
		}
	}
}

// publishLocked is publish for callers already holding s.mu (the two locks
// are independent; the name only documents the calling convention).
func (s *CartSynchronizer) publishLocked(c cartdom.Cart) {
	s.publish(c)
}
