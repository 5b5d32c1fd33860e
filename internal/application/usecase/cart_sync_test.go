package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	cartdom "botparts/internal/domain/cart"
	productdom "botparts/internal/domain/product"
)

// fakeCartStore is an in-memory cartdom.Store with the same version CAS
// contract as the Firestore adapter.
type fakeCartStore struct {
	mu  sync.Mutex
	rec *cartdom.Record

	snapshots chan *cartdom.Record
	stopped   bool

	gets, writes, deletes, watches int

	// next N writes fail with a version conflict regardless of state
	conflictNext int
}

func newFakeCartStore() *fakeCartStore {
	return &fakeCartStore{snapshots: make(chan *cartdom.Record, 8)}
}

func (f *fakeCartStore) Get(ctx context.Context, userID string) (*cartdom.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	if f.rec == nil {
		return nil, nil
	}
	return f.rec.Clone(), nil
}

func (f *fakeCartStore) Write(ctx context.Context, rec *cartdom.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	if f.conflictNext > 0 {
		f.conflictNext--
		return cartdom.ErrVersionConflict
	}
	var remoteVer int64
	if f.rec != nil {
		remoteVer = f.rec.Version
	}
	if rec.Version != remoteVer {
		return cartdom.ErrVersionConflict
	}
	next := remoteVer + 1
	cp := rec.Clone()
	cp.Version = next
	f.rec = cp
	rec.Version = next
	return nil
}

func (f *fakeCartStore) Delete(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes++
	f.rec = nil
	return nil
}

func (f *fakeCartStore) Watch(ctx context.Context, userID string) (<-chan *cartdom.Record, func(), error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.watches++
	ch := f.snapshots
	return ch, func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if !f.stopped {
			f.stopped = true
			close(ch)
		}
	}, nil
}

func (f *fakeCartStore) emit(rec *cartdom.Record) {
	f.snapshots <- rec
}

func (f *fakeCartStore) remoteCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gets + f.writes + f.deletes + f.watches
}

func (f *fakeCartStore) remote() *cartdom.Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.rec == nil {
		return nil
	}
	return f.rec.Clone()
}

// fakeCatalog resolves products from a fixed map; missing ids are (nil, nil).
type fakeCatalog struct {
	mu       sync.Mutex
	products map[string]productdom.Product
	calls    int
}

func newFakeCatalog(ps ...productdom.Product) *fakeCatalog {
	m := map[string]productdom.Product{}
	for _, p := range ps {
		m[p.ID] = p
	}
	return &fakeCatalog{products: m}
}

func (f *fakeCatalog) GetByID(ctx context.Context, id string) (*productdom.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if p, ok := f.products[id]; ok {
		cp := p
		return &cp, nil
	}
	return nil, nil
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func product(id string, price int64, stock int) productdom.Product {
	return productdom.Product{ID: id, Title: "Part " + id, Price: price, Stock: stock, Category: "actuators"}
}

func newSyncSignedIn(t *testing.T, store *fakeCartStore, catalog *fakeCatalog) *CartSynchronizer {
	t.Helper()
	s := NewCartSynchronizerWithClock(store, catalog, fixedClock{t: testNow})
	require.NoError(t, s.SetUser(context.Background(), "u1"))
	t.Cleanup(s.Close)
	return s
}

func waitForCart(t *testing.T, s *CartSynchronizer, check func(cartdom.Cart) bool) {
	t.Helper()
	require.Eventually(t, func() bool {
		return check(s.Current())
	}, 2*time.Second, 5*time.Millisecond)
}

func TestCartSynchronizerSignedOutGuard(t *testing.T) {
	store := newFakeCartStore()
	catalog := newFakeCatalog(product("p1", 100, 10))
	s := NewCartSynchronizerWithClock(store, catalog, fixedClock{t: testNow})

	p := product("p1", 100, 10)
	err := s.AddToCart(context.Background(), &p, 1)
	require.ErrorIs(t, err, ErrCartUnauthenticated)

	// the remaining mutations are silent no-ops
	require.NoError(t, s.RemoveFromCart(context.Background(), "p1"))
	require.NoError(t, s.UpdateQuantity(context.Background(), "p1", 3))
	require.NoError(t, s.ClearCart(context.Background()))

	require.Zero(t, store.remoteCalls(), "signed-out mutations must not touch the store")
	require.Equal(t, cartdom.Empty(), s.Current())
}

func TestCartSynchronizerAddToCart(t *testing.T) {
	store := newFakeCartStore()
	catalog := newFakeCatalog(product("p1", 100, 10))
	s := newSyncSignedIn(t, store, catalog)

	p := product("p1", 100, 10)
	require.NoError(t, s.AddToCart(context.Background(), &p, 1))

	c := s.Current()
	require.Equal(t, 1, c.TotalItems)
	require.Equal(t, int64(100), c.TotalPrice)

	// adding again accumulates on the same line
	require.NoError(t, s.AddToCart(context.Background(), &p, 2))
	c = s.Current()
	require.Len(t, c.Items, 1)
	require.Equal(t, 3, c.Items[0].Quantity)
	require.Equal(t, int64(300), c.TotalPrice)

	// the remote record carries the same normalized lines
	remote := store.remote()
	require.NotNil(t, remote)
	require.Equal(t, []cartdom.LineRef{{ProductID: "p1", Quantity: 3}}, remote.Items)
}

func TestCartSynchronizerAddToCartStockClamp(t *testing.T) {
	store := newFakeCartStore()
	catalog := newFakeCatalog(product("p1", 100, 2))
	s := newSyncSignedIn(t, store, catalog)

	p := product("p1", 100, 2)
	require.NoError(t, s.AddToCart(context.Background(), &p, 5))

	c := s.Current()
	require.Equal(t, 2, c.TotalItems, "quantity is clamped to available stock")

	// another add stays pinned at the clamp
	require.NoError(t, s.AddToCart(context.Background(), &p, 1))
	require.Equal(t, 2, s.Current().TotalItems)
}

func TestCartSynchronizerAddToCartInvalidArgs(t *testing.T) {
	store := newFakeCartStore()
	catalog := newFakeCatalog()
	s := newSyncSignedIn(t, store, catalog)

	p := product("p1", 100, 10)
	require.ErrorIs(t, s.AddToCart(context.Background(), nil, 1), ErrCartInvalidArgument)
	require.ErrorIs(t, s.AddToCart(context.Background(), &p, 0), ErrCartInvalidArgument)
}

func TestCartSynchronizerRemoveFromCart(t *testing.T) {
	store := newFakeCartStore()
	catalog := newFakeCatalog(product("p1", 100, 10), product("p2", 50, 10))
	s := newSyncSignedIn(t, store, catalog)

	p1 := product("p1", 100, 10)
	p2 := product("p2", 50, 10)
	require.NoError(t, s.AddToCart(context.Background(), &p1, 2))
	require.NoError(t, s.AddToCart(context.Background(), &p2, 1))

	require.NoError(t, s.RemoveFromCart(context.Background(), "p1"))

	c := s.Current()
	require.Len(t, c.Items, 1)
	require.Equal(t, "p2", c.Items[0].ProductID)
	require.Equal(t, int64(50), c.TotalPrice)

	// removing an absent line is a no-op, not an error
	require.NoError(t, s.RemoveFromCart(context.Background(), "p1"))
}

func TestCartSynchronizerUpdateQuantity(t *testing.T) {
	store := newFakeCartStore()
	catalog := newFakeCatalog(product("p1", 100, 5))
	s := newSyncSignedIn(t, store, catalog)

	p := product("p1", 100, 5)
	require.NoError(t, s.AddToCart(context.Background(), &p, 1))

	require.NoError(t, s.UpdateQuantity(context.Background(), "p1", 4))
	require.Equal(t, 4, s.Current().TotalItems)

	// clamped to stock
	require.NoError(t, s.UpdateQuantity(context.Background(), "p1", 9))
	require.Equal(t, 5, s.Current().TotalItems)

	// qty < 1 is a silent no-op (removal goes through RemoveFromCart)
	require.NoError(t, s.UpdateQuantity(context.Background(), "p1", 0))
	require.Equal(t, 5, s.Current().TotalItems)

	// absent line is a silent no-op with no write
	writesBefore := store.writes
	require.NoError(t, s.UpdateQuantity(context.Background(), "ghost", 3))
	require.Equal(t, writesBefore, store.writes)
}

func TestCartSynchronizerClearCart(t *testing.T) {
	store := newFakeCartStore()
	catalog := newFakeCatalog(product("p1", 100, 10))
	s := newSyncSignedIn(t, store, catalog)

	p := product("p1", 100, 10)
	require.NoError(t, s.AddToCart(context.Background(), &p, 2))
	require.NoError(t, s.ClearCart(context.Background()))

	require.Equal(t, cartdom.Empty(), s.Current())
	require.Nil(t, store.remote(), "clear deletes the remote record")
}

func TestCartSynchronizerSnapshotResolution(t *testing.T) {
	store := newFakeCartStore()
	catalog := newFakeCatalog(product("p1", 100, 10))
	s := newSyncSignedIn(t, store, catalog)

	rec, err := cartdom.NewRecord("u1", testNow)
	require.NoError(t, err)
	require.NoError(t, rec.Add("p1", 2, testNow))
	require.NoError(t, rec.Add("gone", 5, testNow))

	store.emit(rec)

	// the unresolvable line is dropped silently; totals cover resolved lines only
	waitForCart(t, s, func(c cartdom.Cart) bool { return c.TotalItems == 2 })
	c := s.Current()
	require.Len(t, c.Items, 1)
	require.Equal(t, "p1", c.Items[0].ProductID)
	require.Equal(t, int64(200), c.TotalPrice)

	// applying the same snapshot again changes nothing
	store.emit(rec.Clone())
	time.Sleep(50 * time.Millisecond)
	require.Equal(t, c, s.Current())

	// a nil snapshot means the record is gone
	store.emit(nil)
	waitForCart(t, s, func(c cartdom.Cart) bool { return c.TotalItems == 0 })
}

func TestCartSynchronizerWriteConflictRetry(t *testing.T) {
	store := newFakeCartStore()
	catalog := newFakeCatalog(product("p1", 100, 10), product("p2", 50, 10))

	// another device already wrote a cart; the local synchronizer has not
	// seen a snapshot yet, so its first write runs on a stale version
	remote, err := cartdom.NewRecord("u1", testNow)
	require.NoError(t, err)
	require.NoError(t, remote.Add("p2", 1, testNow))
	require.NoError(t, store.Write(context.Background(), remote))

	s := newSyncSignedIn(t, store, catalog)

	p := product("p1", 100, 10)
	require.NoError(t, s.AddToCart(context.Background(), &p, 1))

	// first write conflicted, the retry reapplied the add on the fresh record
	require.Equal(t, 3, store.writes, "seed + conflicted write + retry")
	require.Equal(t, 1, store.gets)

	got := store.remote()
	require.NotNil(t, got)
	require.Equal(t, 1, got.Quantity("p1"))
	require.Equal(t, 1, got.Quantity("p2"), "the other device's line survives the merge")
}

func TestCartSynchronizerSignOutResetsCart(t *testing.T) {
	store := newFakeCartStore()
	catalog := newFakeCatalog(product("p1", 100, 10))
	s := newSyncSignedIn(t, store, catalog)

	p := product("p1", 100, 10)
	require.NoError(t, s.AddToCart(context.Background(), &p, 2))
	require.Equal(t, 2, s.Current().TotalItems)

	require.NoError(t, s.SetUser(context.Background(), ""))
	require.Equal(t, cartdom.Empty(), s.Current())

	// signed out again, mutations are guarded
	require.ErrorIs(t, s.AddToCart(context.Background(), &p, 1), ErrCartUnauthenticated)
}

func TestCartSynchronizerSubscribe(t *testing.T) {
	store := newFakeCartStore()
	catalog := newFakeCatalog(product("p1", 100, 10))
	s := newSyncSignedIn(t, store, catalog)

	ch, unsubscribe := s.Subscribe()
	defer unsubscribe()

	// the current value is delivered immediately
	select {
	case c := <-ch:
		require.Equal(t, 0, c.TotalItems)
	case <-time.After(time.Second):
		t.Fatal("no initial cart value delivered")
	}

	p := product("p1", 100, 10)
	require.NoError(t, s.AddToCart(context.Background(), &p, 2))

	select {
	case c := <-ch:
		require.Equal(t, 2, c.TotalItems)
		require.Equal(t, int64(200), c.TotalPrice)
	case <-time.After(time.Second):
		t.Fatal("no cart update delivered")
	}
}

func TestCartSessions(t *testing.T) {
	store := newFakeCartStore()
	catalog := newFakeCatalog(product("p1", 100, 10))
	sessions := NewCartSessions(context.Background(), store, catalog)
	defer sessions.Close()

	a, err := sessions.Bind("u1")
	require.NoError(t, err)
	b, err := sessions.Bind("u1")
	require.NoError(t, err)
	require.Same(t, a, b, "one synchronizer per uid")

	require.Error(t, func() error {
		_, err := sessions.Bind("  ")
		return err
	}())

	sessions.Unbind("u1")
	c, err := sessions.Bind("u1")
	require.NoError(t, err)
	require.NotSame(t, a, c, "unbind forgets the old synchronizer")
}
