// internal/application/usecase/cart_sessions.go
package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	cartdom "botparts/internal/domain/cart"
)

// CartSessions consumes the identity provider's change notifications and
// keeps one CartSynchronizer per signed-in user: Bind on sign-in (first
// authenticated request), Unbind on sign-out. Each synchronizer's remote
// watch lives on the base context passed at construction, not on any
// request context.
type CartSessions struct {
	ctx     context.Context
	store   cartdom.Store
	catalog Catalog
	clock   Clock

	mu    sync.Mutex
	byUID map[string]*CartSynchronizer
}

func NewCartSessions(ctx context.Context, store cartdom.Store, catalog Catalog) *CartSessions {
	return &CartSessions{
		ctx:     ctx,
		store:   store,
		catalog: catalog,
		byUID:   map[string]*CartSynchronizer{},
	}
}

// Bind returns the synchronizer for uid, creating and attaching one on the
// first sighting of this identity.
func (m *CartSessions) Bind(uid string) (*CartSynchronizer, error) {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return nil, ErrCartUnauthenticated
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.byUID[uid]; ok {
		return s, nil
	}

	s := NewCartSynchronizerWithClock(m.store, m.catalog, m.clock)
	if err := s.SetUser(m.ctx, uid); err != nil {
		return nil, err
	}
	m.byUID[uid] = s
	log.Printf("[cart_sessions] bound uid=%s (active=%d)", uid, len(m.byUID))
	return s, nil
}

// Unbind tears down the user's synchronizer (sign-out): the remote watch is
// cancelled and the session forgets the identity. The remote record is left
// untouched.
func (m *CartSessions) Unbind(uid string) {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return
	}

	m.mu.Lock()
	s, ok := m.byUID[uid]
	if ok {
		delete(m.byUID, uid)
	}
	m.mu.Unlock()

	if ok {
		s.Close()
		log.Printf("[cart_sessions] unbound uid=%s", uid)
	}
}

// Close tears down every active synchronizer (application shutdown).
func (m *CartSessions) Close() error {
	if m == nil {
		return errors.New("cart_sessions: nil")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for uid, s := range m.byUID {
		s.Close()
		delete(m.byUID, uid)
	}
	return nil
}
