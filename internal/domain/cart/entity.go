// internal/domain/cart/entity.go
package cart

import (
	"errors"
	"strings"
	"time"

	productdom "botparts/internal/domain/product"
)

var (
	ErrInvalidRecord = errors.New("cart: invalid record")

	// ErrVersionConflict is returned by the store when a write carries a
	// version older than the remote record (another write won the race).
	ErrVersionConflict = errors.New("cart: version conflict")
)

// LineRef is the persisted form of one line item: id + quantity only.
// Resolved product data is never persisted alongside it, so price/stock
// cannot go stale inside the record.
type LineRef struct {
	ProductID string `json:"productId" firestore:"productId"`
	Quantity  int    `json:"quantity" firestore:"quantity"`
}

// Record is the persisted, per-user remote representation of a cart.
//   - docId = user id (one record per user; the signed-in identity is the
//     sole partition key, there is no guest cart)
//   - Items: ordered list of LineRef (single normalized wire shape)
//   - Version: optimistic-concurrency token, incremented by the store on
//     each successful write
type Record struct {
	UserID    string    `json:"userId" firestore:"userId"`
	Items     []LineRef `json:"items" firestore:"items"`
	UpdatedAt time.Time `json:"updatedAt" firestore:"updatedAt"`
	Version   int64     `json:"version" firestore:"version"`
}

// NewRecord creates an empty record for userID.
func NewRecord(userID string, now time.Time) (*Record, error) {
	r := &Record{
		UserID:    strings.TrimSpace(userID),
		Items:     []LineRef{},
		UpdatedAt: now,
	}
	if err := r.validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Add increases quantity for productID by qty (appends when absent).
// qty must be >= 1.
func (r *Record) Add(productID string, qty int, now time.Time) error {
	if r == nil {
		return ErrInvalidRecord
	}
	pid := strings.TrimSpace(productID)
	if pid == "" || qty < 1 {
		return ErrInvalidRecord
	}

	if idx := findLine(r.Items, pid); idx >= 0 {
		r.Items[idx].Quantity += qty
	} else {
		r.Items = append(r.Items, LineRef{ProductID: pid, Quantity: qty})
	}

	r.touch(now)
	return r.validate()
}

// SetQuantity replaces the quantity for productID.
// qty must be >= 1; removal goes through Remove instead.
// Setting quantity for an absent productID appends a new line.
func (r *Record) SetQuantity(productID string, qty int, now time.Time) error {
	if r == nil {
		return ErrInvalidRecord
	}
	pid := strings.TrimSpace(productID)
	if pid == "" || qty < 1 {
		return ErrInvalidRecord
	}

	if idx := findLine(r.Items, pid); idx >= 0 {
		r.Items[idx].Quantity = qty
	} else {
		r.Items = append(r.Items, LineRef{ProductID: pid, Quantity: qty})
	}

	r.touch(now)
	return r.validate()
}

// Remove filters out the line for productID. Removing an absent line is a no-op.
func (r *Record) Remove(productID string, now time.Time) error {
	if r == nil {
		return ErrInvalidRecord
	}
	pid := strings.TrimSpace(productID)
	if pid == "" {
		return ErrInvalidRecord
	}

	if idx := findLine(r.Items, pid); idx >= 0 {
		r.Items = append(r.Items[:idx], r.Items[idx+1:]...)
	}

	r.touch(now)
	return r.validate()
}

// Quantity returns the current quantity for productID (0 when absent).
func (r *Record) Quantity(productID string) int {
	if r == nil {
		return 0
	}
	if idx := findLine(r.Items, strings.TrimSpace(productID)); idx >= 0 {
		return r.Items[idx].Quantity
	}
	return 0
}

func (r *Record) touch(now time.Time) {
	r.UpdatedAt = now
}

func (r *Record) validate() error {
	if r == nil {
		return ErrInvalidRecord
	}
	if strings.TrimSpace(r.UserID) == "" {
		return ErrInvalidRecord
	}
	if r.UpdatedAt.IsZero() {
		return ErrInvalidRecord
	}

	r.Items = NormalizeLines(r.Items)
	return nil
}

// Clone returns a deep copy (the synchronizer hands records across goroutines).
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	cp := *r
	cp.Items = make([]LineRef, len(r.Items))
	copy(cp.Items, r.Items)
	return &cp
}

// NormalizeLines coerces an item list to the single wire shape:
// trimmed ids, positive quantities, duplicates merged by summing, first-seen
// order preserved. This is the only place record shape is repaired; everything
// downstream can assume a clean ordered list.
func NormalizeLines(src []LineRef) []LineRef {
	out := make([]LineRef, 0, len(src))
	seen := map[string]int{} // productID -> index in out

	for _, it := range src {
		pid := strings.TrimSpace(it.ProductID)
		if pid == "" || it.Quantity < 1 {
			continue
		}
		if idx, ok := seen[pid]; ok {
			out[idx].Quantity += it.Quantity
			continue
		}
		seen[pid] = len(out)
		out = append(out, LineRef{ProductID: pid, Quantity: it.Quantity})
	}
	return out
}

func findLine(items []LineRef, pid string) int {
	for i := range items {
		if items[i].ProductID == pid {
			return i
		}
	}
	return -1
}

// ----------------------------
// Derived cart
// ----------------------------

// LineItem is one resolved line: the persisted ref joined with a live
// product snapshot at load time.
type LineItem struct {
	ProductID string             `json:"productId"`
	Quantity  int                `json:"quantity"`
	Product   productdom.Product `json:"product"`
}

// Cart is the derived, in-memory representation. TotalItems and TotalPrice
// are pure functions of Items; they are recomputed on every change and never
// stored or patched independently.
type Cart struct {
	Items      []LineItem `json:"items"`
	TotalItems int        `json:"totalItems"`
	TotalPrice int64      `json:"totalPrice"`
}

// Empty is the cart value forced while signed out or when no record exists.
func Empty() Cart {
	return Cart{Items: []LineItem{}, TotalItems: 0, TotalPrice: 0}
}

// Derive recomputes totals from resolved line items.
func Derive(items []LineItem) Cart {
	if items == nil {
		items = []LineItem{}
	}
	c := Cart{Items: items}
	for _, it := range items {
		c.TotalItems += it.Quantity
		c.TotalPrice += int64(it.Quantity) * it.Product.Price
	}
	return c
}
