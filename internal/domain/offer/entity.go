// internal/domain/offer/entity.go
package offer

import (
	"errors"
	"strings"
	"time"
)

var ErrInvalidOffer = errors.New("offer: invalid")

// Offer is a promotional banner shown on the home surface.
// Discount is display text (e.g. "20% OFF"), not a computed amount.
type Offer struct {
	ID          string    `json:"id" firestore:"id"`
	Title       string    `json:"title" firestore:"title"`
	Discount    string    `json:"discount" firestore:"discount"`
	Description string    `json:"description" firestore:"description"`
	Image       string    `json:"image" firestore:"image"`
	ValidUntil  time.Time `json:"validUntil" firestore:"validUntil"`
}

func (o *Offer) Validate() error {
	if o == nil {
		return ErrInvalidOffer
	}
	if strings.TrimSpace(o.ID) == "" || strings.TrimSpace(o.Title) == "" {
		return ErrInvalidOffer
	}
	return nil
}

// Active reports whether the offer is still valid at now.
// A zero ValidUntil means the offer does not expire.
func (o *Offer) Active(now time.Time) bool {
	if o == nil {
		return false
	}
	if o.ValidUntil.IsZero() {
		return true
	}
	return now.Before(o.ValidUntil)
}
