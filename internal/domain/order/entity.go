// internal/domain/order/entity.go
package order

import (
	"errors"
	"strings"
	"time"
)

var ErrInvalidOrder = errors.New("order: invalid")

type Status string

const (
	StatusPlaced Status = "placed"
)

// Line is an order line frozen at checkout time. Unlike cart records,
// orders persist the unit price: the receipt must not drift when the
// catalog changes later.
type Line struct {
	ProductID string `json:"productId" firestore:"productId"`
	Title     string `json:"title" firestore:"title"`
	UnitPrice int64  `json:"unitPrice" firestore:"unitPrice"`
	Quantity  int    `json:"quantity" firestore:"quantity"`
}

// ShippingInfo is the address block collected on the checkout form.
type ShippingInfo struct {
	FullName string `json:"fullName" firestore:"fullName"`
	Email    string `json:"email" firestore:"email"`
	Phone    string `json:"phone" firestore:"phone"`
	Address  string `json:"address" firestore:"address"`
	City     string `json:"city" firestore:"city"`
	ZipCode  string `json:"zipCode" firestore:"zipCode"`
}

func (s ShippingInfo) Validate() error {
	if strings.TrimSpace(s.FullName) == "" ||
		strings.TrimSpace(s.Email) == "" ||
		strings.TrimSpace(s.Address) == "" ||
		strings.TrimSpace(s.City) == "" {
		return ErrInvalidOrder
	}
	return nil
}

type Order struct {
	ID            string       `json:"id" firestore:"id"`
	UserID        string       `json:"userId" firestore:"userId"`
	Lines         []Line       `json:"lines" firestore:"lines"`
	TotalItems    int          `json:"totalItems" firestore:"totalItems"`
	TotalPrice    int64        `json:"totalPrice" firestore:"totalPrice"`
	Shipping      ShippingInfo `json:"shipping" firestore:"shipping"`
	PaymentMethod string       `json:"paymentMethod" firestore:"paymentMethod"`
	Status        Status       `json:"status" firestore:"status"`
	CreatedAt     time.Time    `json:"createdAt" firestore:"createdAt"`
}

// NewOrder builds a placed order from frozen lines. Totals are recomputed
// here, not trusted from the caller.
func NewOrder(id, userID string, lines []Line, shipping ShippingInfo, paymentMethod string, now time.Time) (*Order, error) {
	oid := strings.TrimSpace(id)
	uid := strings.TrimSpace(userID)
	if oid == "" || uid == "" || len(lines) == 0 {
		return nil, ErrInvalidOrder
	}
	if err := shipping.Validate(); err != nil {
		return nil, err
	}

	o := &Order{
		ID:            oid,
		UserID:        uid,
		Lines:         lines,
		Shipping:      shipping,
		PaymentMethod: strings.TrimSpace(paymentMethod),
		Status:        StatusPlaced,
		CreatedAt:     now,
	}
	for _, l := range lines {
		if strings.TrimSpace(l.ProductID) == "" || l.Quantity < 1 || l.UnitPrice < 0 {
			return nil, ErrInvalidOrder
		}
		o.TotalItems += l.Quantity
		o.TotalPrice += int64(l.Quantity) * l.UnitPrice
	}
	return o, nil
}
