// internal/domain/product/entity.go
package product

import (
	"errors"
	"strings"
)

var ErrInvalidProduct = errors.New("product: invalid")

// Product is a catalog entry. The cart never mutates products; they are
// owned by the catalog and joined into carts at read time.
type Product struct {
	ID          string `json:"id" firestore:"id"`
	Title       string `json:"title" firestore:"title"`
	Price       int64  `json:"price" firestore:"price"`
	Image       string `json:"image" firestore:"image"`
	Category    string `json:"category" firestore:"category"`
	Description string `json:"description" firestore:"description"`

	Stock        int     `json:"stock" firestore:"stock"`
	Rating       float64 `json:"rating" firestore:"rating"`
	FreeDelivery bool    `json:"freeDelivery" firestore:"freeDelivery"`
	Featured     bool    `json:"featured" firestore:"featured"`
}

// Validate checks the minimum shape a catalog entry must have.
// Stock may be zero (out-of-stock listings stay visible).
func (p *Product) Validate() error {
	if p == nil {
		return ErrInvalidProduct
	}
	if strings.TrimSpace(p.ID) == "" {
		return ErrInvalidProduct
	}
	if strings.TrimSpace(p.Title) == "" {
		return ErrInvalidProduct
	}
	if p.Price < 0 || p.Stock < 0 {
		return ErrInvalidProduct
	}
	return nil
}
