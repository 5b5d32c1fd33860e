// internal/domain/category/entity.go
package category

import (
	"errors"
	"strings"
)

var ErrInvalidCategory = errors.New("category: invalid")

// Category groups products by Name (products carry the category name,
// not the category id).
type Category struct {
	ID    string `json:"id" firestore:"id"`
	Name  string `json:"name" firestore:"name"`
	Image string `json:"image" firestore:"image"`
}

func (c *Category) Validate() error {
	if c == nil {
		return ErrInvalidCategory
	}
	if strings.TrimSpace(c.ID) == "" || strings.TrimSpace(c.Name) == "" {
		return ErrInvalidCategory
	}
	return nil
}
