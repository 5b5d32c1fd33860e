// internal/domain/user/entity.go
package user

import (
	"errors"
	"strings"
	"time"
)

var ErrInvalidUser = errors.New("user: invalid")

// User is the buyer profile. Identity (uid, email verification) is owned by
// the identity provider; this document only carries profile fields the
// storefront edits.
type User struct {
	UID       string    `json:"uid" firestore:"uid"`
	Email     string    `json:"email" firestore:"email"`
	FirstName string    `json:"firstName" firestore:"firstName"`
	LastName  string    `json:"lastName" firestore:"lastName"`
	Phone     string    `json:"phone" firestore:"phone"`
	PhotoURL  string    `json:"photoURL" firestore:"photoURL"`
	UpdatedAt time.Time `json:"updatedAt" firestore:"updatedAt"`
}

func (u *User) Validate() error {
	if u == nil {
		return ErrInvalidUser
	}
	if strings.TrimSpace(u.UID) == "" {
		return ErrInvalidUser
	}
	return nil
}
