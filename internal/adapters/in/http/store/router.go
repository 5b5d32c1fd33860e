// Package store registers the buyer-facing HTTP surface.
package store

import (
	"log"
	"net/http"
)

// Deps is the storefront handler set. Handlers for /store/me/* are expected
// to be wrapped with the user auth middleware before registration.
type Deps struct {
	Catalog  http.Handler
	Category http.Handler
	Offer    http.Handler
	Search   http.Handler

	Cart     http.Handler
	Checkout http.Handler
	Order    http.Handler
	Profile  http.Handler
	Session  http.Handler
}

// handleSafe registers pattern with h.
// If h is nil, it logs and registers NotFoundHandler instead (so Cloud Run won't crash).
func handleSafe(mux *http.ServeMux, pattern string, h http.Handler, name string) {
	if h == nil {
		log.Printf("[store.router] WARN: nil handler: %s pattern=%s (registering NotFoundHandler)", name, pattern)
		h = http.NotFoundHandler()
	}
	mux.Handle(pattern, h)
}

// Register registers storefront routes onto mux.
func Register(mux *http.ServeMux, deps Deps) {
	if mux == nil {
		return
	}

	// catalog
	handleSafe(mux, "/store/home", deps.Catalog, "Catalog(home)")
	handleSafe(mux, "/store/catalog", deps.Catalog, "Catalog")
	handleSafe(mux, "/store/catalog/", deps.Catalog, "Catalog")

	// categories / offers
	handleSafe(mux, "/store/categories", deps.Category, "Category")
	handleSafe(mux, "/store/categories/", deps.Category, "Category")
	handleSafe(mux, "/store/offers", deps.Offer, "Offer")

	// search
	handleSafe(mux, "/store/search", deps.Search, "Search")

	// cart
	handleSafe(mux, "/store/me/cart", deps.Cart, "Cart")
	handleSafe(mux, "/store/me/cart/", deps.Cart, "Cart")

	// checkout / orders
	handleSafe(mux, "/store/me/checkout", deps.Checkout, "Checkout")
	handleSafe(mux, "/store/me/orders", deps.Order, "Order")

	// profile
	handleSafe(mux, "/store/me/profile", deps.Profile, "Profile")
	handleSafe(mux, "/store/me/profile/", deps.Profile, "Profile")

	// sign-out notification
	handleSafe(mux, "/store/me/session", deps.Session, "Session")
}
