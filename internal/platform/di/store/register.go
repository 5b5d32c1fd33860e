package store

import (
	"encoding/json"
	"log"
	"net/http"

	storehttp "botparts/internal/adapters/in/http/store"
	storehandler "botparts/internal/adapters/in/http/store/handler"
	"botparts/internal/adapters/in/http/middleware"
)

// requireUserAuth wraps handler with UserAuthMiddleware (fail-closed).
// If middleware is not initialized, it returns 503 so the bug is obvious.
func requireUserAuth(mw *middleware.UserAuthMiddleware, h http.Handler, name string) http.Handler {
	if h == nil {
		h = http.NotFoundHandler()
	}
	if mw == nil || mw.FirebaseAuth == nil {
		log.Printf("[store.register] ERROR: UserAuthMiddleware is not initialized (endpoint=%s). returning 503", name)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"error": "user_auth_not_initialized",
				"name":  name,
			})
		})
	}
	return mw.Handler(h)
}

// Register constructs the handlers and passes them to the store router.
// All /store/me/* endpoints go through the user auth middleware.
func Register(mux *http.ServeMux, cont *Container) {
	if mux == nil || cont == nil {
		return
	}

	var userAuthMW *middleware.UserAuthMiddleware
	if cont.Infra != nil && cont.Infra.FirebaseAuth != nil {
		userAuthMW = &middleware.UserAuthMiddleware{FirebaseAuth: cont.Infra.FirebaseAuth}
	} else {
		// fail-closed in requireUserAuth
		log.Printf("[store.register] WARN: FirebaseAuth is nil (protected endpoints will return 503)")
		userAuthMW = &middleware.UserAuthMiddleware{FirebaseAuth: nil}
	}

	deps := storehttp.Deps{
		Catalog:  storehandler.NewCatalogHandler(cont.CatalogQ),
		Category: storehandler.NewCategoryHandler(cont.CatalogQ),
		Offer:    storehandler.NewOfferHandler(cont.CatalogQ),
		Search:   storehandler.NewSearchHandler(cont.SearchQ),

		Cart: requireUserAuth(userAuthMW,
			storehandler.NewCartHandler(cont.Sessions, cont.CatalogQ), "Cart"),
		Checkout: requireUserAuth(userAuthMW,
			storehandler.NewCheckoutHandler(cont.CheckoutUC, cont.Sessions), "Checkout"),
		Order: requireUserAuth(userAuthMW,
			storehandler.NewOrderHandler(cont.CheckoutUC), "Order"),
		Profile: requireUserAuth(userAuthMW,
			storehandler.NewProfileHandler(cont.ProfileUC), "Profile"),
		Session: requireUserAuth(userAuthMW,
			storehandler.NewSessionHandler(cont.Sessions), "Session"),
	}

	storehttp.Register(mux, deps)
}
