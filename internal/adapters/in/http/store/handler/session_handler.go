package storeHandler

import (
	"net/http"

	"botparts/internal/adapters/in/http/middleware"
	"botparts/internal/application/usecase"
)

// SessionHandler tears down the shopper's server-side cart session on
// sign-out. The next authenticated request binds a fresh one.
//
// Routes:
//   - DELETE /store/me/session
type SessionHandler struct {
	Sessions *usecase.CartSessions
}

func NewSessionHandler(sessions *usecase.CartSessions) http.Handler {
	return &SessionHandler{Sessions: sessions}
}

func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Sessions == nil {
		internalError(w, "session handler is not ready")
		return
	}
	if r.Method != http.MethodDelete {
		methodNotAllowed(w)
		return
	}

	uid, ok := middleware.CurrentUserUID(r)
	if !ok {
		unauthorized(w)
		return
	}

	h.Sessions.Unbind(uid)
	w.WriteHeader(http.StatusNoContent)
}
