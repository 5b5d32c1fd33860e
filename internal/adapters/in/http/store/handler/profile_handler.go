package storeHandler

import (
	"net/http"
	"strings"

	"botparts/internal/adapters/in/http/middleware"
	"botparts/internal/application/usecase"
)

// ProfileHandler serves the shopper's profile and photo upload.
//
// Routes:
//   - GET  /store/me/profile
//   - PUT  /store/me/profile
//   - POST /store/me/profile/photo   (multipart field "photo", or raw body)
type ProfileHandler struct {
	Profile *usecase.ProfileUsecase
}

func NewProfileHandler(profile *usecase.ProfileUsecase) http.Handler {
	return &ProfileHandler{Profile: profile}
}

type profileUpdateRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
}

func (h *ProfileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Profile == nil {
		internalError(w, "profile handler is not ready")
		return
	}

	uid, email, ok := middleware.CurrentUserUIDAndEmail(r)
	if !ok {
		unauthorized(w)
		return
	}

	path := strings.TrimSuffix(r.URL.Path, "/")
	isPhoto := strings.HasSuffix(path, "/profile/photo")

	switch {
	case r.Method == http.MethodGet && !isPhoto:
		u, err := h.Profile.Get(r.Context(), uid, email)
		if err != nil {
			internalError(w, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, u)

	case r.Method == http.MethodPut && !isPhoto:
		var req profileUpdateRequest
		if err := readJSON(r, &req); err != nil {
			badRequest(w, "invalid json body")
			return
		}
		u, err := h.Profile.Update(r.Context(), uid, req.FirstName, req.LastName, req.Phone)
		if err != nil {
			internalError(w, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, u)

	case r.Method == http.MethodPost && isPhoto:
		h.handlePhoto(w, r, uid)

	default:
		methodNotAllowed(w)
	}
}

func (h *ProfileHandler) handlePhoto(w http.ResponseWriter, r *http.Request, uid string) {
	contentType := r.Header.Get("Content-Type")

	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(8 << 20); err != nil {
			badRequest(w, "invalid multipart body")
			return
		}
		f, fh, err := r.FormFile("photo")
		if err != nil {
			badRequest(w, "photo field is required")
			return
		}
		defer f.Close()

		u, err := h.Profile.SetPhoto(r.Context(), uid, fh.Header.Get("Content-Type"), f)
		if err != nil {
			internalError(w, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, u)
		return
	}

	// raw body upload, Content-Type becomes the object type
	u, err := h.Profile.SetPhoto(r.Context(), uid, contentType, http.MaxBytesReader(w, r.Body, 8<<20))
	if err != nil {
		internalError(w, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, u)
}
