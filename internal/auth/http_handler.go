package auth

import (
	"errors"
	"net/http"

	"libraryapi/internal/httpx"
)

type HTTPHandler struct {
	service *Service
	realm   string
}

func NewHTTPHandler(service *Service, realm string) *HTTPHandler {
	return &HTTPHandler{service: service, realm: realm}
}

// IssueToken handles POST /api/token. The caller presents Basic credentials
// and receives a bearer token usable on every API route.
func (h *HTTPHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	username, password, ok := r.BasicAuth()
	if !ok {
		h.unauthorized(w, r, "Basic credentials are required")
		return
	}

	token, err := h.service.IssueToken(username, password)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			h.unauthorized(w, r, "Invalid username or password")
			return
		}
		httpx.InternalError(w, r)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	httpx.Respond(w, r, http.StatusOK, token)
}

func (h *HTTPHandler) unauthorized(w http.ResponseWriter, r *http.Request, msg string) {
	w.Header().Set("WWW-Authenticate", `Basic realm="`+h.realm+`"`)
	httpx.JSONError(w, r, http.StatusUnauthorized, httpx.CodeUnauthorized, msg, nil)
}
