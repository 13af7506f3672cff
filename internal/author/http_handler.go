package author

import (
	"errors"
	"io"
	"net/http"

	"libraryapi/internal/httpx"
	"libraryapi/internal/negotiate"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Logical routes, relative to the API mount.
const (
	RouteAuthors = "/authors"
	RouteAuthor  = "/authors/{authorId}"
)

// Handler ids registered in the dispatch table.
const (
	HandlerUpdate = "updateAuthor"
	HandlerPatch  = "patchAuthor"
)

const MediaTypeJSONPatch = "application/json-patch+json"

// RegisterRepresentations declares the request media types the author write
// endpoints consume.
func RegisterRepresentations(b *negotiate.Builder) error {
	if err := b.Register(RouteAuthor, http.MethodPut, "Content-Type",
		[]string{httpx.MediaTypeJSON}, HandlerUpdate); err != nil {
		return err
	}
	return b.Register(RouteAuthor, http.MethodPatch, "Content-Type",
		[]string{MediaTypeJSONPatch}, HandlerPatch)
}

type HTTPHandler struct {
	service *Service
	logger  *zap.Logger
}

func NewHTTPHandler(service *Service, logger *zap.Logger) *HTTPHandler {
	return &HTTPHandler{service: service, logger: logger}
}

// Routes mounts the author endpoints on r. Write endpoints are dispatched on
// Content-Type through n.
func (h *HTTPHandler) Routes(r chi.Router, n *httpx.Negotiator) error {
	put, err := n.Variants(RouteAuthor, http.MethodPut, "Content-Type", map[string]http.HandlerFunc{
		HandlerUpdate: h.Update,
	})
	if err != nil {
		return err
	}
	patch, err := n.Variants(RouteAuthor, http.MethodPatch, "Content-Type", map[string]http.HandlerFunc{
		HandlerPatch: h.Patch,
	})
	if err != nil {
		return err
	}

	r.With(httpx.AcceptMiddleware()).Get(RouteAuthors, h.List)
	r.With(httpx.AcceptMiddleware()).Get(RouteAuthor, h.Get)
	r.With(httpx.AcceptMiddleware()).Method(http.MethodPut, RouteAuthor, put)
	r.With(httpx.AcceptMiddleware()).Method(http.MethodPatch, RouteAuthor, patch)
	return nil
}

// List handles GET /authors
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	authors, err := h.service.List(r.Context())
	if err != nil {
		h.internalError(w, r, "list authors", err)
		return
	}
	httpx.Respond(w, r, http.StatusOK, ToModels(authors))
}

// Get handles GET /authors/{authorId}
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := AuthorIDParam(w, r)
	if !ok {
		return
	}

	a, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, "get author", err)
		return
	}
	httpx.Respond(w, r, http.StatusOK, ToModel(a))
}

// Update handles PUT /authors/{authorId}
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := AuthorIDParam(w, r)
	if !ok {
		return
	}

	var in AuthorForUpdate
	if !httpx.BindAndValidate(w, r, &in) {
		return
	}

	a, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		h.writeError(w, r, "update author", err)
		return
	}
	httpx.Respond(w, r, http.StatusOK, ToModel(a))
}

// Patch handles PATCH /authors/{authorId} with an RFC 6902 document.
func (h *HTTPHandler) Patch(w http.ResponseWriter, r *http.Request) {
	id, ok := AuthorIDParam(w, r)
	if !ok {
		return
	}

	document, err := io.ReadAll(r.Body)
	if err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeBadRequest, "Invalid request body", nil)
		return
	}

	current, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, "get author", err)
		return
	}

	patched, err := ApplyPatch(ToUpdate(current), document)
	if err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeBadRequest, err.Error(), nil)
		return
	}
	if details := httpx.ValidateStruct(patched); len(details) > 0 {
		httpx.JSONError(w, r, http.StatusUnprocessableEntity, httpx.CodeValidation, "One or more validation errors occurred", details)
		return
	}

	a, err := h.service.Update(r.Context(), id, patched)
	if err != nil {
		h.writeError(w, r, "patch author", err)
		return
	}
	httpx.Respond(w, r, http.StatusOK, ToModel(a))
}

// AuthorIDParam parses the {authorId} path parameter, writing a 400 when it
// is not a UUID.
func AuthorIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "authorId"))
	if err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeBadRequest, "authorId must be a UUID", nil)
		return uuid.Nil, false
	}
	return id, true
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	if errors.Is(err, ErrNotFound) {
		httpx.NotFound(w, r, "Author not found")
		return
	}
	h.internalError(w, r, op, err)
}

func (h *HTTPHandler) internalError(w http.ResponseWriter, r *http.Request, op string, err error) {
	h.logger.Error(op, zap.Error(err), zap.String("request_id", httpx.RequestIDFrom(r)))
	httpx.InternalError(w, r)
}
