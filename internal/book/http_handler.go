package book

import (
	"errors"
	"net/http"
	"strings"

	"libraryapi/internal/author"
	"libraryapi/internal/httpx"
	"libraryapi/internal/negotiate"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Logical routes, relative to the API mount.
const (
	RouteBooks = "/authors/{authorId}/books"
	RouteBook  = "/authors/{authorId}/books/{bookId}"
)

// Vendor media types selecting a representation.
const (
	MediaTypeBook                             = "application/vnd.library.book+json"
	MediaTypeBookWithConcatenatedAuthorName   = "application/vnd.library.bookwithconcatenatedauthorname+json"
	MediaTypeBookForCreation                  = "application/vnd.library.bookforcreation+json"
	MediaTypeBookForCreationWithAmountOfPages = "application/vnd.library.bookforcreationwithamountofpages+json"
)

// Handler ids registered in the dispatch table.
const (
	HandlerGetBook                           = "getBook"
	HandlerGetBookWithConcatenatedAuthorName = "getBookWithConcatenatedAuthorName"
	HandlerCreateBook                        = "createBook"
	HandlerCreateBookWithAmountOfPages       = "createBookWithAmountOfPages"
)

// RegisterRepresentations declares the book variants: two response
// representations selected by Accept and two creation payloads selected by
// Content-Type.
func RegisterRepresentations(b *negotiate.Builder) error {
	regs := []struct {
		route, method, header string
		values                []string
		handler               string
	}{
		{RouteBook, http.MethodGet, "Accept",
			[]string{httpx.MediaTypeJSON, httpx.MediaTypeXML, MediaTypeBook}, HandlerGetBook},
		{RouteBook, http.MethodGet, "Accept",
			[]string{MediaTypeBookWithConcatenatedAuthorName}, HandlerGetBookWithConcatenatedAuthorName},
		{RouteBooks, http.MethodPost, "Content-Type",
			[]string{httpx.MediaTypeJSON, MediaTypeBookForCreation}, HandlerCreateBook},
		{RouteBooks, http.MethodPost, "Content-Type",
			[]string{MediaTypeBookForCreationWithAmountOfPages}, HandlerCreateBookWithAmountOfPages},
	}
	for _, reg := range regs {
		if err := b.Register(reg.route, reg.method, reg.header, reg.values, reg.handler); err != nil {
			return err
		}
	}
	return nil
}

type HTTPHandler struct {
	service *Service
	logger  *zap.Logger
}

func NewHTTPHandler(service *Service, logger *zap.Logger) *HTTPHandler {
	return &HTTPHandler{service: service, logger: logger}
}

// Routes mounts the book endpoints on r.
func (h *HTTPHandler) Routes(r chi.Router, n *httpx.Negotiator) error {
	get, err := n.Variants(RouteBook, http.MethodGet, "Accept", map[string]http.HandlerFunc{
		HandlerGetBook:                           h.GetBook,
		HandlerGetBookWithConcatenatedAuthorName: h.GetBookWithConcatenatedAuthorName,
	})
	if err != nil {
		return err
	}
	create, err := n.Variants(RouteBooks, http.MethodPost, "Content-Type", map[string]http.HandlerFunc{
		HandlerCreateBook:                  h.CreateBook,
		HandlerCreateBookWithAmountOfPages: h.CreateBookWithAmountOfPages,
	})
	if err != nil {
		return err
	}

	r.With(httpx.AcceptMiddleware()).Get(RouteBooks, h.List)
	r.Method(http.MethodGet, RouteBook, get)
	r.With(httpx.AcceptMiddleware(httpx.MediaTypeJSON, httpx.MediaTypeXML, MediaTypeBook)).
		Method(http.MethodPost, RouteBooks, create)
	return nil
}

// List handles GET /authors/{authorId}/books
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	authorID, ok := author.AuthorIDParam(w, r)
	if !ok {
		return
	}

	books, err := h.service.List(r.Context(), authorID)
	if err != nil {
		h.writeError(w, r, "list books", err)
		return
	}
	httpx.Respond(w, r, http.StatusOK, ToModels(books))
}

// GetBook handles GET /authors/{authorId}/books/{bookId} for the plain
// representation.
func (h *HTTPHandler) GetBook(w http.ResponseWriter, r *http.Request) {
	b, ok := h.getBook(w, r)
	if !ok {
		return
	}
	httpx.Respond(w, r, http.StatusOK, ToModel(b))
}

// GetBookWithConcatenatedAuthorName handles the same route when the
// concatenated author representation is requested.
func (h *HTTPHandler) GetBookWithConcatenatedAuthorName(w http.ResponseWriter, r *http.Request) {
	b, ok := h.getBook(w, r)
	if !ok {
		return
	}
	httpx.Respond(w, r, http.StatusOK, ToConcatenated(b))
}

func (h *HTTPHandler) getBook(w http.ResponseWriter, r *http.Request) (Book, bool) {
	authorID, ok := author.AuthorIDParam(w, r)
	if !ok {
		return Book{}, false
	}
	bookID, err := uuid.Parse(chi.URLParam(r, "bookId"))
	if err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeBadRequest, "bookId must be a UUID", nil)
		return Book{}, false
	}

	b, err := h.service.Get(r.Context(), authorID, bookID)
	if err != nil {
		h.writeError(w, r, "get book", err)
		return Book{}, false
	}
	return b, true
}

// CreateBook handles POST /authors/{authorId}/books with a BookForCreation.
func (h *HTTPHandler) CreateBook(w http.ResponseWriter, r *http.Request) {
	var in BookForCreation
	h.create(w, r, &in, func() Creation { return in })
}

// CreateBookWithAmountOfPages handles the same route for the payload that
// carries a page count.
func (h *HTTPHandler) CreateBookWithAmountOfPages(w http.ResponseWriter, r *http.Request) {
	var in BookForCreationWithAmountOfPages
	h.create(w, r, &in, func() Creation { return in })
}

func (h *HTTPHandler) create(w http.ResponseWriter, r *http.Request, dst any, payload func() Creation) {
	authorID, ok := author.AuthorIDParam(w, r)
	if !ok {
		return
	}
	if !httpx.BindAndValidate(w, r, dst) {
		return
	}

	b, err := h.service.Create(r.Context(), authorID, payload())
	if err != nil {
		h.writeError(w, r, "create book", err)
		return
	}

	location := strings.TrimSuffix(r.URL.Path, "/") + "/" + b.ID.String()
	httpx.RespondCreated(w, r, location, ToModel(b))
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, ErrAuthorNotFound):
		httpx.NotFound(w, r, "Author not found")
	case errors.Is(err, ErrNotFound):
		httpx.NotFound(w, r, "Book not found")
	default:
		h.logger.Error(op, zap.Error(err), zap.String("request_id", httpx.RequestIDFrom(r)))
		httpx.InternalError(w, r)
	}
}
