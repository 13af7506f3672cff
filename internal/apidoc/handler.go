package apidoc

import (
	"encoding/json"
	"fmt"
	"net/http"

	"libraryapi/internal/httpx"

	"github.com/go-chi/chi/v5"
	"github.com/go-openapi/spec"
)

// Handler serves pre-rendered documents at /swagger/{docName}/swagger.json.
type Handler struct {
	docs map[string][]byte
}

// NewHandler renders every document once. Keys are the document names used
// in the URL, e.g. "v1".
func NewHandler(docs map[string]*spec.Swagger) (*Handler, error) {
	h := &Handler{docs: make(map[string][]byte, len(docs))}
	for name, doc := range docs {
		b, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", name, err)
		}
		h.docs[name] = b
	}
	return h, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.docs[chi.URLParam(r, "docName")]
	if !ok {
		httpx.NotFound(w, r, "Document not found")
		return
	}
	w.Header().Set("Content-Type", httpx.MediaTypeJSON)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}
