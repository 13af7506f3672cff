package httpx

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"libraryapi/internal/negotiate"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const (
	bookRoute       = "/authors/{authorId}/books/{bookId}"
	bookType        = "application/vnd.library.book+json"
	concatType      = "application/vnd.library.bookwithconcatenatedauthorname+json"
	creationType    = "application/vnd.library.bookforcreation+json"
	creationWithPgs = "application/vnd.library.bookforcreationwithamountofpages+json"
)

func newBookTable(t *testing.T) *negotiate.Table {
	t.Helper()
	b := negotiate.NewBuilder()
	require.NoError(t, b.Register(bookRoute, http.MethodGet, "Accept",
		[]string{MediaTypeJSON, MediaTypeXML, bookType}, "book"))
	require.NoError(t, b.Register(bookRoute, http.MethodGet, "Accept",
		[]string{concatType}, "concat"))
	require.NoError(t, b.Register(bookRoute, http.MethodPost, "Content-Type",
		[]string{MediaTypeJSON, creationType}, "create"))
	require.NoError(t, b.Register(bookRoute, http.MethodPost, "Content-Type",
		[]string{creationWithPgs}, "createWithPages"))
	return b.Build()
}

func echoHandler(id string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Handler", id)
		w.Header().Set("X-Media-Type", MediaTypeFrom(r))
		w.WriteHeader(http.StatusOK)
	}
}

func TestAcceptMiddleware(t *testing.T) {
	handler := AcceptMiddleware()(echoHandler("list"))

	tests := []struct {
		name       string
		accept     string
		wantStatus int
		wantType   string
	}{
		{name: "missing header defaults to json", accept: "", wantStatus: http.StatusOK, wantType: MediaTypeJSON},
		{name: "json", accept: "application/json", wantStatus: http.StatusOK, wantType: MediaTypeJSON},
		{name: "xml", accept: "application/xml", wantStatus: http.StatusOK, wantType: MediaTypeXML},
		{name: "quality picks xml", accept: "application/json;q=0.5, application/xml", wantStatus: http.StatusOK, wantType: MediaTypeXML},
		{name: "wildcard", accept: "*/*", wantStatus: http.StatusOK, wantType: MediaTypeJSON},
		{name: "unsupported", accept: "text/csv", wantStatus: http.StatusNotAcceptable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/authors", nil)
			if tt.accept != "" {
				req.Header.Set("Accept", tt.accept)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.wantType, w.Header().Get("X-Media-Type"))
			} else {
				assert.Contains(t, w.Body.String(), CodeNotAcceptable)
			}
		})
	}
}

func TestNegotiator_Variants_Accept(t *testing.T) {
	n := NewNegotiator(newBookTable(t), zap.NewNop(), nil)
	handler, err := n.Variants(bookRoute, http.MethodGet, "Accept", map[string]http.HandlerFunc{
		"book":   echoHandler("book"),
		"concat": echoHandler("concat"),
	})
	require.NoError(t, err)

	tests := []struct {
		name        string
		accept      string
		wantStatus  int
		wantHandler string
		wantType    string
	}{
		{name: "plain json", accept: "application/json", wantStatus: http.StatusOK, wantHandler: "book", wantType: MediaTypeJSON},
		{name: "xml", accept: "application/xml", wantStatus: http.StatusOK, wantHandler: "book", wantType: MediaTypeXML},
		{name: "vendor book", accept: bookType, wantStatus: http.StatusOK, wantHandler: "book", wantType: bookType},
		{name: "concatenated author", accept: concatType, wantStatus: http.StatusOK, wantHandler: "concat", wantType: concatType},
		{name: "registration order wins", accept: concatType + ", application/json", wantStatus: http.StatusOK, wantHandler: "book", wantType: MediaTypeJSON},
		{name: "missing header", accept: "", wantStatus: http.StatusNotAcceptable},
		{name: "wildcard is literal", accept: "*/*", wantStatus: http.StatusNotAcceptable},
		{name: "unknown", accept: "application/vnd.library.unknown+json", wantStatus: http.StatusNotAcceptable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/authors/a/books/b", nil)
			if tt.accept != "" {
				req.Header.Set("Accept", tt.accept)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantHandler, w.Header().Get("X-Handler"))
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.wantType, w.Header().Get("X-Media-Type"))
			} else {
				assert.Contains(t, w.Body.String(), CodeNotAcceptable)
			}
		})
	}
}

func TestNegotiator_Variants_ContentType(t *testing.T) {
	n := NewNegotiator(newBookTable(t), zap.NewNop(), nil)
	handler, err := n.Variants(bookRoute, http.MethodPost, "Content-Type", map[string]http.HandlerFunc{
		"create":          echoHandler("create"),
		"createWithPages": echoHandler("createWithPages"),
	})
	require.NoError(t, err)

	tests := []struct {
		name        string
		contentType string
		wantStatus  int
		wantHandler string
	}{
		{name: "json", contentType: "application/json; charset=utf-8", wantStatus: http.StatusOK, wantHandler: "create"},
		{name: "creation", contentType: creationType, wantStatus: http.StatusOK, wantHandler: "create"},
		{name: "with pages", contentType: creationWithPgs, wantStatus: http.StatusOK, wantHandler: "createWithPages"},
		{name: "case insensitive", contentType: "Application/Vnd.Library.BookForCreationWithAmountOfPages+JSON", wantStatus: http.StatusOK, wantHandler: "createWithPages"},
		{name: "xml rejected", contentType: MediaTypeXML, wantStatus: http.StatusUnsupportedMediaType},
		{name: "missing", contentType: "", wantStatus: http.StatusUnsupportedMediaType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/authors/a/books", nil)
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantHandler, w.Header().Get("X-Handler"))
			if tt.wantStatus == http.StatusOK {
				// Content-Type matches never change the response representation.
				assert.Empty(t, w.Header().Get("X-Media-Type"))
			} else {
				assert.Contains(t, w.Body.String(), CodeUnsupportedMediaType)
			}
		})
	}
}

func TestNegotiator_Variants_NoMatchIsLoggedAtDebug(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	n := NewNegotiator(newBookTable(t), zap.New(core), metrics)
	handler, err := n.Variants(bookRoute, http.MethodGet, "Accept", map[string]http.HandlerFunc{
		"book":   echoHandler("book"),
		"concat": echoHandler("concat"),
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/authors/a/books/b", nil)
	req.Header.Set("Accept", "text/html")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.FilterMessage("no representation matched").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, "text/html", entries[0].ContextMap()["value"])
	assert.Equal(t, 0, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.noMatchTotal.WithLabelValues("Accept")))
}

func TestNegotiator_Variants_ConfigurationErrors(t *testing.T) {
	n := NewNegotiator(newBookTable(t), zap.NewNop(), nil)

	tests := []struct {
		name     string
		method   string
		header   string
		handlers map[string]http.HandlerFunc
		reason   string
	}{
		{
			name:     "unmanaged header",
			method:   http.MethodGet,
			header:   "Accept-Language",
			handlers: map[string]http.HandlerFunc{"book": echoHandler("book")},
			reason:   "no entries registered",
		},
		{
			name:     "registered id without handler",
			method:   http.MethodGet,
			header:   "Accept",
			handlers: map[string]http.HandlerFunc{"book": echoHandler("book")},
			reason:   "no handler bound",
		},
		{
			name:   "handler without table entry",
			method: http.MethodGet,
			header: "Accept",
			handlers: map[string]http.HandlerFunc{
				"book":   echoHandler("book"),
				"concat": echoHandler("concat"),
				"extra":  echoHandler("extra"),
			},
			reason: "handler has no table entry",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, err := n.Variants(bookRoute, tt.method, tt.header, tt.handlers)

			assert.Nil(t, handler)
			var cfgErr *negotiate.ConfigurationError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.reason, cfgErr.Reason)
		})
	}
}
