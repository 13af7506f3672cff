package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

func TestAPIVersionMiddleware(t *testing.T) {
	r := chi.NewRouter()
	versioned := APIVersionMiddleware([]string{"1.0"}, "1.0")
	echo := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Version", APIVersionFrom(r))
	}
	r.With(versioned).Get("/api/v{version}/authors", echo)
	r.With(versioned).Get("/api/authors", echo)

	tests := []struct {
		name        string
		path        string
		wantStatus  int
		wantVersion string
	}{
		{name: "major only", path: "/api/v1/authors", wantStatus: http.StatusOK, wantVersion: "1.0"},
		{name: "major and minor", path: "/api/v1.0/authors", wantStatus: http.StatusOK, wantVersion: "1.0"},
		{name: "unversioned uses default", path: "/api/authors", wantStatus: http.StatusOK, wantVersion: "1.0"},
		{name: "unsupported", path: "/api/v2/authors", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, "1.0", w.Header().Get(SupportedVersionsHeader))
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.wantVersion, w.Header().Get("X-Version"))
			} else {
				assert.Contains(t, w.Body.String(), CodeUnsupportedAPIVersion)
			}
		})
	}
}
