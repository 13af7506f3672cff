package httpx

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// SupportedVersionsHeader lists the API versions on every response.
const SupportedVersionsHeader = "api-supported-versions"

// APIVersionMiddleware resolves the {version} route parameter against the
// supported versions. Routes without the parameter run under def. A bare
// major version ("1") is read as "<major>.0".
func APIVersionMiddleware(supported []string, def string) func(http.Handler) http.Handler {
	known := make(map[string]bool, len(supported))
	for _, v := range supported {
		known[v] = true
	}
	reported := strings.Join(supported, ", ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(SupportedVersionsHeader, reported)

			version := normalizeVersion(chi.URLParam(r, "version"))
			if version == "" {
				version = def
			}
			if !known[version] {
				JSONError(w, r, http.StatusBadRequest, CodeUnsupportedAPIVersion,
					fmt.Sprintf("API version %q is not supported", version), nil)
				return
			}

			next.ServeHTTP(w, r.WithContext(contextWithAPIVersion(r.Context(), version)))
		})
	}
}

func normalizeVersion(v string) string {
	v = strings.TrimSpace(v)
	if v != "" && !strings.Contains(v, ".") {
		return v + ".0"
	}
	return v
}
