package httpx

import (
	"net/http"
	"strings"
)

// Authenticator resolves credentials to a principal name.
type Authenticator interface {
	AuthenticateBasic(username, password string) (string, error)
	AuthenticateBearer(token string) (string, error)
}

// AuthMiddleware accepts either HTTP Basic credentials or a bearer token
// issued by the token endpoint.
func AuthMiddleware(authn Authenticator, realm string) func(http.Handler) http.Handler {
	challenge := `Basic realm="` + realm + `"`

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := authenticate(authn, r)
			if !ok {
				w.Header().Set("WWW-Authenticate", challenge)
				JSONError(w, r, http.StatusUnauthorized, CodeUnauthorized, "Unauthorized", nil)
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), user)))
		})
	}
}

func authenticate(authn Authenticator, r *http.Request) (string, bool) {
	if username, password, ok := r.BasicAuth(); ok {
		user, err := authn.AuthenticateBasic(username, password)
		return user, err == nil
	}

	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	user, err := authn.AuthenticateBearer(strings.TrimPrefix(authHeader, "Bearer "))
	return user, err == nil
}
