// Package testutil holds request builders and response readers shared by the
// HTTP tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	"libraryapi/internal/auth"
	"libraryapi/internal/httpx"
)

const (
	TestUsername = "librarian"
	TestPassword = "s3cret"
)

// GenerateTestToken signs a bearer token valid for an hour.
func GenerateTestToken(secret, subject string) string {
	token, _, _ := auth.GenerateToken([]byte(secret), subject, time.Hour, time.Now())
	return token
}

// GenerateExpiredToken signs a token that expired an hour ago.
func GenerateExpiredToken(secret, subject string) string {
	token, _, _ := auth.GenerateToken([]byte(secret), subject, time.Hour, time.Now().Add(-2*time.Hour))
	return token
}

// NewRequest builds a request. A []byte or string body is sent as is, any
// other non-nil body is marshalled to JSON. contentType is only set when non
// empty so tests can exercise a missing header.
func NewRequest(method, path string, body any, contentType string) *http.Request {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	case []byte:
		reader = bytes.NewReader(b)
	default:
		data, _ := json.Marshal(b)
		reader = bytes.NewReader(data)
	}
	r := httptest.NewRequest(method, path, reader)
	if contentType != "" {
		r.Header.Set("Content-Type", contentType)
	}
	return r
}

// WithBasicAuth sets the shared test credentials on r.
func WithBasicAuth(r *http.Request) *http.Request {
	r.SetBasicAuth(TestUsername, TestPassword)
	return r
}

// WithBearer sets a bearer token on r.
func WithBearer(r *http.Request, token string) *http.Request {
	r.Header.Set("Authorization", "Bearer "+token)
	return r
}

// WithAccept sets the Accept header on r.
func WithAccept(r *http.Request, accept string) *http.Request {
	r.Header.Set("Accept", accept)
	return r
}

// ErrorBody decodes the error envelope of a recorded response. It returns the
// zero value when the body is not an envelope.
func ErrorBody(w *httptest.ResponseRecorder) httpx.ErrorResponse {
	var resp httpx.ErrorResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

// AssertResponseCode checks if the response code matches expected
func AssertResponseCode(t interface {
	Helper()
	Errorf(format string, args ...any)
}, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Errorf("got status code %d, want %d (body: %s)", w.Code, want, w.Body.String())
	}
}

// AssertErrorCode checks the code field of the error envelope.
func AssertErrorCode(t interface {
	Helper()
	Errorf(format string, args ...any)
}, w *httptest.ResponseRecorder, want string) {
	t.Helper()
	if got := ErrorBody(w).Error.Code; got != want {
		t.Errorf("got error code %q, want %q", got, want)
	}
}
