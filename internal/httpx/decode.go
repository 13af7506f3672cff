package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

var (
	// ErrMalformedBody marks a request body that could not be parsed at all,
	// as opposed to one that parsed but failed validation.
	ErrMalformedBody = errors.New("malformed request body")
	// ErrBodyTooLarge marks a body cut off by RequestSizeLimitMiddleware.
	// It also wraps the underlying *http.MaxBytesError.
	ErrBodyTooLarge = errors.New("request body too large")
)

// DecodeJSON decodes a single JSON document from the request body into dst.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return fmt.Errorf("%w: body exceeds %d bytes: %w", ErrBodyTooLarge, maxErr.Limit, err)
		}
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", ErrMalformedBody)
		}
		return fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: trailing data after JSON document", ErrMalformedBody)
	}
	return nil
}

// BindAndValidate decodes and validates dst, writing a 400 for malformed
// bodies, a 413 for bodies over the size limit and a 422 for validation
// failures. It reports whether the handler may continue.
func BindAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := DecodeJSON(r, dst); err != nil {
		if errors.Is(err, ErrBodyTooLarge) {
			JSONError(w, r, http.StatusRequestEntityTooLarge, CodeRequestTooLarge, "Request body too large", nil)
			return false
		}
		JSONError(w, r, http.StatusBadRequest, CodeBadRequest, "Invalid request body", nil)
		return false
	}
	if details := ValidateStruct(dst); len(details) > 0 {
		JSONError(w, r, http.StatusUnprocessableEntity, CodeValidation, "One or more validation errors occurred", details)
		return false
	}
	return true
}
