package httpx

import (
	"encoding/json"
	"encoding/xml"
	"io"
	"net/http"
	"reflect"
	"strings"
)

const (
	MediaTypeJSON = "application/json"
	MediaTypeXML  = "application/xml"
)

// Error codes carried in ErrorResponseBody.Code.
const (
	CodeBadRequest            = "BAD_REQUEST"
	CodeValidation            = "VALIDATION_ERROR"
	CodeNotFound              = "NOT_FOUND"
	CodeNotAcceptable         = "NOT_ACCEPTABLE"
	CodeUnsupportedMediaType  = "UNSUPPORTED_MEDIA_TYPE"
	CodeUnauthorized          = "UNAUTHORIZED"
	CodeUnsupportedAPIVersion = "UNSUPPORTED_API_VERSION"
	CodeRequestTooLarge       = "REQUEST_TOO_LARGE"
	CodeRateLimited           = "RATE_LIMIT_EXCEEDED"
	CodeInternal              = "INTERNAL_ERROR"
)

type ErrorResponse struct {
	Success bool              `json:"success"`
	Error   ErrorResponseBody `json:"error"`
	Meta    map[string]any    `json:"meta,omitempty"`
}

type ErrorResponseBody struct {
	Code    string        `json:"code"`
	Message string        `json:"message"`
	Details []ErrorDetail `json:"details,omitempty"`
}

type ErrorDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func buildMeta(r *http.Request) map[string]any {
	requestID := RequestIDFrom(r)
	if requestID == "" {
		return nil
	}
	return map[string]any{"request_id": requestID}
}

// Respond writes v as the bare resource representation. The media type comes
// from negotiation (see AcceptMiddleware and Negotiator); XML media types are
// encoded as XML, everything else as JSON.
func Respond(w http.ResponseWriter, r *http.Request, status int, v any) {
	mediaType := MediaTypeFrom(r)
	if mediaType == "" {
		mediaType = MediaTypeJSON
	}

	w.Header().Set("Content-Type", mediaType)
	w.WriteHeader(status)

	if isXML(mediaType) {
		_, _ = io.WriteString(w, xml.Header)
		_ = writeXML(w, v)
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// RespondCreated writes a 201 with a Location header.
func RespondCreated(w http.ResponseWriter, r *http.Request, location string, v any) {
	w.Header().Set("Location", location)
	Respond(w, r, http.StatusCreated, v)
}

// JSONError writes the error envelope. Errors are always JSON regardless of the
// negotiated representation.
func JSONError(w http.ResponseWriter, r *http.Request, statusCode int, code string, message string, details []ErrorDetail) {
	w.Header().Set("Content-Type", MediaTypeJSON)
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Success: false,
		Error: ErrorResponseBody{
			Code:    code,
			Message: message,
			Details: details,
		},
		Meta: buildMeta(r),
	})
}

func NotFound(w http.ResponseWriter, r *http.Request, message string) {
	JSONError(w, r, http.StatusNotFound, CodeNotFound, message, nil)
}

func InternalError(w http.ResponseWriter, r *http.Request) {
	JSONError(w, r, http.StatusInternalServerError, CodeInternal, "Internal server error", nil)
}

func isXML(mediaType string) bool {
	return mediaType == MediaTypeXML || mediaType == "text/xml" || strings.HasSuffix(mediaType, "+xml")
}

// writeXML encodes v; slices are wrapped in an ArrayOf<Elem> root element so
// the output is a single well-formed document. Elem is the element's XMLName
// tag when it has one, else its type name.
func writeXML(w io.Writer, v any) error {
	enc := xml.NewEncoder(w)
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Flush()
	}

	elemType := rv.Type().Elem()
	for elemType.Kind() == reflect.Pointer {
		elemType = elemType.Elem()
	}
	root := xml.StartElement{Name: xml.Name{Local: "ArrayOf" + xmlElementName(elemType)}}
	if err := enc.EncodeToken(root); err != nil {
		return err
	}
	for i := 0; i < rv.Len(); i++ {
		if err := enc.Encode(rv.Index(i).Interface()); err != nil {
			return err
		}
	}
	if err := enc.EncodeToken(root.End()); err != nil {
		return err
	}
	return enc.Flush()
}

func xmlElementName(t reflect.Type) string {
	if t.Kind() == reflect.Struct {
		if f, ok := t.FieldByName("XMLName"); ok {
			if name := strings.SplitN(f.Tag.Get("xml"), ",", 2)[0]; name != "" {
				return name
			}
		}
	}
	return t.Name()
}
