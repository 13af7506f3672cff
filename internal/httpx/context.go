package httpx

import (
	"context"
	"net/http"
)

type contextKey string

const (
	userKey       contextKey = "user"
	requestIDKey  contextKey = "requestID"
	mediaTypeKey  contextKey = "mediaType"
	apiVersionKey contextKey = "apiVersion"
	infoKey       contextKey = "requestInfo"
)

// requestInfo is shared by pointer so outer middlewares (access log) can see
// values set further down the chain.
type requestInfo struct {
	user       string
	apiVersion string
}

// UserFrom retrieves the authenticated principal from the request context.
func UserFrom(r *http.Request) string {
	if v, ok := r.Context().Value(userKey).(string); ok {
		return v
	}
	if info, ok := r.Context().Value(infoKey).(*requestInfo); ok {
		return info.user
	}
	return ""
}

// ContextWithUser returns a new context carrying the authenticated principal.
func ContextWithUser(ctx context.Context, user string) context.Context {
	if info, ok := ctx.Value(infoKey).(*requestInfo); ok {
		info.user = user
	}
	return context.WithValue(ctx, userKey, user)
}

func contextWithRequestInfo(ctx context.Context) context.Context {
	return context.WithValue(ctx, infoKey, &requestInfo{})
}

// RequestIDFrom retrieves the request ID from the request context.
func RequestIDFrom(r *http.Request) string {
	if v, ok := r.Context().Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

// ContextWithRequestID returns a new context with the request ID.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// MediaTypeFrom returns the response media type chosen for the request, or
// an empty string when none was negotiated.
func MediaTypeFrom(r *http.Request) string {
	if v, ok := r.Context().Value(mediaTypeKey).(string); ok {
		return v
	}
	return ""
}

// ContextWithMediaType records the response media type for the request.
func ContextWithMediaType(ctx context.Context, mediaType string) context.Context {
	return context.WithValue(ctx, mediaTypeKey, mediaType)
}

// APIVersionFrom returns the API version the request was routed under.
func APIVersionFrom(r *http.Request) string {
	if v, ok := r.Context().Value(apiVersionKey).(string); ok {
		return v
	}
	if info, ok := r.Context().Value(infoKey).(*requestInfo); ok {
		return info.apiVersion
	}
	return ""
}

func contextWithAPIVersion(ctx context.Context, version string) context.Context {
	if info, ok := ctx.Value(infoKey).(*requestInfo); ok {
		info.apiVersion = version
	}
	return context.WithValue(ctx, apiVersionKey, version)
}
