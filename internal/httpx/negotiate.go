package httpx

import (
	"errors"
	"fmt"
	"net/http"
	"sort"

	"libraryapi/internal/negotiate"

	"github.com/munnerz/goautoneg"
	"go.uber.org/zap"
)

// DefaultOffers are the formats every read endpoint can render.
var DefaultOffers = []string{MediaTypeJSON, MediaTypeXML}

// AcceptMiddleware negotiates the response format for endpoints that have a
// single representation. A missing Accept header selects the first offer; an
// Accept header that lists none of the offers is rejected with 406.
func AcceptMiddleware(offers ...string) func(http.Handler) http.Handler {
	if len(offers) == 0 {
		offers = DefaultOffers
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			accept := r.Header.Get("Accept")
			mediaType := offers[0]
			if accept != "" {
				mediaType = goautoneg.Negotiate(accept, offers)
			}
			if mediaType == "" {
				JSONError(w, r, http.StatusNotAcceptable, CodeNotAcceptable, "None of the requested media types can be produced", nil)
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithMediaType(r.Context(), mediaType)))
		})
	}
}

// Negotiator binds handler variants to entries of a dispatch table.
type Negotiator struct {
	table   *negotiate.Table
	logger  *zap.Logger
	metrics *Metrics
}

func NewNegotiator(table *negotiate.Table, logger *zap.Logger, metrics *Metrics) *Negotiator {
	return &Negotiator{table: table, logger: logger, metrics: metrics}
}

// Variants returns a handler that dispatches on header among handlers, keyed
// by handler id. Every id registered in the table for the route must have a
// handler and vice versa, otherwise a *negotiate.ConfigurationError is
// returned.
//
// When header is Accept the matched value becomes the response media type.
// A miss yields 406 for Accept and 415 for any other header.
func (n *Negotiator) Variants(route, method, header string, handlers map[string]http.HandlerFunc) (http.Handler, error) {
	if !n.table.Manages(route, method, header) {
		return nil, &negotiate.ConfigurationError{Route: route, Method: method, Header: header, Reason: "no entries registered"}
	}

	registered := make(map[string]bool)
	for _, e := range n.table.Entries(route, method) {
		if e.Header != http.CanonicalHeaderKey(header) {
			continue
		}
		registered[e.Handler] = true
		if handlers[e.Handler] == nil {
			return nil, &negotiate.ConfigurationError{Route: route, Method: method, Header: header, Handler: e.Handler, Reason: "no handler bound"}
		}
	}
	ids := make([]string, 0, len(handlers))
	for id := range handlers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if !registered[id] {
			return nil, &negotiate.ConfigurationError{Route: route, Method: method, Header: header, Handler: id, Reason: "handler has no table entry"}
		}
	}

	isAccept := http.CanonicalHeaderKey(header) == "Accept"

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		value := r.Header.Get(header)
		m, err := n.table.Match(route, method, header, value)
		if err != nil {
			if !errors.Is(err, negotiate.ErrNoMatch) {
				InternalError(w, r)
				return
			}
			n.logger.Debug("no representation matched",
				zap.String("route", route),
				zap.String("method", method),
				zap.String("header", header),
				zap.String("value", value),
				zap.String("request_id", RequestIDFrom(r)),
			)
			n.metrics.noMatch(header)
			if isAccept {
				JSONError(w, r, http.StatusNotAcceptable, CodeNotAcceptable,
					fmt.Sprintf("No representation of this resource matches Accept %q", value), nil)
				return
			}
			JSONError(w, r, http.StatusUnsupportedMediaType, CodeUnsupportedMediaType,
				fmt.Sprintf("Media type %q is not supported by this endpoint", value), nil)
			return
		}

		if isAccept {
			r = r.WithContext(ContextWithMediaType(r.Context(), m.MediaType))
		}
		handlers[m.Handler](w, r)
	}), nil
}
