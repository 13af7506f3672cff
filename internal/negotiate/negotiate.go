// Package negotiate selects one of several handler variants registered for the
// same route and method, using a request header such as Accept or
// Content-Type as the discriminator.
//
// Entries are registered on a Builder during startup. Build returns an
// immutable Table that is safe for concurrent Dispatch calls.
package negotiate

import (
	"errors"
	"fmt"
	"net/textproto"
	"strings"
)

// Absent is the value that matches a request where the header is missing or
// empty. Register it explicitly to give a route a default variant.
const Absent = ""

// ErrNoMatch is returned by Dispatch when no registered entry accepts any of
// the values listed in the request header.
var ErrNoMatch = errors.New("no registered representation matches the request header")

// ConfigurationError reports an invalid or conflicting registration.
type ConfigurationError struct {
	Route    string
	Method   string
	Header   string
	Handler  string
	Conflict string   // handler of the already-registered entry, if any
	Values   []string // overlapping values, if any
	Reason   string
}

func (e *ConfigurationError) Error() string {
	if e.Conflict != "" {
		return fmt.Sprintf("negotiate: %s %s [%s]: handler %q overlaps handler %q on %s",
			e.Method, e.Route, e.Header, e.Handler, e.Conflict, strings.Join(e.Values, ", "))
	}
	return fmt.Sprintf("negotiate: %s %s [%s]: handler %q: %s", e.Method, e.Route, e.Header, e.Handler, e.Reason)
}

// Entry is one registered association between a route, a method, a header and
// a handler variant.
type Entry struct {
	Route   string
	Method  string
	Header  string
	Values  []string
	Handler string
}

// Match is the result of a successful dispatch.
type Match struct {
	Handler string
	// MediaType is the request header value that selected the entry.
	MediaType string
}

type key struct {
	route  string
	method string
	header string
}

func newKey(route, method, header string) key {
	return key{
		route:  route,
		method: strings.ToUpper(method),
		header: textproto.CanonicalMIMEHeaderKey(header),
	}
}

// Builder accumulates entries in registration order. It is not safe for
// concurrent use.
type Builder struct {
	entries []Entry
	sets    []map[string]struct{}
	index   map[key][]int
}

func NewBuilder() *Builder {
	return &Builder{index: make(map[key][]int)}
}

// Register adds an entry. It returns a *ConfigurationError and leaves the
// builder unchanged when values is empty or intersects the values of an entry
// already registered for the same route, method and header.
func (b *Builder) Register(route, method, header string, values []string, handler string) error {
	k := newKey(route, method, header)

	fail := func(reason string) error {
		return &ConfigurationError{Route: route, Method: k.method, Header: k.header, Handler: handler, Reason: reason}
	}
	switch {
	case route == "":
		return fail("route is required")
	case k.method == "":
		return fail("method is required")
	case k.header == "":
		return fail("header name is required")
	case handler == "":
		return fail("handler is required")
	case len(values) == 0:
		return fail("at least one acceptable value is required")
	}

	set := make(map[string]struct{}, len(values))
	normalized := make([]string, 0, len(values))
	for _, v := range values {
		v = normalize(v)
		if _, dup := set[v]; dup {
			continue
		}
		set[v] = struct{}{}
		normalized = append(normalized, v)
	}

	for _, i := range b.index[k] {
		var overlap []string
		for _, v := range normalized {
			if _, ok := b.sets[i][v]; ok {
				overlap = append(overlap, v)
			}
		}
		if len(overlap) > 0 {
			return &ConfigurationError{
				Route:    route,
				Method:   k.method,
				Header:   k.header,
				Handler:  handler,
				Conflict: b.entries[i].Handler,
				Values:   overlap,
			}
		}
	}

	b.entries = append(b.entries, Entry{
		Route:   route,
		Method:  k.method,
		Header:  k.header,
		Values:  normalized,
		Handler: handler,
	})
	b.sets = append(b.sets, set)
	b.index[k] = append(b.index[k], len(b.entries)-1)
	return nil
}

// Len returns the number of registered entries.
func (b *Builder) Len() int {
	return len(b.entries)
}

// Build returns an immutable snapshot of the registered entries.
func (b *Builder) Build() *Table {
	t := &Table{
		entries: make([]Entry, len(b.entries)),
		sets:    make([]map[string]struct{}, len(b.sets)),
		index:   make(map[key][]int, len(b.index)),
	}
	for i, e := range b.entries {
		e.Values = append([]string(nil), e.Values...)
		t.entries[i] = e
		set := make(map[string]struct{}, len(b.sets[i]))
		for v := range b.sets[i] {
			set[v] = struct{}{}
		}
		t.sets[i] = set
	}
	for k, idx := range b.index {
		t.index[k] = append([]int(nil), idx...)
	}
	return t
}

// Table is the read-only dispatch table produced by Builder.Build.
type Table struct {
	entries []Entry
	sets    []map[string]struct{}
	index   map[key][]int
}

// Dispatch returns the handler selected for the header value, or ErrNoMatch.
func (t *Table) Dispatch(route, method, header, value string) (string, error) {
	m, err := t.Match(route, method, header, value)
	if err != nil {
		return "", err
	}
	return m.Handler, nil
}

// Match is Dispatch that also reports which header value selected the entry.
// Entries are tried in registration order; the first whose set contains any
// listed value wins, regardless of header order or quality weights.
func (t *Table) Match(route, method, header, value string) (Match, error) {
	candidates := parse(value)
	for _, i := range t.index[newKey(route, method, header)] {
		for _, c := range candidates {
			if _, ok := t.sets[i][c]; ok {
				return Match{Handler: t.entries[i].Handler, MediaType: c}, nil
			}
		}
	}
	return Match{}, ErrNoMatch
}

// Manages reports whether any entry is registered for the route, method and
// header. Unmanaged routes bypass the table entirely.
func (t *Table) Manages(route, method, header string) bool {
	return len(t.index[newKey(route, method, header)]) > 0
}

// Entries returns a copy of the entries for the route and method, in
// registration order, across all header names.
func (t *Table) Entries(route, method string) []Entry {
	method = strings.ToUpper(method)
	var out []Entry
	for _, e := range t.entries {
		if e.Route == route && e.Method == method {
			e.Values = append([]string(nil), e.Values...)
			out = append(out, e)
		}
	}
	return out
}

// Len returns the number of entries in the table.
func (t *Table) Len() int {
	return len(t.entries)
}

// parse splits a header value on commas into bare, lower-cased values.
// Parameters such as q are dropped. Elements need not be media types.
func parse(value string) []string {
	if strings.TrimSpace(value) == "" {
		return []string{Absent}
	}
	elems := strings.Split(value, ",")
	out := make([]string, 0, len(elems))
	for _, e := range elems {
		if v := normalize(e); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func normalize(v string) string {
	if i := strings.IndexByte(v, ';'); i >= 0 {
		v = v[:i]
	}
	return strings.ToLower(strings.TrimSpace(v))
}
