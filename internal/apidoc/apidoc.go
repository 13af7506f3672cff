// Package apidoc builds the Swagger 2.0 document served in development. The
// media types each operation produces and consumes come from the dispatch
// table, so the document always lists the variants the router actually
// honours.
package apidoc

import (
	"net/http"
	"sort"
	"strings"

	"libraryapi/internal/negotiate"

	"github.com/go-openapi/spec"
	"github.com/samber/lo"
)

const (
	SecurityBasic  = "basicAuth"
	SecurityBearer = "bearerAuth"

	// ExtensionVariants lists the handler variant behind each media type.
	ExtensionVariants = "x-variants"
)

// Operation describes one route and method of the API.
type Operation struct {
	Route   string
	Method  string
	ID      string
	Summary string
	Tag     string

	// Body names the definition of the request payload, if any.
	Body string

	// Responses maps a status code to a definition name. A "[]" prefix
	// documents an array. An empty name documents a response without a body.
	Responses map[int]string

	// Produces overrides the document default for operations whose Accept
	// header is not dispatched through the table.
	Produces []string

	Public bool
}

// Info carries the document metadata.
type Info struct {
	Title       string
	Description string
	Version     string
	BasePath    string
}

// Build assembles the document. Operations whose Accept or Content-Type is
// managed by table list the registered values; the rest fall back to
// defaultProduces and defaultConsumes.
func Build(info Info, table *negotiate.Table, ops []Operation, defs spec.Definitions, defaultProduces, defaultConsumes []string) *spec.Swagger {
	paths := map[string]spec.PathItem{}
	for _, op := range ops {
		item := paths[op.Route]
		setOperation(&item, op.Method, buildOperation(op, table, defaultProduces, defaultConsumes))
		paths[op.Route] = item
	}

	return &spec.Swagger{
		SwaggerProps: spec.SwaggerProps{
			Swagger:  "2.0",
			BasePath: info.BasePath,
			Info: &spec.Info{
				InfoProps: spec.InfoProps{
					Title:       info.Title,
					Description: info.Description,
					Version:     info.Version,
				},
			},
			Produces: defaultProduces,
			Consumes: defaultConsumes,
			Paths:    &spec.Paths{Paths: paths},
			SecurityDefinitions: spec.SecurityDefinitions{
				SecurityBasic:  spec.BasicAuth(),
				SecurityBearer: spec.APIKeyAuth("Authorization", "header"),
			},
			Definitions: defs,
		},
	}
}

func buildOperation(op Operation, table *negotiate.Table, defaultProduces, defaultConsumes []string) *spec.Operation {
	o := spec.NewOperation(op.ID).WithSummary(op.Summary)
	if op.Tag != "" {
		o.WithTags(op.Tag)
	}
	if !op.Public {
		o.SecuredWith(SecurityBasic)
		o.SecuredWith(SecurityBearer)
	}

	for _, name := range pathParams(op.Route) {
		o.AddParam(spec.PathParam(name).Typed("string", "uuid"))
	}
	if op.Body != "" {
		o.AddParam(spec.BodyParam("body", spec.RefSchema("#/definitions/"+op.Body)).AsRequired())
	}

	produces, pVariants := headerValues(table, op, "Accept")
	consumes, cVariants := headerValues(table, op, "Content-Type")
	switch {
	case len(produces) > 0:
		o.WithProduces(produces...)
	case len(op.Produces) > 0:
		o.WithProduces(op.Produces...)
	case op.Method != http.MethodDelete:
		o.WithProduces(defaultProduces...)
	}
	if len(consumes) > 0 {
		o.WithConsumes(consumes...)
	} else if op.Body != "" {
		o.WithConsumes(defaultConsumes...)
	}
	if variants := lo.Assign(pVariants, cVariants); len(variants) > 0 {
		o.AddExtension(ExtensionVariants, variants)
	}

	codes := lo.Keys(op.Responses)
	sort.Ints(codes)
	for _, code := range codes {
		resp := spec.NewResponse().WithDescription(http.StatusText(code))
		if def := op.Responses[code]; def != "" {
			resp.WithSchema(schemaRef(def))
		}
		o.RespondsWith(code, resp)
	}
	return o
}

// headerValues returns the registered values for the header in registration
// order, plus a value to handler map.
func headerValues(table *negotiate.Table, op Operation, header string) ([]string, map[string]string) {
	if table == nil || !table.Manages(op.Route, op.Method, header) {
		return nil, nil
	}
	var values []string
	variants := map[string]string{}
	for _, e := range table.Entries(op.Route, op.Method) {
		if e.Header != header {
			continue
		}
		for _, v := range e.Values {
			if v == negotiate.Absent {
				continue
			}
			values = append(values, v)
			variants[v] = e.Handler
		}
	}
	return lo.Uniq(values), variants
}

func setOperation(item *spec.PathItem, method string, o *spec.Operation) {
	switch method {
	case http.MethodGet:
		item.Get = o
	case http.MethodPost:
		item.Post = o
	case http.MethodPut:
		item.Put = o
	case http.MethodPatch:
		item.Patch = o
	case http.MethodDelete:
		item.Delete = o
	case http.MethodHead:
		item.Head = o
	case http.MethodOptions:
		item.Options = o
	}
}

// schemaRef resolves "[]Name" to an array of Name.
func schemaRef(def string) *spec.Schema {
	if name, ok := strings.CutPrefix(def, "[]"); ok {
		return spec.ArrayProperty(spec.RefSchema("#/definitions/" + name))
	}
	return spec.RefSchema("#/definitions/" + def)
}

func pathParams(route string) []string {
	var out []string
	for _, seg := range strings.Split(route, "/") {
		if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
			out = append(out, strings.Trim(seg, "{}"))
		}
	}
	return out
}
