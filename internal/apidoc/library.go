package apidoc

import (
	"net/http"

	"libraryapi/internal/author"
	"libraryapi/internal/book"
	"libraryapi/internal/httpx"
	"libraryapi/internal/negotiate"

	"github.com/go-openapi/spec"
)

// RouteToken is the token endpoint, relative to the API mount.
const RouteToken = "/token"

// LibraryOperations lists every API operation in the order they are
// documented.
func LibraryOperations() []Operation {
	return []Operation{
		{Route: RouteToken, Method: http.MethodPost, ID: "issueToken", Tag: "auth",
			Summary:   "Exchange Basic credentials for a bearer token",
			Responses: map[int]string{200: "Token", 401: "ErrorResponse"}, Public: true},

		{Route: author.RouteAuthors, Method: http.MethodGet, ID: "getAuthors", Tag: "authors",
			Summary:   "List authors",
			Responses: map[int]string{200: "[]Author", 406: "ErrorResponse"}},
		{Route: author.RouteAuthor, Method: http.MethodGet, ID: "getAuthor", Tag: "authors",
			Summary:   "Get an author",
			Responses: map[int]string{200: "Author", 400: "ErrorResponse", 404: "ErrorResponse"}},
		{Route: author.RouteAuthor, Method: http.MethodPut, ID: author.HandlerUpdate, Tag: "authors",
			Summary: "Replace an author", Body: "AuthorForUpdate",
			Responses: map[int]string{200: "Author", 400: "ErrorResponse", 404: "ErrorResponse",
				415: "ErrorResponse", 422: "ErrorResponse"}},
		{Route: author.RouteAuthor, Method: http.MethodPatch, ID: author.HandlerPatch, Tag: "authors",
			Summary: "Apply a JSON Patch document to an author", Body: "JSONPatch",
			Responses: map[int]string{200: "Author", 400: "ErrorResponse", 404: "ErrorResponse",
				415: "ErrorResponse", 422: "ErrorResponse"}},

		{Route: book.RouteBooks, Method: http.MethodGet, ID: "getBooks", Tag: "books",
			Summary:   "List the books of an author",
			Responses: map[int]string{200: "[]Book", 404: "ErrorResponse"}},
		{Route: book.RouteBook, Method: http.MethodGet, ID: "getBook", Tag: "books",
			Summary:   "Get a book of an author",
			Responses: map[int]string{200: "Book", 404: "ErrorResponse", 406: "ErrorResponse"}},
		{Route: book.RouteBooks, Method: http.MethodPost, ID: "createBook", Tag: "books",
			Summary: "Create a book for an author", Body: "BookForCreationWithAmountOfPages",
			Produces: []string{httpx.MediaTypeJSON, httpx.MediaTypeXML, book.MediaTypeBook},
			Responses: map[int]string{201: "Book", 400: "ErrorResponse", 404: "ErrorResponse",
				415: "ErrorResponse", 422: "ErrorResponse"}},
	}
}

// LibraryDefinitions returns the schema definitions referenced by
// LibraryOperations.
func LibraryDefinitions() spec.Definitions {
	uuidProp := func() *spec.Schema { return spec.StrFmtProperty("uuid") }
	name := func() *spec.Schema { return spec.StringProperty().WithMinLength(1).WithMaxLength(150) }

	return spec.Definitions{
		"Author": *new(spec.Schema).Typed("object", "").
			SetProperty("id", *uuidProp()).
			SetProperty("firstName", *spec.StringProperty()).
			SetProperty("lastName", *spec.StringProperty()),
		"AuthorForUpdate": *new(spec.Schema).Typed("object", "").
			WithRequired("firstName", "lastName").
			SetProperty("firstName", *name()).
			SetProperty("lastName", *name()),
		"JSONPatch": *spec.ArrayProperty(new(spec.Schema).Typed("object", "").
			WithRequired("op", "path").
			SetProperty("op", *spec.StringProperty().WithEnum("add", "remove", "replace", "move", "copy", "test")).
			SetProperty("path", *spec.StringProperty()).
			SetProperty("from", *spec.StringProperty()).
			SetProperty("value", spec.Schema{})),
		"Book": *new(spec.Schema).Typed("object", "").
			SetProperty("id", *uuidProp()).
			SetProperty("authorId", *uuidProp()).
			SetProperty("authorFirstName", *spec.StringProperty()).
			SetProperty("authorLastName", *spec.StringProperty()).
			SetProperty("title", *spec.StringProperty()).
			SetProperty("description", *spec.StringProperty()).
			SetProperty("amountOfPages", *spec.Int32Property()),
		"BookWithConcatenatedAuthorName": *new(spec.Schema).Typed("object", "").
			SetProperty("id", *uuidProp()).
			SetProperty("authorId", *uuidProp()).
			SetProperty("author", *spec.StringProperty()).
			SetProperty("title", *spec.StringProperty()).
			SetProperty("description", *spec.StringProperty()),
		"BookForCreation": *new(spec.Schema).Typed("object", "").
			WithRequired("title").
			SetProperty("title", *name()).
			SetProperty("description", *spec.StringProperty().WithMaxLength(2500)),
		"BookForCreationWithAmountOfPages": *new(spec.Schema).Typed("object", "").
			WithRequired("title").
			SetProperty("title", *name()).
			SetProperty("description", *spec.StringProperty().WithMaxLength(2500)).
			SetProperty("amountOfPages", *spec.Int32Property().WithMinimum(1, false)),
		"Token": *new(spec.Schema).Typed("object", "").
			SetProperty("access_token", *spec.StringProperty()).
			SetProperty("token_type", *spec.StringProperty()).
			SetProperty("expires_in", *spec.Int64Property()),
		"ErrorResponse": *new(spec.Schema).Typed("object", "").
			SetProperty("success", *spec.BoolProperty()).
			SetProperty("error", *new(spec.Schema).Typed("object", "").
				SetProperty("code", *spec.StringProperty()).
				SetProperty("message", *spec.StringProperty()).
				SetProperty("details", *spec.ArrayProperty(new(spec.Schema).Typed("object", "").
					SetProperty("field", *spec.StringProperty()).
					SetProperty("message", *spec.StringProperty())))),
	}
}

// NewLibraryDocument builds the document for one API version.
func NewLibraryDocument(table *negotiate.Table, version string) *spec.Swagger {
	return Build(Info{
		Title:       "Library API",
		Description: "Authors and their books. Representations are selected by Accept and Content-Type.",
		Version:     version,
		BasePath:    "/api",
	}, table, LibraryOperations(), LibraryDefinitions(),
		[]string{httpx.MediaTypeJSON, httpx.MediaTypeXML},
		[]string{httpx.MediaTypeJSON})
}
