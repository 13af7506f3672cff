package apidoc

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"libraryapi/internal/author"
	"libraryapi/internal/book"
	"libraryapi/internal/negotiate"

	"github.com/go-chi/chi/v5"
	"github.com/go-openapi/spec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func libraryTable(t *testing.T) *negotiate.Table {
	t.Helper()
	b := negotiate.NewBuilder()
	require.NoError(t, author.RegisterRepresentations(b))
	require.NoError(t, book.RegisterRepresentations(b))
	return b.Build()
}

func TestNewLibraryDocument_VariantsComeFromTable(t *testing.T) {
	doc := NewLibraryDocument(libraryTable(t), "1.0")

	assert.Equal(t, "2.0", doc.Swagger)
	assert.Equal(t, "1.0", doc.Info.Version)

	getBook := doc.Paths.Paths[book.RouteBook].Get
	require.NotNil(t, getBook)
	assert.Equal(t, []string{
		"application/json",
		"application/xml",
		book.MediaTypeBook,
		book.MediaTypeBookWithConcatenatedAuthorName,
	}, getBook.Produces)
	assert.Equal(t, map[string]string{
		"application/json": book.HandlerGetBook,
		"application/xml":  book.HandlerGetBook,
		book.MediaTypeBook: book.HandlerGetBook,
		book.MediaTypeBookWithConcatenatedAuthorName: book.HandlerGetBookWithConcatenatedAuthorName,
	}, getBook.Extensions[ExtensionVariants])

	create := doc.Paths.Paths[book.RouteBooks].Post
	require.NotNil(t, create)
	assert.Equal(t, []string{
		"application/json",
		book.MediaTypeBookForCreation,
		book.MediaTypeBookForCreationWithAmountOfPages,
	}, create.Consumes)
	assert.Contains(t, create.Produces, book.MediaTypeBook)
	require.Contains(t, create.Responses.StatusCodeResponses, http.StatusCreated)

	patch := doc.Paths.Paths[author.RouteAuthor].Patch
	require.NotNil(t, patch)
	assert.Equal(t, []string{author.MediaTypeJSONPatch}, patch.Consumes)
}

func TestNewLibraryDocument_Security(t *testing.T) {
	doc := NewLibraryDocument(libraryTable(t), "1.0")

	assert.Contains(t, doc.SecurityDefinitions, SecurityBasic)
	assert.Contains(t, doc.SecurityDefinitions, SecurityBearer)

	token := doc.Paths.Paths[RouteToken].Post
	require.NotNil(t, token)
	assert.Empty(t, token.Security)

	list := doc.Paths.Paths[author.RouteAuthors].Get
	require.NotNil(t, list)
	assert.Len(t, list.Security, 2)
}

func TestNewLibraryDocument_PathParameters(t *testing.T) {
	doc := NewLibraryDocument(libraryTable(t), "1.0")

	op := doc.Paths.Paths[book.RouteBook].Get
	names := []string{}
	for _, p := range op.Parameters {
		assert.Equal(t, "path", p.In)
		assert.Equal(t, "uuid", p.Format)
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"authorId", "bookId"}, names)
}

func TestBuild_UnmanagedOperationUsesDefaults(t *testing.T) {
	doc := Build(Info{Title: "t", Version: "1"}, negotiate.NewBuilder().Build(), []Operation{
		{Route: "/things", Method: http.MethodPost, ID: "createThing", Body: "Thing",
			Responses: map[int]string{201: "Thing"}},
	}, spec.Definitions{}, []string{"application/json"}, []string{"application/json"})

	op := doc.Paths.Paths["/things"].Post
	require.NotNil(t, op)
	assert.Equal(t, []string{"application/json"}, op.Produces)
	assert.Equal(t, []string{"application/json"}, op.Consumes)
	assert.NotContains(t, op.Extensions, ExtensionVariants)
}

func TestHandler(t *testing.T) {
	h, err := NewHandler(map[string]*spec.Swagger{"v1": NewLibraryDocument(libraryTable(t), "1.0")})
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Method(http.MethodGet, "/swagger/{docName}/swagger.json", h)

	t.Run("known document", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/v1/swagger.json", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "2.0", body["swagger"])
		assert.Contains(t, body["paths"], "/authors/{authorId}/books/{bookId}")
	})

	t.Run("unknown document", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/v9/swagger.json", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
