package httpx

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bookInput struct {
	Title         string `json:"title" validate:"required,max=10"`
	Description   string `json:"description" validate:"max=20"`
	AmountOfPages *int   `json:"amountOfPages" validate:"omitempty,min=1"`
}

func fieldMessages(details []ErrorDetail) map[string]string {
	out := make(map[string]string, len(details))
	for _, d := range details {
		out[d.Field] = d.Message
	}
	return out
}

func TestValidateStruct(t *testing.T) {
	zero := 0

	t.Run("valid", func(t *testing.T) {
		assert.Nil(t, ValidateStruct(bookInput{Title: "Dune"}))
	})

	t.Run("reports json field names", func(t *testing.T) {
		details := ValidateStruct(bookInput{
			Description:   strings.Repeat("x", 21),
			AmountOfPages: &zero,
		})

		msgs := fieldMessages(details)
		require.Len(t, msgs, 3)
		assert.Equal(t, "title is required", msgs["title"])
		assert.Equal(t, "description must be at most 20 characters", msgs["description"])
		assert.Equal(t, "amountOfPages must be at least 1", msgs["amountOfPages"])
	})

	t.Run("pointer input", func(t *testing.T) {
		details := ValidateStruct(&bookInput{Title: strings.Repeat("x", 11)})

		assert.Equal(t, "title must be at most 10 characters", fieldMessages(details)["title"])
	})
}

func TestBindAndValidate(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantOK     bool
		wantStatus int
		wantCode   string
	}{
		{name: "valid", body: `{"title":"Dune"}`, wantOK: true},
		{name: "malformed", body: `{"title":`, wantStatus: http.StatusBadRequest, wantCode: CodeBadRequest},
		{name: "empty", body: ``, wantStatus: http.StatusBadRequest, wantCode: CodeBadRequest},
		{name: "trailing data", body: `{"title":"Dune"} {}`, wantStatus: http.StatusBadRequest, wantCode: CodeBadRequest},
		{name: "wrong type", body: `{"title":42}`, wantStatus: http.StatusBadRequest, wantCode: CodeBadRequest},
		{name: "fails validation", body: `{"title":""}`, wantStatus: http.StatusUnprocessableEntity, wantCode: CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))

			var in bookInput
			ok := BindAndValidate(w, r, &in)

			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				assert.Equal(t, tt.wantStatus, w.Code)
				assert.Contains(t, w.Body.String(), tt.wantCode)
			}
		})
	}
}

func TestDecodeJSON_Errors(t *testing.T) {
	t.Run("body too large", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"`+strings.Repeat("x", 64)+`"}`))
		r.Body = http.MaxBytesReader(w, r.Body, 16)

		var in bookInput
		err := DecodeJSON(r, &in)

		require.ErrorIs(t, err, ErrBodyTooLarge)
		assert.NotErrorIs(t, err, ErrMalformedBody)
		var maxErr *http.MaxBytesError
		require.ErrorAs(t, err, &maxErr)
		assert.EqualValues(t, 16, maxErr.Limit)
	})

	for name, body := range map[string]string{
		"syntax":        `{"title":`,
		"empty":         ``,
		"trailing data": `{"title":"Dune"} {}`,
	} {
		t.Run(name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))

			var in bookInput
			err := DecodeJSON(r, &in)

			assert.ErrorIs(t, err, ErrMalformedBody)
			assert.NotErrorIs(t, err, ErrBodyTooLarge)
		})
	}
}

func TestBindAndValidate_ChunkedBodyOverLimit(t *testing.T) {
	var reached bool
	h := RequestSizeLimitMiddleware(16)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var in bookInput
		reached = BindAndValidate(w, r, &in)
	}))

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"`+strings.Repeat("x", 64)+`"}`))
	r.ContentLength = -1
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.False(t, reached)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Contains(t, w.Body.String(), CodeRequestTooLarge)
}
