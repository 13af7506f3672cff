package author

import (
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/samber/lo"
	jsonpatch "gopkg.in/evanphx/json-patch.v4"
)

// ErrNotFound is returned when an author is not found.
var ErrNotFound = errors.New("author not found")

// ErrInvalidPatch is returned when a JSON Patch document cannot be decoded or
// applied.
var ErrInvalidPatch = errors.New("invalid patch document")

// Author is the stored entity.
type Author struct {
	ID        uuid.UUID
	FirstName string
	LastName  string
}

// AuthorModel is the representation returned to clients.
type AuthorModel struct {
	XMLName   xml.Name  `json:"-" xml:"Author"`
	ID        uuid.UUID `json:"id" xml:"id"`
	FirstName string    `json:"firstName" xml:"firstName"`
	LastName  string    `json:"lastName" xml:"lastName"`
}

// AuthorForUpdate is the body of PUT and the target of PATCH.
type AuthorForUpdate struct {
	FirstName string `json:"firstName" validate:"required,max=150"`
	LastName  string `json:"lastName" validate:"required,max=150"`
}

func ToModel(a Author) AuthorModel {
	return AuthorModel{ID: a.ID, FirstName: a.FirstName, LastName: a.LastName}
}

func ToModels(authors []Author) []AuthorModel {
	return lo.Map(authors, func(a Author, _ int) AuthorModel {
		return ToModel(a)
	})
}

func ToUpdate(a Author) AuthorForUpdate {
	return AuthorForUpdate{FirstName: a.FirstName, LastName: a.LastName}
}

// Apply copies the updatable fields onto a.
func (u AuthorForUpdate) Apply(a Author) Author {
	a.FirstName = u.FirstName
	a.LastName = u.LastName
	return a
}

// ApplyPatch applies an RFC 6902 document to current and returns the result.
// The result is not validated.
func ApplyPatch(current AuthorForUpdate, document []byte) (AuthorForUpdate, error) {
	patch, err := jsonpatch.DecodePatch(document)
	if err != nil {
		return AuthorForUpdate{}, fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}

	original, err := json.Marshal(current)
	if err != nil {
		return AuthorForUpdate{}, err
	}
	patched, err := patch.Apply(original)
	if err != nil {
		return AuthorForUpdate{}, fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}

	var out AuthorForUpdate
	if err := json.Unmarshal(patched, &out); err != nil {
		return AuthorForUpdate{}, fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}
	return out, nil
}
