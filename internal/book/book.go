package book

import (
	"encoding/xml"
	"errors"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

var (
	// ErrNotFound is returned when a book is not found for the author.
	ErrNotFound = errors.New("book not found")
	// ErrAuthorNotFound is returned when the owning author does not exist.
	ErrAuthorNotFound = errors.New("author not found")
)

// Book is the stored entity. The author names are filled in by reads.
type Book struct {
	ID              uuid.UUID
	AuthorID        uuid.UUID
	Title           string
	Description     string
	AmountOfPages   *int
	AuthorFirstName string
	AuthorLastName  string
}

// BookModel is the default representation.
type BookModel struct {
	XMLName         xml.Name  `json:"-" xml:"Book"`
	ID              uuid.UUID `json:"id" xml:"id"`
	AuthorID        uuid.UUID `json:"authorId" xml:"authorId"`
	AuthorFirstName string    `json:"authorFirstName" xml:"authorFirstName"`
	AuthorLastName  string    `json:"authorLastName" xml:"authorLastName"`
	Title           string    `json:"title" xml:"title"`
	Description     string    `json:"description" xml:"description"`
	AmountOfPages   *int      `json:"amountOfPages,omitempty" xml:"amountOfPages,omitempty"`
}

// BookWithConcatenatedAuthorName carries the author as a single display name.
type BookWithConcatenatedAuthorName struct {
	XMLName     xml.Name  `json:"-" xml:"BookWithConcatenatedAuthorName"`
	ID          uuid.UUID `json:"id" xml:"id"`
	AuthorID    uuid.UUID `json:"authorId" xml:"authorId"`
	Author      string    `json:"author" xml:"author"`
	Title       string    `json:"title" xml:"title"`
	Description string    `json:"description" xml:"description"`
}

// Creation is implemented by every accepted creation payload.
type Creation interface {
	ToEntity(authorID uuid.UUID) Book
}

type BookForCreation struct {
	Title       string `json:"title" validate:"required,max=150"`
	Description string `json:"description" validate:"max=2500"`
}

func (c BookForCreation) ToEntity(authorID uuid.UUID) Book {
	return Book{AuthorID: authorID, Title: c.Title, Description: c.Description}
}

type BookForCreationWithAmountOfPages struct {
	Title         string `json:"title" validate:"required,max=150"`
	Description   string `json:"description" validate:"max=2500"`
	AmountOfPages *int   `json:"amountOfPages" validate:"omitempty,min=1"`
}

func (c BookForCreationWithAmountOfPages) ToEntity(authorID uuid.UUID) Book {
	return Book{
		AuthorID:      authorID,
		Title:         c.Title,
		Description:   c.Description,
		AmountOfPages: c.AmountOfPages,
	}
}

func ToModel(b Book) BookModel {
	return BookModel{
		ID:              b.ID,
		AuthorID:        b.AuthorID,
		AuthorFirstName: b.AuthorFirstName,
		AuthorLastName:  b.AuthorLastName,
		Title:           b.Title,
		Description:     b.Description,
		AmountOfPages:   b.AmountOfPages,
	}
}

func ToModels(books []Book) []BookModel {
	return lo.Map(books, func(b Book, _ int) BookModel {
		return ToModel(b)
	})
}

func ToConcatenated(b Book) BookWithConcatenatedAuthorName {
	return BookWithConcatenatedAuthorName{
		ID:          b.ID,
		AuthorID:    b.AuthorID,
		Author:      b.AuthorFirstName + " " + b.AuthorLastName,
		Title:       b.Title,
		Description: b.Description,
	}
}
