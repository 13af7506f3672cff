package book

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var bookColumns = []string{"id", "author_id", "title", "description", "amount_of_pages", "first_name", "last_name"}

func newMockRepo(t *testing.T) (*PostgresRepo, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewPostgresRepo(mock, time.Second), mock
}

func TestPostgresRepo_ListByAuthor(t *testing.T) {
	repo, mock := newMockRepo(t)
	authorID := uuid.New()
	id1, id2 := uuid.New(), uuid.New()
	pages := 180

	mock.ExpectQuery(`FROM books b\s+JOIN authors a ON a.id = b.author_id\s+WHERE b.author_id = \$1`).
		WithArgs(authorID).
		WillReturnRows(pgxmock.NewRows(bookColumns).
			AddRow(id1, authorID, "Dune", "Spice", &pages, "Frank", "Herbert").
			AddRow(id2, authorID, "Dune Messiah", "", (*int)(nil), "Frank", "Herbert"))

	books, err := repo.ListByAuthor(context.Background(), authorID)
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, id1, books[0].ID)
	require.NotNil(t, books[0].AmountOfPages)
	assert.Equal(t, 180, *books[0].AmountOfPages)
	assert.Nil(t, books[1].AmountOfPages)
	assert.Equal(t, "Herbert", books[1].AuthorLastName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepo_Get(t *testing.T) {
	authorID, bookID := uuid.New(), uuid.New()

	t.Run("found", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery(`WHERE b.author_id = \$1 AND b.id = \$2`).
			WithArgs(authorID, bookID).
			WillReturnRows(pgxmock.NewRows(bookColumns).
				AddRow(bookID, authorID, "Dune", "Spice", (*int)(nil), "Frank", "Herbert"))

		b, err := repo.Get(context.Background(), authorID, bookID)
		require.NoError(t, err)
		assert.Equal(t, "Dune", b.Title)
		assert.Equal(t, "Frank", b.AuthorFirstName)
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery(`FROM books`).WithArgs(authorID, bookID).WillReturnError(pgx.ErrNoRows)

		_, err := repo.Get(context.Background(), authorID, bookID)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestPostgresRepo_Create(t *testing.T) {
	authorID := uuid.New()

	t.Run("assigns an id", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		pages := 42
		b := &Book{AuthorID: authorID, Title: "Hitchhiker", Description: "Towel", AmountOfPages: &pages}
		mock.ExpectExec(`INSERT INTO books`).
			WithArgs(pgxmock.AnyArg(), authorID, "Hitchhiker", "Towel", &pages).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		require.NoError(t, repo.Create(context.Background(), b))
		assert.NotEqual(t, uuid.Nil, b.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("foreign key violation means missing author", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectExec(`INSERT INTO books`).
			WithArgs(pgxmock.AnyArg(), authorID, "Orphan", "", (*int)(nil)).
			WillReturnError(&pgconn.PgError{Code: "23503"})

		err := repo.Create(context.Background(), &Book{AuthorID: authorID, Title: "Orphan"})
		assert.ErrorIs(t, err, ErrAuthorNotFound)
	})
}
