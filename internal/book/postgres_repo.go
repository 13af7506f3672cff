package book

import (
	"context"
	"errors"
	"time"

	"libraryapi/internal/platform/postgres"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type PostgresRepo struct {
	db      postgres.DB
	timeout time.Duration
}

func NewPostgresRepo(db postgres.DB, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

const selectBooks = `
	SELECT b.id, b.author_id, b.title, b.description, b.amount_of_pages,
	       a.first_name, a.last_name
	FROM books b
	JOIN authors a ON a.id = b.author_id`

func scanBook(row pgx.Row) (Book, error) {
	var b Book
	err := row.Scan(
		&b.ID, &b.AuthorID, &b.Title, &b.Description, &b.AmountOfPages,
		&b.AuthorFirstName, &b.AuthorLastName,
	)
	return b, err
}

func (r *PostgresRepo) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]Book, error) {
	const query = selectBooks + `
	WHERE b.author_id = $1
	ORDER BY b.title`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, authorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) Get(ctx context.Context, authorID, bookID uuid.UUID) (Book, error) {
	const query = selectBooks + `
	WHERE b.author_id = $1 AND b.id = $2`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	b, err := scanBook(r.db.QueryRow(timeoutCtx, query, authorID, bookID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, err
	}
	return b, nil
}

func (r *PostgresRepo) Create(ctx context.Context, b *Book) error {
	const query = `
		INSERT INTO books (id, author_id, title, description, amount_of_pages)
		VALUES ($1, $2, $3, $4, $5)`

	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	_, err := r.db.Exec(timeoutCtx, query, b.ID, b.AuthorID, b.Title, b.Description, b.AmountOfPages)
	if err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return ErrAuthorNotFound
		}
		return err
	}
	return nil
}
