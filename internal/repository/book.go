package repository

import (
	"context"

	"bookapi/internal/model"
)

// BookRepository defines data access for books using SQL queries only.
// No business logic here — strictly persistence operations.
type BookRepository interface {
	// Create inserts a new book row. The caller provides the generated ID
	// and timestamps; the stored record is returned.
	Create(ctx context.Context, b *model.Book) (*model.Book, error)

	// FindByID returns a book by its ID together with its cover image, if any.
	FindByID(ctx context.Context, id string) (*model.Book, error)

	// Update rewrites a book's fields, including its image reference.
	// Returns sql.ErrNoRows if the id is unknown.
	Update(ctx context.Context, b *model.Book) (*model.Book, error)

	// List returns a paginated page of books and the total row count for
	// the given filter.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.Book], error)

	// Delete removes a book by ID. Returns nil if the row was deleted or
	// did not exist.
	Delete(ctx context.Context, id string) error
}

// PageQuery holds limit/offset pagination parameters plus an optional
// case-insensitive substring filter matched against title or author.
type PageQuery struct {
	Limit  int
	Offset int
	Query  string
}

// PageResult is a generic pagination result wrapper.
type PageResult[T any] struct {
	Items []T
	Total int
}
