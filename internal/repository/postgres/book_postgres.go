package postgres

import (
	"context"
	"database/sql"

	"bookapi/internal/model"
	"bookapi/internal/repository"
)

// BookPostgres is a PostgreSQL implementation of repository.BookRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type BookPostgres struct {
	db *sql.DB
}

// NewBookPostgres creates a new BookPostgres repository.
func NewBookPostgres(db *sql.DB) *BookPostgres {
	return &BookPostgres{db: db}
}

var _ repository.BookRepository = (*BookPostgres)(nil)

// bookColumns is the select list shared by every query joining the cover image.
const bookColumns = `
	b.id, b.title, b.author, b.pages, b.price, b.created_at,
	i.id, i.name, i.url, i.remote_id, i.created_at`

// imageRef maps the optional cover to a nullable image_id parameter.
func imageRef(b *model.Book) any {
	if b.Image != nil {
		return b.Image.ID
	}
	return nil
}

// scanBook scans a joined row into a Book, building the Image only when
// the LEFT JOIN produced one.
func scanBook(scan func(dest ...any) error) (*model.Book, error) {
	var (
		b          model.Book
		imgID      sql.NullString
		imgName    sql.NullString
		imgURL     sql.NullString
		imgRemote  sql.NullString
		imgCreated sql.NullTime
	)
	if err := scan(
		&b.ID, &b.Title, &b.Author, &b.Pages, &b.Price, &b.CreatedAt,
		&imgID, &imgName, &imgURL, &imgRemote, &imgCreated,
	); err != nil {
		return nil, err
	}
	if imgID.Valid {
		b.Image = &model.Image{
			ID:        imgID.String,
			Name:      imgName.String,
			URL:       imgURL.String,
			RemoteID:  imgRemote.String,
			CreatedAt: imgCreated.Time,
		}
	}
	return &b, nil
}

// Create inserts a new book row and returns the stored record.
func (r *BookPostgres) Create(ctx context.Context, b *model.Book) (*model.Book, error) {
	const q = `
		INSERT INTO books (id, title, author, pages, price, image_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, title, author, pages, price, created_at
	`
	row := r.db.QueryRowContext(ctx, q,
		b.ID,
		b.Title,
		b.Author,
		b.Pages,
		b.Price,
		imageRef(b),
		b.CreatedAt,
	)
	var out model.Book
	if err := row.Scan(
		&out.ID,
		&out.Title,
		&out.Author,
		&out.Pages,
		&out.Price,
		&out.CreatedAt,
	); err != nil {
		return nil, err
	}
	out.Image = b.Image
	return &out, nil
}

// FindByID fetches a single book by its ID, including its cover image.
func (r *BookPostgres) FindByID(ctx context.Context, id string) (*model.Book, error) {
	const q = `
		SELECT` + bookColumns + `
		FROM books b
		LEFT JOIN images i ON b.image_id = i.id
		WHERE b.id = $1
	`
	row := r.db.QueryRowContext(ctx, q, id)
	return scanBook(row.Scan)
}

// Update rewrites the book's fields and image reference. An unknown id
// surfaces as sql.ErrNoRows via the RETURNING scan.
func (r *BookPostgres) Update(ctx context.Context, b *model.Book) (*model.Book, error) {
	const q = `
		UPDATE books
		SET title = $2, author = $3, pages = $4, price = $5, image_id = $6
		WHERE id = $1
		RETURNING id, title, author, pages, price, created_at
	`
	row := r.db.QueryRowContext(ctx, q,
		b.ID,
		b.Title,
		b.Author,
		b.Pages,
		b.Price,
		imageRef(b),
	)
	var out model.Book
	if err := row.Scan(
		&out.ID,
		&out.Title,
		&out.Author,
		&out.Pages,
		&out.Price,
		&out.CreatedAt,
	); err != nil {
		return nil, err
	}
	out.Image = b.Image
	return &out, nil
}

// whereFilter matches title or author case-insensitively when a query
// string is present; an empty query selects everything.
const whereFilter = `
	($1 = '' OR LOWER(b.title) LIKE '%' || LOWER($1) || '%'
	         OR LOWER(b.author) LIKE '%' || LOWER($1) || '%')`

// List returns books using LIMIT/OFFSET pagination and a total count,
// ordered by creation time then id for a stable window.
func (r *BookPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Book], error) {
	const qCount = `SELECT COUNT(*) FROM books b WHERE` + whereFilter
	var total int
	if err := r.db.QueryRowContext(ctx, qCount, pq.Query).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT` + bookColumns + `
		FROM books b
		LEFT JOIN images i ON b.image_id = i.id
		WHERE` + whereFilter + `
		ORDER BY b.created_at, b.id
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, qList, pq.Query, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Book, 0)
	for rows.Next() {
		b, err := scanBook(rows.Scan)
		if err != nil {
			return nil, err
		}
		items = append(items, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Book]{
		Items: items,
		Total: total,
	}, nil
}

// Delete removes a book by ID. It does not return an error if the row does not exist.
func (r *BookPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM books WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	_, _ = res.RowsAffected()
	return nil
}
