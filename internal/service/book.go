package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"bookapi/internal/model"
	"bookapi/internal/repository"
)

var (
	ErrIDRequired     = errors.New("id is required")
	ErrNotFound       = errors.New("book not found")
	ErrTitleRequired  = errors.New("title is required")
	ErrAuthorRequired = errors.New("author is required")
	ErrPagesRequired  = errors.New("pages must be a positive integer")
	ErrPriceRequired  = errors.New("price must be zero or positive")
	ErrFileEmpty      = errors.New("file is empty")
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// BookDraft carries the caller-settable book fields.
type BookDraft struct {
	Title  string
	Author string
	Pages  int
	Price  float64
}

func (d BookDraft) validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return ErrTitleRequired
	}
	if strings.TrimSpace(d.Author) == "" {
		return ErrAuthorRequired
	}
	if d.Pages <= 0 {
		return ErrPagesRequired
	}
	if d.Price < 0 {
		return ErrPriceRequired
	}
	return nil
}

// FileUpload is an inbound cover file. Size is the exact byte count from
// the multipart part; a zero size means the part was empty.
type FileUpload struct {
	Reader      io.Reader
	Filename    string
	Size        int64
	ContentType string
}

func (f *FileUpload) present() bool {
	return f != nil && f.Reader != nil && f.Size > 0
}

// BookListResult is the service-level DTO for a page of books.
type BookListResult struct {
	Items []model.Book `json:"data"`
	Total int          `json:"total"`
	Page  int          `json:"page"`
	Size  int          `json:"size"`
}

// BookService orchestrates the book lifecycle, including the owned cover
// image. A book is only ever in one of two states, no-image or has-image,
// and every operation here keeps the two stores consistent: no book
// references a missing remote artifact, and no owned image record
// outlives its book after a successful delete or replace.
type BookService interface {
	// Create persists a new book, uploading and attaching the cover first
	// when a non-empty file is supplied. If the upload fails the book is
	// never persisted.
	Create(ctx context.Context, draft BookDraft, file *FileUpload) (*model.Book, error)

	// Update rewrites title/author/pages/price. The cover is untouched.
	// Idempotent: replaying the same draft yields the same state.
	Update(ctx context.Context, id string, draft BookDraft) (*model.Book, error)

	// ReplaceImage swaps the book's cover: the old image (if any) is
	// deleted before the new file is uploaded, so a partial failure
	// leaves the book with no cover rather than two.
	ReplaceImage(ctx context.Context, id string, file FileUpload) (*model.Book, error)

	// Get returns a single book by its ID.
	Get(ctx context.Context, id string) (*model.Book, error)

	// List returns a zero-based page of books. query filters
	// case-insensitively on title or author substring; blank means all.
	List(ctx context.Context, page, size int, query string) (*BookListResult, error)

	// Delete removes the book and its cover. The book row is only removed
	// after the cover is fully gone.
	Delete(ctx context.Context, id string) error
}

type bookService struct {
	books  repository.BookRepository
	images ImageService
}

// NewBookService constructs a new BookService.
func NewBookService(books repository.BookRepository, images ImageService) BookService {
	return &bookService{books: books, images: images}
}

func (s *bookService) Create(ctx context.Context, draft BookDraft, file *FileUpload) (*model.Book, error) {
	if err := draft.validate(); err != nil {
		return nil, err
	}

	book := &model.Book{
		ID:        uuid.New().String(),
		Title:     draft.Title,
		Author:    draft.Author,
		Pages:     draft.Pages,
		Price:     draft.Price,
		CreatedAt: time.Now().UTC(),
	}

	if file.present() {
		img, err := s.images.Upload(ctx, file.Reader, file.Filename, file.Size, file.ContentType)
		if err != nil {
			return nil, fmt.Errorf("upload cover: %w", err)
		}
		book.Image = img
	}

	stored, err := s.books.Create(ctx, book)
	if err != nil {
		if book.Image != nil {
			// The cover record and remote object exist without an owner.
			return nil, fmt.Errorf("save book (cover record %s left unowned): %w", book.Image.ID, err)
		}
		return nil, fmt.Errorf("save book: %w", err)
	}
	return stored, nil
}

func (s *bookService) Update(ctx context.Context, id string, draft BookDraft) (*model.Book, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	if err := draft.validate(); err != nil {
		return nil, err
	}

	book, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	book.Title = draft.Title
	book.Author = draft.Author
	book.Pages = draft.Pages
	book.Price = draft.Price

	updated, err := s.books.Update(ctx, book)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return updated, nil
}

func (s *bookService) ReplaceImage(ctx context.Context, id string, file FileUpload) (*model.Book, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	if !file.present() {
		return nil, ErrFileEmpty
	}

	book, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if book.Image != nil {
		old := book.Image
		book.Image = nil
		// Detach first so the image row can be removed; the book is now
		// persisted in no-image state.
		if _, err := s.books.Update(ctx, book); err != nil {
			return nil, fmt.Errorf("detach old cover: %w", err)
		}
		if err := s.images.Delete(ctx, old); err != nil {
			return nil, fmt.Errorf("remove old cover: %w", err)
		}
	}

	img, err := s.images.Upload(ctx, file.Reader, file.Filename, file.Size, file.ContentType)
	if err != nil {
		// Delete-then-upload ordering: the book stays in its persisted
		// no-image state. No attempt is made to restore the old cover.
		return nil, fmt.Errorf("upload new cover: %w", err)
	}

	book.Image = img
	updated, err := s.books.Update(ctx, book)
	if err != nil {
		return nil, fmt.Errorf("attach new cover: %w", err)
	}
	return updated, nil
}

func (s *bookService) Get(ctx context.Context, id string) (*model.Book, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	return s.find(ctx, id)
}

func (s *bookService) List(ctx context.Context, page, size int, query string) (*BookListResult, error) {
	// Clamping policy: bad paging inputs fall back rather than fail.
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	if page < 0 {
		page = 0
	}

	res, err := s.books.List(ctx, repository.PageQuery{
		Limit:  size,
		Offset: page * size,
		Query:  strings.TrimSpace(query),
	})
	if err != nil {
		return nil, err
	}
	return &BookListResult{Items: res.Items, Total: res.Total, Page: page, Size: size}, nil
}

func (s *bookService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}

	book, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if book.Image != nil {
		old := book.Image
		book.Image = nil
		if _, err := s.books.Update(ctx, book); err != nil {
			return fmt.Errorf("detach cover: %w", err)
		}
		// The book row must survive until the cover is fully gone, so a
		// failed remote delete never strands an artifact without a record.
		if err := s.images.Delete(ctx, old); err != nil {
			return fmt.Errorf("remove cover: %w", err)
		}
	}

	return s.books.Delete(ctx, id)
}

// find maps the repository's sql.ErrNoRows onto the service sentinel.
func (s *bookService) find(ctx context.Context, id string) (*model.Book, error) {
	book, err := s.books.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return book, nil
}
