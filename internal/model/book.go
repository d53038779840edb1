package model

import "time"

// Book is a catalog entry. It is a pure domain model with no
// database-specific dependencies or tags, usable across layers
// (HTTP, service, repository) without coupling to persistence.
//
// Image is optional: a nil Image means the book has no cover. When set,
// the book exclusively owns the image; its lifecycle is driven by book
// operations only.
type Book struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	Pages     int       `json:"pages"`
	Price     float64   `json:"price"`
	Image     *Image    `json:"image,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
