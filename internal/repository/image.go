package repository

import (
	"context"

	"bookapi/internal/model"
)

// ImageRepository persists cover image metadata. Pure storage: image rows
// are only ever created or removed by the lifecycle services.
type ImageRepository interface {
	// Create inserts a new image record and returns the stored row.
	Create(ctx context.Context, img *model.Image) (*model.Image, error)

	// Delete removes an image record by ID. Returns nil if the row was
	// deleted or did not exist.
	Delete(ctx context.Context, id string) error
}
