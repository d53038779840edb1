package postgres

import (
	"context"
	"database/sql"

	"bookapi/internal/model"
	"bookapi/internal/repository"
)

// ImagePostgres is a PostgreSQL implementation of repository.ImageRepository.
type ImagePostgres struct {
	db *sql.DB
}

// NewImagePostgres creates a new ImagePostgres repository.
func NewImagePostgres(db *sql.DB) *ImagePostgres {
	return &ImagePostgres{db: db}
}

var _ repository.ImageRepository = (*ImagePostgres)(nil)

// Create inserts a new image row and returns the stored record.
func (r *ImagePostgres) Create(ctx context.Context, img *model.Image) (*model.Image, error) {
	const q = `
		INSERT INTO images (id, name, url, remote_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, name, url, remote_id, created_at
	`
	row := r.db.QueryRowContext(ctx, q,
		img.ID,
		img.Name,
		img.URL,
		img.RemoteID,
		img.CreatedAt,
	)
	var out model.Image
	if err := row.Scan(
		&out.ID,
		&out.Name,
		&out.URL,
		&out.RemoteID,
		&out.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes an image by ID. It does not return an error if the row does not exist.
func (r *ImagePostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM images WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	_, _ = res.RowsAffected()
	return nil
}
