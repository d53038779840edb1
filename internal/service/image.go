package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"bookapi/internal/model"
	"bookapi/internal/repository"
	"bookapi/internal/storage"
)

var (
	ErrReaderNil     = errors.New("reader is nil")
	ErrImageRequired = errors.New("image is required")

	// ErrOrphanedArtifact marks the one genuinely hazardous partial
	// failure: the object reached the media store but no local record
	// points at it. It is surfaced, never reconciled automatically.
	ErrOrphanedArtifact = errors.New("remote artifact orphaned")
)

// ImageService binds the media store and the image record store into one
// consistent upload/delete unit. Image records exist only as side effects
// of book operations; nothing outside the book service should call this.
type ImageService interface {
	// Upload stores the content at the media store, then persists the
	// image record. On a record failure after a successful store the
	// returned error matches ErrOrphanedArtifact.
	Upload(ctx context.Context, r io.Reader, filename string, size int64, contentType string) (*model.Image, error)

	// Delete removes the remote artifact first, then the local record.
	// If the remote delete fails the record is kept, so the pointer to
	// the still-live artifact is never lost.
	Delete(ctx context.Context, img *model.Image) error
}

type imageService struct {
	store storage.Storage
	repo  repository.ImageRepository
}

// NewImageService constructs a new ImageService.
func NewImageService(store storage.Storage, repo repository.ImageRepository) ImageService {
	return &imageService{store: store, repo: repo}
}

func (s *imageService) Upload(ctx context.Context, r io.Reader, filename string, size int64, contentType string) (*model.Image, error) {
	if r == nil {
		return nil, ErrReaderNil
	}
	// Object key is UUID + original extension; the display name keeps the
	// original filename.
	ext := filepath.Ext(filename)
	key := filepath.ToSlash(filepath.Join("covers", uuid.New().String()+ext))

	info, err := s.store.Put(ctx, key, r, storage.PutObjectOptions{
		Size:        size,
		ContentType: contentType,
		Metadata: map[string]string{
			"original-filename": filename,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to media store: %w", err)
	}

	img := &model.Image{
		ID:        uuid.New().String(),
		Name:      filename,
		URL:       info.URL,
		RemoteID:  info.Key,
		CreatedAt: time.Now().UTC(),
	}
	stored, err := s.repo.Create(ctx, img)
	if err != nil {
		return nil, fmt.Errorf("%w: save image record for object %s: %v", ErrOrphanedArtifact, key, err)
	}
	return stored, nil
}

func (s *imageService) Delete(ctx context.Context, img *model.Image) error {
	if img == nil {
		return ErrImageRequired
	}
	if err := s.store.Delete(ctx, img.RemoteID); err != nil {
		return fmt.Errorf("delete remote object %s: %w", img.RemoteID, err)
	}
	return s.repo.Delete(ctx, img.ID)
}
