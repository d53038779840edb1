package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"bookapi/internal/model"
	repoMocks "bookapi/internal/repository/mocks"
	"bookapi/internal/storage"
	storeMocks "bookapi/internal/storage/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestImageService_Upload(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		filename   string
		size       int64
		setupMocks func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockImageRepository) io.Reader
		wantErr    error
		wantErrMsg string
	}{
		{
			name:     "happy path",
			filename: "cover.png",
			size:     3,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockImageRepository) io.Reader {
				r := strings.NewReader("png")
				mStore.On("Put", ctx, mock.MatchedBy(func(key string) bool {
					return strings.HasPrefix(key, "covers/") && strings.HasSuffix(key, ".png")
				}), r, storage.PutObjectOptions{
					Size:        3,
					ContentType: "image/png",
					Metadata:    map[string]string{"original-filename": "cover.png"},
				}).Return(storage.ObjectInfo{
					Key:         "covers/uuid.png",
					URL:         "http://minio:9000/book-covers/covers/uuid.png",
					Size:        3,
					ContentType: "image/png",
				}, nil)

				mRepo.On("Create", ctx, mock.MatchedBy(func(img *model.Image) bool {
					return img.ID != "" &&
						img.Name == "cover.png" &&
						img.RemoteID == "covers/uuid.png" &&
						img.URL == "http://minio:9000/book-covers/covers/uuid.png"
				})).Return(&model.Image{ID: "img-id", Name: "cover.png", RemoteID: "covers/uuid.png"}, nil)

				return r
			},
		},
		{
			name:     "validation error - nil reader",
			filename: "cover.png",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockImageRepository) io.Reader {
				return nil
			},
			wantErr: ErrReaderNil,
		},
		{
			name:     "media store error",
			filename: "cover.png",
			size:     3,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockImageRepository) io.Reader {
				r := strings.NewReader("png")
				mStore.On("Put", ctx, mock.Anything, r, mock.Anything).
					Return(storage.ObjectInfo{}, errors.New("remote down"))
				return r
			},
			wantErrMsg: "upload to media store: remote down",
		},
		{
			name:     "record persist failure surfaces orphaned artifact",
			filename: "cover.png",
			size:     3,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockImageRepository) io.Reader {
				r := strings.NewReader("png")
				mStore.On("Put", ctx, mock.Anything, r, mock.Anything).
					Return(func(ctx context.Context, key string, r io.Reader, opt storage.PutObjectOptions) storage.ObjectInfo {
						return storage.ObjectInfo{Key: key}
					}, nil)
				mRepo.On("Create", ctx, mock.Anything).
					Return(nil, errors.New("db fail"))
				return r
			},
			wantErr: ErrOrphanedArtifact,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mStore := new(storeMocks.MockStorage)
			mRepo := new(repoMocks.MockImageRepository)
			svc := NewImageService(mStore, mRepo)

			r := tt.setupMocks(mStore, mRepo)

			img, err := svc.Upload(ctx, r, tt.filename, tt.size, "image/png")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, img)
			} else if tt.wantErrMsg != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrMsg)
				assert.Nil(t, img)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, img)
			}

			// No rollback on record failure: the remote object stays put
			// and the error carries the orphaned key.
			mStore.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)

			mStore.AssertExpectations(t)
			mRepo.AssertExpectations(t)
		})
	}
}

func TestImageService_Delete(t *testing.T) {
	ctx := context.Background()

	img := &model.Image{ID: "img-id", Name: "cover.png", RemoteID: "covers/uuid.png"}

	t.Run("happy path - remote then record", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockImageRepository)
		svc := NewImageService(mStore, mRepo)

		mStore.On("Delete", ctx, "covers/uuid.png").Return(nil)
		mRepo.On("Delete", ctx, "img-id").Return(nil)

		err := svc.Delete(ctx, img)

		assert.NoError(t, err)
		mStore.AssertExpectations(t)
		mRepo.AssertExpectations(t)
	})

	t.Run("remote delete failure keeps the record", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockImageRepository)
		svc := NewImageService(mStore, mRepo)

		mStore.On("Delete", ctx, "covers/uuid.png").Return(errors.New("remote down"))

		err := svc.Delete(ctx, img)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "delete remote object")
		mRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("nil image", func(t *testing.T) {
		svc := NewImageService(nil, nil)

		err := svc.Delete(ctx, nil)

		assert.ErrorIs(t, err, ErrImageRequired)
	})
}
