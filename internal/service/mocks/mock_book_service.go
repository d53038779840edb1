package mocks

import (
	"context"

	"bookapi/internal/model"
	"bookapi/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockBookService struct {
	mock.Mock
}

func (m *MockBookService) Create(ctx context.Context, draft service.BookDraft, file *service.FileUpload) (*model.Book, error) {
	args := m.Called(ctx, draft, file)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Book), args.Error(1)
}

func (m *MockBookService) Update(ctx context.Context, id string, draft service.BookDraft) (*model.Book, error) {
	args := m.Called(ctx, id, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Book), args.Error(1)
}

func (m *MockBookService) ReplaceImage(ctx context.Context, id string, file service.FileUpload) (*model.Book, error) {
	args := m.Called(ctx, id, file)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Book), args.Error(1)
}

func (m *MockBookService) Get(ctx context.Context, id string) (*model.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Book), args.Error(1)
}

func (m *MockBookService) List(ctx context.Context, page, size int, query string) (*service.BookListResult, error) {
	args := m.Called(ctx, page, size, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.BookListResult), args.Error(1)
}

func (m *MockBookService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
