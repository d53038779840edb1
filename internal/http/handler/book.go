package handler

import (
	"mime/multipart"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"bookapi/internal/service"
)

// bookRequest carries the caller-settable book fields for update requests.
type bookRequest struct {
	Title  string  `json:"title"`
	Author string  `json:"author"`
	Pages  int     `json:"pages"`
	Price  float64 `json:"price"`
}

func (r bookRequest) draft() service.BookDraft {
	return service.BookDraft{Title: r.Title, Author: r.Author, Pages: r.Pages, Price: r.Price}
}

// fileUpload opens the multipart file header into a service upload. The
// returned closer must be deferred by the caller.
func fileUpload(fh *multipart.FileHeader) (*service.FileUpload, multipart.File, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, nil, err
	}
	ct := fh.Header.Get("Content-Type")
	if ct == "" {
		ct = "application/octet-stream"
	}
	return &service.FileUpload{
		Reader:      f,
		Filename:    fh.Filename,
		Size:        fh.Size,
		ContentType: ct,
	}, f, nil
}

// CreateBook handles POST /books. The body is multipart/form-data with
// title, author, pages and price fields plus an optional cover under the
// "file" field.
func CreateBook(svc service.BookService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		pages, err := strconv.Atoi(c.FormValue("pages"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_PAGES", "pages must be an integer")
		}
		price, err := strconv.ParseFloat(c.FormValue("price"), 64)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_PRICE", "price must be a number")
		}
		draft := service.BookDraft{
			Title:  c.FormValue("title"),
			Author: c.FormValue("author"),
			Pages:  pages,
			Price:  price,
		}

		// The cover is optional on create; a missing part is fine.
		var file *service.FileUpload
		if fh, err := c.FormFile("file"); err == nil {
			up, f, err := fileUpload(fh)
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
			}
			defer f.Close()
			file = up
		}

		book, err := svc.Create(c.UserContext(), draft, file)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(book)
	}
}

// UpdateBook handles PUT /books/:id with a JSON body. The cover image is
// never touched here; PUT /books/:id/image does that.
func UpdateBook(svc service.BookService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		var req bookRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		book, err := svc.Update(c.UserContext(), id, req.draft())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(book)
	}
}

// ReplaceBookImage handles PUT /books/:id/image (multipart/form-data,
// field name: file).
func ReplaceBookImage(svc service.BookService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}
		up, f, err := fileUpload(fh)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		book, err := svc.ReplaceImage(c.UserContext(), id, *up)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(book)
	}
}

// ListBooks handles GET /books with zero-based page/size paging and an
// optional q filter on title or author.
func ListBooks(svc service.BookService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, err := strconv.Atoi(c.Query("page", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_PAGE", "invalid page")
		}
		size, err := strconv.Atoi(c.Query("size", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_SIZE", "invalid size")
		}

		res, err := svc.List(c.UserContext(), page, size, c.Query("q"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// GetBook handles GET /books/:id.
func GetBook(svc service.BookService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		book, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(book)
	}
}

// DeleteBook handles DELETE /books/:id. The cover is removed before the
// book row; a failed cover removal keeps the book.
func DeleteBook(svc service.BookService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		if err := svc.Delete(c.UserContext(), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
