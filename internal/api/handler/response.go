package handler

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/momento/internal/domain"
)

const (
	defaultPage  = 1
	defaultLimit = 20
	maxLimit     = 100
	// maxPage keeps (page-1)*limit from overflowing
	maxPage = math.MaxInt32 / maxLimit
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Response is the envelope for successful responses
type Response struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Data       any         `json:"data,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Pagination describes a page of a larger result list
type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

func NewPagination(page, limit, total int) *Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return &Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

func ok(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// uuidParam parses a path parameter, answering notFound for malformed ids
func uuidParam(c *fiber.Ctx, name string, notFound *domain.AppError) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, notFound
	}
	return id, nil
}

// pageParams reads page and limit from the query string
func pageParams(c *fiber.Ctx) (int, int, error) {
	page, err := intQuery(c, "page", defaultPage)
	if err != nil {
		return 0, 0, err
	}
	limit, err := intQuery(c, "limit", defaultLimit)
	if err != nil {
		return 0, 0, err
	}
	if page < 1 || page > maxPage || limit < 1 || limit > maxLimit {
		return 0, 0, domain.ErrInvalidPagination
	}
	return page, limit, nil
}

func intQuery(c *fiber.Ctx, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.ErrInvalidPagination.WithError(fmt.Errorf("%s: %w", key, err))
	}
	return n, nil
}

// upload is a file read from a multipart form
type upload struct {
	FileName    string
	ContentType string
	Data        []byte
}

// readUpload reads a multipart file field, rejecting files above maxBytes
func readUpload(c *fiber.Ctx, field string, maxBytes int64) (*upload, error) {
	// 1. Extract file
	file, err := c.FormFile(field)
	if err != nil {
		return nil, domain.ErrValidationFailed.WithError(fmt.Errorf("%s is required: %w", field, err))
	}

	// 2. Validate size
	if file.Size == 0 {
		return nil, domain.ErrValidationFailed.WithError(errors.New(field + " is empty"))
	}
	if maxBytes > 0 && file.Size > maxBytes {
		return nil, domain.ErrMediaTooLarge
	}

	// 3. Read bytes
	f, err := file.Open()
	if err != nil {
		return nil, domain.ErrValidationFailed.WithError(err)
	}
	defer func() {
		_ = f.Close()
	}()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, domain.ErrValidationFailed.WithError(err)
	}

	return &upload{
		FileName:    file.Filename,
		ContentType: file.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
