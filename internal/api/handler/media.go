package handler

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/momento/internal/api/middleware"
	"github.com/saturnino-fabrica-de-software/momento/internal/domain"
	"github.com/saturnino-fabrica-de-software/momento/internal/service"
)

// MediaService interface for the service
type MediaService interface {
	Upload(ctx context.Context, in service.UploadInput) (*domain.EventMedia, error)
	Delete(ctx context.Context, eventID, mediaID, requesterID uuid.UUID) error
	List(ctx context.Context, eventID uuid.UUID, page, limit int) (*service.MediaPage, error)
}

// MediaHandler handles photo and video uploads
type MediaHandler struct {
	service  MediaService
	maxBytes int64
	logger   *slog.Logger
}

func NewMediaHandler(service MediaService, maxBytes int64, logger *slog.Logger) *MediaHandler {
	return &MediaHandler{
		service:  service,
		maxBytes: maxBytes,
		logger:   logger,
	}
}

// Upload POST /v1/events/:event_id/media
func (h *MediaHandler) Upload(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	eventID, err := uuidParam(c, "event_id", domain.ErrEventNotFound)
	if err != nil {
		return err
	}

	file, err := readUpload(c, "file", h.maxBytes)
	if err != nil {
		return err
	}

	media, err := h.service.Upload(c.UserContext(), service.UploadInput{
		EventID:     eventID,
		UploaderID:  userID,
		FileName:    file.FileName,
		ContentType: file.ContentType,
		Data:        file.Data,
	})
	if err != nil {
		return err
	}

	return ok(c, fiber.StatusCreated, "Media uploaded", media)
}

// List GET /v1/events/:event_id/media
func (h *MediaHandler) List(c *fiber.Ctx) error {
	eventID, err := uuidParam(c, "event_id", domain.ErrEventNotFound)
	if err != nil {
		return err
	}

	page, limit, err := pageParams(c)
	if err != nil {
		return err
	}

	result, err := h.service.List(c.UserContext(), eventID, page, limit)
	if err != nil {
		return err
	}

	items := result.Items
	if items == nil {
		items = []domain.EventMedia{}
	}

	return c.JSON(Response{
		Success:    true,
		Data:       items,
		Pagination: NewPagination(page, limit, result.Total),
	})
}

// Delete DELETE /v1/events/:event_id/media/:media_id
func (h *MediaHandler) Delete(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	eventID, err := uuidParam(c, "event_id", domain.ErrEventNotFound)
	if err != nil {
		return err
	}
	mediaID, err := uuidParam(c, "media_id", domain.ErrMediaNotFound)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.UserContext(), eventID, mediaID, userID); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}
