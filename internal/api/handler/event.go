package handler

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/momento/internal/api/middleware"
	"github.com/saturnino-fabrica-de-software/momento/internal/domain"
)

// EventService interface for the service
type EventService interface {
	Create(ctx context.Context, ownerID uuid.UUID, name, plan string) (*domain.Event, error)
	Get(ctx context.Context, eventID uuid.UUID) (*domain.Event, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Event, error)
	Deactivate(ctx context.Context, eventID, requesterID uuid.UUID) error
}

// EventHandler handles event requests
type EventHandler struct {
	service EventService
	logger  *slog.Logger
}

func NewEventHandler(service EventService, logger *slog.Logger) *EventHandler {
	return &EventHandler{
		service: service,
		logger:  logger,
	}
}

// CreateEventRequest is the body of POST /v1/events
type CreateEventRequest struct {
	Name string `json:"name" validate:"required,min=2,max=120"`
	Plan string `json:"plan" validate:"omitempty,oneof=free premium enterprise"`
}

// Create POST /v1/events
func (h *EventHandler) Create(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	var req CreateEventRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}
	if err := validate.Struct(req); err != nil {
		return domain.ErrValidationFailed.WithError(err)
	}

	event, err := h.service.Create(c.UserContext(), userID, req.Name, req.Plan)
	if err != nil {
		return err
	}

	return ok(c, fiber.StatusCreated, "Event created", event)
}

// Get GET /v1/events/:event_id
func (h *EventHandler) Get(c *fiber.Ctx) error {
	eventID, err := uuidParam(c, "event_id", domain.ErrEventNotFound)
	if err != nil {
		return err
	}

	event, err := h.service.Get(c.UserContext(), eventID)
	if err != nil {
		return err
	}

	return ok(c, fiber.StatusOK, "", event)
}

// GetBySlug GET /v1/events/slug/:slug
func (h *EventHandler) GetBySlug(c *fiber.Ctx) error {
	event, err := h.service.GetBySlug(c.UserContext(), c.Params("slug"))
	if err != nil {
		return err
	}

	return ok(c, fiber.StatusOK, "", event)
}

// Deactivate DELETE /v1/events/:event_id
func (h *EventHandler) Deactivate(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	eventID, err := uuidParam(c, "event_id", domain.ErrEventNotFound)
	if err != nil {
		return err
	}

	if err := h.service.Deactivate(c.UserContext(), eventID, userID); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}
