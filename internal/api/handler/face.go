package handler

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/momento/internal/api/middleware"
	"github.com/saturnino-fabrica-de-software/momento/internal/domain"
	"github.com/saturnino-fabrica-de-software/momento/internal/service"
)

const maxImageSize = 10 * 1024 * 1024 // 10MB

// FaceService interface for the service
type FaceService interface {
	Enroll(ctx context.Context, eventID, userID uuid.UUID, image []byte, replace bool) (*domain.UserFaceProfile, bool, error)
	GetProfile(ctx context.Context, eventID, userID uuid.UUID) (*domain.UserFaceProfile, error)
	DeleteProfile(ctx context.Context, eventID, userID uuid.UUID) error
	FindMatches(ctx context.Context, eventID, userID uuid.UUID, threshold float64) (*service.MatchReport, error)
}

// FaceHandler handles face enrollment and matching
type FaceHandler struct {
	service          FaceService
	defaultThreshold float64
	logger           *slog.Logger
}

// NewFaceHandler creates a new FaceHandler. defaultThreshold is used when
// the request carries no similarityThreshold.
func NewFaceHandler(service FaceService, defaultThreshold float64, logger *slog.Logger) *FaceHandler {
	return &FaceHandler{
		service:          service,
		defaultThreshold: defaultThreshold,
		logger:           logger,
	}
}

// MatchesData is the data section of the face-matches response
type MatchesData struct {
	UserID  uuid.UUID            `json:"userId"`
	Matches []domain.MatchResult `json:"matches"`
	Summary domain.MatchSummary  `json:"summary"`
}

// EventInfo identifies the event a match list belongs to
type EventInfo struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

// MatchesResponse is the face-matches response envelope
type MatchesResponse struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message"`
	Data       MatchesData `json:"data"`
	Pagination Pagination  `json:"pagination"`
	EventInfo  EventInfo   `json:"eventInfo"`
}

// EnrollProfile POST /v1/events/:event_id/face-profile
func (h *FaceHandler) EnrollProfile(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	eventID, err := uuidParam(c, "event_id", domain.ErrEventNotFound)
	if err != nil {
		return err
	}

	img, err := readUpload(c, "image", maxImageSize)
	if err != nil {
		return fmt.Errorf("enroll face: %w", err)
	}

	replace := false
	if raw := c.FormValue("replace"); raw != "" {
		replace, err = strconv.ParseBool(raw)
		if err != nil {
			return domain.ErrValidationFailed.WithError(fmt.Errorf("replace: %w", err))
		}
	}

	profile, created, err := h.service.Enroll(c.UserContext(), eventID, userID, img.Data, replace)
	if err != nil {
		return err
	}

	if created {
		return ok(c, fiber.StatusCreated, "Face profile enrolled", profile)
	}
	return ok(c, fiber.StatusOK, "Face profile replaced", profile)
}

// GetProfile GET /v1/events/:event_id/face-profile
func (h *FaceHandler) GetProfile(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	eventID, err := uuidParam(c, "event_id", domain.ErrEventNotFound)
	if err != nil {
		return err
	}

	profile, err := h.service.GetProfile(c.UserContext(), eventID, userID)
	if err != nil {
		return err
	}

	return ok(c, fiber.StatusOK, "", profile)
}

// DeleteProfile DELETE /v1/events/:event_id/face-profile
func (h *FaceHandler) DeleteProfile(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	eventID, err := uuidParam(c, "event_id", domain.ErrEventNotFound)
	if err != nil {
		return err
	}

	if err := h.service.DeleteProfile(c.UserContext(), eventID, userID); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// Matches GET /v1/events/:event_id/face-matches
//
// The summary covers every match; page and limit only slice the list.
func (h *FaceHandler) Matches(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	eventID, err := uuidParam(c, "event_id", domain.ErrEventNotFound)
	if err != nil {
		return err
	}

	page, limit, err := pageParams(c)
	if err != nil {
		return err
	}

	threshold, err := h.threshold(c)
	if err != nil {
		return err
	}

	report, err := h.service.FindMatches(c.UserContext(), eventID, userID, threshold)
	if err != nil {
		return err
	}

	total := len(report.Matches)
	start := min((page-1)*limit, total)
	end := min(start+limit, total)

	pageMatches := make([]domain.MatchResult, end-start)
	copy(pageMatches, report.Matches[start:end])

	message := "No matching photos found"
	if total > 0 {
		message = fmt.Sprintf("Found %d matching photos", total)
	}

	return c.JSON(MatchesResponse{
		Success: true,
		Message: message,
		Data: MatchesData{
			UserID:  userID,
			Matches: pageMatches,
			Summary: report.Summary,
		},
		Pagination: *NewPagination(page, limit, total),
		EventInfo: EventInfo{
			ID:   report.Event.ID,
			Name: report.Event.Name,
			Slug: report.Event.Slug,
		},
	})
}

func (h *FaceHandler) threshold(c *fiber.Ctx) (float64, error) {
	raw := c.Query("similarityThreshold")
	if raw == "" {
		return h.defaultThreshold, nil
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, domain.ErrInvalidThreshold.WithError(err)
	}
	// NaN fails both comparisons
	if !(v > 0 && v <= 1) {
		return 0, domain.ErrInvalidThreshold
	}
	return v, nil
}
