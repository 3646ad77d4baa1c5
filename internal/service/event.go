package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/momento/internal/domain"
)

const maxSlugAttempts = 5

type EventRepositoryInterface interface {
	Create(ctx context.Context, event *domain.Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Event, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Event, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type EventService struct {
	repo   EventRepositoryInterface
	logger *slog.Logger
}

func NewEventService(repo EventRepositoryInterface, logger *slog.Logger) *EventService {
	return &EventService{
		repo:   repo,
		logger: logger,
	}
}

// Create cria um evento com slug derivado do nome e sufixo aleatório
func (s *EventService) Create(ctx context.Context, ownerID uuid.UUID, name, plan string) (*domain.Event, error) {
	if plan == "" {
		plan = domain.PlanFree
	}

	base := Slugify(name)
	for attempt := 1; attempt <= maxSlugAttempts; attempt++ {
		suffix, err := slugSuffix()
		if err != nil {
			return nil, fmt.Errorf("generate slug suffix: %w", err)
		}

		event := &domain.Event{
			OwnerID:  ownerID,
			Name:     name,
			Slug:     base + "-" + suffix,
			Plan:     plan,
			IsActive: true,
		}
		if err := event.Validate(); err != nil {
			return nil, domain.ErrValidationFailed.WithError(err)
		}

		err = s.repo.Create(ctx, event)
		if err == nil {
			return event, nil
		}
		if !errors.Is(err, domain.ErrSlugTaken) {
			return nil, err
		}

		s.logger.Debug("event slug collision, retrying",
			"slug", event.Slug,
			"attempt", attempt,
		)
	}

	return nil, domain.ErrSlugTaken
}

// Get returns an active event.
func (s *EventService) Get(ctx context.Context, eventID uuid.UUID) (*domain.Event, error) {
	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !event.IsActive {
		return nil, domain.ErrEventInactive
	}
	return event, nil
}

// GetBySlug returns an active event by its public slug.
func (s *EventService) GetBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	if !domain.IsValidSlug(slug) {
		return nil, domain.ErrEventNotFound
	}

	event, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !event.IsActive {
		return nil, domain.ErrEventInactive
	}
	return event, nil
}

// Deactivate soft-deletes the event and everything attached to it.
// Only the owner may do it.
func (s *EventService) Deactivate(ctx context.Context, eventID, requesterID uuid.UUID) error {
	event, err := s.Get(ctx, eventID)
	if err != nil {
		return err
	}
	if event.OwnerID != requesterID {
		return domain.ErrForbidden
	}

	if err := s.repo.Deactivate(ctx, eventID); err != nil {
		return err
	}

	s.logger.Info("event deactivated",
		"event_id", eventID,
		"owner_id", requesterID,
	)
	return nil
}
