package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/momento/internal/audit"
	"github.com/saturnino-fabrica-de-software/momento/internal/domain"
	"github.com/saturnino-fabrica-de-software/momento/internal/facematch"
	"github.com/saturnino-fabrica-de-software/momento/internal/provider"
)

type FaceProfileRepositoryInterface interface {
	GetActive(ctx context.Context, eventID, userID uuid.UUID) (*domain.UserFaceProfile, error)
	Create(ctx context.Context, p *domain.UserFaceProfile) error
	Update(ctx context.Context, p *domain.UserFaceProfile) error
	Deactivate(ctx context.Context, eventID, userID uuid.UUID) error
}

type MatchFinder interface {
	FindMatches(ctx context.Context, eventID, userID uuid.UUID, threshold float64) ([]domain.MatchResult, error)
}

// MatchReport is the outcome of a face-matches query.
type MatchReport struct {
	Event   *domain.Event
	Matches []domain.MatchResult
	Summary domain.MatchSummary
}

type FaceService struct {
	events   EventGetter
	profiles FaceProfileRepositoryInterface
	matcher  MatchFinder
	detector provider.FaceDetector
	audit    audit.Logger
	logger   *slog.Logger
}

func NewFaceService(
	events EventGetter,
	profiles FaceProfileRepositoryInterface,
	matcher MatchFinder,
	detector provider.FaceDetector,
	logger *slog.Logger,
) *FaceService {
	return &FaceService{
		events:   events,
		profiles: profiles,
		matcher:  matcher,
		detector: detector,
		audit:    &audit.NoOpLogger{},
		logger:   logger,
	}
}

func (s *FaceService) WithAuditLogger(l audit.Logger) *FaceService {
	s.audit = l
	return s
}

func (s *FaceService) record(ctx context.Context, r audit.Record, err error) {
	r.Provider = s.detector.Name()
	r.Success = err == nil
	if err != nil {
		r.Error = err.Error()
	}
	if logErr := s.audit.Log(ctx, r); logErr != nil {
		s.logger.Warn("audit log failed", "action", r.Action, "error", logErr)
	}
}

// Enroll registra a face de referência do usuário no evento. A imagem
// deve conter exatamente uma face. Com replace=true um perfil existente
// é atualizado; caso contrário retorna ErrProfileExists.
func (s *FaceService) Enroll(ctx context.Context, eventID, userID uuid.UUID, image []byte, replace bool) (*domain.UserFaceProfile, bool, error) {
	if _, err := s.events.Get(ctx, eventID); err != nil {
		return nil, false, err
	}

	profile, created, err := s.enroll(ctx, eventID, userID, image, replace)

	r := audit.Record{Action: audit.ActionProfileEnrolled, EventID: eventID, UserID: userID}
	if profile != nil {
		r.ProfileID = profile.ID.String()
		if !created {
			r.Action = audit.ActionProfileReplaced
		}
	}
	s.record(ctx, r, err)

	return profile, created, err
}

func (s *FaceService) enroll(ctx context.Context, eventID, userID uuid.UUID, image []byte, replace bool) (*domain.UserFaceProfile, bool, error) {
	if _, _, err := provider.ImageBounds(image); err != nil {
		return nil, false, err
	}

	faces, err := s.detector.DetectFaces(ctx, image)
	if err != nil {
		return nil, false, fmt.Errorf("event %s: detect faces: %w", eventID, err)
	}
	if len(faces) == 0 {
		return nil, false, domain.ErrNoFaceDetected
	}
	if len(faces) > 1 {
		return nil, false, domain.ErrMultipleFaces
	}

	face := faces[0]
	rect := face.Rectangle
	if err := domain.ValidateRectangle(&rect); err != nil {
		return nil, false, err
	}
	attrs := face.Attributes
	if err := domain.ValidateAttributes(attrs); err != nil {
		// attributes are optional, a bad set is discarded
		attrs = nil
	}

	existing, err := s.profiles.GetActive(ctx, eventID, userID)
	switch {
	case err == nil:
		if !replace {
			return nil, false, domain.ErrProfileExists
		}
		existing.Rectangle = &rect
		existing.Attributes = attrs
		existing.Confidence = face.Confidence
		if err := s.profiles.Update(ctx, existing); err != nil {
			return nil, false, err
		}
		s.logger.Info("face profile replaced", "event_id", eventID, "user_id", userID)
		return existing, false, nil

	case errors.Is(err, domain.ErrProfileNotFound):
		profile := &domain.UserFaceProfile{
			UserID:     userID,
			EventID:    eventID,
			Rectangle:  &rect,
			Attributes: attrs,
			Confidence: face.Confidence,
		}
		if err := s.profiles.Create(ctx, profile); err != nil {
			return nil, false, err
		}
		s.logger.Info("face profile enrolled", "event_id", eventID, "user_id", userID)
		return profile, true, nil

	default:
		return nil, false, err
	}
}

func (s *FaceService) GetProfile(ctx context.Context, eventID, userID uuid.UUID) (*domain.UserFaceProfile, error) {
	if _, err := s.events.Get(ctx, eventID); err != nil {
		return nil, err
	}
	return s.profiles.GetActive(ctx, eventID, userID)
}

func (s *FaceService) DeleteProfile(ctx context.Context, eventID, userID uuid.UUID) error {
	if _, err := s.events.Get(ctx, eventID); err != nil {
		return err
	}

	err := s.profiles.Deactivate(ctx, eventID, userID)
	s.record(ctx, audit.Record{Action: audit.ActionProfileDeleted, EventID: eventID, UserID: userID}, err)
	return err
}

// FindMatches returns every media of an active event in which the user's
// enrolled face appears, plus a confidence summary over all of them.
func (s *FaceService) FindMatches(ctx context.Context, eventID, userID uuid.UUID, threshold float64) (*MatchReport, error) {
	event, err := s.events.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}

	matches, err := s.matcher.FindMatches(ctx, eventID, userID, threshold)
	s.record(ctx, audit.Record{
		Action:  audit.ActionMatchesViewed,
		EventID: eventID,
		UserID:  userID,
		Metadata: map[string]string{
			"matches":   strconv.Itoa(len(matches)),
			"threshold": strconv.FormatFloat(threshold, 'f', -1, 64),
		},
	}, err)
	if err != nil {
		return nil, fmt.Errorf("event %s: find matches: %w", eventID, err)
	}

	return &MatchReport{
		Event:   event,
		Matches: matches,
		Summary: facematch.Summarize(matches),
	}, nil
}
