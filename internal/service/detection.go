package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/momento/internal/domain"
	"github.com/saturnino-fabrica-de-software/momento/internal/provider"
)

const (
	statusUpdateTimeout = 5 * time.Second
	// a processing row untouched for staleFactor detection timeouts is
	// considered abandoned
	staleFactor = 2
)

type DetectionMediaRepository interface {
	MarkProcessing(ctx context.Context, mediaID uuid.UUID) (int, error)
	UpdateDetectionStatus(ctx context.Context, mediaID uuid.UUID, status string) error
	ListPendingDetection(ctx context.Context, maxAttempts int, staleAfter time.Duration, limit int) ([]domain.EventMedia, error)
}

type DetectionRepositoryInterface interface {
	ReplaceForMedia(ctx context.Context, mediaID uuid.UUID, detections []*domain.FaceDetection) error
}

type ObjectReader interface {
	Get(ctx context.Context, key string) ([]byte, error)
}

// DetectionService popula face_detections a partir das mídias enviadas
type DetectionService struct {
	media       DetectionMediaRepository
	detections  DetectionRepositoryInterface
	objects     ObjectReader
	detector    provider.FaceDetector
	maxAttempts int
	timeout     time.Duration
	logger      *slog.Logger
}

func NewDetectionService(
	media DetectionMediaRepository,
	detections DetectionRepositoryInterface,
	objects ObjectReader,
	detector provider.FaceDetector,
	logger *slog.Logger,
) *DetectionService {
	return &DetectionService{
		media:       media,
		detections:  detections,
		objects:     objects,
		detector:    detector,
		maxAttempts: 3,
		timeout:     defaultDetectionTimeout,
		logger:      logger,
	}
}

func (s *DetectionService) WithMaxAttempts(n int) *DetectionService {
	s.maxAttempts = n
	return s
}

// WithTimeout bounds each retried detection. Rows stuck in processing
// for twice this long are retried by RetryPending.
func (s *DetectionService) WithTimeout(d time.Duration) *DetectionService {
	s.timeout = d
	return s
}

func (s *DetectionService) staleAfter() time.Duration {
	return staleFactor * s.timeout
}

// Process runs face detection on one image and stores the faces found.
// Detections that fail validation are dropped. On error the media is
// marked failed so the sweeper can pick it up again.
func (s *DetectionService) Process(ctx context.Context, media domain.EventMedia, image []byte) error {
	attempt, err := s.media.MarkProcessing(ctx, media.ID)
	if err != nil {
		return fmt.Errorf("media %s: %w", media.ID, err)
	}

	start := time.Now()
	stored, err := s.detect(ctx, media, image)
	if err != nil {
		s.markStatus(ctx, media.ID, domain.DetectionFailed)
		s.logger.Warn("face detection failed",
			"media_id", media.ID,
			"event_id", media.EventID,
			"provider", s.detector.Name(),
			"attempt", attempt,
			"error", err,
		)
		return err
	}

	s.markStatus(ctx, media.ID, domain.DetectionCompleted)
	s.logger.Info("face detection completed",
		"media_id", media.ID,
		"event_id", media.EventID,
		"provider", s.detector.Name(),
		"faces", stored,
		"attempt", attempt,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

func (s *DetectionService) detect(ctx context.Context, media domain.EventMedia, image []byte) (int, error) {
	faces, err := s.detector.DetectFaces(ctx, image)
	if err != nil {
		return 0, fmt.Errorf("media %s: detect faces: %w", media.ID, err)
	}

	detections := make([]*domain.FaceDetection, 0, len(faces))
	for _, f := range faces {
		rect := f.Rectangle
		if err := domain.ValidateRectangle(&rect); err != nil {
			s.logger.Debug("dropping detection with invalid rectangle", "media_id", media.ID, "error", err)
			continue
		}
		if err := domain.ValidateAttributes(f.Attributes); err != nil {
			s.logger.Debug("dropping detection with invalid attributes", "media_id", media.ID, "error", err)
			continue
		}

		detections = append(detections, &domain.FaceDetection{
			MediaID:    media.ID,
			EventID:    media.EventID,
			UploaderID: media.UploaderID,
			Rectangle:  &rect,
			Attributes: f.Attributes,
			Confidence: f.Confidence,
		})
	}

	if err := s.detections.ReplaceForMedia(ctx, media.ID, detections); err != nil {
		return 0, fmt.Errorf("media %s: %w", media.ID, err)
	}
	return len(detections), nil
}

// markStatus must run even if ctx was cancelled mid-detection.
func (s *DetectionService) markStatus(ctx context.Context, mediaID uuid.UUID, status string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), statusUpdateTimeout)
	defer cancel()

	if err := s.media.UpdateDetectionStatus(ctx, mediaID, status); err != nil {
		s.logger.Error("failed to update detection status",
			"media_id", mediaID,
			"status", status,
			"error", err,
		)
	}
}

// RetryPending reprocesses images left pending, failed or abandoned in
// processing, returning how many were processed successfully.
func (s *DetectionService) RetryPending(ctx context.Context, limit int) (int, error) {
	pending, err := s.media.ListPendingDetection(ctx, s.maxAttempts, s.staleAfter(), limit)
	if err != nil {
		return 0, err
	}

	processed := 0
	for _, m := range pending {
		if err := ctx.Err(); err != nil {
			return processed, err
		}

		image, err := s.objects.Get(ctx, m.StorageKey)
		if err != nil {
			s.logger.Warn("failed to fetch media for detection",
				"media_id", m.ID,
				"key", m.StorageKey,
				"error", err,
			)
			// count the attempt so a missing object is eventually given up on
			if _, err := s.media.MarkProcessing(ctx, m.ID); err == nil {
				s.markStatus(ctx, m.ID, domain.DetectionFailed)
			}
			continue
		}

		if err := s.processWithTimeout(ctx, m, image); err != nil {
			continue
		}
		processed++
	}

	return processed, nil
}

func (s *DetectionService) processWithTimeout(ctx context.Context, media domain.EventMedia, image []byte) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.Process(ctx, media, image)
}
