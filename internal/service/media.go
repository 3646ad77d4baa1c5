package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/momento/internal/domain"
	"github.com/saturnino-fabrica-de-software/momento/internal/provider"
	"github.com/saturnino-fabrica-de-software/momento/internal/storage"
)

const (
	defaultDetectionTimeout = 60 * time.Second
	MaxPageLimit            = 100
	MaxPage                 = math.MaxInt32 / MaxPageLimit
)

type EventGetter interface {
	Get(ctx context.Context, eventID uuid.UUID) (*domain.Event, error)
}

type MediaRepositoryInterface interface {
	Create(ctx context.Context, media *domain.EventMedia) error
	GetByID(ctx context.Context, eventID, mediaID uuid.UUID) (*domain.EventMedia, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID, limit, offset int) ([]domain.EventMedia, int, error)
	Deactivate(ctx context.Context, mediaID uuid.UUID) error
}

type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, body []byte) (string, error)
	Delete(ctx context.Context, key string) error
}

type MediaProcessor interface {
	Process(ctx context.Context, media domain.EventMedia, image []byte) error
}

// UploadInput is a file received from a guest.
type UploadInput struct {
	EventID     uuid.UUID
	UploaderID  uuid.UUID
	FileName    string
	ContentType string
	Data        []byte
}

// MediaPage is one page of an event's media.
type MediaPage struct {
	Items []domain.EventMedia
	Total int
}

type MediaService struct {
	events           EventGetter
	repo             MediaRepositoryInterface
	objects          ObjectStore
	processor        MediaProcessor
	logger           *slog.Logger
	maxBytes         int64
	detectionTimeout time.Duration
	inflight         sync.WaitGroup
}

func NewMediaService(
	events EventGetter,
	repo MediaRepositoryInterface,
	objects ObjectStore,
	processor MediaProcessor,
	logger *slog.Logger,
) *MediaService {
	return &MediaService{
		events:           events,
		repo:             repo,
		objects:          objects,
		processor:        processor,
		logger:           logger,
		maxBytes:         20 << 20,
		detectionTimeout: defaultDetectionTimeout,
	}
}

func (s *MediaService) WithMaxBytes(n int64) *MediaService {
	s.maxBytes = n
	return s
}

func (s *MediaService) WithDetectionTimeout(d time.Duration) *MediaService {
	s.detectionTimeout = d
	return s
}

// Upload stores the file, records it and dispatches face detection in
// the background. The caller gets the media back before detection ends.
func (s *MediaService) Upload(ctx context.Context, in UploadInput) (*domain.EventMedia, error) {
	mediaType, ok := domain.MediaTypeFor(in.ContentType)
	if !ok {
		return nil, domain.ErrUnsupportedMedia.WithError(fmt.Errorf("content type %q", in.ContentType))
	}
	if len(in.Data) == 0 {
		return nil, domain.ErrValidationFailed.WithError(fmt.Errorf("file is empty"))
	}
	if int64(len(in.Data)) > s.maxBytes {
		return nil, domain.ErrMediaTooLarge
	}

	if mediaType == domain.MediaTypeImage {
		if _, _, err := provider.ImageBounds(in.Data); err != nil {
			return nil, err
		}
	}

	if _, err := s.events.Get(ctx, in.EventID); err != nil {
		return nil, err
	}

	media := &domain.EventMedia{
		ID:              uuid.New(),
		EventID:         in.EventID,
		UploaderID:      in.UploaderID,
		FileName:        in.FileName,
		MediaType:       mediaType,
		ContentType:     in.ContentType,
		SizeBytes:       int64(len(in.Data)),
		DetectionStatus: domain.DetectionPending,
	}
	if mediaType == domain.MediaTypeVideo {
		media.DetectionStatus = domain.DetectionSkipped
	}
	media.StorageKey = storage.MediaKey(in.EventID, media.ID, in.ContentType)

	url, err := s.objects.Put(ctx, media.StorageKey, in.ContentType, in.Data)
	if err != nil {
		return nil, fmt.Errorf("event %s: store media: %w", in.EventID, err)
	}
	media.MediaURL = url

	if err := s.repo.Create(ctx, media); err != nil {
		if delErr := s.objects.Delete(context.WithoutCancel(ctx), media.StorageKey); delErr != nil {
			s.logger.Warn("failed to remove orphaned media object",
				"key", media.StorageKey,
				"error", delErr,
			)
		}
		return nil, err
	}

	s.logger.Info("media uploaded",
		"media_id", media.ID,
		"event_id", media.EventID,
		"media_type", media.MediaType,
		"size_bytes", media.SizeBytes,
	)

	if media.DetectionStatus == domain.DetectionPending {
		s.dispatchDetection(*media, in.Data)
	}

	return media, nil
}

// dispatchDetection runs detection fire-and-forget, detached from the
// request context.
func (s *MediaService) dispatchDetection(media domain.EventMedia, image []byte) {
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()

		ctx, cancel := context.WithTimeout(context.Background(), s.detectionTimeout)
		defer cancel()

		// Process already logs and records the failure
		_ = s.processor.Process(ctx, media, image)
	}()
}

// Wait blocks until background detections started by Upload finish.
func (s *MediaService) Wait() {
	s.inflight.Wait()
}

// Delete soft-deletes a media item. Allowed for its uploader and the
// event owner.
func (s *MediaService) Delete(ctx context.Context, eventID, mediaID, requesterID uuid.UUID) error {
	event, err := s.events.Get(ctx, eventID)
	if err != nil {
		return err
	}

	media, err := s.repo.GetByID(ctx, eventID, mediaID)
	if err != nil {
		return err
	}

	if media.UploaderID != requesterID && event.OwnerID != requesterID {
		return domain.ErrForbidden
	}

	if err := s.repo.Deactivate(ctx, mediaID); err != nil {
		return err
	}

	s.logger.Info("media deleted",
		"media_id", mediaID,
		"event_id", eventID,
		"requester_id", requesterID,
	)
	return nil
}

// List returns the active media of an event, newest first.
func (s *MediaService) List(ctx context.Context, eventID uuid.UUID, page, limit int) (*MediaPage, error) {
	if page < 1 || page > MaxPage || limit < 1 || limit > MaxPageLimit {
		return nil, domain.ErrInvalidPagination
	}

	if _, err := s.events.Get(ctx, eventID); err != nil {
		return nil, err
	}

	items, total, err := s.repo.ListByEvent(ctx, eventID, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	return &MediaPage{Items: items, Total: total}, nil
}
