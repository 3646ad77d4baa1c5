package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/momento/internal/domain"
	"github.com/saturnino-fabrica-de-software/momento/internal/provider"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func pngImage(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) Create(ctx context.Context, event *domain.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}

func (m *MockEventRepository) GetBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}

func (m *MockEventRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockEventGetter struct {
	mock.Mock
}

func (m *MockEventGetter) Get(ctx context.Context, eventID uuid.UUID) (*domain.Event, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}

type MockMediaRepository struct {
	mock.Mock
}

func (m *MockMediaRepository) Create(ctx context.Context, media *domain.EventMedia) error {
	args := m.Called(ctx, media)
	return args.Error(0)
}

func (m *MockMediaRepository) GetByID(ctx context.Context, eventID, mediaID uuid.UUID) (*domain.EventMedia, error) {
	args := m.Called(ctx, eventID, mediaID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EventMedia), args.Error(1)
}

func (m *MockMediaRepository) ListByEvent(ctx context.Context, eventID uuid.UUID, limit, offset int) ([]domain.EventMedia, int, error) {
	args := m.Called(ctx, eventID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.EventMedia), args.Int(1), args.Error(2)
}

func (m *MockMediaRepository) Deactivate(ctx context.Context, mediaID uuid.UUID) error {
	args := m.Called(ctx, mediaID)
	return args.Error(0)
}

func (m *MockMediaRepository) MarkProcessing(ctx context.Context, mediaID uuid.UUID) (int, error) {
	args := m.Called(ctx, mediaID)
	return args.Int(0), args.Error(1)
}

func (m *MockMediaRepository) UpdateDetectionStatus(ctx context.Context, mediaID uuid.UUID, status string) error {
	args := m.Called(ctx, mediaID, status)
	return args.Error(0)
}

func (m *MockMediaRepository) ListPendingDetection(ctx context.Context, maxAttempts int, staleAfter time.Duration, limit int) ([]domain.EventMedia, error) {
	args := m.Called(ctx, maxAttempts, staleAfter, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.EventMedia), args.Error(1)
}

type MockDetectionRepository struct {
	mock.Mock
}

func (m *MockDetectionRepository) ReplaceForMedia(ctx context.Context, mediaID uuid.UUID, detections []*domain.FaceDetection) error {
	args := m.Called(ctx, mediaID, detections)
	return args.Error(0)
}

type MockObjectStore struct {
	mock.Mock
}

func (m *MockObjectStore) Put(ctx context.Context, key, contentType string, body []byte) (string, error) {
	args := m.Called(ctx, key, contentType, body)
	return args.String(0), args.Error(1)
}

func (m *MockObjectStore) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockObjectStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

type MockMediaProcessor struct {
	mock.Mock
}

func (m *MockMediaProcessor) Process(ctx context.Context, media domain.EventMedia, image []byte) error {
	args := m.Called(ctx, media, image)
	return args.Error(0)
}

type MockFaceDetector struct {
	mock.Mock
}

func (m *MockFaceDetector) DetectFaces(ctx context.Context, image []byte) ([]provider.DetectedFace, error) {
	args := m.Called(ctx, image)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]provider.DetectedFace), args.Error(1)
}

func (m *MockFaceDetector) Name() string {
	return "mock"
}

type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) GetActive(ctx context.Context, eventID, userID uuid.UUID) (*domain.UserFaceProfile, error) {
	args := m.Called(ctx, eventID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserFaceProfile), args.Error(1)
}

func (m *MockProfileRepository) Create(ctx context.Context, p *domain.UserFaceProfile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProfileRepository) Update(ctx context.Context, p *domain.UserFaceProfile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProfileRepository) Deactivate(ctx context.Context, eventID, userID uuid.UUID) error {
	args := m.Called(ctx, eventID, userID)
	return args.Error(0)
}

type MockMatchFinder struct {
	mock.Mock
}

func (m *MockMatchFinder) FindMatches(ctx context.Context, eventID, userID uuid.UUID, threshold float64) ([]domain.MatchResult, error) {
	args := m.Called(ctx, eventID, userID, threshold)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MatchResult), args.Error(1)
}
