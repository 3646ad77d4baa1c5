package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/momento/internal/domain"
)

type mediaMocks struct {
	events    *MockEventGetter
	repo      *MockMediaRepository
	objects   *MockObjectStore
	processor *MockMediaProcessor
}

func newMediaService() (*MediaService, mediaMocks) {
	m := mediaMocks{
		events:    &MockEventGetter{},
		repo:      &MockMediaRepository{},
		objects:   &MockObjectStore{},
		processor: &MockMediaProcessor{},
	}
	svc := NewMediaService(m.events, m.repo, m.objects, m.processor, discardLogger())
	return svc, m
}

func TestMediaService_Upload_Image(t *testing.T) {
	eventID := uuid.New()
	uploaderID := uuid.New()
	img := pngImage(t, 64, 48)

	svc, m := newMediaService()
	m.events.On("Get", mock.Anything, eventID).Return(&domain.Event{ID: eventID, IsActive: true}, nil)
	m.objects.On("Put", mock.Anything, mock.MatchedBy(func(key string) bool {
		return len(key) > 0 && key[len(key)-4:] == ".png"
	}), "image/png", img).Return("https://cdn.example.com/x.png", nil)
	m.repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.EventMedia")).Return(nil)
	m.processor.On("Process", mock.Anything, mock.MatchedBy(func(media domain.EventMedia) bool {
		return media.EventID == eventID && media.DetectionStatus == domain.DetectionPending
	}), img).Return(nil)

	media, err := svc.Upload(context.Background(), UploadInput{
		EventID:     eventID,
		UploaderID:  uploaderID,
		FileName:    "selfie.png",
		ContentType: "image/png",
		Data:        img,
	})
	svc.Wait()

	require.NoError(t, err)
	assert.Equal(t, domain.MediaTypeImage, media.MediaType)
	assert.Equal(t, domain.DetectionPending, media.DetectionStatus)
	assert.Equal(t, "https://cdn.example.com/x.png", media.MediaURL)
	assert.Equal(t, "events/"+eventID.String()+"/"+media.ID.String()+".png", media.StorageKey)
	assert.Equal(t, int64(len(img)), media.SizeBytes)

	m.objects.AssertExpectations(t)
	m.repo.AssertExpectations(t)
	m.processor.AssertExpectations(t)
}

func TestMediaService_Upload_VideoSkipsDetection(t *testing.T) {
	eventID := uuid.New()
	data := []byte("not really an mp4 but never decoded")

	svc, m := newMediaService()
	m.events.On("Get", mock.Anything, eventID).Return(&domain.Event{ID: eventID, IsActive: true}, nil)
	m.objects.On("Put", mock.Anything, mock.Anything, "video/mp4", data).Return("https://cdn.example.com/v.mp4", nil)
	m.repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	media, err := svc.Upload(context.Background(), UploadInput{
		EventID:     eventID,
		UploaderID:  uuid.New(),
		FileName:    "clip.mp4",
		ContentType: "video/mp4",
		Data:        data,
	})
	svc.Wait()

	require.NoError(t, err)
	assert.Equal(t, domain.MediaTypeVideo, media.MediaType)
	assert.Equal(t, domain.DetectionSkipped, media.DetectionStatus)
	m.processor.AssertNotCalled(t, "Process", mock.Anything, mock.Anything, mock.Anything)
}

func TestMediaService_Upload_Rejections(t *testing.T) {
	eventID := uuid.New()

	tests := []struct {
		name        string
		contentType string
		data        func(*testing.T) []byte
		maxBytes    int64
		setupMocks  func(mediaMocks)
		wantErr     error
	}{
		{
			name:        "unsupported content type",
			contentType: "application/pdf",
			data:        func(*testing.T) []byte { return []byte("%PDF") },
			setupMocks:  func(mediaMocks) {},
			wantErr:     domain.ErrUnsupportedMedia,
		},
		{
			name:        "empty file",
			contentType: "image/png",
			data:        func(*testing.T) []byte { return nil },
			setupMocks:  func(mediaMocks) {},
			wantErr:     domain.ErrValidationFailed,
		},
		{
			name:        "too large",
			contentType: "image/png",
			data:        func(t *testing.T) []byte { return pngImage(t, 32, 32) },
			maxBytes:    10,
			setupMocks:  func(mediaMocks) {},
			wantErr:     domain.ErrMediaTooLarge,
		},
		{
			name:        "corrupted image",
			contentType: "image/jpeg",
			data:        func(*testing.T) []byte { return []byte("definitely not a jpeg") },
			setupMocks:  func(mediaMocks) {},
			wantErr:     domain.ErrInvalidImage,
		},
		{
			name:        "inactive event",
			contentType: "image/png",
			data:        func(t *testing.T) []byte { return pngImage(t, 8, 8) },
			setupMocks: func(m mediaMocks) {
				m.events.On("Get", mock.Anything, eventID).Return(nil, domain.ErrEventInactive)
			},
			wantErr: domain.ErrEventInactive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newMediaService()
			if tt.maxBytes > 0 {
				svc.WithMaxBytes(tt.maxBytes)
			}
			tt.setupMocks(m)

			media, err := svc.Upload(context.Background(), UploadInput{
				EventID:     eventID,
				UploaderID:  uuid.New(),
				FileName:    "file",
				ContentType: tt.contentType,
				Data:        tt.data(t),
			})

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, media)
			m.objects.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			m.events.AssertExpectations(t)
		})
	}
}

func TestMediaService_Upload_RemovesObjectWhenInsertFails(t *testing.T) {
	eventID := uuid.New()
	img := pngImage(t, 16, 16)

	svc, m := newMediaService()
	m.events.On("Get", mock.Anything, eventID).Return(&domain.Event{ID: eventID, IsActive: true}, nil)
	m.objects.On("Put", mock.Anything, mock.Anything, "image/png", img).Return("https://cdn.example.com/x.png", nil)
	m.repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("insert failed"))
	m.objects.On("Delete", mock.Anything, mock.Anything).Return(nil)

	media, err := svc.Upload(context.Background(), UploadInput{
		EventID:     eventID,
		UploaderID:  uuid.New(),
		ContentType: "image/png",
		Data:        img,
	})
	svc.Wait()

	require.Error(t, err)
	assert.Nil(t, media)
	m.objects.AssertExpectations(t)
	m.processor.AssertNotCalled(t, "Process", mock.Anything, mock.Anything, mock.Anything)
}

func TestMediaService_Upload_StorageError(t *testing.T) {
	eventID := uuid.New()
	img := pngImage(t, 16, 16)

	svc, m := newMediaService()
	m.events.On("Get", mock.Anything, eventID).Return(&domain.Event{ID: eventID, IsActive: true}, nil)
	m.objects.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("s3 down"))

	_, err := svc.Upload(context.Background(), UploadInput{
		EventID:     eventID,
		ContentType: "image/png",
		Data:        img,
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "s3 down")
	m.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestMediaService_Delete(t *testing.T) {
	eventID := uuid.New()
	mediaID := uuid.New()
	ownerID := uuid.New()
	uploaderID := uuid.New()

	tests := []struct {
		name        string
		requesterID uuid.UUID
		wantErr     error
	}{
		{name: "uploader", requesterID: uploaderID},
		{name: "event owner", requesterID: ownerID},
		{name: "someone else", requesterID: uuid.New(), wantErr: domain.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newMediaService()
			m.events.On("Get", mock.Anything, eventID).Return(&domain.Event{ID: eventID, OwnerID: ownerID, IsActive: true}, nil)
			m.repo.On("GetByID", mock.Anything, eventID, mediaID).Return(&domain.EventMedia{ID: mediaID, UploaderID: uploaderID}, nil)
			if tt.wantErr == nil {
				m.repo.On("Deactivate", mock.Anything, mediaID).Return(nil)
			}

			err := svc.Delete(context.Background(), eventID, mediaID, tt.requesterID)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				m.repo.AssertNotCalled(t, "Deactivate", mock.Anything, mock.Anything)
			} else {
				assert.NoError(t, err)
			}
			m.repo.AssertExpectations(t)
		})
	}
}

func TestMediaService_Delete_NotFound(t *testing.T) {
	eventID := uuid.New()
	mediaID := uuid.New()

	svc, m := newMediaService()
	m.events.On("Get", mock.Anything, eventID).Return(&domain.Event{ID: eventID, IsActive: true}, nil)
	m.repo.On("GetByID", mock.Anything, eventID, mediaID).Return(nil, domain.ErrMediaNotFound)

	err := svc.Delete(context.Background(), eventID, mediaID, uuid.New())

	assert.ErrorIs(t, err, domain.ErrMediaNotFound)
}

func TestMediaService_List(t *testing.T) {
	eventID := uuid.New()

	t.Run("computes offset from page", func(t *testing.T) {
		svc, m := newMediaService()
		m.events.On("Get", mock.Anything, eventID).Return(&domain.Event{ID: eventID, IsActive: true}, nil)
		m.repo.On("ListByEvent", mock.Anything, eventID, 20, 40).Return([]domain.EventMedia{{ID: uuid.New()}}, 41, nil)

		page, err := svc.List(context.Background(), eventID, 3, 20)

		require.NoError(t, err)
		assert.Len(t, page.Items, 1)
		assert.Equal(t, 41, page.Total)
		m.repo.AssertExpectations(t)
	})

	invalid := []struct {
		name        string
		page, limit int
	}{
		{"page zero", 0, 20},
		{"limit zero", 1, 0},
		{"limit above max", 1, MaxPageLimit + 1},
		{"page past offset range", MaxPage + 1, 20},
		{"huge page", 4611686018427387904, 20},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newMediaService()

			_, err := svc.List(context.Background(), eventID, tt.page, tt.limit)

			assert.ErrorIs(t, err, domain.ErrInvalidPagination)
			m.events.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
		})
	}
}
