package domain

import (
	"time"

	"github.com/google/uuid"
)

// Media types
const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)

// Detection status of a media item
const (
	DetectionPending    = "pending"
	DetectionProcessing = "processing"
	DetectionCompleted  = "completed"
	DetectionFailed     = "failed"
	DetectionSkipped    = "skipped"
)

// EventMedia is a photo or video uploaded to an event.
type EventMedia struct {
	ID                uuid.UUID `json:"id"`
	EventID           uuid.UUID `json:"event_id"`
	UploaderID        uuid.UUID `json:"uploader_id"`
	MediaURL          string    `json:"media_url"`
	StorageKey        string    `json:"-"`
	FileName          string    `json:"file_name"`
	MediaType         string    `json:"media_type"`
	ContentType       string    `json:"content_type"`
	SizeBytes         int64     `json:"size_bytes"`
	DetectionStatus   string    `json:"detection_status"`
	DetectionAttempts int       `json:"detection_attempts"`
	IsActive          bool      `json:"-"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Summary returns the subset of fields exposed alongside matches.
func (m *EventMedia) Summary() MediaSummary {
	return MediaSummary{
		ID:        m.ID,
		MediaURL:  m.MediaURL,
		FileName:  m.FileName,
		MediaType: m.MediaType,
		CreatedAt: m.CreatedAt,
	}
}

var mediaContentTypes = map[string]string{
	"image/jpeg":      MediaTypeImage,
	"image/png":       MediaTypeImage,
	"image/webp":      MediaTypeImage,
	"video/mp4":       MediaTypeVideo,
	"video/quicktime": MediaTypeVideo,
}

// MediaTypeFor maps an upload content type to a media type.
func MediaTypeFor(contentType string) (string, bool) {
	t, ok := mediaContentTypes[contentType]
	return t, ok
}
