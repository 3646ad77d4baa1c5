package domain

import (
	"time"

	"github.com/google/uuid"
)

// FaceRectangle é a caixa delimitadora de uma face, em pixels da imagem.
type FaceRectangle struct {
	Top    float64 `json:"top" validate:"gte=0"`
	Left   float64 `json:"left" validate:"gte=0"`
	Width  float64 `json:"width" validate:"gt=0"`
	Height float64 `json:"height" validate:"gt=0"`
}

// Area returns width * height.
func (r FaceRectangle) Area() float64 {
	return r.Width * r.Height
}

// AspectRatio returns width / height, or 0 for a zero-height rectangle.
func (r FaceRectangle) AspectRatio() float64 {
	if r.Height == 0 {
		return 0
	}
	return r.Width / r.Height
}

// Glasses values reported by the detectors.
const (
	GlassesNone     = "NoGlasses"
	GlassesReading  = "ReadingGlasses"
	GlassesSun      = "Sunglasses"
	GlassesSwimming = "SwimmingGoggles"
)

// Emotion names, in the order used to break ties when picking the
// dominant emotion.
const (
	EmotionAnger     = "anger"
	EmotionContempt  = "contempt"
	EmotionDisgust   = "disgust"
	EmotionFear      = "fear"
	EmotionHappiness = "happiness"
	EmotionNeutral   = "neutral"
	EmotionSadness   = "sadness"
	EmotionSurprise  = "surprise"
)

// EmotionScores holds per-emotion confidences in [0,1].
type EmotionScores struct {
	Anger     float64 `json:"anger" validate:"gte=0,lte=1"`
	Contempt  float64 `json:"contempt" validate:"gte=0,lte=1"`
	Disgust   float64 `json:"disgust" validate:"gte=0,lte=1"`
	Fear      float64 `json:"fear" validate:"gte=0,lte=1"`
	Happiness float64 `json:"happiness" validate:"gte=0,lte=1"`
	Neutral   float64 `json:"neutral" validate:"gte=0,lte=1"`
	Sadness   float64 `json:"sadness" validate:"gte=0,lte=1"`
	Surprise  float64 `json:"surprise" validate:"gte=0,lte=1"`
}

// Dominant returns the emotion with the highest score. Ties go to the
// emotion listed first (anger, contempt, disgust, fear, happiness,
// neutral, sadness, surprise).
func (e EmotionScores) Dominant() string {
	scores := []struct {
		name  string
		value float64
	}{
		{EmotionAnger, e.Anger},
		{EmotionContempt, e.Contempt},
		{EmotionDisgust, e.Disgust},
		{EmotionFear, e.Fear},
		{EmotionHappiness, e.Happiness},
		{EmotionNeutral, e.Neutral},
		{EmotionSadness, e.Sadness},
		{EmotionSurprise, e.Surprise},
	}

	best := scores[0]
	for _, s := range scores[1:] {
		if s.value > best.value {
			best = s
		}
	}
	return best.name
}

// FaceAttributes are the optional attributes a detector may report.
type FaceAttributes struct {
	Glasses string         `json:"glasses,omitempty"`
	Emotion *EmotionScores `json:"emotion,omitempty"`
}

// FaceDetection is one face found in one media item.
type FaceDetection struct {
	ID           uuid.UUID       `json:"id"`
	MediaID      uuid.UUID       `json:"media_id"`
	EventID      uuid.UUID       `json:"event_id"`
	UploaderID   uuid.UUID       `json:"uploader_id"`
	Rectangle    *FaceRectangle  `json:"face_rectangle"`
	Attributes   *FaceAttributes `json:"face_attributes,omitempty"`
	Confidence   float64         `json:"confidence"`
	IsIdentified bool            `json:"is_identified"`
	IsActive     bool            `json:"-"`
	CreatedAt    time.Time       `json:"created_at"`
}

// MediaSummary is the slice of EventMedia joined onto detections.
type MediaSummary struct {
	ID        uuid.UUID `json:"id"`
	MediaURL  string    `json:"mediaUrl"`
	FileName  string    `json:"fileName"`
	MediaType string    `json:"mediaType"`
	CreatedAt time.Time `json:"createdAt"`
}

// DetectionWithMedia is a detection row joined to its (active) media.
type DetectionWithMedia struct {
	Detection FaceDetection
	Media     MediaSummary
}

// UserFaceProfile is a user's enrolled reference face for one event.
type UserFaceProfile struct {
	ID         uuid.UUID       `json:"id"`
	UserID     uuid.UUID       `json:"user_id"`
	EventID    uuid.UUID       `json:"event_id"`
	Rectangle  *FaceRectangle  `json:"face_rectangle"`
	Attributes *FaceAttributes `json:"face_attributes,omitempty"`
	Confidence float64         `json:"confidence"`
	IsActive   bool            `json:"-"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// MatchedDetection is a qualifying detection annotated with its score.
type MatchedDetection struct {
	ID         uuid.UUID       `json:"id"`
	Rectangle  *FaceRectangle  `json:"faceRectangle"`
	Attributes *FaceAttributes `json:"faceAttributes,omitempty"`
	Confidence float64         `json:"confidence"`
	Similarity float64         `json:"similarity"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// MatchResult is a media item together with the detections in it that
// matched the enrolled profile.
type MatchResult struct {
	MediaSummary
	Detections []MatchedDetection `json:"detections"`
}

// BestSimilarity returns the highest similarity among the detections.
func (m MatchResult) BestSimilarity() float64 {
	best := 0.0
	for _, d := range m.Detections {
		if d.Similarity > best {
			best = d.Similarity
		}
	}
	return best
}

// MatchSummary counts matches by confidence band.
type MatchSummary struct {
	TotalMatches     int `json:"totalMatches"`
	HighConfidence   int `json:"highConfidence"`
	MediumConfidence int `json:"mediumConfidence"`
	LowConfidence    int `json:"lowConfidence"`
}
