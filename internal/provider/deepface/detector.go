package deepface

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"

	"github.com/saturnino-fabrica-de-software/momento/internal/domain"
	"github.com/saturnino-fabrica-de-software/momento/internal/provider"
)

const (
	// minFaceArea is the minimum face area (in pixels²) for reliable detection
	minFaceArea = 2500 // 50x50 pixels
	// maxFaceArea is used for confidence scaling
	maxFaceArea = 250000 // 500x500 pixels
)

// Detector implements provider.FaceDetector on top of a DeepFace server.
// DeepFace reports no glasses, so attributes only carry emotions.
type Detector struct {
	client *Client
}

var _ provider.FaceDetector = (*Detector)(nil)

func NewDetector(config Config) *Detector {
	return &Detector{client: NewClient(config)}
}

func (d *Detector) Name() string {
	return "deepface"
}

func (d *Detector) DetectFaces(ctx context.Context, image []byte) ([]provider.DetectedFace, error) {
	imgW, imgH, err := provider.ImageBounds(image)
	if err != nil {
		return nil, err
	}

	contentType := http.DetectContentType(image)
	dataURI := "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(image)

	resp, err := d.client.Analyze(ctx, dataURI)
	if err != nil {
		if isNoFaceError(err) {
			return []provider.DetectedFace{}, nil
		}
		return nil, fmt.Errorf("detect faces: %w", err)
	}

	faces := make([]provider.DetectedFace, 0, len(resp.Results))
	for _, result := range resp.Results {
		r := result.Region
		if r.W <= 0 || r.H <= 0 {
			continue
		}
		// without enforcement DeepFace answers with the whole frame
		if r.X == 0 && r.Y == 0 && r.W == imgW && r.H == imgH {
			continue
		}

		faceArea := float64(r.W * r.H)
		confidence := result.FaceConfidence
		if confidence <= 0 {
			confidence = calculateConfidence(faceArea)
		}

		face := provider.DetectedFace{
			Rectangle: domain.FaceRectangle{
				Top:    float64(r.Y),
				Left:   float64(r.X),
				Width:  float64(r.W),
				Height: float64(r.H),
			},
			Confidence: confidence,
		}
		if scores := emotionScores(result.Emotion); scores != nil {
			face.Attributes = &domain.FaceAttributes{Emotion: scores}
		}

		faces = append(faces, face)
	}

	return faces, nil
}

// isNoFaceError recognises the 400 DeepFace returns when detection is
// enforced and nothing was found
func isNoFaceError(err error) bool {
	var se *statusError
	if !errors.As(err, &se) || se.Status != http.StatusBadRequest {
		return false
	}
	return strings.Contains(strings.ToLower(se.Body), "face could not be detected")
}

// calculateConfidence estimates confidence from face area for DeepFace
// versions that do not report face_confidence
func calculateConfidence(faceArea float64) float64 {
	if faceArea < minFaceArea {
		return 0.5
	}
	normalized := math.Min(1.0, (faceArea-minFaceArea)/(maxFaceArea-minFaceArea))
	return 0.7 + (normalized * 0.29)
}

// emotionScores converts DeepFace percentages (0-100) into domain scores
func emotionScores(emotion map[string]float64) *domain.EmotionScores {
	if len(emotion) == 0 {
		return nil
	}

	pct := func(key string) float64 {
		return math.Max(0, math.Min(1, emotion[key]/100))
	}

	return &domain.EmotionScores{
		Anger:     pct("angry"),
		Disgust:   pct("disgust"),
		Fear:      pct("fear"),
		Happiness: pct("happy"),
		Neutral:   pct("neutral"),
		Sadness:   pct("sad"),
		Surprise:  pct("surprise"),
	}
}
