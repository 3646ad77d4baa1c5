package mock

import (
	"context"
	"crypto/sha256"

	"github.com/saturnino-fabrica-de-software/momento/internal/domain"
	"github.com/saturnino-fabrica-de-software/momento/internal/provider"
)

// Detector implementa provider.FaceDetector para testes e desenvolvimento.
// A mesma imagem sempre produz as mesmas faces.
type Detector struct {
	faces int
}

// Option configura o Detector
type Option func(*Detector)

// WithFaceCount faz o detector reportar n faces por imagem
func WithFaceCount(n int) Option {
	return func(d *Detector) {
		d.faces = n
	}
}

// New cria um detector que reporta uma face por imagem
func New(opts ...Option) *Detector {
	d := &Detector{faces: 1}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Detector) Name() string {
	return "mock"
}

// DetectFaces divide a imagem em colunas iguais e coloca uma face em cada
func (d *Detector) DetectFaces(ctx context.Context, image []byte) ([]provider.DetectedFace, error) {
	w, h, err := provider.ImageBounds(image)
	if err != nil {
		return nil, err
	}

	if d.faces <= 0 {
		return []provider.DetectedFace{}, nil
	}

	hash := sha256.Sum256(image)
	column := float64(w) / float64(d.faces)

	faces := make([]provider.DetectedFace, 0, d.faces)
	for i := 0; i < d.faces; i++ {
		faces = append(faces, provider.DetectedFace{
			Rectangle: domain.FaceRectangle{
				Top:    float64(h) * 0.1,
				Left:   column*float64(i) + column*0.1,
				Width:  column * 0.8,
				Height: float64(h) * 0.8,
			},
			Attributes: &domain.FaceAttributes{
				Glasses: glassesFor(hash[i%len(hash)]),
				Emotion: &domain.EmotionScores{Neutral: 0.9, Happiness: 0.1},
			},
			Confidence: 0.99,
		})
	}

	return faces, nil
}

func glassesFor(b byte) string {
	switch b % 4 {
	case 1:
		return domain.GlassesReading
	case 2:
		return domain.GlassesSun
	default:
		return domain.GlassesNone
	}
}

var _ provider.FaceDetector = (*Detector)(nil)
