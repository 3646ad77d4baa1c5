package provider

import (
	"context"

	"github.com/saturnino-fabrica-de-software/momento/internal/domain"
)

// FaceDetector define a interface para provedores de detecção facial
type FaceDetector interface {
	// DetectFaces retorna todas as faces encontradas na imagem, com
	// retângulos em pixels da imagem. Nenhuma face não é erro.
	DetectFaces(ctx context.Context, image []byte) ([]DetectedFace, error)

	// Name identifica o provedor nos logs
	Name() string
}

// DetectedFace is one face reported by a detector.
type DetectedFace struct {
	Rectangle  domain.FaceRectangle   `json:"face_rectangle"`
	Attributes *domain.FaceAttributes `json:"face_attributes,omitempty"`
	Confidence float64                `json:"confidence"`
}
