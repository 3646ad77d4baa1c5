package face

import (
	"context"
	"fmt"

	"github.com/saturnino-fabrica-de-software/momento/internal/config"
	"github.com/saturnino-fabrica-de-software/momento/internal/provider"
	"github.com/saturnino-fabrica-de-software/momento/internal/provider/deepface"
	"github.com/saturnino-fabrica-de-software/momento/internal/provider/mock"
	"github.com/saturnino-fabrica-de-software/momento/internal/provider/rekognition"
)

// ProviderType defines supported face detection provider types
type ProviderType string

const (
	// ProviderTypeMock is the deterministic in-process detector (dev/test)
	ProviderTypeMock ProviderType = "mock"
	// ProviderTypeDeepFace is a self-hosted DeepFace server
	ProviderTypeDeepFace ProviderType = "deepface"
	// ProviderTypeRekognition is AWS Rekognition (cloud, for prod)
	ProviderTypeRekognition ProviderType = "rekognition"
)

// NewFaceDetector creates the detector selected by PROVIDER_TYPE.
// Rekognition credentials come from the AWS SDK default chain.
func NewFaceDetector(ctx context.Context, cfg *config.Config) (provider.FaceDetector, error) {
	switch ProviderType(cfg.ProviderType) {
	case ProviderTypeRekognition:
		rekogConfig := rekognition.DefaultConfig()
		if cfg.AWSRegion != "" {
			rekogConfig.Region = cfg.AWSRegion
		}

		det, err := rekognition.NewDetector(ctx, rekogConfig)
		if err != nil {
			return nil, fmt.Errorf("create rekognition detector: %w", err)
		}
		return det, nil

	case ProviderTypeDeepFace:
		deepfaceConfig := deepface.DefaultConfig()
		if cfg.DeepFaceURL != "" {
			deepfaceConfig.BaseURL = cfg.DeepFaceURL
		}
		return deepface.NewDetector(deepfaceConfig), nil

	case ProviderTypeMock, "":
		return mock.New(), nil

	default:
		return nil, fmt.Errorf("unknown provider type: %s (supported: %s, %s, %s)",
			cfg.ProviderType, ProviderTypeMock, ProviderTypeDeepFace, ProviderTypeRekognition)
	}
}
