package face

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/momento/internal/config"
	"github.com/saturnino-fabrica-de-software/momento/internal/provider/deepface"
	"github.com/saturnino-fabrica-de-software/momento/internal/provider/mock"
	"github.com/saturnino-fabrica-de-software/momento/internal/provider/rekognition"
)

func TestNewFaceDetector(t *testing.T) {
	tests := []struct {
		name         string
		providerType string
		wantName     string
		check        func(t *testing.T, v any)
	}{
		{
			name:         "explicit mock",
			providerType: "mock",
			wantName:     "mock",
			check: func(t *testing.T, v any) {
				assert.IsType(t, &mock.Detector{}, v)
			},
		},
		{
			name:         "empty defaults to mock",
			providerType: "",
			wantName:     "mock",
		},
		{
			name:         "deepface",
			providerType: "deepface",
			wantName:     "deepface",
			check: func(t *testing.T, v any) {
				assert.IsType(t, &deepface.Detector{}, v)
			},
		},
		{
			name:         "rekognition",
			providerType: "rekognition",
			wantName:     "rekognition",
			check: func(t *testing.T, v any) {
				assert.IsType(t, &rekognition.Detector{}, v)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// static credentials keep the AWS SDK from probing instance metadata
			t.Setenv("AWS_ACCESS_KEY_ID", "test")
			t.Setenv("AWS_SECRET_ACCESS_KEY", "test")

			cfg := &config.Config{
				ProviderType: tt.providerType,
				DeepFaceURL:  "http://deepface:5005",
				AWSRegion:    "sa-east-1",
			}

			det, err := NewFaceDetector(context.Background(), cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, det.Name())
			if tt.check != nil {
				tt.check(t, det)
			}
		})
	}
}

func TestNewFaceDetector_UnknownProvider(t *testing.T) {
	_, err := NewFaceDetector(context.Background(), &config.Config{ProviderType: "opencv"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown provider type: opencv")
}
