package rekognition

import (
	"context"
	"errors"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"github.com/aws/smithy-go"

	"github.com/saturnino-fabrica-de-software/momento/internal/domain"
	"github.com/saturnino-fabrica-de-software/momento/internal/provider"
)

const (
	// maxImageSize is the maximum inline image size accepted by Rekognition (5MB)
	maxImageSize = 5 * 1024 * 1024

	errCodeAccessDenied       = "AccessDeniedException"
	errCodeInvalidParameter   = "InvalidParameterException"
	errCodeInvalidImageFormat = "InvalidImageFormatException"
	errCodeImageTooLarge      = "ImageTooLargeException"
	errCodeThroughput         = "ProvisionedThroughputExceededException"
	errCodeThrottling         = "ThrottlingException"
)

// RekognitionAPI is the part of the Rekognition client the detector uses
type RekognitionAPI interface {
	DetectFaces(ctx context.Context, params *rekognition.DetectFacesInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectFacesOutput, error)
}

// Detector implements provider.FaceDetector using AWS Rekognition DetectFaces
type Detector struct {
	api    RekognitionAPI
	config Config
}

var _ provider.FaceDetector = (*Detector)(nil)

// NewDetector creates a detector using the AWS default credential chain
func NewDetector(ctx context.Context, cfg Config) (*Detector, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return NewDetectorWithAPI(rekognition.NewFromConfig(awsCfg), cfg), nil
}

// NewDetectorWithAPI creates a detector around an existing client
func NewDetectorWithAPI(api RekognitionAPI, cfg Config) *Detector {
	return &Detector{api: api, config: cfg}
}

func (d *Detector) Name() string {
	return "rekognition"
}

// DetectFaces detects faces with all attributes and converts Rekognition's
// relative bounding boxes into pixel rectangles
func (d *Detector) DetectFaces(ctx context.Context, image []byte) ([]provider.DetectedFace, error) {
	if len(image) > maxImageSize {
		return nil, domain.ErrMediaTooLarge.WithError(
			fmt.Errorf("image too large for rekognition (%d bytes, maximum %d)", len(image), maxImageSize))
	}

	imgW, imgH, err := provider.ImageBounds(image)
	if err != nil {
		return nil, err
	}

	output, err := d.api.DetectFaces(ctx, &rekognition.DetectFacesInput{
		Image:      &types.Image{Bytes: image},
		Attributes: []types.Attribute{types.AttributeAll},
	})
	if err != nil {
		return nil, translateError(err)
	}

	faces := make([]provider.DetectedFace, 0, len(output.FaceDetails))
	for _, detail := range output.FaceDetails {
		if detail.BoundingBox == nil {
			continue
		}

		confidence := float64(deref(detail.Confidence)) / 100
		if confidence < d.config.MinConfidence {
			continue
		}

		box := detail.BoundingBox
		rect, ok := provider.RelativeToPixels(
			float64(deref(box.Left)),
			float64(deref(box.Top)),
			float64(deref(box.Width)),
			float64(deref(box.Height)),
			imgW, imgH,
		)
		if !ok {
			continue
		}

		faces = append(faces, provider.DetectedFace{
			Rectangle:  rect,
			Attributes: attributesFrom(detail),
			Confidence: confidence,
		})
	}

	return faces, nil
}

// attributesFrom maps Rekognition glasses and emotions onto the domain
// attributes. CONFUSED has no counterpart and is ignored.
func attributesFrom(detail types.FaceDetail) *domain.FaceAttributes {
	attrs := &domain.FaceAttributes{}

	switch {
	case detail.Sunglasses != nil && detail.Sunglasses.Value:
		attrs.Glasses = domain.GlassesSun
	case detail.Eyeglasses != nil && detail.Eyeglasses.Value:
		attrs.Glasses = domain.GlassesReading
	case detail.Sunglasses != nil || detail.Eyeglasses != nil:
		attrs.Glasses = domain.GlassesNone
	}

	if len(detail.Emotions) > 0 {
		scores := &domain.EmotionScores{}
		for _, e := range detail.Emotions {
			v := float64(deref(e.Confidence)) / 100
			switch e.Type {
			case types.EmotionNameAngry:
				scores.Anger = v
			case types.EmotionNameDisgusted:
				scores.Disgust = v
			case types.EmotionNameFear:
				scores.Fear = v
			case types.EmotionNameHappy:
				scores.Happiness = v
			case types.EmotionNameCalm:
				scores.Neutral = v
			case types.EmotionNameSad:
				scores.Sadness = v
			case types.EmotionNameSurprised:
				scores.Surprise = v
			}
		}
		attrs.Emotion = scores
	}

	if attrs.Glasses == "" && attrs.Emotion == nil {
		return nil
	}
	return attrs
}

func translateError(err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case errCodeAccessDenied:
			return fmt.Errorf("detect faces: %w", ErrInvalidCredentials)
		case errCodeInvalidImageFormat, errCodeInvalidParameter:
			return domain.ErrInvalidImage.WithError(err)
		case errCodeImageTooLarge:
			return domain.ErrMediaTooLarge.WithError(err)
		case errCodeThroughput, errCodeThrottling:
			return fmt.Errorf("detect faces: %w: %v", ErrThrottled, err)
		}
	}
	return fmt.Errorf("detect faces: %w", err)
}

func deref(v *float32) float32 {
	if v == nil {
		return 0
	}
	return *v
}
