package facematch

import (
	"math"

	"github.com/saturnino-fabrica-de-software/momento/internal/domain"
)

const (
	areaWeight     = 0.4
	positionWeight = 0.3
	aspectWeight   = 0.3

	glassesBonus = 0.3
	emotionBonus = 0.2

	rectangleBlend = 0.8
	attributeBlend = 0.2

	// sizeOutlierRatio is the min/max area ratio below which a detection is
	// penalised as a face of a very different scale.
	sizeOutlierRatio   = 0.2
	sizeOutlierPenalty = 0.3

	aspectOutlierDiff    = 0.5
	aspectOutlierPenalty = 0.5
)

// RectangleSimilarity compares two face rectangles by area, position and
// aspect ratio and returns a score in [0,1]. A nil rectangle scores 0.
func RectangleSimilarity(a, b *domain.FaceRectangle) float64 {
	if a == nil || b == nil {
		return 0
	}

	area := 1 - relativeDiff(a.Area(), b.Area())

	position := 1.0
	span := math.Max(a.Width, b.Width) + math.Max(a.Height, b.Height)
	if span != 0 {
		position = 1 - (math.Abs(a.Left-b.Left)+math.Abs(a.Top-b.Top))/span
	}

	aspect := 1 - relativeDiff(a.AspectRatio(), b.AspectRatio())

	return clamp(areaWeight*area + positionWeight*position + aspectWeight*aspect)
}

// AttributeSimilarity returns an additive bonus of up to 0.5 for matching
// glasses and dominant emotion. It returns 0 when either side is nil.
func AttributeSimilarity(a, b *domain.FaceAttributes) float64 {
	if a == nil || b == nil {
		return 0
	}

	score := 0.0
	if a.Glasses != "" && b.Glasses != "" && a.Glasses == b.Glasses {
		score += glassesBonus
	}
	if a.Emotion != nil && b.Emotion != nil && a.Emotion.Dominant() == b.Emotion.Dominant() {
		score += emotionBonus
	}
	return score
}

// Score blends rectangle and attribute similarity and applies the size and
// aspect-ratio outlier penalties. Only one penalty is ever applied; the
// size penalty takes precedence. The result is in [0,1].
//
// The attribute blend is applied only when both faces carry attributes, so
// identical rectangles without attributes still score 1.
func Score(userRect, detectionRect *domain.FaceRectangle, userAttrs, detectionAttrs *domain.FaceAttributes) float64 {
	if userRect == nil || detectionRect == nil {
		return 0
	}

	combined := RectangleSimilarity(userRect, detectionRect)
	if userAttrs != nil && detectionAttrs != nil {
		attr := AttributeSimilarity(userAttrs, detectionAttrs)
		combined = math.Min(1.0, combined*rectangleBlend+attr*attributeBlend)
	}

	switch {
	case sizeRatio(userRect, detectionRect) < sizeOutlierRatio:
		combined *= sizeOutlierPenalty
	case relativeDiff(userRect.AspectRatio(), detectionRect.AspectRatio()) > aspectOutlierDiff:
		combined *= aspectOutlierPenalty
	}

	return clamp(combined)
}

// relativeDiff returns |a-b| / max(a,b), or 0 when both are zero.
func relativeDiff(a, b float64) float64 {
	m := math.Max(a, b)
	if m == 0 {
		return 0
	}
	return math.Abs(a-b) / m
}

func sizeRatio(a, b *domain.FaceRectangle) float64 {
	areaA, areaB := a.Area(), b.Area()
	m := math.Max(areaA, areaB)
	if m == 0 {
		return 1
	}
	return math.Min(areaA, areaB) / m
}

func clamp(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
