package facematch

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/momento/internal/domain"
)

// DefaultThreshold is the score a detection must exceed to count as a match.
const DefaultThreshold = 0.75

// ProfileReader loads the active enrolled face for a user in an event.
// It returns domain.ErrProfileNotFound when the user has not enrolled.
type ProfileReader interface {
	GetActive(ctx context.Context, eventID, userID uuid.UUID) (*domain.UserFaceProfile, error)
}

// DetectionLister lists the active detections of an event joined to their
// active media, newest detection first.
type DetectionLister interface {
	ListActiveWithMedia(ctx context.Context, eventID uuid.UUID) ([]domain.DetectionWithMedia, error)
}

// Matcher scores every detection of an event against a user's profile and
// groups the qualifying ones by media.
type Matcher struct {
	profiles   ProfileReader
	detections DetectionLister
	threshold  float64
}

func NewMatcher(profiles ProfileReader, detections DetectionLister) *Matcher {
	return &Matcher{
		profiles:   profiles,
		detections: detections,
		threshold:  DefaultThreshold,
	}
}

// WithThreshold overrides the threshold used when callers pass none.
func (m *Matcher) WithThreshold(threshold float64) *Matcher {
	m.threshold = threshold
	return m
}

// Threshold returns the matcher's default threshold.
func (m *Matcher) Threshold() float64 {
	return m.threshold
}

// FindMatches returns the media containing detections whose score is
// strictly greater than threshold. A threshold <= 0 selects the matcher's
// default. Media are returned in the order of their first qualifying
// detection, i.e. detection recency, not score.
//
// A user without an enrolled profile gets an empty result. Storage errors
// are returned unchanged.
func (m *Matcher) FindMatches(ctx context.Context, eventID, userID uuid.UUID, threshold float64) ([]domain.MatchResult, error) {
	if threshold <= 0 {
		threshold = m.threshold
	}

	profile, err := m.profiles.GetActive(ctx, eventID, userID)
	if errors.Is(err, domain.ErrProfileNotFound) {
		return []domain.MatchResult{}, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := m.detections.ListActiveWithMedia(ctx, eventID)
	if err != nil {
		return nil, err
	}

	results := []domain.MatchResult{}
	index := make(map[uuid.UUID]int)

	for _, row := range rows {
		d := row.Detection
		similarity := Score(profile.Rectangle, d.Rectangle, profile.Attributes, d.Attributes)
		if similarity <= threshold {
			continue
		}

		match := domain.MatchedDetection{
			ID:         d.ID,
			Rectangle:  d.Rectangle,
			Attributes: d.Attributes,
			Confidence: d.Confidence,
			Similarity: similarity,
			CreatedAt:  d.CreatedAt,
		}

		i, seen := index[row.Media.ID]
		if !seen {
			i = len(results)
			index[row.Media.ID] = i
			results = append(results, domain.MatchResult{MediaSummary: row.Media})
		}
		results[i].Detections = append(results[i].Detections, match)
	}

	return results, nil
}

// Summarize buckets matches by their best detection score: above 0.7 is
// high, above 0.5 medium, anything else low.
func Summarize(matches []domain.MatchResult) domain.MatchSummary {
	summary := domain.MatchSummary{TotalMatches: len(matches)}
	for _, m := range matches {
		switch best := m.BestSimilarity(); {
		case best > 0.7:
			summary.HighConfidence++
		case best > 0.5:
			summary.MediumConfidence++
		default:
			summary.LowConfidence++
		}
	}
	return summary
}
