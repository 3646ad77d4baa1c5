package repository

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/saturnino-fabrica-de-software/momento/internal/domain"
)

// isUniqueViolation checks if the error is a unique constraint violation
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "23505") ||
		strings.Contains(errMsg, "unique") ||
		strings.Contains(errMsg, "duplicate key")
}

// encodeGeometry marshals a rectangle and optional attributes for the
// JSONB columns. Nil attributes become SQL NULL.
func encodeGeometry(rect *domain.FaceRectangle, attrs *domain.FaceAttributes) ([]byte, []byte, error) {
	rectJSON, err := json.Marshal(rect)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal face_rectangle: %w", err)
	}

	if attrs == nil {
		return rectJSON, nil, nil
	}

	attrsJSON, err := json.Marshal(attrs)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal face_attributes: %w", err)
	}
	return rectJSON, attrsJSON, nil
}

func decodeGeometry(rectJSON, attrsJSON []byte) (*domain.FaceRectangle, *domain.FaceAttributes, error) {
	var rect *domain.FaceRectangle
	if len(rectJSON) > 0 && string(rectJSON) != "null" {
		rect = &domain.FaceRectangle{}
		if err := json.Unmarshal(rectJSON, rect); err != nil {
			return nil, nil, fmt.Errorf("unmarshal face_rectangle: %w", err)
		}
	}

	var attrs *domain.FaceAttributes
	if len(attrsJSON) > 0 && string(attrsJSON) != "null" {
		attrs = &domain.FaceAttributes{}
		if err := json.Unmarshal(attrsJSON, attrs); err != nil {
			return nil, nil, fmt.Errorf("unmarshal face_attributes: %w", err)
		}
	}

	return rect, attrs, nil
}
