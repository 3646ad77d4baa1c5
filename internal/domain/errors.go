package domain

import (
	"fmt"
)

type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Err        error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches catalogue errors by code so wrapped copies created by
// WithError still satisfy errors.Is against the original sentinel.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Code:       e.Code,
		Message:    e.Message,
		StatusCode: e.StatusCode,
		Err:        err,
	}
}

// Pre-defined errors
var (
	ErrInternal = &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "An unexpected error occurred",
		StatusCode: 500,
	}

	ErrBadRequest = &AppError{
		Code:       "BAD_REQUEST",
		Message:    "Invalid request",
		StatusCode: 400,
	}

	ErrUnauthorized = &AppError{
		Code:       "UNAUTHORIZED",
		Message:    "Invalid or missing access token",
		StatusCode: 401,
	}

	ErrForbidden = &AppError{
		Code:       "FORBIDDEN",
		Message:    "Access denied",
		StatusCode: 403,
	}

	ErrNotFound = &AppError{
		Code:       "NOT_FOUND",
		Message:    "Resource not found",
		StatusCode: 404,
	}

	ErrEventNotFound = &AppError{
		Code:       "EVENT_NOT_FOUND",
		Message:    "Event not found",
		StatusCode: 404,
	}

	ErrEventInactive = &AppError{
		Code:       "EVENT_INACTIVE",
		Message:    "Event is no longer active",
		StatusCode: 404,
	}

	ErrSlugTaken = &AppError{
		Code:       "SLUG_TAKEN",
		Message:    "Event slug already in use",
		StatusCode: 409,
	}

	ErrMediaNotFound = &AppError{
		Code:       "MEDIA_NOT_FOUND",
		Message:    "Media not found",
		StatusCode: 404,
	}

	ErrProfileNotFound = &AppError{
		Code:       "PROFILE_NOT_FOUND",
		Message:    "No face profile enrolled for this event",
		StatusCode: 404,
	}

	ErrProfileExists = &AppError{
		Code:       "PROFILE_EXISTS",
		Message:    "A face profile is already enrolled for this event",
		StatusCode: 409,
	}

	ErrInvalidImage = &AppError{
		Code:       "INVALID_IMAGE",
		Message:    "Invalid image format or corrupted file",
		StatusCode: 422,
	}

	ErrUnsupportedMedia = &AppError{
		Code:       "UNSUPPORTED_MEDIA",
		Message:    "Unsupported media type",
		StatusCode: 415,
	}

	ErrMediaTooLarge = &AppError{
		Code:       "MEDIA_TOO_LARGE",
		Message:    "Uploaded file exceeds the size limit",
		StatusCode: 413,
	}

	ErrNoFaceDetected = &AppError{
		Code:       "NO_FACE_DETECTED",
		Message:    "No face detected in the image",
		StatusCode: 422,
	}

	ErrMultipleFaces = &AppError{
		Code:       "MULTIPLE_FACES",
		Message:    "Multiple faces detected, please provide image with single face",
		StatusCode: 422,
	}

	ErrInvalidGeometry = &AppError{
		Code:       "INVALID_GEOMETRY",
		Message:    "Face rectangle is malformed",
		StatusCode: 422,
	}

	ErrRateLimitExceeded = &AppError{
		Code:       "RATE_LIMIT_EXCEEDED",
		Message:    "Rate limit exceeded, please try again later",
		StatusCode: 429,
	}

	ErrValidationFailed = &AppError{
		Code:       "VALIDATION_FAILED",
		Message:    "Request validation failed",
		StatusCode: 422,
	}

	ErrInvalidThreshold = &AppError{
		Code:       "INVALID_THRESHOLD",
		Message:    "similarityThreshold must be greater than 0 and at most 1",
		StatusCode: 422,
	}

	ErrInvalidPagination = &AppError{
		Code:       "INVALID_PAGINATION",
		Message:    "page must be >= 1 and limit between 1 and 100",
		StatusCode: 422,
	}
)
