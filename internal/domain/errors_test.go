package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "error without wrapped error",
			appErr:   ErrProfileNotFound,
			expected: "No face profile enrolled for this event",
		},
		{
			name: "error with wrapped error",
			appErr: &AppError{
				Code:       "TEST_ERROR",
				Message:    "Test message",
				StatusCode: 500,
				Err:        errors.New("underlying error"),
			},
			expected: "Test message: underlying error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.appErr.Error(); got != tt.expected {
				t.Errorf("Error() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	underlying := errors.New("underlying error")
	appErr := &AppError{
		Code:       "TEST",
		Message:    "test",
		StatusCode: 500,
		Err:        underlying,
	}

	if got := appErr.Unwrap(); got != underlying {
		t.Errorf("Unwrap() = %v, want %v", got, underlying)
	}

	if got := ErrEventNotFound.Unwrap(); got != nil {
		t.Errorf("Unwrap() = %v, want nil", got)
	}
}

func TestAppError_WithError(t *testing.T) {
	underlying := errors.New("db connection failed")
	newErr := ErrInternal.WithError(underlying)

	if newErr.Code != ErrInternal.Code {
		t.Errorf("Code = %v, want %v", newErr.Code, ErrInternal.Code)
	}

	if newErr.StatusCode != ErrInternal.StatusCode {
		t.Errorf("StatusCode = %v, want %v", newErr.StatusCode, ErrInternal.StatusCode)
	}

	if !errors.Is(newErr, underlying) {
		t.Errorf("errors.Is should return true for wrapped error")
	}

	if !errors.Is(newErr, ErrInternal) {
		t.Errorf("errors.Is should match the catalogue error it was derived from")
	}
}

func TestAppError_IsThroughWrapping(t *testing.T) {
	err := fmt.Errorf("enroll: %w", ErrMultipleFaces.WithError(errors.New("3 faces")))

	if !errors.Is(err, ErrMultipleFaces) {
		t.Errorf("errors.Is should see MULTIPLE_FACES through fmt wrapping")
	}
	if errors.Is(err, ErrNoFaceDetected) {
		t.Errorf("errors.Is should not match a different code")
	}

	var appErr *AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("errors.As should match AppError")
	}
	if appErr.StatusCode != 422 {
		t.Errorf("StatusCode = %v, want 422", appErr.StatusCode)
	}
}

func TestPredefinedErrors(t *testing.T) {
	tests := []struct {
		err        *AppError
		code       string
		statusCode int
	}{
		{ErrInternal, "INTERNAL_ERROR", 500},
		{ErrBadRequest, "BAD_REQUEST", 400},
		{ErrUnauthorized, "UNAUTHORIZED", 401},
		{ErrForbidden, "FORBIDDEN", 403},
		{ErrNotFound, "NOT_FOUND", 404},
		{ErrEventNotFound, "EVENT_NOT_FOUND", 404},
		{ErrEventInactive, "EVENT_INACTIVE", 404},
		{ErrSlugTaken, "SLUG_TAKEN", 409},
		{ErrMediaNotFound, "MEDIA_NOT_FOUND", 404},
		{ErrProfileNotFound, "PROFILE_NOT_FOUND", 404},
		{ErrProfileExists, "PROFILE_EXISTS", 409},
		{ErrInvalidImage, "INVALID_IMAGE", 422},
		{ErrUnsupportedMedia, "UNSUPPORTED_MEDIA", 415},
		{ErrMediaTooLarge, "MEDIA_TOO_LARGE", 413},
		{ErrNoFaceDetected, "NO_FACE_DETECTED", 422},
		{ErrMultipleFaces, "MULTIPLE_FACES", 422},
		{ErrInvalidGeometry, "INVALID_GEOMETRY", 422},
		{ErrRateLimitExceeded, "RATE_LIMIT_EXCEEDED", 429},
		{ErrValidationFailed, "VALIDATION_FAILED", 422},
		{ErrInvalidThreshold, "INVALID_THRESHOLD", 422},
		{ErrInvalidPagination, "INVALID_PAGINATION", 422},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("Code = %v, want %v", tt.err.Code, tt.code)
			}
			if tt.err.StatusCode != tt.statusCode {
				t.Errorf("StatusCode = %v, want %v", tt.err.StatusCode, tt.statusCode)
			}
		})
	}
}
