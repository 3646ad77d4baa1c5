package domain

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateRectangle rejects missing or degenerate rectangles.
func ValidateRectangle(r *FaceRectangle) error {
	if r == nil {
		return ErrInvalidGeometry.WithError(fmt.Errorf("face rectangle is required"))
	}
	if err := validate.Struct(r); err != nil {
		return ErrInvalidGeometry.WithError(err)
	}
	return nil
}

// ValidateAttributes checks emotion scores are within [0,1]. Nil is valid.
func ValidateAttributes(a *FaceAttributes) error {
	if a == nil {
		return nil
	}
	if err := validate.Struct(a); err != nil {
		return ErrValidationFailed.WithError(err)
	}
	return nil
}
