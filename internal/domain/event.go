package domain

import (
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"
)

// Plan types
const (
	PlanFree       = "free"
	PlanPremium    = "premium"
	PlanEnterprise = "enterprise"
)

var (
	validPlans = map[string]bool{
		PlanFree:       true,
		PlanPremium:    true,
		PlanEnterprise: true,
	}

	slugRegex = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// Event representa um evento onde convidados compartilham fotos e vídeos
type Event struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   uuid.UUID `json:"owner_id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Plan      string    `json:"plan"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate verifica se o evento é válido
func (e *Event) Validate() error {
	if e.Name == "" {
		return errors.New("event name cannot be empty")
	}

	if e.Slug == "" {
		return errors.New("event slug cannot be empty")
	}

	if !slugRegex.MatchString(e.Slug) {
		return errors.New("event slug must contain only lowercase letters, numbers and hyphens")
	}

	if !validPlans[e.Plan] {
		return errors.New("invalid plan type")
	}

	return nil
}

// IsValidPlan verifica se o plano é válido
func IsValidPlan(plan string) bool {
	return validPlans[plan]
}

// IsValidSlug reports whether s is a well-formed event slug.
func IsValidSlug(s string) bool {
	return slugRegex.MatchString(s)
}
