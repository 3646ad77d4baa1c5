package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/saturnino-fabrica-de-software/momento/internal/domain"
)

type FaceProfileRepository struct {
	pool PgxPool
}

func NewFaceProfileRepository(pool PgxPool) *FaceProfileRepository {
	return &FaceProfileRepository{pool: pool}
}

func (r *FaceProfileRepository) GetActive(ctx context.Context, eventID, userID uuid.UUID) (*domain.UserFaceProfile, error) {
	query := `
		SELECT id, user_id, event_id, face_rectangle, face_attributes, confidence, created_at, updated_at
		FROM user_face_profiles
		WHERE event_id = $1 AND user_id = $2 AND is_active = true
	`

	var (
		p         domain.UserFaceProfile
		rectJSON  []byte
		attrsJSON []byte
	)

	err := r.pool.QueryRow(ctx, query, eventID, userID).Scan(
		&p.ID,
		&p.UserID,
		&p.EventID,
		&rectJSON,
		&attrsJSON,
		&p.Confidence,
		&p.CreatedAt,
		&p.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get face profile: %w", err)
	}

	p.Rectangle, p.Attributes, err = decodeGeometry(rectJSON, attrsJSON)
	if err != nil {
		return nil, err
	}
	p.IsActive = true

	return &p, nil
}

func (r *FaceProfileRepository) Create(ctx context.Context, p *domain.UserFaceProfile) error {
	query := `
		INSERT INTO user_face_profiles (id, user_id, event_id, face_rectangle, face_attributes, confidence,
			is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, true, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}

	rectJSON, attrsJSON, err := encodeGeometry(p.Rectangle, p.Attributes)
	if err != nil {
		return err
	}

	err = r.pool.QueryRow(ctx, query,
		p.ID,
		p.UserID,
		p.EventID,
		rectJSON,
		attrsJSON,
		p.Confidence,
	).Scan(&p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrProfileExists
		}
		return fmt.Errorf("create face profile: %w", err)
	}

	p.IsActive = true
	return nil
}

// Update replaces the geometry of an active profile in place.
func (r *FaceProfileRepository) Update(ctx context.Context, p *domain.UserFaceProfile) error {
	query := `
		UPDATE user_face_profiles
		SET face_rectangle = $2, face_attributes = $3, confidence = $4, updated_at = NOW()
		WHERE id = $1 AND is_active = true
		RETURNING updated_at
	`

	rectJSON, attrsJSON, err := encodeGeometry(p.Rectangle, p.Attributes)
	if err != nil {
		return err
	}

	err = r.pool.QueryRow(ctx, query, p.ID, rectJSON, attrsJSON, p.Confidence).Scan(&p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrProfileNotFound
	}
	if err != nil {
		return fmt.Errorf("update face profile: %w", err)
	}
	return nil
}

func (r *FaceProfileRepository) Deactivate(ctx context.Context, eventID, userID uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE user_face_profiles SET is_active = false, updated_at = NOW()
		WHERE event_id = $1 AND user_id = $2 AND is_active = true
	`, eventID, userID)
	if err != nil {
		return fmt.Errorf("deactivate face profile: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}
