package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/saturnino-fabrica-de-software/momento/internal/domain"
)

type EventRepository struct {
	pool PgxPool
}

func NewEventRepository(pool PgxPool) *EventRepository {
	return &EventRepository{pool: pool}
}

func (r *EventRepository) Create(ctx context.Context, event *domain.Event) error {
	query := `
		INSERT INTO events (id, owner_id, name, slug, plan, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, true, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}

	err := r.pool.QueryRow(ctx, query,
		event.ID,
		event.OwnerID,
		event.Name,
		event.Slug,
		event.Plan,
	).Scan(&event.CreatedAt, &event.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrSlugTaken
		}
		return fmt.Errorf("create event: %w", err)
	}

	event.IsActive = true
	return nil
}

// GetByID returns the event whether or not it is active; callers decide
// how to treat inactive events.
func (r *EventRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	query := `
		SELECT id, owner_id, name, slug, plan, is_active, created_at, updated_at
		FROM events
		WHERE id = $1
	`

	return r.scanOne(ctx, "get event by id", query, id)
}

func (r *EventRepository) GetBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	query := `
		SELECT id, owner_id, name, slug, plan, is_active, created_at, updated_at
		FROM events
		WHERE slug = $1
	`

	return r.scanOne(ctx, "get event by slug", query, slug)
}

func (r *EventRepository) scanOne(ctx context.Context, op, query string, arg any) (*domain.Event, error) {
	var event domain.Event
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&event.ID,
		&event.OwnerID,
		&event.Name,
		&event.Slug,
		&event.Plan,
		&event.IsActive,
		&event.CreatedAt,
		&event.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &event, nil
}

// Deactivate soft-deletes the event together with its media, detections
// and face profiles in one transaction.
func (r *EventRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin deactivate event: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	result, err := tx.Exec(ctx, `
		UPDATE events SET is_active = false, updated_at = NOW()
		WHERE id = $1 AND is_active = true
	`, id)
	if err != nil {
		return fmt.Errorf("deactivate event: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}

	cascades := []struct {
		table string
		query string
	}{
		{"event_media", `UPDATE event_media SET is_active = false, updated_at = NOW() WHERE event_id = $1 AND is_active = true`},
		{"face_detections", `UPDATE face_detections SET is_active = false WHERE event_id = $1 AND is_active = true`},
		{"user_face_profiles", `UPDATE user_face_profiles SET is_active = false, updated_at = NOW() WHERE event_id = $1 AND is_active = true`},
	}

	for _, c := range cascades {
		if _, err := tx.Exec(ctx, c.query, id); err != nil {
			return fmt.Errorf("deactivate %s: %w", c.table, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit deactivate event: %w", err)
	}
	return nil
}
