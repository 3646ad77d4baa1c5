package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/saturnino-fabrica-de-software/momento/internal/domain"
)

const mediaColumns = `id, event_id, uploader_id, media_url, storage_key, file_name, media_type,
		content_type, size_bytes, detection_status, detection_attempts, is_active, created_at, updated_at`

type MediaRepository struct {
	pool PgxPool
}

func NewMediaRepository(pool PgxPool) *MediaRepository {
	return &MediaRepository{pool: pool}
}

func (r *MediaRepository) Create(ctx context.Context, media *domain.EventMedia) error {
	query := `
		INSERT INTO event_media (id, event_id, uploader_id, media_url, storage_key, file_name, media_type,
			content_type, size_bytes, detection_status, detection_attempts, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 0, true, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	if media.ID == uuid.Nil {
		media.ID = uuid.New()
	}

	err := r.pool.QueryRow(ctx, query,
		media.ID,
		media.EventID,
		media.UploaderID,
		media.MediaURL,
		media.StorageKey,
		media.FileName,
		media.MediaType,
		media.ContentType,
		media.SizeBytes,
		media.DetectionStatus,
	).Scan(&media.CreatedAt, &media.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create media: %w", err)
	}

	media.IsActive = true
	media.DetectionAttempts = 0
	return nil
}

// GetByID returns an active media item of the event.
func (r *MediaRepository) GetByID(ctx context.Context, eventID, mediaID uuid.UUID) (*domain.EventMedia, error) {
	query := `SELECT ` + mediaColumns + `
		FROM event_media
		WHERE id = $1 AND event_id = $2 AND is_active = true
	`

	media, err := scanMedia(r.pool.QueryRow(ctx, query, mediaID, eventID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrMediaNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get media by id: %w", err)
	}
	return media, nil
}

// ListByEvent returns one page of active media, newest first, and the
// total number of active media in the event.
func (r *MediaRepository) ListByEvent(ctx context.Context, eventID uuid.UUID, limit, offset int) ([]domain.EventMedia, int, error) {
	var total int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM event_media WHERE event_id = $1 AND is_active = true
	`, eventID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count media: %w", err)
	}

	query := `SELECT ` + mediaColumns + `
		FROM event_media
		WHERE event_id = $1 AND is_active = true
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, eventID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list media: %w", err)
	}
	defer rows.Close()

	items, err := collectMedia(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("list media: %w", err)
	}
	return items, total, nil
}

// MarkProcessing flags the media as being processed and bumps the attempt
// counter, returning the new attempt count.
func (r *MediaRepository) MarkProcessing(ctx context.Context, mediaID uuid.UUID) (int, error) {
	var attempts int
	err := r.pool.QueryRow(ctx, `
		UPDATE event_media
		SET detection_status = $2, detection_attempts = detection_attempts + 1, updated_at = NOW()
		WHERE id = $1 AND is_active = true
		RETURNING detection_attempts
	`, mediaID, domain.DetectionProcessing).Scan(&attempts)

	if errors.Is(err, pgx.ErrNoRows) {
		return 0, domain.ErrMediaNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("mark media processing: %w", err)
	}
	return attempts, nil
}

func (r *MediaRepository) UpdateDetectionStatus(ctx context.Context, mediaID uuid.UUID, status string) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE event_media SET detection_status = $2, updated_at = NOW()
		WHERE id = $1
	`, mediaID, status)
	if err != nil {
		return fmt.Errorf("update detection status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrMediaNotFound
	}
	return nil
}

// ListPendingDetection returns active images still awaiting detection
// with fewer than maxAttempts tries, oldest first. Besides pending and
// failed rows it reclaims rows stuck in processing for longer than
// staleAfter, which a crash mid-detection leaves behind.
func (r *MediaRepository) ListPendingDetection(ctx context.Context, maxAttempts int, staleAfter time.Duration, limit int) ([]domain.EventMedia, error) {
	query := `SELECT ` + mediaColumns + `
		FROM event_media
		WHERE is_active = true
		  AND media_type = 'image'
		  AND detection_attempts < $1
		  AND (
		    detection_status IN ('pending', 'failed')
		    OR (detection_status = 'processing' AND updated_at < NOW() - make_interval(secs => $2))
		  )
		ORDER BY created_at ASC
		LIMIT $3
	`

	rows, err := r.pool.Query(ctx, query, maxAttempts, staleAfter.Seconds(), limit)
	if err != nil {
		return nil, fmt.Errorf("list pending detection: %w", err)
	}
	defer rows.Close()

	items, err := collectMedia(rows)
	if err != nil {
		return nil, fmt.Errorf("list pending detection: %w", err)
	}
	return items, nil
}

// Deactivate soft-deletes the media item and its detections.
func (r *MediaRepository) Deactivate(ctx context.Context, mediaID uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin deactivate media: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	result, err := tx.Exec(ctx, `
		UPDATE event_media SET is_active = false, updated_at = NOW()
		WHERE id = $1 AND is_active = true
	`, mediaID)
	if err != nil {
		return fmt.Errorf("deactivate media: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrMediaNotFound
	}

	if _, err := tx.Exec(ctx, `
		UPDATE face_detections SET is_active = false
		WHERE media_id = $1 AND is_active = true
	`, mediaID); err != nil {
		return fmt.Errorf("deactivate media detections: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit deactivate media: %w", err)
	}
	return nil
}

func scanMedia(row pgx.Row) (*domain.EventMedia, error) {
	var m domain.EventMedia
	err := row.Scan(
		&m.ID,
		&m.EventID,
		&m.UploaderID,
		&m.MediaURL,
		&m.StorageKey,
		&m.FileName,
		&m.MediaType,
		&m.ContentType,
		&m.SizeBytes,
		&m.DetectionStatus,
		&m.DetectionAttempts,
		&m.IsActive,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func collectMedia(rows pgx.Rows) ([]domain.EventMedia, error) {
	items := []domain.EventMedia{}
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, fmt.Errorf("scan media: %w", err)
		}
		items = append(items, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate media: %w", err)
	}
	return items, nil
}
