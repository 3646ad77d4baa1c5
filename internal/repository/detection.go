package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/momento/internal/domain"
)

type FaceDetectionRepository struct {
	pool PgxPool
}

func NewFaceDetectionRepository(pool PgxPool) *FaceDetectionRepository {
	return &FaceDetectionRepository{pool: pool}
}

// ReplaceForMedia deactivates any detections previously stored for the
// media and inserts the new set, so reprocessing a media item never
// duplicates faces.
func (r *FaceDetectionRepository) ReplaceForMedia(ctx context.Context, mediaID uuid.UUID, detections []*domain.FaceDetection) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin replace detections: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
		UPDATE face_detections SET is_active = false
		WHERE media_id = $1 AND is_active = true
	`, mediaID); err != nil {
		return fmt.Errorf("deactivate previous detections: %w", err)
	}

	query := `
		INSERT INTO face_detections (id, media_id, event_id, uploader_id, face_rectangle, face_attributes,
			confidence, is_identified, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, false, true, NOW())
		RETURNING created_at
	`

	for _, d := range detections {
		if d.ID == uuid.Nil {
			d.ID = uuid.New()
		}

		rectJSON, attrsJSON, err := encodeGeometry(d.Rectangle, d.Attributes)
		if err != nil {
			return err
		}

		if err := tx.QueryRow(ctx, query,
			d.ID,
			mediaID,
			d.EventID,
			d.UploaderID,
			rectJSON,
			attrsJSON,
			d.Confidence,
		).Scan(&d.CreatedAt); err != nil {
			return fmt.Errorf("insert detection: %w", err)
		}

		d.MediaID = mediaID
		d.IsActive = true
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit replace detections: %w", err)
	}
	return nil
}

// ListActiveWithMedia returns every active detection of the event whose
// media is also active, newest detection first with ties broken by id.
func (r *FaceDetectionRepository) ListActiveWithMedia(ctx context.Context, eventID uuid.UUID) ([]domain.DetectionWithMedia, error) {
	query := `
		SELECT d.id, d.media_id, d.event_id, d.uploader_id, d.face_rectangle, d.face_attributes,
			d.confidence, d.is_identified, d.created_at,
			m.media_url, m.file_name, m.media_type, m.created_at
		FROM face_detections d
		INNER JOIN event_media m ON m.id = d.media_id
		WHERE d.event_id = $1 AND d.is_active = true AND m.is_active = true
		ORDER BY d.created_at DESC, d.id
	`

	rows, err := r.pool.Query(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("list detections: %w", err)
	}
	defer rows.Close()

	results := []domain.DetectionWithMedia{}
	for rows.Next() {
		var (
			row       domain.DetectionWithMedia
			rectJSON  []byte
			attrsJSON []byte
		)

		if err := rows.Scan(
			&row.Detection.ID,
			&row.Detection.MediaID,
			&row.Detection.EventID,
			&row.Detection.UploaderID,
			&rectJSON,
			&attrsJSON,
			&row.Detection.Confidence,
			&row.Detection.IsIdentified,
			&row.Detection.CreatedAt,
			&row.Media.MediaURL,
			&row.Media.FileName,
			&row.Media.MediaType,
			&row.Media.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan detection: %w", err)
		}

		row.Detection.Rectangle, row.Detection.Attributes, err = decodeGeometry(rectJSON, attrsJSON)
		if err != nil {
			return nil, err
		}
		row.Detection.IsActive = true
		row.Media.ID = row.Detection.MediaID

		results = append(results, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate detections: %w", err)
	}
	return results, nil
}
