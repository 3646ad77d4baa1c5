package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Action is a biometric operation worth keeping a trail of
type Action string

const (
	ActionProfileEnrolled Action = "PROFILE_ENROLLED"
	ActionProfileReplaced Action = "PROFILE_REPLACED"
	ActionProfileDeleted  Action = "PROFILE_DELETED"
	ActionMatchesViewed   Action = "MATCHES_VIEWED"
)

// Record é um registro de auditoria de dados biométricos (LGPD)
type Record struct {
	ID        uuid.UUID         `json:"id"`
	Timestamp time.Time         `json:"timestamp"`
	Action    Action            `json:"action"`
	EventID   uuid.UUID         `json:"event_id"`
	UserID    uuid.UUID         `json:"user_id"`
	ProfileID string            `json:"profile_id,omitempty"`
	Provider  string            `json:"provider,omitempty"`
	Success   bool              `json:"success"`
	Error     string            `json:"error,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Logger defines the interface for audit logging
type Logger interface {
	Log(ctx context.Context, record Record) error
}

// SlogLogger implements Logger using slog
type SlogLogger struct {
	logger *slog.Logger
}

// NewSlogLogger creates a new audit logger using slog
func NewSlogLogger(logger *slog.Logger) *SlogLogger {
	return &SlogLogger{
		logger: logger.With("component", "audit"),
	}
}

// Log records an audit entry
func (l *SlogLogger) Log(ctx context.Context, record Record) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now().UTC()
	}

	recordJSON, err := json.Marshal(record)
	if err != nil {
		l.logger.ErrorContext(ctx, "failed to marshal audit record",
			slog.String("error", err.Error()),
			slog.String("action", string(record.Action)),
		)
		return err
	}

	l.logger.InfoContext(ctx, "audit_event",
		slog.String("audit_id", record.ID.String()),
		slog.String("action", string(record.Action)),
		slog.String("event_id", record.EventID.String()),
		slog.String("user_id", record.UserID.String()),
		slog.Bool("success", record.Success),
		slog.String("record", string(recordJSON)),
	)

	return nil
}

// NoOpLogger is a logger that does nothing (for testing or when audit is disabled)
type NoOpLogger struct{}

// Log does nothing and returns nil
func (l *NoOpLogger) Log(_ context.Context, _ Record) error {
	return nil
}
