//go:build integration

package database_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/saturnino-fabrica-de-software/momento/internal/database"
)

func startPostgres(t *testing.T) string {
	t.Helper()

	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "test",
				"POSTGRES_PASSWORD": "test",
				"POSTGRES_DB":       "momento_test",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	return fmt.Sprintf("postgres://test:test@%s:%s/momento_test?sslmode=disable", host, port.Port())
}

func TestMigrator(t *testing.T) {
	ctx := context.Background()
	dsn := startPostgres(t)

	db, err := database.OpenSQL(ctx, dsn)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	migrator, err := database.NewMigrator(db, "momento_test", nil)
	require.NoError(t, err)
	defer func() { _ = migrator.Close() }()

	t.Run("fresh database has no version", func(t *testing.T) {
		version, dirty, err := migrator.Version()
		require.NoError(t, err)
		assert.False(t, dirty)
		assert.Equal(t, uint(0), version)
	})

	t.Run("up creates the schema", func(t *testing.T) {
		require.NoError(t, migrator.Up())

		for _, table := range []string{"events", "event_media", "face_detections", "user_face_profiles"} {
			assertTableExists(t, db, table)
		}

		version, dirty, err := migrator.Version()
		require.NoError(t, err)
		assert.False(t, dirty)
		assert.Equal(t, uint(1), version)
	})

	t.Run("up is idempotent", func(t *testing.T) {
		require.NoError(t, migrator.Up())
	})

	t.Run("only one active profile per user and event", func(t *testing.T) {
		var eventID string
		err := db.QueryRow(`
			INSERT INTO events (owner_id, name, slug) VALUES (gen_random_uuid(), 'Wedding', 'wedding-x1')
			RETURNING id
		`).Scan(&eventID)
		require.NoError(t, err)

		userID := "6f1c1c1e-2d6e-4d4f-9a57-0d7c5d3c2b11"
		insert := `
			INSERT INTO user_face_profiles (user_id, event_id, face_rectangle)
			VALUES ($1, $2, '{"top":1,"left":1,"width":10,"height":10}')
		`
		_, err = db.Exec(insert, userID, eventID)
		require.NoError(t, err)

		_, err = db.Exec(insert, userID, eventID)
		require.Error(t, err)

		_, err = db.Exec(`UPDATE user_face_profiles SET is_active = false WHERE user_id = $1`, userID)
		require.NoError(t, err)

		_, err = db.Exec(insert, userID, eventID)
		require.NoError(t, err, "a deactivated profile does not block re-enrolment")
	})

	t.Run("down drops the schema", func(t *testing.T) {
		require.NoError(t, migrator.Down(1))

		var exists bool
		err := db.QueryRow(`
			SELECT EXISTS (SELECT FROM information_schema.tables
			WHERE table_schema = 'public' AND table_name = 'events')
		`).Scan(&exists)
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func assertTableExists(t *testing.T, db *sql.DB, tableName string) {
	t.Helper()

	var exists bool
	err := db.QueryRow(`
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_schema = 'public'
			AND table_name = $1
		)
	`, tableName).Scan(&exists)

	require.NoError(t, err)
	assert.True(t, exists, "table %s should exist", tableName)
}
