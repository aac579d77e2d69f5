// Package dbtest opens a migrated Postgres database for store tests. Tests
// using it are skipped unless DATABASE_URL is set.
package dbtest

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand/v2"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/chama/internal/database"
)

const maxOpenConns = 20

// Open returns a pool on DATABASE_URL with every migration applied. Tests
// share the database, so they must only assert on rows they created.
func Open(t *testing.T) *sql.DB {
	t.Helper()

	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set")
	}

	migrateDB, err := database.New(url, 1)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(migrateDB))

	db, err := database.New(url, maxOpenConns)
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })

	return db
}

// Phone returns a random member phone number unlikely to collide with other
// tests sharing the database.
func Phone() string {
	return fmt.Sprintf("07%08d", rand.IntN(100_000_000))
}

func Treasurer(t *testing.T, db *sql.DB) uuid.UUID {
	t.Helper()

	var id uuid.UUID

	err := db.QueryRowContext(context.Background(), `
		INSERT INTO treasurers (first_name, last_name, phone_number, password_hash)
		VALUES ('Grace', 'Achieng', $1, 'x')
		RETURNING id
	`, Phone()).Scan(&id)
	require.NoError(t, err)

	return id
}

func Member(t *testing.T, db *sql.DB, firstName string) uuid.UUID {
	t.Helper()

	var id uuid.UUID

	err := db.QueryRowContext(context.Background(), `
		INSERT INTO members (first_name, last_name, phone_number)
		VALUES ($1, 'Otieno', $2)
		RETURNING id
	`, firstName, Phone()).Scan(&id)
	require.NoError(t, err)

	return id
}
