package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MrJamesThe3rd/chama/internal/roster"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) InsertMembers(ctx context.Context, entries []roster.Entry) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning roster import: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO members (first_name, last_name, position, phone_number)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (phone_number) DO NOTHING
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing member insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0

	for _, e := range entries {
		res, err := stmt.ExecContext(ctx, e.FirstName, e.LastName, e.Position, e.PhoneNumber)
		if err != nil {
			return 0, fmt.Errorf("inserting member %s: %w", e.PhoneNumber, err)
		}

		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("reading rows affected: %w", err)
		}

		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing roster import: %w", err)
	}

	return inserted, nil
}
