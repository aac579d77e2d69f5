package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/chama/internal/ledger"
	"github.com/MrJamesThe3rd/chama/internal/notification"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) ListForTreasurer(ctx context.Context, treasurerID uuid.UUID, limit int) ([]notification.Entry, error) {
	query := `
		SELECT n.id, n.member_id, n.treasurer_id, n.message, n.type, n.created_at,
		       m.first_name, m.last_name
		FROM notifications n
		LEFT JOIN members m ON n.member_id = m.id
		WHERE n.treasurer_id = $1 OR n.treasurer_id IS NULL
		ORDER BY n.created_at DESC
		LIMIT $2
	`

	rows, err := s.db.QueryContext(ctx, query, treasurerID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}
	defer rows.Close()

	var entries []notification.Entry

	for rows.Next() {
		var (
			e                notification.Entry
			first, last      sql.NullString
			notificationType string
		)

		if err := rows.Scan(
			&e.ID, &e.MemberID, &e.TreasurerID, &e.Message, &notificationType, &e.CreatedAt,
			&first, &last,
		); err != nil {
			return nil, fmt.Errorf("scanning notification: %w", err)
		}

		e.Type = ledger.NotificationType(notificationType)
		e.MemberFirstName = first.String
		e.MemberLastName = last.String

		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating notifications: %w", err)
	}

	return entries, nil
}
